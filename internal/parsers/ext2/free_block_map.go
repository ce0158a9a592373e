// File: internal/parsers/ext2/free_block_map.go
package ext2

import (
	"fmt"

	"github.com/deploymenttheory/go-zerofree/internal/interfaces"
)

// freeBlockMap implements the FreeBlockMap interface over the per-group
// block allocation bitmaps
type freeBlockMap struct {
	firstDataBlock uint64
	blockCount     uint64
	blocksPerGroup uint64
	bitmaps        [][]byte
}

// Ensure interface compliance
var _ interfaces.FreeBlockMap = (*freeBlockMap)(nil)

// NewFreeBlockMap creates a FreeBlockMap from the raw block bitmaps of every
// block group, in group order. Bit i of group g's bitmap covers block
// firstDataBlock + g*blocksPerGroup + i; a set bit means the block is in use.
// The bitmaps are retained as-is and must not be mutated by the caller.
func NewFreeBlockMap(firstDataBlock, blockCount, blocksPerGroup uint64, bitmaps [][]byte) (interfaces.FreeBlockMap, error) {
	if blocksPerGroup == 0 {
		return nil, fmt.Errorf("blocks per group cannot be zero")
	}
	if firstDataBlock >= blockCount {
		return nil, fmt.Errorf("first data block %d is beyond block count %d", firstDataBlock, blockCount)
	}

	dataBlocks := blockCount - firstDataBlock
	groups := (dataBlocks + blocksPerGroup - 1) / blocksPerGroup
	if uint64(len(bitmaps)) != groups {
		return nil, fmt.Errorf("bitmap count mismatch: got %d, need %d", len(bitmaps), groups)
	}

	for g := uint64(0); g < groups; g++ {
		span := blocksPerGroup
		if g == groups-1 {
			span = dataBlocks - g*blocksPerGroup
		}
		if uint64(len(bitmaps[g]))*8 < span {
			return nil, fmt.Errorf("bitmap for group %d too small: %d bytes for %d blocks",
				g, len(bitmaps[g]), span)
		}
	}

	return &freeBlockMap{
		firstDataBlock: firstDataBlock,
		blockCount:     blockCount,
		blocksPerGroup: blocksPerGroup,
		bitmaps:        bitmaps,
	}, nil
}

// IsFree reports whether the bitmap marks the block as unallocated
func (m *freeBlockMap) IsFree(blockNumber uint64) bool {
	if blockNumber < m.firstDataBlock || blockNumber >= m.blockCount {
		return false
	}

	idx := blockNumber - m.firstDataBlock
	group := idx / m.blocksPerGroup
	bit := idx % m.blocksPerGroup

	return m.bitmaps[group][bit/8]&(1<<(bit%8)) == 0
}
