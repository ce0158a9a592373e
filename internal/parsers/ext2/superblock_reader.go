// File: internal/parsers/ext2/superblock_reader.go
package ext2

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-zerofree/internal/interfaces"
	"github.com/deploymenttheory/go-zerofree/internal/types"
)

// superblockReader implements the SuperblockReader interface
type superblockReader struct {
	superblock *types.Ext2SuperblockT
}

// Ensure interface compliance
var _ interfaces.SuperblockReader = (*superblockReader)(nil)

// NewSuperblockReader creates a new SuperblockReader from the raw superblock
// bytes read at offset types.Ext2SuperblockOffset
func NewSuperblockReader(data []byte, endian binary.ByteOrder) (interfaces.SuperblockReader, error) {
	if len(data) < 128 { // fields through s_feature_ro_compat
		return nil, fmt.Errorf("data too small for ext2 superblock: %d bytes", len(data))
	}

	sb := parseSuperblock(data, endian)

	if sb.SMagic != types.Ext2Magic {
		return nil, fmt.Errorf("invalid ext2 magic: %#06x", sb.SMagic)
	}
	if sb.SFeatureIncompat&types.Ext2FeatureIncompat64Bit != 0 {
		return nil, fmt.Errorf("64-bit group descriptors are not supported")
	}
	if sb.SLogBlockSize > 6 {
		return nil, fmt.Errorf("invalid block size shift: %d", sb.SLogBlockSize)
	}
	if sb.SBlocksPerGroup == 0 {
		return nil, fmt.Errorf("invalid blocks per group: 0")
	}
	if sb.SBlocksCount == 0 {
		return nil, fmt.Errorf("invalid block count: 0")
	}
	if uint64(sb.SFirstDataBlock) >= uint64(sb.SBlocksCount) {
		return nil, fmt.Errorf("first data block %d is beyond block count %d",
			sb.SFirstDataBlock, sb.SBlocksCount)
	}

	return &superblockReader{superblock: sb}, nil
}

// parseSuperblock parses raw bytes into Ext2SuperblockT
func parseSuperblock(data []byte, endian binary.ByteOrder) *types.Ext2SuperblockT {
	sb := &types.Ext2SuperblockT{}

	sb.SInodesCount = endian.Uint32(data[0:4])
	sb.SBlocksCount = endian.Uint32(data[4:8])
	sb.SRBlocksCount = endian.Uint32(data[8:12])
	sb.SFreeBlocksCount = endian.Uint32(data[12:16])
	sb.SFreeInodesCount = endian.Uint32(data[16:20])
	sb.SFirstDataBlock = endian.Uint32(data[20:24])
	sb.SLogBlockSize = endian.Uint32(data[24:28])
	sb.SBlocksPerGroup = endian.Uint32(data[32:36])
	sb.SInodesPerGroup = endian.Uint32(data[40:44])
	sb.SMagic = endian.Uint16(data[56:58])
	sb.SState = endian.Uint16(data[58:60])
	sb.SRevLevel = endian.Uint32(data[76:80])
	sb.SFeatureCompat = endian.Uint32(data[92:96])
	sb.SFeatureIncompat = endian.Uint32(data[96:100])
	sb.SFeatureRoCompat = endian.Uint32(data[100:104])

	return sb
}

// Superblock returns the parsed on-disk structure
func (r *superblockReader) Superblock() *types.Ext2SuperblockT {
	return r.superblock
}

// BlockSize returns the logical block size in bytes
func (r *superblockReader) BlockSize() uint32 {
	return 1024 << r.superblock.SLogBlockSize
}

// BlockCount returns the total number of blocks in the filesystem
func (r *superblockReader) BlockCount() uint64 {
	return uint64(r.superblock.SBlocksCount)
}

// FirstDataBlock returns the number of the first data block
func (r *superblockReader) FirstDataBlock() uint64 {
	return uint64(r.superblock.SFirstDataBlock)
}

// FreeBlockCount returns the free block count recorded in the superblock
func (r *superblockReader) FreeBlockCount() uint64 {
	return uint64(r.superblock.SFreeBlocksCount)
}

// BlocksPerGroup returns the number of blocks in each block group
func (r *superblockReader) BlocksPerGroup() uint32 {
	return r.superblock.SBlocksPerGroup
}

// GroupCount returns the number of block groups
func (r *superblockReader) GroupCount() uint64 {
	dataBlocks := r.BlockCount() - r.FirstDataBlock()
	perGroup := uint64(r.superblock.SBlocksPerGroup)
	return (dataBlocks + perGroup - 1) / perGroup
}
