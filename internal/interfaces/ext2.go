// File: internal/interfaces/ext2.go
package interfaces

import (
	"github.com/deploymenttheory/go-zerofree/internal/types"
)

// SuperblockReader provides methods for reading ext2 superblock information
type SuperblockReader interface {
	// Superblock returns the parsed on-disk structure
	Superblock() *types.Ext2SuperblockT

	// BlockSize returns the logical block size in bytes
	BlockSize() uint32

	// BlockCount returns the total number of blocks in the filesystem
	BlockCount() uint64

	// FirstDataBlock returns the number of the first data block
	FirstDataBlock() uint64

	// FreeBlockCount returns the free block count recorded in the superblock
	FreeBlockCount() uint64

	// BlocksPerGroup returns the number of blocks in each block group
	BlocksPerGroup() uint32

	// GroupCount returns the number of block groups
	GroupCount() uint64
}

// GroupDescriptorReader provides access to the block group descriptor table
type GroupDescriptorReader interface {
	// Count returns the number of descriptors in the table
	Count() uint64

	// Descriptor returns the descriptor for the given block group
	Descriptor(group uint64) (*types.Ext2GroupDescT, error)

	// BlockBitmapLocation returns the block number holding the block
	// allocation bitmap of the given group
	BlockBitmapLocation(group uint64) (uint64, error)
}

// FreeBlockMap reports per-block allocation state loaded from the volume's
// block bitmaps
type FreeBlockMap interface {
	// IsFree reports whether the bitmap marks the block as unallocated.
	// Blocks outside the mapped range are reported as in use.
	IsFree(blockNumber uint64) bool
}
