// File: internal/interfaces/volume.go
package interfaces

import "io"

// VolumeReader provides read access to a block-addressable volume and its
// allocation metadata
type VolumeReader interface {
	// BlockSize returns the size of a single block in bytes
	BlockSize() uint32

	// BlockCount returns the total number of blocks on the volume
	BlockCount() uint64

	// FirstDataBlock returns the number of the first data block
	FirstDataBlock() uint64

	// FreeBlockCount returns the number of blocks the allocation metadata
	// marks as free
	FreeBlockCount() uint64

	// IsBlockFree reports whether the allocation bitmap marks the block as
	// free. Block numbers outside [FirstDataBlock, BlockCount) are never free.
	IsBlockFree(blockNumber uint64) bool

	// ReadBlock reads a single block at the specified block number
	ReadBlock(blockNumber uint64) ([]byte, error)
}

// VolumeWriter provides write access to a block-addressable volume
type VolumeWriter interface {
	// WriteBlock writes a single block at the specified block number.
	// The data length must equal the volume block size.
	WriteBlock(blockNumber uint64, data []byte) error
}

// Volume represents an open filesystem image
type Volume interface {
	VolumeReader
	VolumeWriter
	io.Closer
}
