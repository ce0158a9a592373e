// File: internal/types/ext2.go
package types

// On-disk layout constants for second extended filesystems. The superblock
// always lives at byte offset 1024 regardless of the block size.
const (
	// Ext2SuperblockOffset is the byte offset of the superblock in the image
	Ext2SuperblockOffset = 1024

	// Ext2SuperblockSize is the on-disk size of the superblock structure
	Ext2SuperblockSize = 1024

	// Ext2Magic is the filesystem magic number stored in SMagic
	Ext2Magic = 0xEF53

	// Ext2GroupDescSize is the size of one block group descriptor
	Ext2GroupDescSize = 32

	// Ext2FeatureIncompat64Bit marks filesystems with 64-bit group
	// descriptors, which use a different descriptor layout
	Ext2FeatureIncompat64Bit = 0x80
)

// Ext2SuperblockT represents the fields of the ext2 superblock consumed by
// this tool. Fields beyond SFeatureRoCompat are not parsed.
type Ext2SuperblockT struct {
	SInodesCount     uint32
	SBlocksCount     uint32
	SRBlocksCount    uint32
	SFreeBlocksCount uint32
	SFreeInodesCount uint32
	SFirstDataBlock  uint32
	SLogBlockSize    uint32
	SBlocksPerGroup  uint32
	SInodesPerGroup  uint32
	SMagic           uint16
	SState           uint16
	SRevLevel        uint32
	SFeatureCompat   uint32
	SFeatureIncompat uint32
	SFeatureRoCompat uint32
}

// Ext2GroupDescT represents one entry of the block group descriptor table
type Ext2GroupDescT struct {
	BgBlockBitmap     uint32
	BgInodeBitmap     uint32
	BgInodeTable      uint32
	BgFreeBlocksCount uint16
	BgFreeInodesCount uint16
	BgUsedDirsCount   uint16
}
