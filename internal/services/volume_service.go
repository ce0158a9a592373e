// File: internal/services/volume_service.go
package services

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-zerofree/internal/interfaces"
	"github.com/deploymenttheory/go-zerofree/internal/parsers/ext2"
	"github.com/deploymenttheory/go-zerofree/internal/types"
)

// VolumeService provides block-level access to an ext2 filesystem image.
// The allocation bitmap is loaded once at open time and is read-only for the
// lifetime of the service; block reads and writes go through ReadAt/WriteAt
// and are safe to call concurrently for distinct block numbers.
type VolumeService struct {
	file     *os.File
	path     string
	readOnly bool

	blockSize      uint32
	blockCount     uint64
	firstDataBlock uint64
	freeBlockCount uint64
	freeMap        interfaces.FreeBlockMap

	logger logrus.FieldLogger
}

// Ensure interface compliance
var _ interfaces.Volume = (*VolumeService)(nil)

// OpenVolume opens an ext2 filesystem image, validates its superblock and
// loads the free block map. When readOnly is set the image is opened without
// write access and WriteBlock always fails.
func OpenVolume(path string, readOnly bool, logger logrus.FieldLogger) (*VolumeService, error) {
	if path == "" {
		return nil, fmt.Errorf("volume path cannot be empty")
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	flag := os.O_RDWR
	if readOnly {
		flag = os.O_RDONLY
	}
	file, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open volume %s: %w", path, err)
	}

	vs := &VolumeService{
		file:     file,
		path:     path,
		readOnly: readOnly,
		logger:   logger,
	}

	if err := vs.loadMetadata(); err != nil {
		file.Close()
		return nil, err
	}

	return vs, nil
}

// loadMetadata parses the superblock and group descriptor table, then loads
// every block group's allocation bitmap.
func (vs *VolumeService) loadMetadata() error {
	sbData := make([]byte, types.Ext2SuperblockSize)
	if _, err := vs.file.ReadAt(sbData, types.Ext2SuperblockOffset); err != nil {
		return fmt.Errorf("failed to read superblock: %w", err)
	}

	sb, err := ext2.NewSuperblockReader(sbData, binary.LittleEndian)
	if err != nil {
		return fmt.Errorf("failed to parse superblock: %w", err)
	}

	vs.blockSize = sb.BlockSize()
	vs.blockCount = sb.BlockCount()
	vs.firstDataBlock = sb.FirstDataBlock()
	vs.freeBlockCount = sb.FreeBlockCount()

	info, err := vs.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat volume: %w", err)
	}
	if need := int64(vs.blockCount) * int64(vs.blockSize); info.Size() < need {
		return fmt.Errorf("volume truncated: %d bytes, superblock expects %d", info.Size(), need)
	}

	// The descriptor table starts at the block after the superblock.
	groupCount := sb.GroupCount()
	tableOffset := (int64(vs.firstDataBlock) + 1) * int64(vs.blockSize)
	tableData := make([]byte, groupCount*types.Ext2GroupDescSize)
	if _, err := vs.file.ReadAt(tableData, tableOffset); err != nil {
		return fmt.Errorf("failed to read group descriptor table: %w", err)
	}

	descriptors, err := ext2.NewGroupDescriptorReader(tableData, binary.LittleEndian, groupCount)
	if err != nil {
		return fmt.Errorf("failed to parse group descriptor table: %w", err)
	}

	bitmaps := make([][]byte, groupCount)
	for g := uint64(0); g < groupCount; g++ {
		loc, err := descriptors.BlockBitmapLocation(g)
		if err != nil {
			return err
		}
		bitmap := make([]byte, vs.blockSize)
		if _, err := vs.file.ReadAt(bitmap, int64(loc)*int64(vs.blockSize)); err != nil {
			return fmt.Errorf("failed to read block bitmap of group %d: %w", g, err)
		}
		bitmaps[g] = bitmap
	}

	freeMap, err := ext2.NewFreeBlockMap(vs.firstDataBlock, vs.blockCount,
		uint64(sb.BlocksPerGroup()), bitmaps)
	if err != nil {
		return fmt.Errorf("failed to build free block map: %w", err)
	}
	vs.freeMap = freeMap

	vs.logger.WithFields(logrus.Fields{
		"path":        vs.path,
		"block_size":  vs.blockSize,
		"blocks":      vs.blockCount,
		"free_blocks": vs.freeBlockCount,
		"groups":      groupCount,
	}).Debug("volume opened")

	return nil
}

// BlockSize returns the logical block size in bytes
func (vs *VolumeService) BlockSize() uint32 {
	return vs.blockSize
}

// BlockCount returns the total number of blocks on the volume
func (vs *VolumeService) BlockCount() uint64 {
	return vs.blockCount
}

// FirstDataBlock returns the number of the first data block
func (vs *VolumeService) FirstDataBlock() uint64 {
	return vs.firstDataBlock
}

// FreeBlockCount returns the free block count recorded in the superblock
func (vs *VolumeService) FreeBlockCount() uint64 {
	return vs.freeBlockCount
}

// IsBlockFree reports whether the allocation bitmap marks the block as free
func (vs *VolumeService) IsBlockFree(blockNumber uint64) bool {
	return vs.freeMap.IsFree(blockNumber)
}

// ReadBlock reads a single block from the volume
func (vs *VolumeService) ReadBlock(blockNumber uint64) ([]byte, error) {
	if blockNumber >= vs.blockCount {
		return nil, fmt.Errorf("block %d is beyond volume size", blockNumber)
	}

	data := make([]byte, vs.blockSize)
	offset := int64(blockNumber) * int64(vs.blockSize)
	if n, err := vs.file.ReadAt(data, offset); err != nil {
		return nil, fmt.Errorf("incomplete block read: got %d bytes, expected %d: %w",
			n, vs.blockSize, err)
	}
	return data, nil
}

// WriteBlock writes a single block to the volume
func (vs *VolumeService) WriteBlock(blockNumber uint64, data []byte) error {
	if vs.readOnly {
		return fmt.Errorf("volume %s is opened read-only", vs.path)
	}
	if blockNumber >= vs.blockCount {
		return fmt.Errorf("block %d is beyond volume size", blockNumber)
	}
	if uint32(len(data)) != vs.blockSize {
		return fmt.Errorf("write length %d does not match block size %d", len(data), vs.blockSize)
	}

	offset := int64(blockNumber) * int64(vs.blockSize)
	if _, err := vs.file.WriteAt(data, offset); err != nil {
		return fmt.Errorf("failed to write block %d: %w", blockNumber, err)
	}
	return nil
}

// Close releases the underlying file
func (vs *VolumeService) Close() error {
	if err := vs.file.Close(); err != nil {
		return fmt.Errorf("failed to close volume %s: %w", vs.path, err)
	}
	return nil
}
