// File: internal/services/volume_service_test.go
package services

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-zerofree/internal/sweep"
	"github.com/deploymenttheory/go-zerofree/internal/types"
)

// Test image geometry: 1024-byte blocks, 16 blocks, one block group.
//
//	block 0      boot block (zeros)
//	block 1      superblock
//	block 2      group descriptor table
//	block 3      block allocation bitmap
//	blocks 4-7   in use (pretend inode table)
//	blocks 8-15  free; 12 and 13 already zero-filled
const (
	testBlockSize  = 1024
	testBlockCount = 16
	testFreeBlocks = 8
)

// buildTestImage writes a minimal valid ext2 image and returns its path
func buildTestImage(t *testing.T) string {
	t.Helper()
	endian := binary.LittleEndian
	img := make([]byte, testBlockSize*testBlockCount)

	// Superblock at byte 1024.
	sb := img[types.Ext2SuperblockOffset:]
	endian.PutUint32(sb[0:4], 64)                // s_inodes_count
	endian.PutUint32(sb[4:8], testBlockCount)    // s_blocks_count
	endian.PutUint32(sb[12:16], testFreeBlocks)  // s_free_blocks_count
	endian.PutUint32(sb[16:20], 32)              // s_free_inodes_count
	endian.PutUint32(sb[20:24], 1)               // s_first_data_block
	endian.PutUint32(sb[24:28], 0)               // s_log_block_size (1024)
	endian.PutUint32(sb[32:36], 16)              // s_blocks_per_group
	endian.PutUint32(sb[40:44], 64)              // s_inodes_per_group
	endian.PutUint16(sb[56:58], types.Ext2Magic) // s_magic
	endian.PutUint16(sb[58:60], 1)               // s_state: clean

	// Group descriptor table at block 2: bitmap lives in block 3.
	desc := img[2*testBlockSize:]
	endian.PutUint32(desc[0:4], 3)  // bg_block_bitmap
	endian.PutUint32(desc[4:8], 0)  // bg_inode_bitmap (unused here)
	endian.PutUint32(desc[8:12], 4) // bg_inode_table
	endian.PutUint16(desc[12:14], testFreeBlocks)

	// Block bitmap at block 3. Bit i covers block 1+i; blocks 1-7 in use,
	// 8-15 free, trailing bit padded as in use.
	bitmap := img[3*testBlockSize:]
	for bit := uint(0); bit < 7; bit++ {
		bitmap[bit/8] |= 1 << (bit % 8)
	}
	bitmap[1] |= 1 << 7 // padding past the last block

	// Content: used blocks carry 0xEE, free blocks 0xDD, except 12 and 13
	// which are already zeroed.
	for blk := 4; blk < 8; blk++ {
		fillBlock(img, blk, 0xEE)
	}
	for blk := 8; blk < 16; blk++ {
		fillBlock(img, blk, 0xDD)
	}
	fillBlock(img, 12, 0x00)
	fillBlock(img, 13, 0x00)

	path := filepath.Join(t.TempDir(), "test.img")
	require.NoError(t, os.WriteFile(path, img, 0o600))
	return path
}

func fillBlock(img []byte, blk int, value byte) {
	start := blk * testBlockSize
	for i := start; i < start+testBlockSize; i++ {
		img[i] = value
	}
}

func TestOpenVolume(t *testing.T) {
	path := buildTestImage(t)

	vol, err := OpenVolume(path, false, nil)
	require.NoError(t, err)
	defer vol.Close()

	assert.Equal(t, uint32(testBlockSize), vol.BlockSize())
	assert.Equal(t, uint64(testBlockCount), vol.BlockCount())
	assert.Equal(t, uint64(1), vol.FirstDataBlock())
	assert.Equal(t, uint64(testFreeBlocks), vol.FreeBlockCount())
}

func TestOpenVolumeErrors(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := OpenVolume("", false, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "path cannot be empty")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := OpenVolume(filepath.Join(t.TempDir(), "nope.img"), false, nil)
		assert.Error(t, err)
	})

	t.Run("bad magic", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "garbage.img")
		require.NoError(t, os.WriteFile(path, make([]byte, 8192), 0o600))

		_, err := OpenVolume(path, false, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse superblock")
	})

	t.Run("truncated image", func(t *testing.T) {
		path := buildTestImage(t)
		require.NoError(t, os.Truncate(path, testBlockSize*4))

		_, err := OpenVolume(path, false, nil)
		assert.Error(t, err)
	})
}

func TestVolumeIsBlockFree(t *testing.T) {
	path := buildTestImage(t)

	vol, err := OpenVolume(path, true, nil)
	require.NoError(t, err)
	defer vol.Close()

	for blk := uint64(0); blk < 8; blk++ {
		assert.False(t, vol.IsBlockFree(blk), "block %d", blk)
	}
	for blk := uint64(8); blk < 16; blk++ {
		assert.True(t, vol.IsBlockFree(blk), "block %d", blk)
	}
	assert.False(t, vol.IsBlockFree(16))
}

func TestVolumeReadWriteBlock(t *testing.T) {
	path := buildTestImage(t)

	vol, err := OpenVolume(path, false, nil)
	require.NoError(t, err)
	defer vol.Close()

	data, err := vol.ReadBlock(9)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xDD}, testBlockSize), data)

	zero := make([]byte, testBlockSize)
	require.NoError(t, vol.WriteBlock(9, zero))

	data, err = vol.ReadBlock(9)
	require.NoError(t, err)
	assert.Equal(t, zero, data)

	t.Run("out of range", func(t *testing.T) {
		_, err := vol.ReadBlock(testBlockCount)
		assert.Error(t, err)
		assert.Error(t, vol.WriteBlock(testBlockCount, zero))
	})

	t.Run("length mismatch", func(t *testing.T) {
		err := vol.WriteBlock(9, make([]byte, 17))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not match block size")
	})
}

func TestVolumeReadOnly(t *testing.T) {
	path := buildTestImage(t)

	vol, err := OpenVolume(path, true, nil)
	require.NoError(t, err)
	defer vol.Close()

	err = vol.WriteBlock(9, make([]byte, testBlockSize))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")
}

// TestSweepImage runs the full pipeline against a real image file: six of
// the eight free blocks carry stale data and must come back zeroed while
// used blocks keep their content.
func TestSweepImage(t *testing.T) {
	path := buildTestImage(t)

	vol, err := OpenVolume(path, false, nil)
	require.NoError(t, err)

	coord, err := sweep.New(vol, sweep.Options{Fill: 0x00, MaxWorkers: 4})
	require.NoError(t, err)

	result, err := coord.Run()
	require.NoError(t, err)
	require.NoError(t, vol.Close())

	assert.Equal(t, uint64(8), result.FreeSeen)
	assert.Equal(t, uint64(6), result.Rewritten)

	check, err := OpenVolume(path, true, nil)
	require.NoError(t, err)
	defer check.Close()

	for blk := uint64(8); blk < 16; blk++ {
		data, err := check.ReadBlock(blk)
		require.NoError(t, err)
		assert.True(t, sweep.IsUniform(data, 0x00), "free block %d", blk)
	}
	for blk := uint64(4); blk < 8; blk++ {
		data, err := check.ReadBlock(blk)
		require.NoError(t, err)
		assert.True(t, sweep.IsUniform(data, 0xEE), "used block %d", blk)
	}

	// A second sweep finds nothing left to rewrite.
	vol, err = OpenVolume(path, false, nil)
	require.NoError(t, err)
	defer vol.Close()

	coord, err = sweep.New(vol, sweep.Options{Fill: 0x00, MaxWorkers: 4})
	require.NoError(t, err)
	again, err := coord.Run()
	require.NoError(t, err)
	assert.Equal(t, uint64(8), again.FreeSeen)
	assert.Equal(t, uint64(0), again.Rewritten)
}
