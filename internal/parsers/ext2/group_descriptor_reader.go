// File: internal/parsers/ext2/group_descriptor_reader.go
package ext2

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-zerofree/internal/interfaces"
	"github.com/deploymenttheory/go-zerofree/internal/types"
)

// groupDescriptorReader implements the GroupDescriptorReader interface
type groupDescriptorReader struct {
	descriptors []types.Ext2GroupDescT
}

// Ensure interface compliance
var _ interfaces.GroupDescriptorReader = (*groupDescriptorReader)(nil)

// NewGroupDescriptorReader creates a new GroupDescriptorReader from the raw
// descriptor table bytes. The table starts at the block following the one
// containing the superblock and holds one 32-byte entry per block group.
func NewGroupDescriptorReader(data []byte, endian binary.ByteOrder, groupCount uint64) (interfaces.GroupDescriptorReader, error) {
	if groupCount == 0 {
		return nil, fmt.Errorf("group count cannot be zero")
	}

	need := groupCount * types.Ext2GroupDescSize
	if uint64(len(data)) < need {
		return nil, fmt.Errorf("data too small for %d group descriptors: %d bytes, need %d",
			groupCount, len(data), need)
	}

	descriptors := make([]types.Ext2GroupDescT, groupCount)
	for g := uint64(0); g < groupCount; g++ {
		descriptors[g] = parseGroupDescriptor(data[g*types.Ext2GroupDescSize:], endian)
	}

	return &groupDescriptorReader{descriptors: descriptors}, nil
}

// parseGroupDescriptor parses one 32-byte descriptor entry
func parseGroupDescriptor(data []byte, endian binary.ByteOrder) types.Ext2GroupDescT {
	return types.Ext2GroupDescT{
		BgBlockBitmap:     endian.Uint32(data[0:4]),
		BgInodeBitmap:     endian.Uint32(data[4:8]),
		BgInodeTable:      endian.Uint32(data[8:12]),
		BgFreeBlocksCount: endian.Uint16(data[12:14]),
		BgFreeInodesCount: endian.Uint16(data[14:16]),
		BgUsedDirsCount:   endian.Uint16(data[16:18]),
	}
}

// Count returns the number of descriptors in the table
func (r *groupDescriptorReader) Count() uint64 {
	return uint64(len(r.descriptors))
}

// Descriptor returns the descriptor for the given block group
func (r *groupDescriptorReader) Descriptor(group uint64) (*types.Ext2GroupDescT, error) {
	if group >= uint64(len(r.descriptors)) {
		return nil, fmt.Errorf("block group %d out of range: %d groups", group, len(r.descriptors))
	}
	return &r.descriptors[group], nil
}

// BlockBitmapLocation returns the block number holding the block allocation
// bitmap of the given group
func (r *groupDescriptorReader) BlockBitmapLocation(group uint64) (uint64, error) {
	desc, err := r.Descriptor(group)
	if err != nil {
		return 0, err
	}
	return uint64(desc.BgBlockBitmap), nil
}
