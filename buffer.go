// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkmandel

import (
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/pkg/errors"
)

// MemoryType is a plain copy of one entry of the physical device's memory
// type table, so that allocation decisions can be made (and tested)
// without touching device handles.
type MemoryType struct {

	// property flags of this memory type
	Flags vk.MemoryPropertyFlags
}

// HostVisibleCoherent is the property requirement for the readback buffer:
// mappable into host address space, with writes visible without explicit
// cache flushes.
const HostVisibleCoherent = vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit

// FindMemoryType selects the memory type index for an allocation:
// the first index i, ascending, such that bit i is set in typeBits and the
// type's property flags are a superset of want.
// Returns ErrNoSuitableMemoryType if no index qualifies.
func FindMemoryType(types []MemoryType, typeBits uint32, want vk.MemoryPropertyFlagBits) (uint32, error) {
	req := vk.MemoryPropertyFlags(want)
	for i := range types {
		if typeBits&(uint32(1)<<uint32(i)) == 0 {
			continue
		}
		if types[i].Flags&req == req {
			return uint32(i), nil
		}
	}
	return 0, ErrNoSuitableMemoryType
}

// Buffer is a storage buffer with bound host-visible device memory,
// holding the shader's output image.
type Buffer struct {

	// buffer object
	Buff vk.Buffer

	// bound device memory
	Mem vk.DeviceMemory

	// allocated buffer size in bytes
	Size int

	// selected memory type index
	TypeIndex uint32
}

// NewBuffer creates a buffer of the given size for storage-buffer usage
// with exclusive sharing, allocates host-visible host-coherent memory for
// it per FindMemoryType, and binds the memory at offset 0.
func NewBuffer(gp *GPU, dv *Device, size int) (*Buffer, error) {
	var buffer vk.Buffer
	ret := vk.CreateBuffer(dv.Device, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit),
		SharingMode: vk.SharingModeExclusive,
	}, nil, &buffer)
	if IsError(ret) {
		return nil, NewError(ret)
	}
	bf := &Buffer{Buff: buffer, Size: size}

	var memReqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(dv.Device, buffer, &memReqs)
	memReqs.Deref()

	idx, err := FindMemoryType(gp.MemTypes, memReqs.MemoryTypeBits, HostVisibleCoherent)
	if err != nil {
		bf.Destroy(dv.Device)
		return nil, err
	}
	bf.TypeIndex = idx

	var memory vk.DeviceMemory
	ret = vk.AllocateMemory(dv.Device, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: idx,
	}, nil, &memory)
	if IsError(ret) {
		bf.Destroy(dv.Device)
		return nil, NewError(ret)
	}
	bf.Mem = memory

	ret = vk.BindBufferMemory(dv.Device, buffer, memory, 0)
	if IsError(ret) {
		bf.Destroy(dv.Device)
		return nil, NewError(ret)
	}
	return bf, nil
}

// Map maps the full buffer range into host address space.
func (bf *Buffer) Map(dev vk.Device) (unsafe.Pointer, error) {
	var ptr unsafe.Pointer
	ret := vk.MapMemory(dev, bf.Mem, 0, vk.DeviceSize(bf.Size), 0, &ptr)
	if IsError(ret) {
		return nil, errors.Wrapf(NewError(ret), "cannot map buffer memory (size %d)", bf.Size)
	}
	return ptr, nil
}

// Unmap unmaps previously mapped buffer memory.
func (bf *Buffer) Unmap(dev vk.Device) {
	vk.UnmapMemory(dev, bf.Mem)
}

// Destroy frees the bound memory and destroys the buffer, in that order.
func (bf *Buffer) Destroy(dev vk.Device) {
	if bf.Mem != vk.NullDeviceMemory {
		vk.FreeMemory(dev, bf.Mem, nil)
		bf.Mem = vk.NullDeviceMemory
	}
	if bf.Buff != vk.NullBuffer {
		vk.DestroyBuffer(dev, bf.Buff, nil)
		bf.Buff = vk.NullBuffer
	}
	bf.Size = 0
}
