// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkmandel

import (
	vk "github.com/goki/vulkan"
)

// Bindings is the shader's resource binding model: a one-binding layout
// (slot 0, storage buffer, compute stage), a pool sized for exactly one
// set, and the one set allocated from it.
// The shader must declare a matching binding at set 0, slot 0, or
// pipeline and dispatch behavior is undefined.
type Bindings struct {

	// binding layout: one storage buffer at slot 0, compute stage only
	Layout vk.DescriptorSetLayout

	// pool sized for exactly one set with one storage binding
	Pool vk.DescriptorPool

	// the allocated set; owned by Pool
	Set vk.DescriptorSet
}

// NewBindings declares the layout, creates the pool, and allocates the set.
// Call ConnectBuffer to wire the output buffer into slot 0.
func NewBindings(dev vk.Device) (*Bindings, error) {
	var layout vk.DescriptorSetLayout
	ret := vk.CreateDescriptorSetLayout(dev, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 1,
		PBindings: []vk.DescriptorSetLayoutBinding{{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeStorageBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageComputeBit),
		}},
	}, nil, &layout)
	if IsError(ret) {
		return nil, NewError(ret)
	}
	bs := &Bindings{Layout: layout}

	var pool vk.DescriptorPool
	ret = vk.CreateDescriptorPool(dev, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       1,
		PoolSizeCount: 1,
		PPoolSizes: []vk.DescriptorPoolSize{{
			Type:            vk.DescriptorTypeStorageBuffer,
			DescriptorCount: 1,
		}},
	}, nil, &pool)
	if IsError(ret) {
		bs.Destroy(dev)
		return nil, NewError(ret)
	}
	bs.Pool = pool

	var dset vk.DescriptorSet
	ret = vk.AllocateDescriptorSets(dev, &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{layout},
	}, &dset)
	if IsError(ret) {
		bs.Destroy(dev)
		return nil, NewError(ret)
	}
	bs.Set = dset
	return bs, nil
}

// ConnectBuffer writes the set, binding slot 0 to the full extent of the
// given buffer (offset 0, range = buffer size).  The connection is
// immutable afterward.
func (bs *Bindings) ConnectBuffer(dev vk.Device, bf *Buffer) {
	vk.UpdateDescriptorSets(dev, 1, []vk.WriteDescriptorSet{{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          bs.Set,
		DstBinding:      0,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeStorageBuffer,
		PBufferInfo: []vk.DescriptorBufferInfo{{
			Buffer: bf.Buff,
			Offset: 0,
			Range:  vk.DeviceSize(bf.Size),
		}},
	}}, 0, nil)
}

// Destroy destroys the pool (releasing the set with it) and the layout.
func (bs *Bindings) Destroy(dev vk.Device) {
	if bs.Pool != vk.NullDescriptorPool {
		vk.DestroyDescriptorPool(dev, bs.Pool, nil)
		bs.Pool = vk.NullDescriptorPool
		bs.Set = nil
	}
	if bs.Layout != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(dev, bs.Layout, nil)
		bs.Layout = vk.NullDescriptorSetLayout
	}
}
