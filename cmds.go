// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkmandel

import (
	"time"

	vk "github.com/goki/vulkan"
	"github.com/pkg/errors"
)

// FenceTimeout is the bounded wait on the dispatch completion signal.
const FenceTimeout = 100 * time.Second

// CmdPool is the command pool and the one primary command buffer
// holding the single-submission dispatch sequence.
type CmdPool struct {
	Pool vk.CommandPool
	Buff vk.CommandBuffer
}

// Config creates the command pool on the device's queue family and
// allocates one primary-level command buffer from it.
func (cp *CmdPool) Config(dv *Device) error {
	var cmdPool vk.CommandPool
	ret := vk.CreateCommandPool(dv.Device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: dv.QueueIndex,
	}, nil, &cmdPool)
	if IsError(ret) {
		return NewError(ret)
	}
	cp.Pool = cmdPool

	cmdBuff := make([]vk.CommandBuffer, 1)
	ret = vk.AllocateCommandBuffers(dv.Device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        cp.Pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, cmdBuff)
	if IsError(ret) {
		return NewError(ret)
	}
	cp.Buff = cmdBuff[0]
	return nil
}

// DispatchGrid returns the grid dimensions in workgroup units covering
// a width x height image with square workgroups of the given size,
// using ceiling division so partial tiles get a full workgroup.
func DispatchGrid(width, height, groupSize int) (nx, ny int) {
	nx = (width + groupSize - 1) / groupSize
	ny = (height + groupSize - 1) / groupSize
	return
}

// RecordDispatch records the one-shot command sequence: begin with the
// one-time-submit hint, bind the compute pipeline and the binding set,
// dispatch an nx x ny x 1 grid of workgroups, and end recording.
func (cp *CmdPool) RecordDispatch(pl *Pipeline, bs *Bindings, nx, ny int) error {
	ret := vk.BeginCommandBuffer(cp.Buff, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	if IsError(ret) {
		return NewError(ret)
	}
	vk.CmdBindPipeline(cp.Buff, vk.PipelineBindPointCompute, pl.VkPipeline)
	vk.CmdBindDescriptorSets(cp.Buff, vk.PipelineBindPointCompute, pl.Layout,
		0, 1, []vk.DescriptorSet{bs.Set}, 0, nil)
	vk.CmdDispatch(cp.Buff, uint32(nx), uint32(ny), 1)
	ret = vk.EndCommandBuffer(cp.Buff)
	if IsError(ret) {
		return NewError(ret)
	}
	return nil
}

// SubmitWait submits the recorded command buffer to the device's queue
// with a freshly created completion fence, then blocks until the fence
// signals or the timeout elapses.  A timeout is returned as
// ErrDispatchTimeout, never as success.  The fence is destroyed on
// every path.
func (cp *CmdPool) SubmitWait(dv *Device, timeout time.Duration) error {
	var fence vk.Fence
	ret := vk.CreateFence(dv.Device, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}, nil, &fence)
	if IsError(ret) {
		return NewError(ret)
	}
	defer vk.DestroyFence(dv.Device, fence, nil)

	ret = vk.QueueSubmit(dv.Queue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cp.Buff},
	}}, fence)
	if IsError(ret) {
		return NewError(ret)
	}

	ret = vk.WaitForFences(dv.Device, 1, []vk.Fence{fence}, vk.True, uint64(timeout.Nanoseconds()))
	return FenceWaitResult(ret, timeout)
}

// FenceWaitResult maps a fence wait result to the run's error taxonomy:
// success is nil, vk.Timeout is ErrDispatchTimeout, anything else is a
// vulkan error.
func FenceWaitResult(ret vk.Result, timeout time.Duration) error {
	switch ret {
	case vk.Success:
		return nil
	case vk.Timeout:
		return errors.WithMessagef(ErrDispatchTimeout, "after %v", timeout)
	default:
		return NewError(ret)
	}
}

// Destroy destroys the command pool, releasing the command buffer with it.
func (cp *CmdPool) Destroy(dev vk.Device) {
	if cp.Pool == nil {
		return
	}
	vk.DestroyCommandPool(dev, cp.Pool, nil)
	cp.Pool = nil
	cp.Buff = nil
}
