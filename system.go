// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkmandel

import (
	"time"
	"unsafe"

	"k8s.io/klog/v2"
)

// PixelStride is the size in bytes of one output element: four float32
// components (r, g, b, a).
const PixelStride = 4 * 4

// Config holds the fixed parameters of one render run.
type Config struct {

	// application name, used as the instance identity
	Name string

	// output image dimensions in pixels
	Width, Height int

	// square workgroup extent, matching the shader's declared local size
	GroupSize int

	// path to the precompiled shader bytecode
	ShaderPath string

	// bounded wait on dispatch completion; FenceTimeout if zero
	Timeout time.Duration
}

// BufferSize returns the output buffer size in bytes.
func (cfg *Config) BufferSize() int {
	return PixelStride * cfg.Width * cfg.Height
}

// System owns the full resource chain for one compute run, from instance
// to command buffer.  Resources are acquired strictly in dependency order
// by Init and released in exact reverse order by Destroy; a failure
// during Init releases whatever was acquired before returning.
type System struct {

	// run parameters
	Config Config

	// instance, capabilities, physical device
	GPU *GPU

	// logical device and compute queue
	Device Device

	// output storage buffer with host-visible memory
	Buff *Buffer

	// binding model connecting the buffer to the shader
	Binds *Bindings

	// compiled compute pipeline
	Pipe *Pipeline

	// command pool and dispatch command buffer
	CmdPool CmdPool

	rel ReleaseStack
}

// NewSystem returns a System for the given run configuration.
func NewSystem(cfg Config) *System {
	if cfg.Timeout == 0 {
		cfg.Timeout = FenceTimeout
	}
	return &System{Config: cfg}
}

// Init acquires the full resource chain in dependency order: instance and
// physical device, logical device and queue, output buffer, binding set,
// compute pipeline, command pool and buffer.  On any failure the already
// acquired prefix is released in reverse order before the error returns.
func (sy *System) Init() error {
	err := sy.init()
	if err != nil {
		sy.rel.Release()
	}
	return err
}

func (sy *System) init() error {
	sy.GPU = NewGPU()
	sy.rel.Push("instance", sy.GPU.Destroy)
	if err := sy.GPU.Init(sy.Config.Name); err != nil {
		return err
	}
	klog.V(1).Infof("vkmandel: using device %s", sy.GPU.DeviceName)

	if err := sy.Device.Init(sy.GPU); err != nil {
		return err
	}
	sy.rel.Push("device", sy.Device.Destroy)

	bf, err := NewBuffer(sy.GPU, &sy.Device, sy.Config.BufferSize())
	if err != nil {
		return err
	}
	sy.Buff = bf
	sy.rel.Push("buffer", func() { bf.Destroy(sy.Device.Device) })

	bs, err := NewBindings(sy.Device.Device)
	if err != nil {
		return err
	}
	sy.Binds = bs
	sy.rel.Push("bindings", func() { bs.Destroy(sy.Device.Device) })
	bs.ConnectBuffer(sy.Device.Device, bf)

	pl, err := NewComputePipeline(sy.Device.Device, sy.Config.ShaderPath, bs)
	if err != nil {
		return err
	}
	sy.Pipe = pl
	sy.rel.Push("pipeline", func() { pl.Destroy(sy.Device.Device) })

	if err := sy.CmdPool.Config(&sy.Device); err != nil {
		return err
	}
	sy.rel.Push("command pool", func() { sy.CmdPool.Destroy(sy.Device.Device) })
	return nil
}

// Render records the dispatch over the configured grid, submits it with a
// completion fence, and blocks until the device signals or the timeout
// elapses (ErrDispatchTimeout).
func (sy *System) Render() error {
	nx, ny := DispatchGrid(sy.Config.Width, sy.Config.Height, sy.Config.GroupSize)
	klog.V(1).Infof("vkmandel: dispatching %dx%dx1 workgroups of %dx%d", nx, ny, sy.Config.GroupSize, sy.Config.GroupSize)
	if err := sy.CmdPool.RecordDispatch(sy.Pipe, sy.Binds, nx, ny); err != nil {
		return err
	}
	return sy.CmdPool.SubmitWait(&sy.Device, sy.Config.Timeout)
}

// ReadFloats maps the buffer into host address space, copies out the
// width*height*4 float32 components written by the shader, and unmaps.
func (sy *System) ReadFloats() ([]float32, error) {
	ptr, err := sy.Buff.Map(sy.Device.Device)
	if err != nil {
		return nil, err
	}
	n := sy.Config.Width * sy.Config.Height * 4
	src := unsafe.Slice((*float32)(ptr), n)
	out := make([]float32, n)
	copy(out, src)
	sy.Buff.Unmap(sy.Device.Device)
	return out, nil
}

// Destroy releases every acquired resource in exact reverse-acquisition
// order.  Safe to call after a failed Init and safe to call twice.
func (sy *System) Destroy() {
	sy.rel.Release()
}
