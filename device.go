// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkmandel

import (
	vk "github.com/goki/vulkan"
	"k8s.io/klog/v2"
)

// Device holds the logical device and its compute queue.
type Device struct {

	// logical device
	Device vk.Device

	// queue family index for the compute queue
	QueueIndex uint32

	// the compute submission queue
	Queue vk.Queue
}

// Init finds a compute-capable queue family on the GPU's selected physical
// device and creates the logical device and queue from it.
func (dv *Device) Init(gp *GPU) error {
	if err := dv.FindQueue(gp); err != nil {
		return err
	}
	return dv.MakeDevice(gp)
}

// FindQueue finds the first queue family with compute capability and
// sets QueueIndex.  Returns ErrNoComputeQueue if none qualifies.
func (dv *Device) FindQueue(gp *GPU) error {
	var queueCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gp.GPU, &queueCount, nil)
	queueProps := make([]vk.QueueFamilyProperties, queueCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(gp.GPU, &queueCount, queueProps)
	klog.V(1).Infof("vkmandel: device %s has %d queue family(ies)", gp.DeviceName, queueCount)

	required := vk.QueueFlags(vk.QueueComputeBit)
	for i := uint32(0); i < queueCount; i++ {
		queueProps[i].Deref()
		klog.V(1).Infof("  family %d: %d queue(s), flags 0x%X", i, queueProps[i].QueueCount, queueProps[i].QueueFlags)
		if queueProps[i].QueueFlags&required != 0 {
			dv.QueueIndex = i
			return nil
		}
	}
	return ErrNoComputeQueue
}

// MakeDevice creates the logical device with one queue of priority 0
// from the found family, and retrieves the queue handle.
func (dv *Device) MakeDevice(gp *GPU) error {
	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: dv.QueueIndex,
		QueueCount:       1,
		PQueuePriorities: []float32{0.0},
	}}

	var device vk.Device
	ret := vk.CreateDevice(gp.GPU, &vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: uint32(len(queueInfos)),
		PQueueCreateInfos:    queueInfos,
		EnabledLayerCount:    uint32(len(gp.EnabledLayers)),
		PpEnabledLayerNames:  gp.EnabledLayers,
	}, nil, &device)
	if IsError(ret) {
		return NewError(ret)
	}
	dv.Device = device

	var queue vk.Queue
	vk.GetDeviceQueue(dv.Device, dv.QueueIndex, 0, &queue)
	dv.Queue = queue
	return nil
}

func (dv *Device) Destroy() {
	if dv.Device == nil {
		return
	}
	vk.DeviceWaitIdle(dv.Device)
	vk.DestroyDevice(dv.Device, nil)
	dv.Device = nil
}
