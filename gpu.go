// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkmandel

import (
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	// ValidationLayerName is the diagnostic layer enabled when installed.
	ValidationLayerName = "VK_LAYER_LUNARG_standard_validation"

	// DebugReportExtName is the diagnostic report extension enabled when installed.
	DebugReportExtName = "VK_EXT_debug_report"
)

// GPU owns the vulkan instance, the enabled diagnostic capabilities,
// and the selected physical device.  It is created once per run and
// destroyed last, after everything created from it.
type GPU struct {

	// vulkan instance handle
	Instance vk.Instance

	// selected physical compute device: first enumerated, no scoring
	GPU vk.PhysicalDevice

	// properties of the selected device
	GPUProps vk.PhysicalDeviceProperties

	// memory properties of the selected device
	MemoryProps vk.PhysicalDeviceMemoryProperties

	// plain copy of the device's memory type table, in enumeration order,
	// used for allocation decisions (see FindMemoryType)
	MemTypes []MemoryType

	// human-readable name of the selected device
	DeviceName string

	// null-terminated layer names to enable, from probing
	EnabledLayers []string

	// null-terminated extension names to enable, from probing
	EnabledExts []string

	// diagnostic report callback, if the extension is available
	DebugCallback vk.DebugReportCallback
}

// NewGPU returns a new GPU. Call Init to establish the instance and device.
func NewGPU() *GPU {
	return &GPU{}
}

// Init loads the vulkan library, probes diagnostic capabilities, creates
// the instance under the given application name, registers the diagnostic
// callback if available, and selects the physical device.
// Returns ErrNoDeviceFound if no physical device is present.
func (gp *GPU) Init(name string) error {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return errors.Wrap(err, "vulkan loader not found")
	}
	if err := vk.Init(); err != nil {
		return errors.Wrap(err, "vulkan init failed")
	}
	gp.probeLayers()
	gp.probeExtensions()
	if err := gp.createInstance(name); err != nil {
		return err
	}
	gp.registerDebugReport()
	return gp.selectDevice()
}

// probeLayers enumerates available instance layers and enables the
// validation layer if installed.  Absence is non-fatal.
func (gp *GPU) probeLayers() {
	var count uint32
	vk.EnumerateInstanceLayerProperties(&count, nil)
	props := make([]vk.LayerProperties, count)
	vk.EnumerateInstanceLayerProperties(&count, props)
	klog.V(1).Infof("vkmandel: %d instance layer(s) available", count)
	for i := range props {
		props[i].Deref()
		nm := vk.ToString(props[i].LayerName[:])
		klog.V(1).Infof("  layer: %s  %s", nm, vk.ToString(props[i].Description[:]))
		if nm == ValidationLayerName {
			gp.EnabledLayers = append(gp.EnabledLayers, nm+"\x00")
		}
	}
	if len(gp.EnabledLayers) == 0 {
		klog.Warningf("vkmandel: %s layer not available, proceeding without validation", ValidationLayerName)
	}
}

// probeExtensions enumerates available instance extensions and enables the
// debug report extension if installed.  Absence is non-fatal.
func (gp *GPU) probeExtensions() {
	var count uint32
	vk.EnumerateInstanceExtensionProperties("", &count, nil)
	props := make([]vk.ExtensionProperties, count)
	vk.EnumerateInstanceExtensionProperties("", &count, props)
	klog.V(1).Infof("vkmandel: %d instance extension(s) available", count)
	for i := range props {
		props[i].Deref()
		nm := vk.ToString(props[i].ExtensionName[:])
		klog.V(1).Infof("  extension: %s", nm)
		if nm == DebugReportExtName {
			gp.EnabledExts = append(gp.EnabledExts, nm+"\x00")
		}
	}
	if len(gp.EnabledExts) == 0 {
		klog.Warningf("vkmandel: %s extension not available, proceeding without diagnostic reports", DebugReportExtName)
	}
}

func (gp *GPU) createInstance(name string) error {
	var inst vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			PApplicationName:   name + "\x00",
			ApplicationVersion: 1,
			PEngineName:        name + "\x00",
			EngineVersion:      1,
			ApiVersion:         vk.MakeVersion(1, 0, 0),
		},
		EnabledLayerCount:       uint32(len(gp.EnabledLayers)),
		PpEnabledLayerNames:     gp.EnabledLayers,
		EnabledExtensionCount:   uint32(len(gp.EnabledExts)),
		PpEnabledExtensionNames: gp.EnabledExts,
	}, nil, &inst)
	if IsError(ret) {
		return NewError(ret)
	}
	gp.Instance = inst
	vk.InitInstance(inst)
	return nil
}

// registerDebugReport installs the diagnostic callback if the debug report
// extension was enabled.  The callback logs and never halts the caller.
func (gp *GPU) registerDebugReport() {
	if len(gp.EnabledExts) == 0 {
		return
	}
	var callback vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(gp.Instance, &vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportInformationBit |
			vk.DebugReportWarningBit |
			vk.DebugReportPerformanceWarningBit |
			vk.DebugReportErrorBit),
		PfnCallback: debugReport,
	}, nil, &callback)
	if IsError(ret) {
		klog.Warningf("vkmandel: cannot register debug report callback: %v", NewError(ret))
		return
	}
	gp.DebugCallback = callback
}

func debugReport(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint64, messageCode int32, layerPrefix string,
	message string, userData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		klog.Errorf("vulkan %s: %s", layerPrefix, message)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		klog.Warningf("vulkan %s: %s", layerPrefix, message)
	default:
		klog.V(1).Infof("vulkan %s: %s", layerPrefix, message)
	}
	return vk.False
}

// selectDevice enumerates physical devices and selects the first one.
func (gp *GPU) selectDevice() error {
	var count uint32
	ret := vk.EnumeratePhysicalDevices(gp.Instance, &count, nil)
	if IsError(ret) {
		return NewError(ret)
	}
	if count == 0 {
		return ErrNoDeviceFound
	}
	devs := make([]vk.PhysicalDevice, count)
	ret = vk.EnumeratePhysicalDevices(gp.Instance, &count, devs)
	if IsError(ret) {
		return NewError(ret)
	}
	klog.V(1).Infof("vkmandel: found %d physical device(s)", count)
	for _, dev := range devs {
		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(dev, &props)
		props.Deref()
		klog.V(1).Infof("  device: %s (type %d)", vk.ToString(props.DeviceName[:]), props.DeviceType)
	}
	gp.GPU = devs[0]
	vk.GetPhysicalDeviceProperties(gp.GPU, &gp.GPUProps)
	gp.GPUProps.Deref()
	gp.DeviceName = vk.ToString(gp.GPUProps.DeviceName[:])
	vk.GetPhysicalDeviceMemoryProperties(gp.GPU, &gp.MemoryProps)
	gp.MemoryProps.Deref()
	gp.MemTypes = memTypeTable(&gp.MemoryProps)
	return nil
}

// memTypeTable copies the device's exposed memory types into a plain table,
// preserving enumeration order, which the first-match selection rule
// in FindMemoryType depends on.
func memTypeTable(props *vk.PhysicalDeviceMemoryProperties) []MemoryType {
	n := int(props.MemoryTypeCount)
	mts := make([]MemoryType, n)
	for i := 0; i < n; i++ {
		props.MemoryTypes[i].Deref()
		mts[i] = MemoryType{Flags: props.MemoryTypes[i].PropertyFlags}
	}
	return mts
}

// Destroy releases the diagnostic callback and the instance.
// Must be called after all device-derived resources are destroyed.
func (gp *GPU) Destroy() {
	if gp.DebugCallback != vk.DebugReportCallback(vk.NullHandle) {
		vk.DestroyDebugReportCallback(gp.Instance, gp.DebugCallback, nil)
		gp.DebugCallback = vk.DebugReportCallback(vk.NullHandle)
	}
	if gp.Instance != nil {
		vk.DestroyInstance(gp.Instance, nil)
		gp.Instance = nil
	}
}
