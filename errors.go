// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkmandel

import (
	vk "github.com/goki/vulkan"
	"github.com/pkg/errors"
)

// Failure classes for a render run.  Each setup or dispatch step that can
// fail wraps one of these sentinels (or a vulkan result error), so callers
// can distinguish the class with errors.Is while the run itself treats
// every one of them as terminal.
var (
	// ErrNoDeviceFound: instance enumeration returned zero physical devices.
	ErrNoDeviceFound = errors.New("no vulkan physical devices found")

	// ErrNoComputeQueue: the selected device advertises no queue family
	// with compute capability.
	ErrNoComputeQueue = errors.New("no queue family with compute capability")

	// ErrNoSuitableMemoryType: no memory type index satisfies both the
	// buffer's type bitmask and the host-visible, host-coherent properties.
	ErrNoSuitableMemoryType = errors.New("no suitable memory type for buffer")

	// ErrShaderLoad: the shader bytecode file is missing or unreadable.
	ErrShaderLoad = errors.New("cannot load shader bytecode")

	// ErrDispatchTimeout: the completion fence did not signal within the
	// bounded wait.  Distinct from success: results must not be read.
	ErrDispatchTimeout = errors.New("compute dispatch did not complete within timeout")
)

// IsError returns true if the given vulkan result is not success.
func IsError(ret vk.Result) bool {
	return ret != vk.Success
}

// NewError returns an error for a non-success vulkan result, nil otherwise.
func NewError(ret vk.Result) error {
	if ret != vk.Success {
		return errors.Errorf("vulkan error: %s (%d)", vk.Error(ret).Error(), ret)
	}
	return nil
}
