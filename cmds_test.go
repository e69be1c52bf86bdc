// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkmandel

import (
	"testing"
	"time"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchGrid(t *testing.T) {
	tests := []struct {
		width, height, group int
		nx, ny               int
	}{
		{3200, 2400, 32, 100, 75},
		{3201, 2400, 32, 101, 75},
		{3200, 2401, 32, 100, 76},
		{1, 1, 32, 1, 1},
		{32, 32, 32, 1, 1},
		{33, 31, 32, 2, 1},
	}
	for _, tc := range tests {
		nx, ny := DispatchGrid(tc.width, tc.height, tc.group)
		assert.Equal(t, tc.nx, nx, "width %d / group %d", tc.width, tc.group)
		assert.Equal(t, tc.ny, ny, "height %d / group %d", tc.height, tc.group)
	}
}

func TestFenceWaitResult(t *testing.T) {
	assert.NoError(t, FenceWaitResult(vk.Success, time.Second))

	err := FenceWaitResult(vk.Timeout, time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDispatchTimeout)

	err = FenceWaitResult(vk.ErrorDeviceLost, time.Second)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDispatchTimeout)
}

// The failure classes must stay distinguishable from each other so the
// top level can report them accurately.
func TestErrorTaxonomyDistinct(t *testing.T) {
	sentinels := []error{
		ErrNoDeviceFound,
		ErrNoComputeQueue,
		ErrNoSuitableMemoryType,
		ErrShaderLoad,
		ErrDispatchTimeout,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				assert.ErrorIs(t, a, b)
			} else {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}
