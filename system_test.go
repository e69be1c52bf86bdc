// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkmandel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigBufferSize(t *testing.T) {
	cfg := Config{Width: 3200, Height: 2400}
	// four float32 components per pixel
	assert.Equal(t, 3200*2400*16, cfg.BufferSize())
}

func TestNewSystemDefaultTimeout(t *testing.T) {
	sy := NewSystem(Config{Width: 1, Height: 1, GroupSize: 32})
	assert.Equal(t, FenceTimeout, sy.Config.Timeout)
}
