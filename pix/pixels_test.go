// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRGBA8(t *testing.T) {
	tests := []struct {
		comp float32
		want byte
	}{
		{0.0, 0},
		{1.0, 255},
		{0.5, 128}, // round half away from zero
		{0.25, 64},
		{0.998, 254},
		// out-of-range components are not clamped: they wrap
		{1.5, byte(383 % 256)},
		{2.0, byte(510 % 256)},
	}
	for _, tc := range tests {
		got := RGBA8([]float32{tc.comp})
		assert.Equal(t, []byte{tc.want}, got, "component %v", tc.comp)
	}
}

func TestRGBA8Interleaving(t *testing.T) {
	comps := []float32{1, 0, 0, 1, 0, 1, 0, 1}
	assert.Equal(t, []byte{255, 0, 0, 255, 0, 255, 0, 255}, RGBA8(comps))
}
