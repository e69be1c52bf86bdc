// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pix converts the compute shader's float32 RGBA output into
// 8-bit-per-channel pixels and persists them as a lossless raster image.
package pix

import (
	"math"
)

// RGBA8 converts float32 color components (nominally in [0,1]) into 8-bit
// channel bytes: round(255 * c), half away from zero, truncated to the low
// 8 bits.  So 0.0 maps to 0, 0.5 to 128, and 1.0 to 255.
// Components are deliberately not clamped: out-of-range shader output
// wraps, matching the renderer's documented edge-case behavior.
func RGBA8(comps []float32) []byte {
	out := make([]byte, len(comps))
	for i, c := range comps {
		out[i] = byte(int32(math.Round(255 * float64(c))))
	}
	return out
}
