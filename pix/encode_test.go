// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pix

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A shader writing (1,0,0,1) to every pixel must produce a uniform
// red, fully opaque image of exactly the configured dimensions.
func TestEncodeUniformRed(t *testing.T) {
	const width, height = 3200, 2400

	comps := make([]float32, width*height*4)
	for i := 0; i < len(comps); i += 4 {
		comps[i] = 1   // r
		comps[i+3] = 1 // a
	}
	fname := filepath.Join(t.TempDir(), "red.png")
	require.NoError(t, Encode(fname, RGBA8(comps), width, height))

	img, err := imaging.Open(fname)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, width, height), img.Bounds())

	// sample corners, center, and a scattering of interior pixels
	points := []image.Point{
		{0, 0}, {width - 1, 0}, {0, height - 1}, {width - 1, height - 1},
		{width / 2, height / 2}, {17, 1200}, {3100, 42}, {999, 2001},
	}
	for _, p := range points {
		r, g, b, a := img.At(p.X, p.Y).RGBA()
		assert.Equal(t, uint32(0xFFFF), r, "red at %v", p)
		assert.Equal(t, uint32(0), g, "green at %v", p)
		assert.Equal(t, uint32(0), b, "blue at %v", p)
		assert.Equal(t, uint32(0xFFFF), a, "alpha at %v", p)
	}
}

func TestEncodeSizeMismatch(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "bad.png")
	err := Encode(fname, make([]byte, 12), 2, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEncode)
}

func TestEncodeBadPath(t *testing.T) {
	err := Encode(filepath.Join(t.TempDir(), "no-such-dir", "out.png"),
		make([]byte, 2*2*4), 2, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEncode)
}
