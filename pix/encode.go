// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pix

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// ErrEncode: the image codec reported an error writing the output file.
var ErrEncode = errors.New("cannot encode output image")

// Encode writes an 8-bit 4-channel pixel buffer of the given dimensions
// to the given path as a lossless raster image (format from extension).
// The buffer must hold exactly width*height*4 bytes in RGBA order.
func Encode(fname string, pixels []byte, width, height int) error {
	if len(pixels) != width*height*4 {
		return errors.Wrapf(ErrEncode, "pixel buffer is %d bytes, want %d for %dx%d",
			len(pixels), width*height*4, width, height)
	}
	img := &image.RGBA{
		Pix:    pixels,
		Stride: 4 * width,
		Rect:   image.Rect(0, 0, width, height),
	}
	if err := imaging.Save(img, fname); err != nil {
		return errors.Wrapf(ErrEncode, "%s: %v", fname, err)
	}
	return nil
}
