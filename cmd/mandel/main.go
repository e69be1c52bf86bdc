// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command mandel renders the Mandelbrot set on a vulkan compute device
// and writes the result to mandelbrot.png.  All parameters are fixed:
// there are no flags, no environment variables, and no state beyond the
// output file.  Exit status is 0 on success, 1 on any failure.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/andrecunha/vkmandel"
	"github.com/andrecunha/vkmandel/pix"
	"k8s.io/klog/v2"
)

const (
	width     = 3200
	height    = 2400
	groupSize = 32

	shaderPath = "shaders/mandelbrot.spv"
	outPath    = "mandelbrot.png"
)

func init() {
	// vulkan requires all calls from the same OS thread
	runtime.LockOSThread()
}

func main() {
	defer klog.Flush()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	sy := vkmandel.NewSystem(vkmandel.Config{
		Name:       "mandel",
		Width:      width,
		Height:     height,
		GroupSize:  groupSize,
		ShaderPath: shaderPath,
	})
	if err := sy.Init(); err != nil {
		return err
	}
	defer sy.Destroy()

	if err := sy.Render(); err != nil {
		return err
	}
	comps, err := sy.ReadFloats()
	if err != nil {
		return err
	}
	return pix.Encode(outPath, pix.RGBA8(comps), width, height)
}
