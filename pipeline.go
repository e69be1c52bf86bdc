// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkmandel

import (
	vk "github.com/goki/vulkan"
)

// Pipeline is the compiled compute pipeline: shader module, pipeline
// layout built from the binding layout, and the pipeline itself.
// Compiled once per run, immutable, no caching.
type Pipeline struct {

	// loaded shader module
	Module vk.ShaderModule

	// pipeline layout from the binding layout contract
	Layout vk.PipelineLayout

	// the compiled compute pipeline
	VkPipeline vk.Pipeline
}

// NewComputePipeline loads the shader bytecode from the given file,
// builds the pipeline layout from the bindings, and compiles one compute
// pipeline whose stage entry point is "main".
func NewComputePipeline(dev vk.Device, fname string, bs *Bindings) (*Pipeline, error) {
	words, err := LoadShaderWords(fname)
	if err != nil {
		return nil, err
	}
	module, err := NewShaderModule(dev, words)
	if err != nil {
		return nil, err
	}
	pl := &Pipeline{Module: module}

	var layout vk.PipelineLayout
	ret := vk.CreatePipelineLayout(dev, &vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: 1,
		PSetLayouts:    []vk.DescriptorSetLayout{bs.Layout},
	}, nil, &layout)
	if IsError(ret) {
		pl.Destroy(dev)
		return nil, NewError(ret)
	}
	pl.Layout = layout

	pipeline := make([]vk.Pipeline, 1)
	ret = vk.CreateComputePipelines(dev, vk.PipelineCache(vk.NullHandle), 1,
		[]vk.ComputePipelineCreateInfo{{
			SType:  vk.StructureTypeComputePipelineCreateInfo,
			Layout: layout,
			Stage: vk.PipelineShaderStageCreateInfo{
				SType:  vk.StructureTypePipelineShaderStageCreateInfo,
				Stage:  vk.ShaderStageComputeBit,
				Module: module,
				PName:  "main\x00",
			},
		}}, nil, pipeline)
	if IsError(ret) {
		pl.Destroy(dev)
		return nil, NewError(ret)
	}
	pl.VkPipeline = pipeline[0]
	return pl, nil
}

// Destroy destroys the pipeline, its layout, and the shader module,
// in that order.
func (pl *Pipeline) Destroy(dev vk.Device) {
	if pl.VkPipeline != vk.NullPipeline {
		vk.DestroyPipeline(dev, pl.VkPipeline, nil)
		pl.VkPipeline = vk.NullPipeline
	}
	if pl.Layout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(dev, pl.Layout, nil)
		pl.Layout = vk.NullPipelineLayout
	}
	if pl.Module != vk.NullShaderModule {
		vk.DestroyShaderModule(dev, pl.Module, nil)
		pl.Module = vk.NullShaderModule
	}
}
