// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkmandel

import (
	"encoding/binary"
	"os"

	vk "github.com/goki/vulkan"
	"github.com/pkg/errors"
)

// LoadShaderWords reads SPIR-V bytecode from the given file and repacks
// it into 32-bit words.  Returns ErrShaderLoad (wrapped) if the file is
// missing or unreadable.
func LoadShaderWords(fname string) ([]uint32, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, errors.Wrapf(ErrShaderLoad, "%s: %v", fname, err)
	}
	return ShaderWords(data), nil
}

// ShaderWords repacks shader bytecode into little-endian 32-bit words,
// zero-padding the byte count up to the next multiple of 4, as required
// by the word-array representation of shader modules.
func ShaderWords(data []byte) []uint32 {
	nw := (len(data) + 3) / 4
	padded := make([]byte, nw*4)
	copy(padded, data)
	words := make([]uint32, nw)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(padded[i*4:])
	}
	return words
}

// NewShaderModule creates a shader module from repacked bytecode words.
func NewShaderModule(dev vk.Device, words []uint32) (vk.ShaderModule, error) {
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(dev, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(words)) * 4,
		PCode:    words,
	}, nil, &module)
	if IsError(ret) {
		return nil, NewError(ret)
	}
	return module, nil
}
