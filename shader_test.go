// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkmandel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShaderWords(t *testing.T) {
	tests := []struct {
		nbytes int
		nwords int
	}{
		{0, 0},
		{1, 1},
		{4, 1},
		{13, 4},
	}
	for _, tc := range tests {
		data := make([]byte, tc.nbytes)
		for i := range data {
			data[i] = 0xFF
		}
		words := ShaderWords(data)
		assert.Len(t, words, tc.nwords, "%d bytes", tc.nbytes)
	}

	// 13 bytes fill 3 whole words plus one byte; the tail of the last
	// word must be zero.
	data := make([]byte, 13)
	for i := range data {
		data[i] = 0xFF
	}
	words := ShaderWords(data)
	require.Len(t, words, 4)
	assert.Equal(t, uint32(0xFFFFFFFF), words[0])
	assert.Equal(t, uint32(0x000000FF), words[3])
}

func TestLoadShaderWords(t *testing.T) {
	dir := t.TempDir()

	fname := filepath.Join(dir, "kernel.spv")
	require.NoError(t, os.WriteFile(fname, []byte{1, 2, 3, 4, 5}, 0o644))
	words, err := LoadShaderWords(fname)
	require.NoError(t, err)
	assert.Len(t, words, 2)
	assert.Equal(t, uint32(0x04030201), words[0])
	assert.Equal(t, uint32(0x00000005), words[1])

	_, err = LoadShaderWords(filepath.Join(dir, "missing.spv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShaderLoad)
}
