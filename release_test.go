// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkmandel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReleaseStackReverseOrder(t *testing.T) {
	var rs ReleaseStack
	var got []string
	for _, nm := range []string{"instance", "device", "buffer", "pipeline"} {
		nm := nm
		rs.Push(nm, func() { got = append(got, nm) })
	}
	rs.Release()
	assert.Equal(t, []string{"pipeline", "buffer", "device", "instance"}, got)
}

func TestReleaseStackIdempotent(t *testing.T) {
	var rs ReleaseStack
	count := 0
	rs.Push("buffer", func() { count++ })
	rs.Release()
	rs.Release()
	assert.Equal(t, 1, count)
}

// A failure mid-acquisition must release exactly the acquired prefix:
// entries pushed after the failing step do not exist, and nothing is
// released twice.
func TestReleaseStackPartialAcquisition(t *testing.T) {
	var rs ReleaseStack
	var got []string
	rs.Push("instance", func() { got = append(got, "instance") })
	rs.Push("device", func() { got = append(got, "device") })
	// acquisition of the next resource fails here; nothing more is pushed
	rs.Release()
	assert.Equal(t, []string{"device", "instance"}, got)

	rs.Push("instance", func() { got = append(got, "instance2") })
	rs.Release()
	assert.Equal(t, []string{"device", "instance", "instance2"}, got)
}
