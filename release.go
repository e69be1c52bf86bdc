// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkmandel

import "k8s.io/klog/v2"

// ReleaseStack records acquired resources so they are released in exact
// reverse-acquisition order, on failure paths and on normal teardown
// alike.  Release is idempotent: each entry runs once.
type ReleaseStack struct {
	entries []releaseEntry
}

type releaseEntry struct {
	name string
	fn   func()
}

// Push records a named release function for a just-acquired resource.
func (rs *ReleaseStack) Push(name string, fn func()) {
	rs.entries = append(rs.entries, releaseEntry{name: name, fn: fn})
}

// Release runs all recorded release functions in reverse order and
// clears the stack.
func (rs *ReleaseStack) Release() {
	for i := len(rs.entries) - 1; i >= 0; i-- {
		klog.V(2).Infof("vkmandel: releasing %s", rs.entries[i].name)
		rs.entries[i].fn()
	}
	rs.entries = nil
}
