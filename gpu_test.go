// Copyright (c) 2024, The vkmandel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkmandel

import (
	vk "github.com/goki/vulkan"
)

// debugReport must keep the exact signature the binding registers,
// or instance creation stops compiling.
var _ vk.DebugReportCallbackFunc = debugReport
