// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/readtest/surface"
)

// BackendName is the registry name of this backend.
const BackendName = "wgpu"

// Priority ranks the backend for automatic selection.
const Priority = 100

func init() {
	surface.Register(surface.Backend{
		Name:      BackendName,
		Priority:  Priority,
		Factory:   factory,
		Available: Available,
	})
}

func factory(opts surface.Options) (surface.Surface, error) {
	s, err := New(opts)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Available reports whether a Vulkan HAL backend is compiled in.
func Available() bool {
	_, ok := hal.GetBackend(gputypes.BackendVulkan)
	return ok
}
