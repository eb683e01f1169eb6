// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgpu provides a surface backed by a gogpu/wgpu HAL device.
//
// The drawable is an RGBA8 texture. Uploads go through queue.WriteTexture,
// readbacks through CopyTextureToBuffer into a mappable buffer, and every
// transfer is fenced so it has completed when the call returns. Layouts
// the texture does not store natively (RED, RGB, BGR, BGRA, ABGR) are
// converted on the host, which is why the backend advertises both the
// bgra and abgr extensions.
//
// Importing the package registers the "wgpu" backend with the surface
// registry:
//
//	import _ "github.com/gogpu/readtest/backend/wgpu"
//
// A standalone device is opened on Vulkan. Window targets need the device
// of an application that owns a window; pass its provider to [NewShared].
package wgpu
