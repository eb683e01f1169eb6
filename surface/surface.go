// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"

	"github.com/gogpu/readtest/pixfmt"
)

// Acquisition and device errors. Backends wrap these with detail so
// callers can tell the failure classes apart with errors.Is.
var (
	// ErrNoDisplay is returned when the display connection or GPU instance
	// cannot be opened.
	ErrNoDisplay = errors.New("surface: could not open display")

	// ErrNoSurface is returned when no compatible surface can be obtained.
	ErrNoSurface = errors.New("surface: could not obtain a compatible surface")

	// ErrNoContext is returned when the rendering context or the offscreen
	// target cannot be created.
	ErrNoContext = errors.New("surface: could not create context")

	// ErrDeviceLost is returned when the device disappears mid-run.
	ErrDeviceLost = errors.New("surface: device lost")

	// ErrClosed is returned by operations on a closed surface.
	ErrClosed = errors.New("surface: surface is closed")

	// ErrBufferSize is returned when a host buffer is too small for the
	// requested transfer.
	ErrBufferSize = errors.New("surface: buffer too small")
)

// Surface is a drawable plus a current context, as consumed by the
// transfer benchmarks.
//
// Surfaces are not safe for concurrent use. The benchmark drives a single
// surface from one goroutine.
type Surface interface {
	// Width returns the drawable width in pixels.
	Width() int

	// Height returns the drawable height in pixels.
	Height() int

	// Target reports the kind of drawable.
	Target() Target

	// Extensions lists the optional transfer layouts the surface supports.
	Extensions() []pixfmt.Extension

	// Clear sets every pixel of the color buffer to zero.
	Clear() error

	// Upload writes a tightly packed Width x Height image in format f to
	// the drawable at the origin. The call may return before the GPU has
	// consumed the data; use Finish to wait.
	Upload(pixels []byte, f pixfmt.Format) error

	// Finish blocks until all previously issued work has completed.
	Finish() error

	// Download reads the whole drawable into dst in format f using
	// rowStride bytes per row, top row first. It blocks until dst holds
	// the data.
	Download(dst []byte, f pixfmt.Format, rowStride int) error

	// Close releases the drawable and the context. Close is idempotent.
	Close() error
}

// StagingBuffer is a driver-owned buffer used for two-step readback.
type StagingBuffer interface {
	// Issue starts the transfer from the drawable into the buffer.
	Issue() error

	// Map makes the buffer contents visible to the host. The returned
	// slice holds rowStride*Height bytes and is valid until Unmap.
	Map() ([]byte, error)

	// Unmap releases the host view.
	Unmap() error

	// Release frees the buffer.
	Release()
}

// StagedReader is implemented by surfaces that can read back through a
// StagingBuffer.
type StagedReader interface {
	NewStagingBuffer(f pixfmt.Format, rowStride int) (StagingBuffer, error)
}

// LuminanceScaler is implemented by surfaces whose readback applies
// per-channel scales when converting to luminance.
type LuminanceScaler interface {
	// PushLuminanceScale saves the current scales and installs r, g, b.
	PushLuminanceScale(r, g, b float32)

	// PopLuminanceScale restores the scales saved by the matching push.
	PopLuminanceScale()
}

// Has reports whether s advertises extension e.
func Has(s Surface, e pixfmt.Extension) bool {
	for _, x := range s.Extensions() {
		if x == e {
			return true
		}
	}
	return false
}
