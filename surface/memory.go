// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/readtest/pixfmt"
)

// MemorySurface is a host-memory drawable whose transfers are plain copies
// into and out of an RGBA8 color buffer.
//
// It stands in for a GPU when none is present and gives tests an identity
// transfer primitive: whatever is uploaded in a format reads back
// unchanged in that format.
type MemorySurface struct {
	width  int
	height int
	target Target
	exts   []pixfmt.Extension

	// pix is the RGBA8 color buffer, width*4 bytes per row.
	pix []byte

	uploads   int
	downloads int
	finishes  int
	closed    bool
}

var (
	_ Surface      = (*MemorySurface)(nil)
	_ StagedReader = (*MemorySurface)(nil)
)

// NewMemorySurface creates a cleared memory surface. All extensions are
// advertised unless opts.Extensions overrides them.
func NewMemorySurface(opts Options) *MemorySurface {
	opts = opts.Normalized()
	exts := opts.Extensions
	if exts == nil {
		exts = []pixfmt.Extension{pixfmt.ExtBGRA, pixfmt.ExtABGR}
	}
	return &MemorySurface{
		width:  opts.Width,
		height: opts.Height,
		target: opts.Target,
		exts:   exts,
		pix:    make([]byte, opts.Width*opts.Height*4),
	}
}

// Width returns the surface width.
func (s *MemorySurface) Width() int { return s.width }

// Height returns the surface height.
func (s *MemorySurface) Height() int { return s.height }

// Target returns the drawable kind the surface was created for.
func (s *MemorySurface) Target() Target { return s.target }

// Extensions returns the advertised extensions.
func (s *MemorySurface) Extensions() []pixfmt.Extension { return s.exts }

// Pix returns the RGBA8 color buffer. The slice aliases surface memory.
func (s *MemorySurface) Pix() []byte { return s.pix }

// Counts reports how many uploads, downloads and finishes were issued.
func (s *MemorySurface) Counts() (uploads, downloads, finishes int) {
	return s.uploads, s.downloads, s.finishes
}

// Clear zeroes the color buffer.
func (s *MemorySurface) Clear() error {
	if s.closed {
		return ErrClosed
	}
	clear(s.pix)
	return nil
}

// Upload converts pixels from format f into the color buffer.
func (s *MemorySurface) Upload(pixels []byte, f pixfmt.Format) error {
	if s.closed {
		return ErrClosed
	}
	s.uploads++
	return ExpandToRGBA(s.pix, s.width*4, pixels, s.width*f.PixelSize, s.width, s.height, f)
}

// Finish is a no-op: memory transfers complete synchronously.
func (s *MemorySurface) Finish() error {
	if s.closed {
		return ErrClosed
	}
	s.finishes++
	return nil
}

// Download converts the color buffer into dst.
func (s *MemorySurface) Download(dst []byte, f pixfmt.Format, rowStride int) error {
	if s.closed {
		return ErrClosed
	}
	s.downloads++
	return PackFromRGBA(dst, rowStride, s.pix, s.width*4, s.width, s.height, f)
}

// Close marks the surface closed.
func (s *MemorySurface) Close() error {
	s.closed = true
	return nil
}

// NewStagingBuffer returns a staging buffer that snapshots the color buffer
// on Issue.
func (s *MemorySurface) NewStagingBuffer(f pixfmt.Format, rowStride int) (StagingBuffer, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if rowStride < s.width*f.PixelSize {
		return nil, fmt.Errorf("%w: stride %d for %s", ErrBufferSize, rowStride, f.Name)
	}
	return &memoryStaging{
		s:      s,
		format: f,
		stride: rowStride,
		data:   make([]byte, rowStride*s.height),
	}, nil
}

var errStagingState = errors.New("surface: staging buffer used out of order")

type memoryStaging struct {
	s      *MemorySurface
	format pixfmt.Format
	stride int
	data   []byte
	issued bool
	mapped bool
}

func (m *memoryStaging) Issue() error {
	if m.mapped {
		return errStagingState
	}
	if err := m.s.Download(m.data, m.format, m.stride); err != nil {
		return err
	}
	m.issued = true
	return nil
}

func (m *memoryStaging) Map() ([]byte, error) {
	if !m.issued || m.mapped {
		return nil, errStagingState
	}
	m.mapped = true
	return m.data, nil
}

func (m *memoryStaging) Unmap() error {
	if !m.mapped {
		return errStagingState
	}
	m.mapped = false
	m.issued = false
	return nil
}

func (m *memoryStaging) Release() {
	m.data = nil
}
