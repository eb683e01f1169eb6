// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/readtest/pixfmt"
	"github.com/gogpu/readtest/surface"
)

// waitSlice bounds a single fence wait. Waiting repeats until the fence
// signals; a slow transfer is never abandoned.
const waitSlice = time.Second

// Clear clears the drawable to transparent black with a render pass.
func (s *Surface) Clear() error {
	if s.closed {
		return surface.ErrClosed
	}
	return s.run("readtest_clear", func(enc hal.CommandEncoder) {
		s.transition(enc, gputypes.TextureUsageRenderAttachment)
		rp := enc.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: "readtest_clear_pass",
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:       s.view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			}},
		})
		rp.End()
	})
}

// Upload converts pixels to RGBA8 and writes them to the texture. The
// write is queued; Finish waits for it.
func (s *Surface) Upload(pixels []byte, f pixfmt.Format) error {
	if s.closed {
		return surface.ErrClosed
	}
	if err := surface.ExpandToRGBA(s.rgba, s.width*4, pixels, s.width*f.PixelSize, s.width, s.height, f); err != nil {
		return err
	}
	s.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: s.tex, MipLevel: 0},
		s.rgba,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(s.width) * 4,
			RowsPerImage: uint32(s.height),
		},
		&hal.Extent3D{Width: uint32(s.width), Height: uint32(s.height), DepthOrArrayLayers: 1},
	)
	s.usage = gputypes.TextureUsageCopyDst
	return nil
}

// Finish submits an empty command buffer and waits for its fence, which
// signals once all earlier queue work has completed.
func (s *Surface) Finish() error {
	if s.closed {
		return surface.ErrClosed
	}
	return s.run("readtest_finish", func(hal.CommandEncoder) {})
}

// Download copies the texture into the readback buffer, waits, and
// converts the rows into dst.
func (s *Surface) Download(dst []byte, f pixfmt.Format, rowStride int) error {
	if s.closed {
		return surface.ErrClosed
	}
	if err := s.copyOut(s.readBuf, "readtest_download"); err != nil {
		return err
	}
	if err := s.queue.ReadBuffer(s.readBuf, 0, s.raw); err != nil {
		return fmt.Errorf("wgpu: read buffer: %w", err)
	}
	return surface.PackFromRGBA(dst, rowStride, s.raw, int(s.pitch), s.width, s.height, f)
}

// copyOut records and runs a texture-to-buffer copy of the whole drawable.
func (s *Surface) copyOut(buf hal.Buffer, label string) error {
	w, h := uint32(s.width), uint32(s.height)
	return s.run(label, func(enc hal.CommandEncoder) {
		s.transition(enc, gputypes.TextureUsageCopySrc)
		enc.CopyTextureToBuffer(s.tex, buf, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: s.pitch, RowsPerImage: h},
			TextureBase:  hal.ImageCopyTexture{Texture: s.tex, MipLevel: 0},
			Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		}})
	})
}

// transition records a barrier moving the texture to usage.
func (s *Surface) transition(enc hal.CommandEncoder, usage gputypes.TextureUsage) {
	if s.usage == usage {
		return
	}
	enc.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: s.usage,
			NewUsage: usage,
		},
	}})
	s.usage = usage
}

// run encodes one command buffer with record, submits it and blocks until
// it has executed.
func (s *Surface) run(label string, record func(hal.CommandEncoder)) error {
	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	record(encoder)
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer s.device.FreeCommandBuffer(cmdBuf)

	fence, err := s.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer s.device.DestroyFence(fence)

	if err := s.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("%w: submit: %w", surface.ErrDeviceLost, err)
	}
	for {
		ok, err := s.device.Wait(fence, 1, waitSlice)
		if err != nil {
			return fmt.Errorf("%w: wait for GPU: %w", surface.ErrDeviceLost, err)
		}
		if ok {
			return nil
		}
		slogger().Debug("wgpu: still waiting for GPU", "label", label)
	}
}

// NewStagingBuffer returns a buffer that receives the drawable on Issue
// and is converted to format f with rowStride bytes per row on Map.
func (s *Surface) NewStagingBuffer(f pixfmt.Format, rowStride int) (surface.StagingBuffer, error) {
	if s.closed {
		return nil, surface.ErrClosed
	}
	if rowStride < s.width*f.PixelSize {
		return nil, fmt.Errorf("%w: stride %d for %s", surface.ErrBufferSize, rowStride, f.Name)
	}
	buf, err := s.createReadbackBuffer("readtest_staging")
	if err != nil {
		return nil, fmt.Errorf("wgpu: %w", err)
	}
	return &stagingBuffer{
		s:      s,
		buf:    buf,
		format: f,
		stride: rowStride,
		raw:    make([]byte, int(s.pitch)*s.height),
		data:   make([]byte, rowStride*s.height),
	}, nil
}

type stagingState uint8

const (
	stagingIdle stagingState = iota
	stagingIssued
	stagingMapped
)

// stagingBuffer is a mappable GPU buffer holding one copy of the drawable.
type stagingBuffer struct {
	s      *Surface
	buf    hal.Buffer
	format pixfmt.Format
	stride int
	raw    []byte
	data   []byte
	state  stagingState
}

func (b *stagingBuffer) Issue() error {
	if b.buf == nil || b.state == stagingMapped {
		return fmt.Errorf("wgpu: staging buffer issued while mapped or released")
	}
	if err := b.s.copyOut(b.buf, "readtest_staged_read"); err != nil {
		return err
	}
	b.state = stagingIssued
	return nil
}

func (b *stagingBuffer) Map() ([]byte, error) {
	if b.state != stagingIssued {
		return nil, fmt.Errorf("wgpu: staging buffer mapped before issue")
	}
	if err := b.s.queue.ReadBuffer(b.buf, 0, b.raw); err != nil {
		return nil, fmt.Errorf("wgpu: map staging buffer: %w", err)
	}
	if err := surface.PackFromRGBA(b.data, b.stride, b.raw, int(b.s.pitch), b.s.width, b.s.height, b.format); err != nil {
		return nil, err
	}
	b.state = stagingMapped
	return b.data, nil
}

func (b *stagingBuffer) Unmap() error {
	if b.state != stagingMapped {
		return fmt.Errorf("wgpu: staging buffer not mapped")
	}
	b.state = stagingIdle
	return nil
}

func (b *stagingBuffer) Release() {
	if b.buf != nil && b.s.device != nil {
		b.s.device.DestroyBuffer(b.buf)
	}
	b.buf = nil
}
