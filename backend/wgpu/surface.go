// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/readtest/pixfmt"
	"github.com/gogpu/readtest/surface"
)

// copyPitchAlignment is the BytesPerRow alignment required for
// texture-to-buffer copies.
const copyPitchAlignment = 256

// textureFormat is the storage format of the drawable.
const textureFormat = gputypes.TextureFormatRGBA8Unorm

var errNotHALProvider = errors.New("wgpu: provider does not expose HAL types")

// Surface is a drawable backed by a HAL texture.
//
// Surface is NOT safe for concurrent use.
type Surface struct {
	width  int
	height int
	target surface.Target

	instance hal.Instance // nil for shared devices
	device   hal.Device
	queue    hal.Queue
	external bool

	tex  hal.Texture
	view hal.TextureView

	// usage is the usage the texture was last transitioned to.
	usage gputypes.TextureUsage

	// pitch is the aligned bytes per row of readback buffers.
	pitch uint32

	// readBuf receives direct readbacks; raw is its host copy.
	readBuf hal.Buffer
	raw     []byte

	// rgba holds an upload converted to the texture layout.
	rgba []byte

	closed bool
}

var (
	_ surface.Surface      = (*Surface)(nil)
	_ surface.StagedReader = (*Surface)(nil)
)

// New opens a standalone Vulkan device and creates an offscreen drawable.
//
// opts.Logger, when set, becomes the package logger before the device is
// opened. opts.VisualID, when non-zero, selects adapter VisualID-1. Window targets
// fail with surface.ErrNoSurface: a standalone device has no window to
// present to.
func New(opts surface.Options) (*Surface, error) {
	opts = opts.Normalized()
	if opts.Logger != nil {
		setLogger(opts.Logger)
	}
	if opts.Target == surface.TargetWindow {
		return nil, fmt.Errorf("%w: window targets need a shared device", surface.ErrNoSurface)
	}

	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", surface.ErrNoDisplay)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", surface.ErrNoDisplay, err)
	}

	adapters := instance.EnumerateAdapters(nil)
	selected, err := selectAdapter(adapters, opts.VisualID)
	if err != nil {
		instance.Destroy()
		return nil, err
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: open device: %w", surface.ErrNoContext, err)
	}

	s, err := newSurface(openDev.Device, openDev.Queue, opts)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	s.instance = instance
	slogger().Info("wgpu: device opened", "adapter", selected.Info.Name,
		"width", s.width, "height", s.height, "target", s.target)
	return s, nil
}

// selectAdapter picks adapter visualID-1, or the first discrete or
// integrated GPU when visualID is zero.
func selectAdapter(adapters []hal.ExposedAdapter, visualID int) (*hal.ExposedAdapter, error) {
	if len(adapters) == 0 {
		return nil, fmt.Errorf("%w: no GPU adapters found", surface.ErrNoSurface)
	}
	if visualID > 0 {
		if visualID > len(adapters) {
			return nil, fmt.Errorf("%w: adapter %#x not present (%d adapters)",
				surface.ErrNoSurface, visualID, len(adapters))
		}
		return &adapters[visualID-1], nil
	}
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i], nil
		}
	}
	return &adapters[0], nil
}

// NewShared creates a drawable on the device of an external provider, such
// as a gogpu application that owns a window. The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
// The device is not destroyed by Close.
func NewShared(provider gpucontext.DeviceProvider, opts surface.Options) (*Surface, error) {
	if opts.Logger != nil {
		setLogger(opts.Logger)
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: nil device provider", surface.ErrNoContext)
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: %w", surface.ErrNoContext, errNotHALProvider)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", surface.ErrNoContext)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", surface.ErrNoContext)
	}

	s, err := newSurface(device, queue, opts.Normalized())
	if err != nil {
		return nil, err
	}
	s.external = true
	slogger().Info("wgpu: using shared device",
		"surfaceFormat", provider.SurfaceFormat(), "width", s.width, "height", s.height)
	return s, nil
}

// newSurface creates the drawable texture and the readback buffer on an
// open device.
func newSurface(device hal.Device, queue hal.Queue, opts surface.Options) (*Surface, error) {
	s := &Surface{
		width:  opts.Width,
		height: opts.Height,
		target: opts.Target,
		device: device,
		queue:  queue,
		pitch:  alignPitch(uint32(opts.Width) * 4),
	}

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "readtest_target",
		Size:          hal.Extent3D{Width: uint32(s.width), Height: uint32(s.height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        textureFormat,
		Usage: gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageCopySrc |
			gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create target texture: %w", surface.ErrNoContext, err)
	}
	s.tex = tex
	s.usage = gputypes.TextureUsageRenderAttachment

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "readtest_target_view",
		Format:        textureFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.destroyResources()
		return nil, fmt.Errorf("%w: create target view: %w", surface.ErrNoContext, err)
	}
	s.view = view

	buf, err := s.createReadbackBuffer("readtest_readback")
	if err != nil {
		s.destroyResources()
		return nil, fmt.Errorf("%w: %w", surface.ErrNoContext, err)
	}
	s.readBuf = buf
	s.raw = make([]byte, int(s.pitch)*s.height)
	s.rgba = make([]byte, s.width*4*s.height)
	return s, nil
}

// alignPitch rounds bytesPerRow up to the copy pitch alignment.
func alignPitch(bytesPerRow uint32) uint32 {
	return (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

func (s *Surface) createReadbackBuffer(label string) (hal.Buffer, error) {
	buf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(s.pitch) * uint64(s.height),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", label, err)
	}
	return buf, nil
}

// Width returns the drawable width.
func (s *Surface) Width() int { return s.width }

// Height returns the drawable height.
func (s *Surface) Height() int { return s.height }

// Target returns the drawable kind the surface was created for.
func (s *Surface) Target() surface.Target { return s.target }

// Extensions reports bgra and abgr; both are converted on the host.
func (s *Surface) Extensions() []pixfmt.Extension {
	return []pixfmt.Extension{pixfmt.ExtBGRA, pixfmt.ExtABGR}
}

// SetLogger sets the logger for the backend.
func (s *Surface) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// Close releases the texture and buffers, and the device unless it is
// shared. Close is idempotent.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.destroyResources()
	if !s.external {
		if s.device != nil {
			s.device.Destroy()
		}
		if s.instance != nil {
			s.instance.Destroy()
		}
	}
	s.device = nil
	s.queue = nil
	s.instance = nil
	return nil
}

func (s *Surface) destroyResources() {
	if s.readBuf != nil {
		s.device.DestroyBuffer(s.readBuf)
		s.readBuf = nil
	}
	if s.view != nil {
		s.device.DestroyTextureView(s.view)
		s.view = nil
	}
	if s.tex != nil {
		s.device.DestroyTexture(s.tex)
		s.tex = nil
	}
}
