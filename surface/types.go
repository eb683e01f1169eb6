// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gogpu/readtest/pixfmt"
)

// Target identifies the kind of drawable being benchmarked.
type Target uint8

const (
	// TargetOffscreen is a headless offscreen buffer (the default).
	TargetOffscreen Target = iota

	// TargetWindow is an on-screen window.
	TargetWindow

	// TargetPixmap is a server-side pixmap.
	TargetPixmap

	// TargetFBO is a framebuffer object attached to a context.
	TargetFBO
)

// String returns the name printed in the size banner.
func (t Target) String() string {
	switch t {
	case TargetOffscreen:
		return "Pbuffer"
	case TargetWindow:
		return "Window"
	case TargetPixmap:
		return "Pixmap"
	case TargetFBO:
		return "FBO"
	default:
		return fmt.Sprintf("Target(%d)", uint8(t))
	}
}

// ErrUnknownTarget is returned when a target name is not recognized.
var ErrUnknownTarget = errors.New("surface: unknown target")

// ParseTarget returns the target named s. Matching ignores case and
// accepts the command-line spellings ("pm", "fbo", "pbuffer", "window").
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pbuffer", "offscreen":
		return TargetOffscreen, nil
	case "window":
		return TargetWindow, nil
	case "pixmap", "pm":
		return TargetPixmap, nil
	case "fbo":
		return TargetFBO, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTarget, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Target) MarshalText() ([]byte, error) {
	if t > TargetFBO {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTarget, uint8(t))
	}
	return []byte(strings.ToLower(t.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Target) UnmarshalText(text []byte) error {
	v, err := ParseTarget(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Options configures surface creation.
type Options struct {
	// Width and Height are the drawable size in pixels.
	Width, Height int

	// Target selects the drawable kind.
	Target Target

	// Alpha requests a color buffer with an alpha channel.
	Alpha bool

	// VisualID forces a specific visual or adapter, if non-zero. Backends
	// without visuals use it as an adapter index plus one.
	VisualID int

	// Extensions overrides the advertised extensions of backends that
	// emulate them. Nil keeps the backend default.
	Extensions []pixfmt.Extension

	// Logger receives backend diagnostics during and after acquisition.
	// Nil leaves the backend logger unchanged.
	Logger *slog.Logger
}

// DefaultWidth and DefaultHeight are the drawable size used when Options
// leaves them unset.
const (
	DefaultWidth  = 701
	DefaultHeight = 701
)

// Normalized returns o with unset dimensions replaced by the defaults.
func (o Options) Normalized() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}
