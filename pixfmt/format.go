// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pixfmt describes the host-side pixel layouts exercised by the
// transfer benchmarks.
//
// The catalog is a fixed table. Byte-order variants depend on an
// [Extension] that the active surface must advertise; [Supported] drops
// the ones it does not, so the default benchmark set only contains
// formats the transfer primitive can actually move.
package pixfmt

import (
	"strings"

	"github.com/gogpu/gputypes"
	"golang.org/x/text/cases"
)

// Extension names an optional capability of a transfer primitive.
type Extension string

const (
	// ExtBGRA enables the reversed BGR and BGRA layouts.
	ExtBGRA Extension = "bgra"

	// ExtABGR enables the ABGR layout.
	ExtABGR Extension = "abgr"
)

// Format is an immutable pixel layout descriptor.
type Format struct {
	// Name is the display name (e.g. "RGBA").
	Name string

	// PixelSize is the number of bytes per pixel (1, 3 or 4).
	PixelSize int

	// ROffset, GOffset and BOffset are the byte offsets of the color
	// channels within a pixel. Ignored for single-channel formats.
	ROffset, GOffset, BOffset int

	// Token is the native transfer format, if the GPU has one that
	// matches this layout byte for byte. The zero value means the backend
	// converts on the host.
	Token gputypes.TextureFormat

	// Reversed is set for layouts that store blue before red.
	Reversed bool

	// SingleChannel is set for the red-only format.
	SingleChannel bool

	// Luminance marks formats read back through a luminance conversion.
	Luminance bool

	// Requires is the extension needed to transfer this format. Empty for
	// core formats.
	Requires Extension
}

// Channels returns the byte offsets of the color channels in R, G, B
// order. Single-channel formats return one offset.
func (f Format) Channels() []int {
	if f.SingleChannel {
		return []int{0}
	}
	return []int{f.ROffset, f.GOffset, f.BOffset}
}

// String returns the format name.
func (f Format) String() string {
	return f.Name
}

var (
	red  = Format{Name: "RED", PixelSize: 1, Token: gputypes.TextureFormatR8Unorm, SingleChannel: true}
	bgra = Format{Name: "BGRA", PixelSize: 4, ROffset: 2, GOffset: 1, BOffset: 0, Token: gputypes.TextureFormatBGRA8Unorm, Reversed: true, Requires: ExtBGRA}
	abgr = Format{Name: "ABGR", PixelSize: 4, ROffset: 3, GOffset: 2, BOffset: 1, Requires: ExtABGR}
	bgr  = Format{Name: "BGR", PixelSize: 3, ROffset: 2, GOffset: 1, BOffset: 0, Reversed: true, Requires: ExtBGRA}
	rgba = Format{Name: "RGBA", PixelSize: 4, ROffset: 0, GOffset: 1, BOffset: 2, Token: gputypes.TextureFormatRGBA8Unorm}
	rgb  = Format{Name: "RGB", PixelSize: 3, ROffset: 0, GOffset: 1, BOffset: 2}
)

// catalog is the benchmark order. RED must stay first.
var catalog = [...]Format{red, bgra, abgr, bgr, rgba, rgb}

// Catalog returns every known format in benchmark order.
func Catalog() []Format {
	out := make([]Format, len(catalog))
	copy(out, catalog[:])
	return out
}

// Supported returns the catalog minus formats whose required extension is
// not reported by has. A nil has keeps only core formats.
func Supported(has func(Extension) bool) []Format {
	out := make([]Format, 0, len(catalog))
	for _, f := range catalog {
		if f.Requires != "" && (has == nil || !has(f.Requires)) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// HasFunc adapts an extension list to the predicate taken by [Supported].
func HasFunc(exts []Extension) func(Extension) bool {
	return func(e Extension) bool {
		for _, x := range exts {
			if x == e {
				return true
			}
		}
		return false
	}
}

// Lookup returns the format with the given name, compared without regard
// to case.
func Lookup(name string) (Format, bool) {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(name))
	for _, f := range catalog {
		if fold.String(f.Name) == want {
			return f, true
		}
	}
	return Format{}, false
}

// Names returns the catalog names in benchmark order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, f := range catalog {
		names[i] = f.Name
	}
	return names
}
