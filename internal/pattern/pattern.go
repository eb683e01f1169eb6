// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pattern generates and checks the synthetic test image moved by
// the transfer benchmarks.
//
// Every pixel value is a function of its global coordinates only, so the
// same generator serves both as the upload source and as the oracle for
// data read back from the GPU.
package pattern

import "github.com/gogpu/readtest/pixfmt"

// RowStride returns the byte width of one row of width pixels of
// pixelSize bytes, rounded up to align. align must be a power of two;
// values below 1 are treated as 1.
func RowStride(width, pixelSize, align int) int {
	if align < 1 {
		align = 1
	}
	raw := width * pixelSize
	return (raw + align - 1) &^ (align - 1)
}

// Size returns the byte size of a height-row buffer with the given stride.
func Size(width, height, pixelSize, align int) int {
	return RowStride(width, pixelSize, align) * height
}

// value computes the channel byte for global coordinates (x, y). mul is 1
// for red and single-channel data, 2 for green, 3 for blue.
func value(x, y, mul int) byte {
	return byte((y * x * mul) % 256)
}

// Fill writes a tightly packed width*height image of format f into buf.
// Local pixel (j, i) takes the value of global pixel (x+j, y+i). Bytes
// not covered by a color channel are left untouched.
//
// buf must hold at least width*height*f.PixelSize bytes.
func Fill(buf []byte, x, y, width, height int, f pixfmt.Format) {
	ps := f.PixelSize
	for i := 0; i < height; i++ {
		gy := i + y
		row := buf[i*width*ps : (i+1)*width*ps]
		for j := 0; j < width; j++ {
			gx := j + x
			px := row[j*ps : (j+1)*ps]
			if f.SingleChannel {
				px[0] = value(gx, gy, 1)
				continue
			}
			px[f.ROffset] = value(gx, gy, 1)
			px[f.GOffset] = value(gx, gy, 2)
			px[f.BOffset] = value(gx, gy, 3)
		}
	}
}

// Verify reports whether buf holds the image Fill would produce for the
// same origin, size and format, laid out with rowStride bytes per row.
// With flip set, rows are expected bottom-to-top. Verify stops at the
// first mismatch.
func Verify(buf []byte, x, y, width, height int, f pixfmt.Format, rowStride int, flip bool) bool {
	ps := f.PixelSize
	if width <= 0 || height <= 0 {
		return true
	}
	if rowStride < width*ps || len(buf) < rowStride*(height-1)+width*ps {
		return false
	}
	for i := 0; i < height; i++ {
		gy := i + y
		l := i
		if flip {
			l = height - 1 - i
		}
		base := l * rowStride
		for j := 0; j < width; j++ {
			gx := j + x
			px := base + j*ps
			if f.SingleChannel {
				if buf[px] != value(gx, gy, 1) {
					return false
				}
				continue
			}
			if buf[px+f.ROffset] != value(gx, gy, 1) ||
				buf[px+f.GOffset] != value(gx, gy, 2) ||
				buf[px+f.BOffset] != value(gx, gy, 3) {
				return false
			}
		}
	}
	return true
}

// IsZero reports whether every byte of buf is zero.
func IsZero(buf []byte) bool {
	for _, b := range buf {
		if b != 0 {
			return false
		}
	}
	return true
}
