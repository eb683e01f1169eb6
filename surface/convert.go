// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"

	"github.com/gogpu/readtest/pixfmt"
)

// alphaOffset returns the byte offset of the alpha channel of a 4-byte
// format, or -1 if the format carries no alpha.
func alphaOffset(f pixfmt.Format) int {
	if f.SingleChannel || f.PixelSize < 4 {
		return -1
	}
	used := [4]bool{}
	used[f.ROffset] = true
	used[f.GOffset] = true
	used[f.BOffset] = true
	for i, u := range used {
		if !u {
			return i
		}
	}
	return -1
}

// ExpandToRGBA converts a width x height image in format f with srcStride
// bytes per row into RGBA8 at dstStride bytes per row. Missing color
// channels become 0 and missing alpha becomes 255, matching how a draw of
// that layout lands in an RGBA color buffer.
func ExpandToRGBA(dst []byte, dstStride int, src []byte, srcStride, width, height int, f pixfmt.Format) error {
	ps := f.PixelSize
	if err := checkSize(src, srcStride, width*ps, height); err != nil {
		return fmt.Errorf("expand source: %w", err)
	}
	if err := checkSize(dst, dstStride, width*4, height); err != nil {
		return fmt.Errorf("expand destination: %w", err)
	}
	ao := alphaOffset(f)
	for y := 0; y < height; y++ {
		s := src[y*srcStride : y*srcStride+width*ps]
		d := dst[y*dstStride : y*dstStride+width*4]
		for x := 0; x < width; x++ {
			sp := s[x*ps : x*ps+ps]
			dp := d[x*4 : x*4+4]
			if f.SingleChannel {
				dp[0], dp[1], dp[2], dp[3] = sp[0], 0, 0, 255
				continue
			}
			dp[0], dp[1], dp[2] = sp[f.ROffset], sp[f.GOffset], sp[f.BOffset]
			if ao >= 0 {
				dp[3] = sp[ao]
			} else {
				dp[3] = 255
			}
		}
	}
	return nil
}

// PackFromRGBA converts RGBA8 rows at srcStride into format f at
// dstStride bytes per row. Padding bytes at the end of each destination
// row are left untouched.
func PackFromRGBA(dst []byte, dstStride int, src []byte, srcStride, width, height int, f pixfmt.Format) error {
	ps := f.PixelSize
	if err := checkSize(src, srcStride, width*4, height); err != nil {
		return fmt.Errorf("pack source: %w", err)
	}
	if err := checkSize(dst, dstStride, width*ps, height); err != nil {
		return fmt.Errorf("pack destination: %w", err)
	}

	// RGBA to RGBA is a straight row copy.
	if !f.SingleChannel && ps == 4 && f.ROffset == 0 && f.GOffset == 1 && f.BOffset == 2 {
		for y := 0; y < height; y++ {
			copy(dst[y*dstStride:y*dstStride+width*4], src[y*srcStride:y*srcStride+width*4])
		}
		return nil
	}

	ao := alphaOffset(f)
	for y := 0; y < height; y++ {
		s := src[y*srcStride : y*srcStride+width*4]
		d := dst[y*dstStride : y*dstStride+width*ps]
		for x := 0; x < width; x++ {
			sp := s[x*4 : x*4+4]
			dp := d[x*ps : x*ps+ps]
			if f.SingleChannel {
				dp[0] = sp[0]
				continue
			}
			dp[f.ROffset], dp[f.GOffset], dp[f.BOffset] = sp[0], sp[1], sp[2]
			if ao >= 0 {
				dp[ao] = sp[3]
			}
		}
	}
	return nil
}

func checkSize(buf []byte, stride, rowBytes, height int) error {
	if stride < rowBytes {
		return fmt.Errorf("%w: stride %d < row of %d bytes", ErrBufferSize, stride, rowBytes)
	}
	if height > 0 && len(buf) < stride*(height-1)+rowBytes {
		return fmt.Errorf("%w: %d bytes for %d rows of stride %d", ErrBufferSize, len(buf), height, stride)
	}
	return nil
}
