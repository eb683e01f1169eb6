// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package readtest

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/gogpu/readtest/pixfmt"
)

// readbackImage converts a strided readback buffer into an image.
// Single-channel formats become grayscale; missing alpha is opaque.
func readbackImage(buf []byte, width, height, rowStride int, f pixfmt.Format) image.Image {
	rect := image.Rect(0, 0, width, height)
	if f.SingleChannel {
		img := image.NewGray(rect)
		for y := 0; y < height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+width], buf[y*rowStride:])
		}
		return img
	}

	img := image.NewNRGBA(rect)
	for y := 0; y < height; y++ {
		row := buf[y*rowStride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			px := row[x*f.PixelSize:]
			dst[x*4+0] = px[f.ROffset]
			dst[x*4+1] = px[f.GOffset]
			dst[x*4+2] = px[f.BOffset]
			dst[x*4+3] = 0xff
		}
	}
	return img
}

// dumpReadback writes buf as a BMP into dir and returns the file path.
func dumpReadback(dir string, buf []byte, width, height, rowStride int, f pixfmt.Format) (string, error) {
	if len(buf) < rowStride*height {
		return "", fmt.Errorf("readtest: dump: buffer holds %d bytes, need %d", len(buf), rowStride*height)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("readtest: dump: %w", err)
	}

	name := fmt.Sprintf("readback-%s-%dx%d.bmp", strings.ToLower(f.Name), width, height)
	path := filepath.Join(dir, name)
	file, err := os.Create(path) //nolint:gosec // dump directory is user-provided intentionally
	if err != nil {
		return "", fmt.Errorf("readtest: dump: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := bmp.Encode(file, readbackImage(buf, width, height, rowStride, f)); err != nil {
		return "", fmt.Errorf("readtest: dump: %w", err)
	}
	return path, nil
}
