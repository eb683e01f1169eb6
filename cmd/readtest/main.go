// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command readtest benchmarks pixel uploads and readbacks between host
// memory and a GPU drawable.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/readtest"
	"github.com/gogpu/readtest/pixfmt"
	"github.com/gogpu/readtest/surface"

	// Register the GPU surface backend.
	_ "github.com/gogpu/readtest/backend/wgpu"
)

const benchName = "readtest"

func main() {
	os.Exit(run(os.Args[1:], os.Stderr, surface.Default()))
}

// run executes the benchmark against the backends in reg and returns the
// process exit code.
func run(args []string, stderr io.Writer, reg *surface.Registry) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if opts.help {
		usage(stderr, reg)
		return 0
	}

	fmt.Fprintf(stderr, "\n%s v%s\n", benchName, readtest.Version)
	if len(args) == 0 {
		fmt.Fprintf(stderr, "\n%s -h for advanced usage.\n", benchName)
	}
	fmt.Fprintln(stderr)

	cfg := opts.cfg
	if cfg.Verbose {
		readtest.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	s, err := openSurface(reg, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		if errors.Is(err, surface.ErrNoBackendAvailable) {
			fmt.Fprintf(stderr, "Use -backend %s to measure host memory instead.\n", surface.MemoryBackend)
		}
		return 1
	}
	defer func() {
		_ = s.Close()
	}()

	r, err := readtest.NewRunner(s, cfg, readtest.WithOutput(stderr))
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if err := r.Run(); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	return 0
}

// openSurface acquires the drawable from the configured backend, or from
// the best available GPU backend. Acquisition errors are returned as is.
func openSurface(reg *surface.Registry, cfg readtest.Config) (surface.Surface, error) {
	opts := cfg.SurfaceOptions()
	if cfg.Backend != "" {
		return reg.OpenByName(cfg.Backend, opts)
	}
	s, err := reg.Open(opts)
	if err != nil {
		return nil, err
	}
	readtest.Logger().Info("readtest: surface selected", "type", fmt.Sprintf("%T", s), "target", s.Target())
	return s, nil
}

func usage(w io.Writer, reg *surface.Registry) {
	fmt.Fprintf(w, "\nUSAGE: %s [-h|-?] [-window] [-pm] [-fbo] [-pbo]\n", benchName)
	fmt.Fprintf(w, "       [-width <n>] [-height <n>] [-align <n>] [-visualid <xx>] [-alpha]\n")
	fmt.Fprintf(w, "       [-red] [-rgb] [-rgba] [-bgr] [-bgra] [-abgr] [-time <t>] [-loop <l>]\n")
	fmt.Fprintf(w, "       [-backend <name>] [-config <file>] [-dump <dir>] [-v]\n")
	fmt.Fprintf(w, "\n-h or -? = This screen\n")
	fmt.Fprintf(w, "-window = Render to a window instead of a Pbuffer\n")
	fmt.Fprintf(w, "-pm = Render to a pixmap instead of a Pbuffer\n")
	fmt.Fprintf(w, "-fbo = Render to a framebuffer object (FBO) instead of a Pbuffer\n")
	fmt.Fprintf(w, "-pbo = Use staged buffers to perform readback\n")
	fmt.Fprintf(w, "-width = Set drawable width to n pixels (default: %d)\n", surface.DefaultWidth)
	fmt.Fprintf(w, "-height = Set drawable height to n pixels (default: %d)\n", surface.DefaultHeight)
	fmt.Fprintf(w, "-align = Set row alignment to n bytes (default: %d)\n", readtest.DefaultAlign)
	fmt.Fprintf(w, "-visualid = Ignore visual selection and use this visual ID (hex) instead\n")
	fmt.Fprintf(w, "-alpha = Create drawable with an alpha channel\n")
	for _, name := range pixfmt.Names() {
		fmt.Fprintf(w, "-%s = Test only %s pixel format\n", strings.ToLower(name), name)
	}
	fmt.Fprintf(w, "-time <t> = Run each test for <t> seconds\n")
	fmt.Fprintf(w, "-loop <l> = Run readback test <l> times in a row\n")
	fmt.Fprintf(w, "-backend <name> = Use surface backend <name> (available: %s)\n",
		strings.Join(reg.Names(), ", "))
	fmt.Fprintf(w, "-config <file> = Load settings from a YAML profile before other flags\n")
	fmt.Fprintf(w, "-dump <dir> = Write readbacks that fail verification to <dir> as BMP\n")
	fmt.Fprintf(w, "-v = Log diagnostics to stderr\n")
	fmt.Fprintln(w)
}
