// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/readtest"
	"github.com/gogpu/readtest/surface"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     string
		wantHelp bool
	}{
		{"empty", nil, "", false},
		{"case folded", []string{"-WINDOW", "-Width", "64"}, "-window -width 64", false},
		{"unknown dropped", []string{"-bogus", "-pbo", "stray"}, "-pbo", false},
		{"missing value", []string{"-rgb", "-loop"}, "-rgb", false},
		{"value looks like flag", []string{"-width", "-5"}, "-width -5", false},
		{"help", []string{"-rgb", "-h"}, "-rgb", true},
		{"question mark", []string{"-?"}, "", true},
		{"double dash", []string{"--alpha"}, "-alpha", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, help := normalize(tt.args)
			if strings.Join(got, " ") != tt.want || help != tt.wantHelp {
				t.Errorf("normalize(%q) = %q, %v; want %q, %v", tt.args, got, help, tt.want, tt.wantHelp)
			}
		})
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(*testing.T, readtest.Config)
	}{
		{"defaults", nil, func(t *testing.T, c readtest.Config) {
			if c.Width != 701 || c.Height != 701 || c.Align != 1 || c.Loops != 1 || c.BenchTime != time.Second {
				t.Errorf("cfg = %+v", c)
			}
		}},
		{"targets", []string{"-fbo"}, func(t *testing.T, c readtest.Config) {
			if c.Target != surface.TargetFBO {
				t.Errorf("Target = %v, want FBO", c.Target)
			}
		}},
		{"last target wins", []string{"-pm", "-window"}, func(t *testing.T, c readtest.Config) {
			if c.Target != surface.TargetWindow {
				t.Errorf("Target = %v, want Window", c.Target)
			}
		}},
		{"last format wins", []string{"-rgb", "-BGRA"}, func(t *testing.T, c readtest.Config) {
			if c.Format != "BGRA" {
				t.Errorf("Format = %q, want BGRA", c.Format)
			}
		}},
		{"red", []string{"-red"}, func(t *testing.T, c readtest.Config) {
			if c.Format != "RED" {
				t.Errorf("Format = %q, want RED", c.Format)
			}
		}},
		{"switches", []string{"-pbo", "-alpha", "-v"}, func(t *testing.T, c readtest.Config) {
			if !c.Staged || !c.Alpha || !c.Verbose {
				t.Errorf("staged/alpha/verbose = %v/%v/%v", c.Staged, c.Alpha, c.Verbose)
			}
		}},
		{"numbers", []string{"-width", "320", "-height", "200", "-align", "8", "-time", "0.5", "-loop", "3"},
			func(t *testing.T, c readtest.Config) {
				if c.Width != 320 || c.Height != 200 || c.Align != 8 || c.BenchTime != 500*time.Millisecond || c.Loops != 3 {
					t.Errorf("cfg = %+v", c)
				}
			}},
		{"out of range ignored", []string{"-width", "0", "-height", "-2", "-align", "6", "-time", "0", "-loop", "1"},
			func(t *testing.T, c readtest.Config) {
				if c.Width != 701 || c.Height != 701 || c.Align != 1 || c.BenchTime != time.Second || c.Loops != 1 {
					t.Errorf("cfg = %+v", c)
				}
			}},
		{"non-finite time ignored", []string{"-time", "inf", "-time", "1e400", "-time", "NaN", "-time", "1e300"},
			func(t *testing.T, c readtest.Config) {
				if c.BenchTime != time.Second {
					t.Errorf("BenchTime = %v, want 1s", c.BenchTime)
				}
			}},
		{"garbage ignored", []string{"-width", "wide", "-visualid", "zz"}, func(t *testing.T, c readtest.Config) {
			if c.Width != 701 || c.VisualID != 0 {
				t.Errorf("width/visual = %d/%d", c.Width, c.VisualID)
			}
		}},
		{"visualid hex", []string{"-visualid", "0x2a"}, func(t *testing.T, c readtest.Config) {
			if c.VisualID != 0x2a {
				t.Errorf("VisualID = %#x, want 0x2a", c.VisualID)
			}
		}},
		{"visualid bare hex", []string{"-visualid", "21"}, func(t *testing.T, c readtest.Config) {
			if c.VisualID != 0x21 {
				t.Errorf("VisualID = %#x, want 0x21", c.VisualID)
			}
		}},
		{"backend and dump", []string{"-backend", "memory", "-dump", "/tmp/x"}, func(t *testing.T, c readtest.Config) {
			if c.Backend != "memory" || c.DumpDir != "/tmp/x" {
				t.Errorf("backend/dump = %q/%q", c.Backend, c.DumpDir)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseArgs(tt.args)
			if err != nil {
				t.Fatalf("parseArgs: %v", err)
			}
			if opts.help {
				t.Fatal("help set")
			}
			tt.check(t, opts.cfg)
		})
	}
}

func TestParseArgs_ConfigThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("width: 64\nheight: 48\nformat: rgba\nloops: 4\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	opts, err := parseArgs([]string{"-width", "32", "-config", path})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	c := opts.cfg
	if c.Width != 32 || c.Height != 48 || c.Format != "rgba" || c.Loops != 4 {
		t.Errorf("cfg = %+v", c)
	}

	if _, err := parseArgs([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("missing profile accepted")
	}
}

func TestRun_Help(t *testing.T) {
	var buf bytes.Buffer
	if code := run([]string{"-?"}, &buf, surface.Default()); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	for _, want := range []string{"USAGE: readtest", "-abgr = Test only ABGR pixel format", "-loop <l>", "memory"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("usage missing %q", want)
		}
	}
}

func TestRun_MemoryBackend(t *testing.T) {
	var buf bytes.Buffer
	code := run([]string{"-backend", "memory", "-width", "16", "-height", "8", "-time", "0.001", "-rgb", "-align", "4"}, &buf, surface.Default())
	if code != 0 {
		t.Fatalf("exit code = %d, output:\n%s", code, buf.String())
	}
	out := buf.String()
	for _, want := range []string{
		"readtest v" + readtest.Version,
		"Pbuffer size = 16 x 8 pixels",
		"Using 4-byte row alignment",
		">>>>>>>>>>  PIXEL FORMAT:  RGB  <<<<<<<<<<",
		"Mpixels/sec (min = ",
		"of total readback time",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "-h for advanced usage") {
		t.Error("usage hint printed although arguments were given")
	}
	if strings.Contains(out, "Bogus") {
		t.Errorf("memory readback failed verification\n%s", out)
	}
}

func TestRun_UnknownBackend(t *testing.T) {
	var buf bytes.Buffer
	if code := run([]string{"-backend", "glx"}, &buf, surface.Default()); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(buf.String(), "glx") {
		t.Errorf("error does not name the backend:\n%s", buf.String())
	}
}

// gpuRegistry returns a registry with a GPU backend built by gpu and the
// explicit memory backend.
func gpuRegistry(gpu surface.Factory) *surface.Registry {
	reg := surface.NewRegistry()
	reg.Register(surface.Backend{Name: "gpu", Priority: 100, Factory: gpu})
	reg.Register(surface.Backend{
		Name:     surface.MemoryBackend,
		Priority: 10,
		Explicit: true,
		Factory: func(opts surface.Options) (surface.Surface, error) {
			return surface.NewMemorySurface(opts), nil
		},
	})
	return reg
}

func TestRun_AcquisitionFailureExits1(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		sentinel error
	}{
		{"no display", nil, surface.ErrNoDisplay},
		{"window without shared device", []string{"-window"}, surface.ErrNoSurface},
		{"no context", []string{"-fbo"}, surface.ErrNoContext},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := gpuRegistry(func(surface.Options) (surface.Surface, error) {
				return nil, fmt.Errorf("gpu: %w", tt.sentinel)
			})
			var buf bytes.Buffer
			if code := run(tt.args, &buf, reg); code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			out := buf.String()
			if !strings.Contains(out, tt.sentinel.Error()) {
				t.Errorf("output does not report %q:\n%s", tt.sentinel, out)
			}
			if strings.Contains(out, "PIXEL FORMAT") || strings.Contains(out, "size =") {
				t.Errorf("benchmark ran after the GPU backend failed:\n%s", out)
			}
		})
	}
}

func TestRun_NoGPUBackend(t *testing.T) {
	reg := gpuRegistry(nil)
	reg.Register(surface.Backend{
		Name:      "gpu",
		Priority:  100,
		Available: func() bool { return false },
	})
	var buf bytes.Buffer
	if code := run([]string{"-rgb"}, &buf, reg); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(buf.String(), "-backend memory") {
		t.Errorf("missing memory hint:\n%s", buf.String())
	}
}

func TestRun_ExplicitMemoryDespiteGPUFailure(t *testing.T) {
	reg := gpuRegistry(func(surface.Options) (surface.Surface, error) {
		return nil, surface.ErrNoDisplay
	})
	var buf bytes.Buffer
	code := run([]string{"-backend", "memory", "-width", "4", "-height", "4", "-time", "0.001", "-red"}, &buf, reg)
	if code != 0 {
		t.Fatalf("exit code = %d, output:\n%s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Pbuffer size = 4 x 4 pixels") {
		t.Errorf("memory run output:\n%s", buf.String())
	}
}
