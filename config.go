// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package readtest

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/readtest/pixfmt"
	"github.com/gogpu/readtest/surface"
)

// ErrInvalidConfig is returned by Config.Validate and NewRunner for
// out-of-range settings.
var ErrInvalidConfig = errors.New("readtest: invalid configuration")

// Default settings.
const (
	DefaultAlign     = 1
	DefaultBenchTime = time.Second
	DefaultLoops     = 1
)

// Config holds every setting the benchmark consumes. It is passed
// explicitly to NewRunner; nothing is read from globals.
type Config struct {
	// Backend names the surface backend. Empty selects the best available.
	Backend string `yaml:"backend"`

	// Target is the drawable kind to benchmark.
	Target surface.Target `yaml:"target"`

	// Width and Height are the drawable size in pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Align is the readback row alignment in bytes. Must be a power of two.
	Align int `yaml:"align"`

	// VisualID forces a visual (or adapter) if non-zero.
	VisualID int `yaml:"visual_id"`

	// Alpha requests a drawable with an alpha channel.
	Alpha bool `yaml:"alpha"`

	// Staged reads back through driver-owned staging buffers.
	Staged bool `yaml:"staged"`

	// Format restricts the run to one pixel format. Empty runs every
	// format the surface supports.
	Format string `yaml:"format"`

	// BenchTime is the minimum cumulative time of each benchmark loop.
	BenchTime time.Duration `yaml:"bench_time"`

	// Loops is the number of read benchmarks run per format.
	Loops int `yaml:"loops"`

	// DumpDir receives a BMP of every readback that fails verification.
	// Empty disables dumps.
	DumpDir string `yaml:"dump_dir"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the settings used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Target:    surface.TargetOffscreen,
		Width:     surface.DefaultWidth,
		Height:    surface.DefaultHeight,
		Align:     DefaultAlign,
		BenchTime: DefaultBenchTime,
		Loops:     DefaultLoops,
	}
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.Align < 1 || c.Align&(c.Align-1) != 0:
		return fmt.Errorf("%w: alignment %d is not a power of two", ErrInvalidConfig, c.Align)
	case c.BenchTime <= 0:
		return fmt.Errorf("%w: bench time %v", ErrInvalidConfig, c.BenchTime)
	case c.Loops < 1:
		return fmt.Errorf("%w: loops %d", ErrInvalidConfig, c.Loops)
	case c.VisualID < 0:
		return fmt.Errorf("%w: visual id %d", ErrInvalidConfig, c.VisualID)
	case c.Target > surface.TargetFBO:
		return fmt.Errorf("%w: target %v", ErrInvalidConfig, c.Target)
	}
	if c.Format != "" {
		if _, ok := pixfmt.Lookup(c.Format); !ok {
			return fmt.Errorf("%w: unknown pixel format %q", ErrInvalidConfig, c.Format)
		}
	}
	return nil
}

// SurfaceOptions returns the options used to acquire the surface. They
// carry the current [Logger] so backends can log while opening a device.
func (c Config) SurfaceOptions() surface.Options {
	return surface.Options{
		Width:    c.Width,
		Height:   c.Height,
		Target:   c.Target,
		Alpha:    c.Alpha,
		VisualID: c.VisualID,
		Logger:   Logger(),
	}
}

// LoadConfig reads a YAML profile from path. Keys absent from the file
// keep their DefaultConfig values. The result is validated.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("readtest: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML profile on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("readtest: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
