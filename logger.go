// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package readtest

import (
	"log/slog"

	"github.com/gogpu/readtest/internal/slogutil"
)

var logger slogutil.Holder

// SetLogger configures the diagnostic logger for readtest and the surfaces
// it drives. By default nothing is logged. Pass nil to restore the silent
// default.
//
// The logger reaches backends twice: through [Config.SurfaceOptions] while
// the surface is acquired, and through [NewRunner] afterwards.
// Diagnostics never go to the benchmark report.
//
// Log levels used:
//   - [slog.LevelDebug]: per-benchmark iteration counts and buffer sizes
//   - [slog.LevelInfo]: surface and format selection
//   - [slog.LevelWarn]: skipped formats, failed verifications
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

// Logger returns the current logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return logger.Load()
}

// loggerSetter is implemented by surfaces that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger hands the logger to s if it accepts one.
func propagateLogger(s any, l *slog.Logger) {
	if ls, ok := s.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
