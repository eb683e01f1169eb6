// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"log/slog"

	"github.com/gogpu/readtest/internal/slogutil"
)

var logger slogutil.Holder

// slogger returns the current package logger.
func slogger() *slog.Logger { return logger.Load() }

// setLogger updates the package-level logger. Nil restores silence.
func setLogger(l *slog.Logger) { logger.Store(l) }
