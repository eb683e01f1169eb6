// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package slogutil holds the silent-by-default logger shared by readtest
// and its backends.
package slogutil

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var nop = slog.New(nopHandler{})

// Nop returns a logger that discards everything.
func Nop() *slog.Logger { return nop }

// Holder stores a logger for concurrent use. The zero value holds the
// silent logger.
type Holder struct {
	p atomic.Pointer[slog.Logger]
}

// Load returns the stored logger, or the silent logger if none was stored.
func (h *Holder) Load() *slog.Logger {
	if l := h.p.Load(); l != nil {
		return l
	}
	return nop
}

// Store replaces the logger. Nil restores the silent logger.
func (h *Holder) Store(l *slog.Logger) {
	if l == nil {
		l = nop
	}
	h.p.Store(l)
}
