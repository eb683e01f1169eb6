// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package readtest

import (
	"io"
	"os"
	"time"
)

// Option configures a Runner during creation.
//
// Example:
//
//	// Report to stdout instead of stderr
//	r, err := readtest.NewRunner(s, cfg, readtest.WithOutput(os.Stdout))
type Option func(*runnerOptions)

type runnerOptions struct {
	out io.Writer
	now func() time.Time
}

func defaultOptions() runnerOptions {
	return runnerOptions{
		out: os.Stderr,
		now: time.Now,
	}
}

// WithOutput sets the writer the report goes to. The default is os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(o *runnerOptions) {
		if w != nil {
			o.out = w
		}
	}
}

// WithClock replaces the clock used to time transfers. The clock must be
// monotonic; time.Now is the default.
func WithClock(now func() time.Time) Option {
	return func(o *runnerOptions) {
		if now != nil {
			o.now = now
		}
	}
}
