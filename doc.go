// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package readtest measures pixel transfer throughput between host memory
// and a GPU drawable.
//
// # Overview
//
// For every pixel format the drawable supports, a [Runner] uploads a
// deterministic pattern image until a minimum time has passed, then reads
// the drawable back the same way and checks the result against the
// pattern. Each iteration is timed on its own, so the report carries the
// mean, minimum and maximum throughput, the spread of the iteration time,
// and the share of readback time spent in the transfer call itself.
//
// # Quick Start
//
//	cfg := readtest.DefaultConfig()
//	s, err := surface.Default().Open(cfg.SurfaceOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	r, err := readtest.NewRunner(s, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := r.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Errors
//
// Failures inside one format's benchmark are [TransferError] values; Run
// prints them and moves on to the next format. Losing the device or the
// surface ends the run; see [IsFatal].
//
// # Logging
//
// Diagnostics go through [log/slog] and are silent by default; see
// [SetLogger]. The benchmark report itself is always written to the
// runner's output.
package readtest

// Version is the current version of readtest.
const Version = "0.1.0"
