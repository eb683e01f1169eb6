// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package readtest

import (
	"time"

	"github.com/gogpu/readtest/internal/stats"
	"github.com/gogpu/readtest/pixfmt"
)

// Result is the outcome of one benchmark loop for one format.
type Result struct {
	Format pixfmt.Format
	Op     Op

	// Iterations is the number of timed transfers.
	Iterations int

	// Elapsed is the sum of the per-iteration times.
	Elapsed time.Duration

	// Throughputs in Mpixels/s. MinThroughput comes from the slowest
	// iteration and MaxThroughput from the fastest.
	MeanThroughput float64
	MinThroughput  float64
	MaxThroughput  float64

	// StdDev is the population standard deviation of the per-iteration
	// time in seconds.
	StdDev float64

	// CoreCallFraction is the share of Elapsed spent in the transfer call
	// itself, in [0, 1]. Read benchmarks only.
	CoreCallFraction float64

	// Dirty is set when the surface did not read back as zero after the
	// clear preceding a write benchmark.
	Dirty bool
}

func newResult(f pixfmt.Format, op Op, acc *stats.Accumulator, pixels int, elapsed time.Duration) *Result {
	s := acc.Summarize(pixels)
	return &Result{
		Format:         f,
		Op:             op,
		Iterations:     s.Iterations,
		Elapsed:        elapsed,
		MeanThroughput: s.Mean,
		MinThroughput:  s.Min,
		MaxThroughput:  s.Max,
		StdDev:         s.StdDev,
	}
}
