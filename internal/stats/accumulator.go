// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package stats keeps running statistics over per-iteration timings.
package stats

import (
	"math"
	"time"
)

// Accumulator folds a stream of durations into count, sum, sum of squares,
// minimum and maximum, all in seconds. The zero value is ready to use.
//
// The derived statistics are defined only after at least one Fold; with no
// samples they return 0.
type Accumulator struct {
	n     int
	sum   float64
	sumSq float64
	min   float64
	max   float64
}

// Reset discards all folded samples.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}

// Fold adds one sample.
func (a *Accumulator) Fold(d time.Duration) {
	a.FoldSeconds(d.Seconds())
}

// FoldSeconds adds one sample expressed in seconds.
func (a *Accumulator) FoldSeconds(s float64) {
	if a.n == 0 {
		a.min, a.max = s, s
	} else {
		a.min = math.Min(a.min, s)
		a.max = math.Max(a.max, s)
	}
	a.n++
	a.sum += s
	a.sumSq += s * s
}

// Count returns the number of folded samples.
func (a *Accumulator) Count() int { return a.n }

// Sum returns the total of all samples in seconds.
func (a *Accumulator) Sum() float64 { return a.sum }

// Min returns the smallest sample in seconds.
func (a *Accumulator) Min() float64 { return a.min }

// Max returns the largest sample in seconds.
func (a *Accumulator) Max() float64 { return a.max }

// Mean returns sum/n.
func (a *Accumulator) Mean() float64 {
	if a.n == 0 {
		return 0
	}
	return a.sum / float64(a.n)
}

// StdDev returns the population standard deviation sqrt(sumSq/n - mean²).
// Identical samples yield exactly 0; rounding residue below zero is
// clamped.
func (a *Accumulator) StdDev() float64 {
	if a.n == 0 || a.min == a.max {
		return 0
	}
	mean := a.Mean()
	v := a.sumSq/float64(a.n) - mean*mean
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

// Throughput converts a per-iteration duration in seconds into millions of
// pixels per second. A non-positive duration yields +Inf.
func Throughput(pixels int, seconds float64) float64 {
	if seconds <= 0 {
		return math.Inf(1)
	}
	return float64(pixels) / (1e6 * seconds)
}

// Summary is the throughput view of an Accumulator.
type Summary struct {
	// Iterations is the number of folded samples.
	Iterations int

	// Mean, Min and Max are in Mpixels/s. Min comes from the slowest
	// iteration and Max from the fastest.
	Mean, Min, Max float64

	// StdDev is the population standard deviation of the iteration time
	// in seconds.
	StdDev float64
}

// Summarize derives throughput figures for pixels moved per iteration.
func (a *Accumulator) Summarize(pixels int) Summary {
	return Summary{
		Iterations: a.n,
		Mean:       Throughput(pixels, a.Mean()),
		Min:        Throughput(pixels, a.max),
		Max:        Throughput(pixels, a.min),
		StdDev:     a.StdDev(),
	}
}
