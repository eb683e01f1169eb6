// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package readtest

import (
	"time"

	"github.com/gogpu/readtest/internal/pattern"
	"github.com/gogpu/readtest/internal/stats"
	"github.com/gogpu/readtest/pixfmt"
	"github.com/gogpu/readtest/surface"
)

// Luminance weights installed around luminance readbacks.
const (
	lumRed   = 0.299
	lumGreen = 0.587
	lumBlue  = 0.114
)

// Runner drives the write and read benchmarks against one surface.
//
// A Runner is not safe for concurrent use; transfers are timed one at a
// time on the calling goroutine.
type Runner struct {
	s      surface.Surface
	cfg    Config
	now    func() time.Time
	report *Reporter
}

// NewRunner returns a runner for s. The configuration is validated; its
// Width and Height are informational, the surface size is authoritative.
func NewRunner(s surface.Surface, cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	propagateLogger(s, Logger())
	return &Runner{
		s:      s,
		cfg:    cfg,
		now:    o.now,
		report: NewReporter(o.out),
	}, nil
}

// Config returns the runner configuration.
func (r *Runner) Config() Config { return r.cfg }

// Formats returns the formats Run benchmarks: the single configured format
// if one is selected, otherwise every catalog format the surface supports.
func (r *Runner) Formats() []pixfmt.Format {
	if r.cfg.Format != "" {
		f, _ := pixfmt.Lookup(r.cfg.Format)
		return []pixfmt.Format{f}
	}
	return pixfmt.Supported(pixfmt.HasFunc(r.s.Extensions()))
}

// Run benchmarks every format in Formats. Per-format failures are
// reported and skipped; only fatal errors are returned.
func (r *Runner) Run() error {
	log := Logger()
	r.report.Header(r.s, r.cfg)

	for _, f := range r.Formats() {
		r.report.Banner(f)
		if f.Requires != "" && !surface.Has(r.s, f.Requires) {
			log.Warn("readtest: skipping format", "format", f.Name, "extension", f.Requires)
			r.report.Skip(f.Requires)
			continue
		}

		r.report.BeginWrite()
		res, err := r.WriteBenchmark(f)
		if IsFatal(err) {
			return err
		}
		r.report.Write(res, err)

		for i := 0; i < r.cfg.Loops; i++ {
			r.report.BeginRead()
			res, err := r.ReadBenchmark(f)
			if IsFatal(err) {
				return err
			}
			r.report.Read(res, err)
		}
		r.report.End()
	}
	return nil
}

// done reports whether a benchmark loop may stop.
func (r *Runner) done(elapsed time.Duration, n int) bool {
	return elapsed >= r.cfg.BenchTime && n >= 2
}

// WriteBenchmark measures uploads of a tightly packed pattern image in
// format f. Every upload is followed by a blocking Finish inside the timed
// region.
func (r *Runner) WriteBenchmark(f pixfmt.Format) (*Result, error) {
	log := Logger()
	w, h := r.s.Width(), r.s.Height()

	dirty, err := r.clearCheck()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, pattern.Size(w, h, f.PixelSize, 1))
	pattern.Fill(buf, 0, 0, w, h, f)

	var acc stats.Accumulator
	var elapsed time.Duration
	for n := 0; !r.done(elapsed, n); n++ {
		start := r.now()
		if err := r.s.Upload(buf, f); err != nil {
			return nil, transferError(OpWrite, "upload failed", err)
		}
		if err := r.s.Finish(); err != nil {
			return nil, transferError(OpWrite, "upload did not complete", err)
		}
		d := r.now().Sub(start)
		acc.Fold(d)
		elapsed += d
	}

	res := newResult(f, OpWrite, &acc, w*h, elapsed)
	res.Dirty = dirty
	log.Debug("readtest: write benchmark",
		"format", f.Name, "iterations", res.Iterations, "elapsed", elapsed, "bytes", len(buf))
	return res, nil
}

// clearCheck clears the surface and reports whether it failed to read
// back as zero.
func (r *Runner) clearCheck() (dirty bool, err error) {
	rgb, _ := pixfmt.Lookup("RGB")
	w, h := r.s.Width(), r.s.Height()

	if err := r.s.Clear(); err != nil {
		return false, transferError(OpWrite, "clear failed", err)
	}
	buf := make([]byte, pattern.Size(w, h, rgb.PixelSize, 1))
	if err := r.s.Download(buf, rgb, w*rgb.PixelSize); err != nil {
		return false, transferError(OpWrite, "frame buffer read failed", err)
	}
	return !pattern.IsZero(buf), nil
}

// ReadBenchmark measures downloads of the whole surface in format f into a
// buffer padded to the configured row alignment. The surface must already
// hold the pattern image, as left by WriteBenchmark.
//
// With Config.Staged the transfer goes through a staging buffer and only
// Issue counts as the core call; otherwise the Download itself does.
func (r *Runner) ReadBenchmark(f pixfmt.Format) (*Result, error) {
	log := Logger()
	w, h := r.s.Width(), r.s.Height()
	stride := pattern.RowStride(w, f.PixelSize, r.cfg.Align)

	var staging surface.StagingBuffer
	if r.cfg.Staged {
		sr, ok := r.s.(surface.StagedReader)
		if !ok {
			return nil, &TransferError{Op: OpRead, Msg: "staged readback not supported"}
		}
		sb, err := sr.NewStagingBuffer(f, stride)
		if err != nil {
			return nil, transferError(OpRead, "could not create staging buffer", err)
		}
		defer sb.Release()
		staging = sb
	}

	lum, _ := r.s.(surface.LuminanceScaler)
	if !f.Luminance {
		lum = nil
	}

	buf := make([]byte, stride*h)

	var acc stats.Accumulator
	var elapsed, core time.Duration
	for n := 0; !r.done(elapsed, n); n++ {
		start := r.now()
		if lum != nil {
			lum.PushLuminanceScale(lumRed, lumGreen, lumBlue)
		}
		d, err := r.readOnce(buf, f, stride, staging)
		if lum != nil {
			lum.PopLuminanceScale()
		}
		if err != nil {
			return nil, err
		}
		core += d
		iter := r.now().Sub(start)
		acc.Fold(iter)
		elapsed += iter
	}

	if !pattern.Verify(buf, 0, 0, w, h, f, stride, false) {
		log.Warn("readtest: readback verification failed", "format", f.Name)
		if r.cfg.DumpDir != "" {
			if path, err := dumpReadback(r.cfg.DumpDir, buf, w, h, stride, f); err != nil {
				log.Warn("readtest: dump failed", "err", err)
			} else {
				log.Info("readtest: readback dumped", "path", path)
			}
		}
		return nil, &TransferError{Op: OpRead, Msg: "ERROR: Bogus data read back."}
	}

	res := newResult(f, OpRead, &acc, w*h, elapsed)
	if elapsed > 0 {
		res.CoreCallFraction = float64(core) / float64(elapsed)
	}
	log.Debug("readtest: read benchmark",
		"format", f.Name, "iterations", res.Iterations, "elapsed", elapsed,
		"stride", stride, "staged", staging != nil)
	return res, nil
}

// readOnce performs one readback into buf and returns the time spent in
// the core transfer call.
func (r *Runner) readOnce(buf []byte, f pixfmt.Format, stride int, staging surface.StagingBuffer) (time.Duration, error) {
	if staging == nil {
		start := r.now()
		if err := r.s.Download(buf, f, stride); err != nil {
			return 0, transferError(OpRead, "frame buffer read failed", err)
		}
		return r.now().Sub(start), nil
	}

	start := r.now()
	if err := staging.Issue(); err != nil {
		return 0, transferError(OpRead, "staged read failed", err)
	}
	d := r.now().Sub(start)

	data, err := staging.Map()
	if err != nil {
		return 0, transferError(OpRead, "could not map buffer", err)
	}
	copy(buf, data)
	if err := staging.Unmap(); err != nil {
		return 0, transferError(OpRead, "could not unmap buffer", err)
	}
	return d, nil
}
