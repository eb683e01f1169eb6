// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package readtest

import (
	"fmt"
	"io"

	"github.com/gogpu/readtest/internal/sigfig"
	"github.com/gogpu/readtest/pixfmt"
	"github.com/gogpu/readtest/surface"
)

// Digits is the number of significant digits in every reported figure.
const Digits = 4

// Row labels. The result or the error follows on the same line.
const (
	writeLabel = "Upload:     "
	readLabel  = "Download:   "
)

// Reporter writes the human-readable benchmark report.
// Write errors on the underlying writer are ignored.
type Reporter struct {
	w io.Writer
}

// NewReporter returns a reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

func (p *Reporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format, args...)
}

// Header prints the readback mode, the drawable size and the alignment.
func (p *Reporter) Header(s surface.Surface, cfg Config) {
	if cfg.Staged {
		p.printf("Using staged buffers for readback\n")
	}
	p.printf("%s size = %d x %d pixels\n", s.Target(), s.Width(), s.Height())
	p.printf("Using %d-byte row alignment\n\n", cfg.Align)
}

// Banner opens the section of one format.
func (p *Reporter) Banner(f pixfmt.Format) {
	p.printf(">>>>>>>>>>  PIXEL FORMAT:  %s  <<<<<<<<<<\n", f.Name)
}

// Skip reports a format whose extension is missing.
func (p *Reporter) Skip(ext pixfmt.Extension) {
	p.printf("%s extension not available.  Skipping ...\n\n", ext)
}

// BeginWrite prints the write row label.
func (p *Reporter) BeginWrite() { p.printf(writeLabel) }

// BeginRead prints the read row label.
func (p *Reporter) BeginRead() { p.printf(readLabel) }

// Write completes the write row.
func (p *Reporter) Write(res *Result, err error) {
	if err != nil {
		p.printf("%v\n", err)
		return
	}
	if res.Dirty {
		p.printf("Buffer was not cleared\n%s", writeLabel)
	}
	p.printf("%s Mpixels/sec\n", sigfig.Format(res.MeanThroughput, Digits))
}

// Read completes a read row and prints the core call share.
func (p *Reporter) Read(res *Result, err error) {
	if err != nil {
		p.printf("%v\n", err)
		return
	}
	p.printf("%s Mpixels/sec (min = %s, max = %s, sdev = %s ms)\n",
		sigfig.Format(res.MeanThroughput, Digits),
		sigfig.Format(res.MinThroughput, Digits),
		sigfig.Format(res.MaxThroughput, Digits),
		sigfig.Format(res.StdDev*1000, Digits))
	p.printf("Readback transfer accounted for %s%% of total readback time\n",
		sigfig.Format(res.CoreCallFraction*100, Digits))
}

// End closes the section of one format.
func (p *Reporter) End() { p.printf("\n") }
