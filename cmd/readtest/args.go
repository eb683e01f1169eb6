// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/gogpu/readtest"
	"github.com/gogpu/readtest/surface"
)

// valueFlags take one trailing argument; every other known flag is a
// switch.
var valueFlags = map[string]bool{
	"width":    true,
	"height":   true,
	"align":    true,
	"visualid": true,
	"time":     true,
	"loop":     true,
	"backend":  true,
	"config":   true,
	"dump":     true,
}

var switchFlags = map[string]bool{
	"window": true,
	"pm":     true,
	"fbo":    true,
	"pbo":    true,
	"alpha":  true,
	"red":    true,
	"rgb":    true,
	"rgba":   true,
	"bgr":    true,
	"bgra":   true,
	"abgr":   true,
	"v":      true,
}

// options is the parsed command line.
type options struct {
	cfg  readtest.Config
	help bool
}

// normalize folds flag names to lower case and drops tokens that are not
// known flags, along with value flags missing their argument. It reports
// whether -h or -? was present.
func normalize(args []string) (out []string, help bool) {
	fold := cases.Fold()
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if !strings.HasPrefix(tok, "-") || len(tok) < 2 {
			continue
		}
		name := fold.String(strings.TrimLeft(tok, "-"))
		switch {
		case name == "h" || name == "?":
			help = true
		case switchFlags[name]:
			out = append(out, "-"+name)
		case valueFlags[name]:
			if i+1 < len(args) {
				out = append(out, "-"+name, args[i+1])
				i++
			}
		}
	}
	return out, help
}

// configPath returns the argument of the last -config flag.
func configPath(args []string) string {
	var path string
	for i := 0; i+1 < len(args); i++ {
		if args[i] == "-config" {
			path = args[i+1]
			i++
		} else if valueFlags[strings.TrimPrefix(args[i], "-")] {
			i++
		}
	}
	return path
}

// parseArgs turns the command line into a configuration. A -config profile
// is applied first and the remaining flags override it. Flag values out of
// range are ignored and the previous setting is kept.
func parseArgs(args []string) (options, error) {
	norm, help := normalize(args)
	opts := options{cfg: readtest.DefaultConfig(), help: help}
	if help {
		return opts, nil
	}
	if path := configPath(norm); path != "" {
		cfg, err := readtest.LoadConfig(path)
		if err != nil {
			return opts, err
		}
		opts.cfg = cfg
	}

	cfg := &opts.cfg
	fs := flag.NewFlagSet("readtest", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	target := func(t surface.Target) func(string) error {
		return func(string) error { cfg.Target = t; return nil }
	}
	fs.BoolFunc("window", "", target(surface.TargetWindow))
	fs.BoolFunc("pm", "", target(surface.TargetPixmap))
	fs.BoolFunc("fbo", "", target(surface.TargetFBO))
	fs.BoolFunc("pbo", "", func(string) error { cfg.Staged = true; return nil })
	fs.BoolFunc("alpha", "", func(string) error { cfg.Alpha = true; return nil })
	fs.BoolFunc("v", "", func(string) error { cfg.Verbose = true; return nil })

	for _, name := range []string{"red", "rgb", "rgba", "bgr", "bgra", "abgr"} {
		format := strings.ToUpper(name)
		fs.BoolFunc(name, "", func(string) error { cfg.Format = format; return nil })
	}

	fs.Func("width", "", positive(&cfg.Width))
	fs.Func("height", "", positive(&cfg.Height))
	fs.Func("align", "", func(s string) error {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 && n&(n-1) == 0 {
			cfg.Align = n
		}
		return nil
	})
	fs.Func("visualid", "", func(s string) error {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
		if n, err := strconv.ParseInt(s, 16, 64); err == nil && n > 0 {
			cfg.VisualID = int(n)
		}
		return nil
	})
	fs.Func("time", "", func(s string) error {
		sec, err := strconv.ParseFloat(s, 64)
		if err != nil || !(sec > 0) || sec*float64(time.Second) >= math.MaxInt64 {
			return nil
		}
		if d := time.Duration(sec * float64(time.Second)); d > 0 {
			cfg.BenchTime = d
		}
		return nil
	})
	fs.Func("loop", "", func(s string) error {
		if n, err := strconv.Atoi(s); err == nil && n > 1 {
			cfg.Loops = n
		}
		return nil
	})
	fs.Func("backend", "", func(s string) error { cfg.Backend = s; return nil })
	fs.Func("dump", "", func(s string) error { cfg.DumpDir = s; return nil })
	fs.Func("config", "", func(string) error { return nil })

	if err := fs.Parse(norm); err != nil {
		return opts, err
	}
	return opts, nil
}

// positive returns a flag setter that stores values >= 1 into dst.
func positive(dst *int) func(string) error {
	return func(s string) error {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			*dst = n
		}
		return nil
	}
}
