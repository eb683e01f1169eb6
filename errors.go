// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package readtest

import (
	"errors"

	"github.com/gogpu/readtest/surface"
)

// Op identifies a benchmark operation.
type Op string

const (
	// OpWrite is the host-to-surface upload benchmark.
	OpWrite Op = "write"

	// OpRead is the surface-to-host download benchmark.
	OpRead Op = "read"
)

// TransferError is the single recoverable error kind. It abandons the
// benchmark for one format; the run continues with the next one.
type TransferError struct {
	// Op is the benchmark that failed.
	Op Op

	// Msg is the human-readable message printed in the report.
	Msg string

	// Err is the underlying cause, if any.
	Err error
}

func (e *TransferError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err ends the whole run rather than one format.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var te *TransferError
	if errors.As(err, &te) {
		return false
	}
	return errors.Is(err, surface.ErrNoDisplay) ||
		errors.Is(err, surface.ErrNoSurface) ||
		errors.Is(err, surface.ErrNoContext) ||
		errors.Is(err, surface.ErrDeviceLost) ||
		errors.Is(err, surface.ErrClosed) ||
		errors.Is(err, ErrInvalidConfig)
}

// transferError classifies a surface failure: fatal errors are returned as
// they are, anything else becomes a TransferError.
func transferError(op Op, msg string, err error) error {
	if errors.Is(err, surface.ErrDeviceLost) || errors.Is(err, surface.ErrClosed) {
		return err
	}
	return &TransferError{Op: op, Msg: msg, Err: err}
}
