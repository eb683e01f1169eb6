// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface defines the drawable and context the transfer benchmarks
// run against, and the registry backends use to make themselves available.
//
// A [Surface] exposes exactly what the benchmark consumes: a clear, a
// tightly packed upload, a blocking barrier, and a strided download.
// Optional capabilities are discovered with type assertions:
//
//   - [StagedReader]: two-step readback through a driver-owned buffer
//   - [LuminanceScaler]: per-channel scales applied during luminance reads
//
// # Backends
//
// Backends register a factory from init:
//
//	func init() {
//	    surface.Register(surface.Backend{Name: "wgpu", Priority: 100, Factory: open})
//	}
//
// [Registry.Open] uses the highest-priority available backend and returns
// its acquisition error unchanged; it never falls back to another one.
// The host-memory backend ([MemorySurface], name "memory") is always
// registered but Explicit, so it runs only when requested by name. It
// performs identity transfers and is what the tests run against.
//
// # Errors
//
// Factories report acquisition failures by wrapping [ErrNoDisplay],
// [ErrNoSurface] or [ErrNoContext]. All three are fatal to a benchmark
// run; so is [ErrDeviceLost] returned mid-run.
package surface
