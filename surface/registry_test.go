// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
	"testing"
)

func memoryFactory(opts Options) (Surface, error) {
	return NewMemorySurface(opts), nil
}

func failingFactory(sentinel error) Factory {
	return func(Options) (Surface, error) {
		return nil, fmt.Errorf("gpu: %w", sentinel)
	}
}

func TestRegistry_RegisterLookup(t *testing.T) {
	r := NewRegistry()
	r.Register(Backend{Name: "test", Priority: 50, Factory: memoryFactory})

	b, ok := r.Lookup("test")
	if !ok {
		t.Fatal("registered backend not found")
	}
	if b.Name != "test" || b.Priority != 50 || b.Explicit {
		t.Errorf("backend = %+v", b)
	}
	if !b.available() {
		t.Error("nil Available func should mean always available")
	}

	r.Register(Backend{Name: "test", Priority: 5, Factory: memoryFactory})
	if b, _ := r.Lookup("test"); b.Priority != 5 {
		t.Errorf("re-registration kept priority %d, want 5", b.Priority)
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Error("Lookup found an unregistered backend")
	}
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.Register(Backend{Name: "low", Priority: 10, Factory: memoryFactory, Explicit: true})
	r.Register(Backend{Name: "high", Priority: 100, Factory: memoryFactory})
	r.Register(Backend{Name: "mid-b", Priority: 50, Factory: memoryFactory})
	r.Register(Backend{Name: "mid-a", Priority: 50, Factory: memoryFactory})
	r.Register(Backend{Name: "gone", Priority: 200, Factory: memoryFactory, Available: func() bool { return false }})

	want := []string{"high", "mid-a", "mid-b", "low"}
	if got := r.Names(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestRegistry_OpenPicksHighestPriority(t *testing.T) {
	r := NewRegistry()
	var selected string
	r.Register(Backend{Name: "low", Priority: 10, Factory: func(opts Options) (Surface, error) {
		selected = "low"
		return NewMemorySurface(opts), nil
	}})
	r.Register(Backend{Name: "high", Priority: 100, Factory: func(opts Options) (Surface, error) {
		selected = "high"
		return NewMemorySurface(opts), nil
	}})

	s, err := r.Open(Options{Width: 100, Height: 80})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if selected != "high" {
		t.Errorf("selected = %s, want high", selected)
	}
	if s.Width() != 100 || s.Height() != 80 {
		t.Errorf("size = %dx%d, want 100x80", s.Width(), s.Height())
	}
}

func TestRegistry_OpenStopsAtAcquisitionFailure(t *testing.T) {
	for _, sentinel := range []error{ErrNoDisplay, ErrNoSurface, ErrNoContext} {
		t.Run(sentinel.Error(), func(t *testing.T) {
			r := NewRegistry()
			r.Register(Backend{Name: "gpu", Priority: 100, Factory: failingFactory(sentinel)})
			fellBack := false
			r.Register(Backend{Name: "cpu", Priority: 10, Factory: func(opts Options) (Surface, error) {
				fellBack = true
				return NewMemorySurface(opts), nil
			}})

			s, err := r.Open(Options{Target: TargetWindow})
			if !errors.Is(err, sentinel) {
				t.Errorf("Open() error = %v, want %v", err, sentinel)
			}
			if s != nil {
				t.Errorf("Open() returned %T alongside the error", s)
			}
			if fellBack {
				t.Error("lower-priority backend opened after the GPU backend failed")
			}
		})
	}
}

func TestRegistry_OpenSkipsUnavailable(t *testing.T) {
	r := NewRegistry()
	r.Register(Backend{Name: "gpu", Priority: 100, Factory: failingFactory(ErrNoDisplay),
		Available: func() bool { return false }})
	r.Register(Backend{Name: "other", Priority: 50, Factory: memoryFactory})

	s, err := r.Open(Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Close()
}

func TestRegistry_OpenNeverPicksExplicit(t *testing.T) {
	r := NewRegistry()
	r.Register(Backend{Name: MemoryBackend, Priority: 10, Factory: memoryFactory, Explicit: true})

	if _, err := r.Open(Options{}); !errors.Is(err, ErrNoBackendAvailable) {
		t.Errorf("Open() error = %v, want ErrNoBackendAvailable", err)
	}
	s, err := r.OpenByName(MemoryBackend, Options{})
	if err != nil {
		t.Fatalf("OpenByName: %v", err)
	}
	s.Close()
}

func TestRegistry_OpenByNameNormalizesOptions(t *testing.T) {
	r := NewRegistry()
	var got Options
	r.Register(Backend{Name: "spy", Priority: 1, Factory: func(opts Options) (Surface, error) {
		got = opts
		return NewMemorySurface(opts), nil
	}})

	if _, err := r.OpenByName("spy", Options{Target: TargetFBO}); err != nil {
		t.Fatal(err)
	}
	if got.Width != DefaultWidth || got.Height != DefaultHeight || got.Target != TargetFBO {
		t.Errorf("factory saw %+v, want defaults with FBO target", got)
	}
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Open(Options{}); !errors.Is(err, ErrNoBackendAvailable) {
		t.Errorf("empty registry: err = %v, want ErrNoBackendAvailable", err)
	}

	_, err := r.OpenByName("vulkan", Options{})
	var notFound *BackendNotFoundError
	if !errors.As(err, &notFound) || notFound.Name != "vulkan" {
		t.Errorf("unknown backend: err = %v, want BackendNotFoundError{vulkan}", err)
	}

	r.Register(Backend{Name: "off", Priority: 1, Factory: memoryFactory, Available: func() bool { return false }})
	_, err = r.OpenByName("off", Options{})
	var unavailable *BackendUnavailableError
	if !errors.As(err, &unavailable) {
		t.Errorf("unavailable backend: err = %v, want BackendUnavailableError", err)
	}

	r.Register(Backend{Name: "ctx", Priority: 1, Factory: failingFactory(ErrNoContext)})
	_, err = r.OpenByName("ctx", Options{})
	if !errors.Is(err, ErrNoContext) || errors.Is(err, ErrNoSurface) {
		t.Errorf("context failure: err = %v, want only ErrNoContext", err)
	}
}

func TestRegistry_ErrorMessages(t *testing.T) {
	if msg := (&BackendNotFoundError{Name: "vulkan"}).Error(); msg != "surface: backend not found: vulkan" {
		t.Errorf("BackendNotFoundError = %q", msg)
	}
	if msg := (&BackendUnavailableError{Name: "metal"}).Error(); msg != "surface: backend unavailable: metal" {
		t.Errorf("BackendUnavailableError = %q", msg)
	}
}

func TestDefaultRegistry_MemoryIsExplicit(t *testing.T) {
	b, ok := Default().Lookup(MemoryBackend)
	if !ok {
		t.Fatalf("%q backend not registered", MemoryBackend)
	}
	if !b.Explicit || b.Priority != 10 {
		t.Errorf("memory backend = %+v, want explicit with priority 10", b)
	}

	s, err := Default().OpenByName(MemoryBackend, Options{Width: 32, Height: 16})
	if err != nil {
		t.Fatalf("OpenByName: %v", err)
	}
	defer s.Close()
	if s.Width() != 32 || s.Height() != 16 {
		t.Errorf("size = %dx%d, want 32x16", s.Width(), s.Height())
	}
}
