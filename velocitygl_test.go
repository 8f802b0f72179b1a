// SPDX-License-Identifier: Unlicense OR MIT

package velocitygl

import (
	"errors"
	"testing"

	"github.com/kestrelgl/velocitygl/config"
	"github.com/kestrelgl/velocitygl/internal/egl"
)

// TestInitShutdownRoundTrip exercises the init-mutex-guarded lifecycle
// spec.md §7 requires: a clean not-initialized state before Init,
// normal operation after, and a clean not-initialized state again
// after Shutdown.
func TestInitShutdownRoundTrip(t *testing.T) {
	Shutdown()

	if _, err := GetConfig(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("GetConfig() before Init = %v, want ErrNotInitialized", err)
	}

	cfg := config.RecommendedFor(4)
	if err := Init(cfg); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Shutdown()

	if err := Init(cfg); !errors.Is(err, ErrAlreadyInit) {
		t.Fatalf("second Init = %v, want ErrAlreadyInit", err)
	}

	got, err := GetConfig()
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if got.QualityPreset != cfg.QualityPreset {
		t.Fatalf("GetConfig().QualityPreset = %v, want %v", got.QualityPreset, cfg.QualityPreset)
	}

	Shutdown()
	if _, err := GetConfig(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("GetConfig() after Shutdown = %v, want ErrNotInitialized", err)
	}

	// Shutdown must stay idempotent even when nothing is initialized.
	Shutdown()
}

// TestQueriesRequireContext confirms every query surfaces
// ErrContextMissing (not a panic) when called after Init but before
// CreateContext, per spec.md §7's context-missing taxonomy entry.
func TestQueriesRequireContext(t *testing.T) {
	Shutdown()
	if err := InitDefault(); err != nil {
		t.Fatalf("InitDefault: %v", err)
	}
	defer Shutdown()

	if _, err := GetStats(); !errors.Is(err, ErrContextMissing) {
		t.Fatalf("GetStats() = %v, want ErrContextMissing", err)
	}
	if _, err := GetGPUCaps(); !errors.Is(err, ErrContextMissing) {
		t.Fatalf("GetGPUCaps() = %v, want ErrContextMissing", err)
	}
	if _, _, err := BeginFrame(); !errors.Is(err, ErrContextMissing) {
		t.Fatalf("BeginFrame() = %v, want ErrContextMissing", err)
	}
	if err := EndFrame(); !errors.Is(err, ErrContextMissing) {
		t.Fatalf("EndFrame() = %v, want ErrContextMissing", err)
	}
	if err := MakeCurrent(); !errors.Is(err, ErrContextMissing) {
		t.Fatalf("MakeCurrent() = %v, want ErrContextMissing", err)
	}
}

// TestCreateContextFailsWithoutPlatformEGL documents the stub
// internal/egl behaviour on a GOOS with no native binding (see
// internal/egl/context_stub.go): CreateContext must surface the
// failure as an error and must not leave a half-built context behind.
func TestCreateContextFailsWithoutPlatformEGL(t *testing.T) {
	Shutdown()
	if err := InitDefault(); err != nil {
		t.Fatalf("InitDefault: %v", err)
	}
	defer Shutdown()

	err := CreateContext(egl.NativeDisplayType(0), egl.NativeWindowType(0), nil, 1920, 1080)
	if err == nil {
		t.Fatalf("CreateContext on a GOOS with no EGL binding unexpectedly succeeded")
	}
	if _, qerr := GetGPUCaps(); !errors.Is(qerr, ErrContextMissing) {
		t.Fatalf("GetGPUCaps() after failed CreateContext = %v, want ErrContextMissing", qerr)
	}
}

// TestGetProcAddressBeforeInitReturnsNil confirms the dispatch lookup
// degrades gracefully (nil, logged) rather than panicking when called
// before Init.
func TestGetProcAddressBeforeInitReturnsNil(t *testing.T) {
	Shutdown()
	if got := GetProcAddress("glDrawArrays"); got != nil {
		t.Fatalf("GetProcAddress before Init = %v, want nil", got)
	}
}
