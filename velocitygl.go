// SPDX-License-Identifier: Unlicense OR MIT

// Package velocitygl is the public entry surface a host application
// (or a cgo //export shim sitting in front of it) calls into: init/
// shutdown, context lifecycle, the frame loop, and every stats/caps/
// shader-cache query spec.md §6 names. It wires components A-G
// together through exactly one explicit context object per spec.md
// §9 ("explicit context object, not module globals") — this file
// owns only the single init-mutex-guarded "current context" slot the
// same design note allows for a nullary public API, generalizing
// gio's app package-level Main/init-mutex idiom (app/app.go) from "one
// platform window" to "one render context".
package velocitygl

import (
	"errors"
	"log"
	"sync"

	"github.com/kestrelgl/velocitygl/config"
	"github.com/kestrelgl/velocitygl/dispatch"
)

// Error taxonomy, per spec.md §7. Every sentinel here corresponds 1:1
// to a named failure kind; callers compare with errors.Is.
var (
	ErrNotInitialized  = errors.New("velocitygl: not initialized")
	ErrAlreadyInit      = errors.New("velocitygl: already initialized")
	ErrContextMissing   = errors.New("velocitygl: no current context")
	ErrContextExists    = errors.New("velocitygl: context already created")
)

// runtime holds the single current context slot spec.md §9 describes.
// mu guards initialization and the slot itself; it is not held across
// per-frame calls (BeginFrame/EndFrame rely on the caller's single-
// rendering-thread contract, per spec.md §5).
type runtime struct {
	mu       sync.Mutex
	inited   bool
	cfg      config.Config
	ctx      *contextState
	dispatch *dispatch.Table

	errStats ErrorStats
}

// ErrorStats accumulates the warn/error counters the host can poll,
// mirroring gio's io/profile counters pattern (named in SPEC_FULL.md
// §7).
type ErrorStats struct {
	NotInitialized   uint64
	ContextMissing   uint64
	ResourceExhausted uint64
	DeviceErrors     uint64
	Corruption       uint64
	FenceTimeouts    uint64
}

var rt runtime

// Init initializes the library with an explicit config, per spec.md
// §6's `init(config) -> bool`. Idempotent: a second call without an
// intervening Shutdown fails with ErrAlreadyInit and leaves the
// existing state untouched.
func Init(cfg config.Config) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.inited {
		return ErrAlreadyInit
	}
	rt.cfg = cfg
	rt.dispatch = dispatch.New(nil)
	rt.inited = true
	return nil
}

// InitDefault initializes with RecommendedFor(3)'s medium-tier
// defaults, per spec.md §6's `init_default() -> bool`.
func InitDefault() error {
	return Init(config.RecommendedFor(3))
}

// Shutdown tears down any current context and returns the library to
// the clean not-initialized state, per spec.md §7: "Shutdown is
// idempotent and safe after any partial failure." Calling Shutdown
// when not initialized is a no-op, not an error.
func Shutdown() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.inited {
		return
	}
	if rt.ctx != nil {
		rt.ctx.release(rt.cfg)
		rt.ctx = nil
	}
	rt.dispatch = nil
	rt.inited = false
}

// UpdateConfig replaces the live config, per spec.md §6's
// `update_config(config) -> bool`. Subsystem tunables that are fixed
// at construction (pool sizes, batch capacity) are not retroactively
// resized — only the fields that have a live setter (draw
// batching, dynamic resolution, sharpening) take effect immediately;
// the rest, including the scale bounds and the GPU tweaks toggle, apply
// the next time a context is created.
func UpdateConfig(cfg config.Config) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.inited {
		rt.errStats.NotInitialized++
		return ErrNotInitialized
	}
	rt.cfg = cfg
	if rt.ctx != nil {
		rt.ctx.applyLiveConfig(cfg)
	}
	return nil
}

// GetConfig returns the live config, per spec.md §6's
// `get_config() -> config`.
func GetConfig() (config.Config, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.inited {
		rt.errStats.NotInitialized++
		return config.Config{}, ErrNotInitialized
	}
	return rt.cfg, nil
}

// GetErrorStats returns a snapshot of the accumulated warn/error
// counters.
func GetErrorStats() ErrorStats {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.errStats
}

func logNotInitialized(op string) {
	log.Printf("velocitygl: %s called before init or after shutdown", op)
}
