// SPDX-License-Identifier: Unlicense OR MIT

package velocitygl

import (
	"fmt"
	"log"
	"strings"

	"github.com/kestrelgl/velocitygl/config"
	"github.com/kestrelgl/velocitygl/gpu"
	"github.com/kestrelgl/velocitygl/gpuid"
	"github.com/kestrelgl/velocitygl/internal/egl"
	glc "github.com/kestrelgl/velocitygl/internal/gl"
)

// contextState pairs the platform window/surface handle with the full
// component A-G graph gpu.Context owns. Exactly one exists at a time,
// held in rt.ctx.
type contextState struct {
	egl *egl.Context
	gpu *gpu.Context
}

// CreateContext acquires the platform window/surface (via
// internal/egl, spec.md §1's "consumed, not specified" collaborator),
// makes it current, queries the driver's identity strings and limits,
// and builds the full component graph behind it. funcs is the
// caller-supplied GLES3 function table bound to the real driver;
// loading it onto the native ABI is the same cgo //export shim's job
// that SPEC_FULL.md §0 assigns the entry-point registration to — this
// package only consumes the table, per spec.md §6's `create_context`.
func CreateContext(display egl.NativeDisplayType, window egl.NativeWindowType, funcs glc.Functions, nativeWidth, nativeHeight int) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.inited {
		rt.errStats.NotInitialized++
		return ErrNotInitialized
	}
	if rt.ctx != nil {
		return ErrContextExists
	}

	ec, err := egl.NewContext(display)
	if err != nil {
		return fmt.Errorf("velocitygl: create context: %w", err)
	}
	if err := ec.CreateSurface(window); err != nil {
		ec.Release()
		return fmt.Errorf("velocitygl: create surface: %w", err)
	}
	if err := ec.MakeCurrent(); err != nil {
		ec.Release()
		return fmt.Errorf("velocitygl: make current: %w", err)
	}
	// Disable driver-level vsync blocking so the scaler's FramePacer
	// measures actual submit-to-present latency rather than a number
	// padded by the display's refresh cadence.
	if err := ec.SetSwapInterval(0); err != nil {
		ec.ReleaseCurrent()
		ec.Release()
		return fmt.Errorf("velocitygl: set swap interval: %w", err)
	}
	if exts := ec.Extensions(); len(exts) > 0 {
		log.Printf("velocitygl: EGL extensions: %s", strings.Join(exts, " "))
	}

	vendorStr := funcs.GetString(glc.VENDOR)
	rendererStr := funcs.GetString(glc.RENDERER)
	versionStr := funcs.GetString(glc.VERSION)
	extensions := strings.Split(funcs.GetString(glc.EXTENSIONS), " ")
	limits := gpuid.Limits{
		MaxTextureSize:     funcs.GetInteger(glc.MAX_TEXTURE_SIZE),
		MaxAnisotropy:      funcs.GetFloat(glc.MAX_TEXTURE_MAX_ANISOTROPY_EXT),
		ProgramBinaryCount: funcs.GetInteger(glc.NUM_PROGRAM_BINARY_FORMATS),
	}

	gc, err := gpu.New(gpu.NewParams{
		Funcs:        funcs,
		NativeWidth:  nativeWidth,
		NativeHeight: nativeHeight,
		VendorStr:    vendorStr,
		RendererStr:  rendererStr,
		VersionStr:   versionStr,
		Limits:       limits,
		Extensions:   extensions,
		Config:       rt.cfg,
	})
	if err != nil {
		ec.ReleaseCurrent()
		ec.Release()
		return fmt.Errorf("velocitygl: gpu.New: %w", err)
	}

	rt.ctx = &contextState{egl: ec, gpu: gc}
	return nil
}

// DestroyContext releases the current context's GPU and platform
// resources, per spec.md §6's `destroy_context()`. A missing context
// is a no-op, matching the idempotent-teardown requirement in
// spec.md §7.
func DestroyContext() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.ctx == nil {
		return
	}
	rt.ctx.release(rt.cfg)
	rt.ctx = nil
}

func (c *contextState) release(cfg config.Config) {
	if cfg.ShaderCachePath != "" && (cfg.ShaderCacheMode == config.ShaderCacheDisk || cfg.ShaderCacheMode == config.ShaderCacheAggressive) {
		c.gpu.Shaders.Save(cfg.ShaderCachePath)
	}
	c.gpu.Release()
	c.egl.ReleaseCurrent()
	c.egl.Release()
}

// MakeCurrent rebinds the current context to the calling thread, per
// spec.md §6's `make_current()`, and invalidates the pipeline mirror
// per spec.md §3's make-current lifecycle note: the device's real
// state may have drifted on another thread since the last bind.
func MakeCurrent() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.inited {
		rt.errStats.NotInitialized++
		return ErrNotInitialized
	}
	if rt.ctx == nil {
		rt.errStats.ContextMissing++
		return ErrContextMissing
	}
	if err := rt.ctx.egl.MakeCurrent(); err != nil {
		return fmt.Errorf("velocitygl: make current: %w", err)
	}
	rt.ctx.gpu.Backend.State.Invalidate()
	return nil
}

// SwapBuffers presents the frame, per spec.md §6's `swap_buffers()`.
func SwapBuffers() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.inited {
		rt.errStats.NotInitialized++
		return ErrNotInitialized
	}
	if rt.ctx == nil {
		rt.errStats.ContextMissing++
		return ErrContextMissing
	}
	if err := rt.ctx.egl.SwapBuffers(); err != nil {
		return fmt.Errorf("velocitygl: swap buffers: %w", err)
	}
	return nil
}

// BeginFrame arms the streaming ring, the batcher's queue and the
// scaler's off-screen target, per spec.md §2's frame lifecycle, and
// returns the render target's current dimensions.
func BeginFrame() (renderW, renderH int, err error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.inited {
		rt.errStats.NotInitialized++
		return 0, 0, ErrNotInitialized
	}
	if rt.ctx == nil {
		rt.errStats.ContextMissing++
		return 0, 0, ErrContextMissing
	}
	w, h := rt.ctx.gpu.BeginFrame()
	return w, h, nil
}

// EndFrame flushes the batcher, composites the scaler's upscale pass,
// and inserts the streaming ring's fence, per spec.md §2.
func EndFrame() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.inited {
		rt.errStats.NotInitialized++
		return ErrNotInitialized
	}
	if rt.ctx == nil {
		rt.errStats.ContextMissing++
		return ErrContextMissing
	}
	rt.ctx.gpu.EndFrame()
	return nil
}

// applyLiveConfig pushes the subset of Config that has a live setter
// on an already-constructed component graph. Pool/cache/batch
// capacities are fixed at gpu.New time; resizing them mid-context is
// out of scope, matching spec.md §1's non-goal list (no behaviour
// named there is re-added here).
func (c *contextState) applyLiveConfig(cfg config.Config) {
	c.gpu.Batch.SetEnabled(cfg.DrawBatchingEnabled)
	c.gpu.Scaler.SetEnabled(cfg.DynamicResolutionEnabled)
	c.gpu.Scaler.SetSharpening(cfg.SharpeningEnabled, cfg.SharpeningAmount)
}
