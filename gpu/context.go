// SPDX-License-Identifier: Unlicense OR MIT

// Package gpu is the per-context orchestrator spec.md §2 describes:
// it threads components A-G (device identity, pipeline mirror, buffer
// pool, shader cache, draw batcher, resolution scaler, dispatch) into
// one Context and drives the begin_frame/end_frame lifecycle spec.md
// §2 lays out: "begin_frame arms C's ring, E's queue, and F's
// off-screen target; interior calls mutate via B and enqueue via E;
// end_frame flushes E, composites through F, inserts a fence into C,
// and presents." Grounded on gio's gpu package (backend.go's Backend
// struct threading caches/state together, caches.go's frame-epoch
// sweep) generalized from gio's draw-op interpreter to this library's
// fixed A-G component set.
package gpu

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/kestrelgl/velocitygl/batch"
	"github.com/kestrelgl/velocitygl/bufferpool"
	"github.com/kestrelgl/velocitygl/config"
	glbackend "github.com/kestrelgl/velocitygl/gpu/gl"
	glc "github.com/kestrelgl/velocitygl/internal/gl"
	"github.com/kestrelgl/velocitygl/gpuid"
	"github.com/kestrelgl/velocitygl/scaler"
	"github.com/kestrelgl/velocitygl/shadercache"
)

// uniformRegionSize bounds one streaming-ring region for per-frame
// uniform data; the ring totals 3x this.
const uniformRegionSize = 1 << 20

// NewParams bundles everything New needs to probe and size the
// device-bound subsystems. Funcs, the vendor/renderer/version strings
// and Limits/Extensions are exactly what the host queries right after
// make_current, per spec.md §3's device-identity lifecycle ("created
// at context make-current").
type NewParams struct {
	Funcs glc.Functions

	NativeWidth, NativeHeight int

	VendorStr, RendererStr, VersionStr string
	Limits                            gpuid.Limits
	Extensions                        []string

	Config config.Config
}

// Context is one GL context's worth of state: the concrete backend,
// the device identity, and every component the frame lifecycle needs.
// Per spec.md §9 "explicit context object, not module globals", the
// root velocitygl package owns exactly one of these at a time and
// threads it through every public call rather than reaching for a
// package-level singleton here.
type Context struct {
	Identity gpuid.Identity
	Tweaks   gpuid.VendorTweaks
	Config   config.Config

	Backend *glbackend.Backend

	VertexPool  *bufferpool.Pool
	IndexPool   *bufferpool.Pool
	UniformRing *bufferpool.Ring
	Textures    *bufferpool.TexturePool

	Shaders *shadercache.Cache
	Batch   *batch.Batcher
	Scaler  *scaler.Scaler
	Pacer   *scaler.FramePacer

	nativeW, nativeH int
}

// New probes the driver via p.Funcs, classifies the device, and builds
// every A-G component sized from p.Config, in the leaf-first dependency
// order spec.md §2's component table fixes (A, then B, then C/D/E/F,
// with G left to the caller — dispatch is wired at the root package,
// not here, since it resolves entry points rather than rendering).
func New(p NewParams) (*Context, error) {
	backend, err := glbackend.NewBackend(p.Funcs)
	if err != nil {
		return nil, fmt.Errorf("gpu: new backend: %w", err)
	}

	id := gpuid.Identify(p.VendorStr, p.RendererStr, p.VersionStr, p.Limits, p.Extensions)
	var tweaks gpuid.VendorTweaks
	if p.Config.GPUSpecificTweaksEnabled {
		tweaks = gpuid.TweaksFor(id)
	}

	halfBufBytes := p.Config.BufferPoolMB << 19 // (MB<<20)/2 split between vertex and index
	if halfBufBytes <= 0 {
		halfBufBytes = 1 << 19
	}
	vpool, err := bufferpool.New(backend.RawFuncs(), glc.ARRAY_BUFFER, glc.DYNAMIC_DRAW, halfBufBytes, p.Config.PersistentMapping)
	if err != nil {
		return nil, fmt.Errorf("gpu: new vertex pool: %w", err)
	}
	ipool, err := bufferpool.New(backend.RawFuncs(), glc.ELEMENT_ARRAY_BUFFER, glc.DYNAMIC_DRAW, halfBufBytes, p.Config.PersistentMapping)
	if err != nil {
		vpool.Release()
		return nil, fmt.Errorf("gpu: new index pool: %w", err)
	}
	uring := bufferpool.NewRing(backend.RawFuncs(), glc.UNIFORM_BUFFER, uniformRegionSize)
	texPool := bufferpool.NewTexturePool(backend.RawFuncs(), p.Config.TexturePoolMB)

	vendorHash := uint32(xxhash.Sum64String(p.VendorStr))
	driverHash := uint32(xxhash.Sum64String(p.VersionStr))
	shaders := shadercache.New(backend.RawFuncs(), p.Config.ShaderCacheMaxBytes, p.Config.ShaderCacheMaxEntries, vendorHash, driverHash)
	if p.Config.ShaderCacheMode == config.ShaderCacheDisk || p.Config.ShaderCacheMode == config.ShaderCacheAggressive {
		if p.Config.ShaderCachePath != "" {
			shaders.Load(p.Config.ShaderCachePath)
		}
	}

	maxBatch := p.Config.MaxBatchSize
	if maxBatch <= 0 {
		maxBatch = 1024
	}
	batcher := batch.New(backend, maxBatch)
	batcher.SetEnabled(p.Config.DrawBatchingEnabled)
	if p.Config.MinBatchSize > 0 {
		batcher.SetMinBatchSize(p.Config.MinBatchSize)
	}

	sc, err := scaler.New(backend, p.NativeWidth, p.NativeHeight, scaler.Config{
		Enabled:           p.Config.DynamicResolutionEnabled,
		MinScale:          p.Config.MinScale,
		MaxScale:          p.Config.MaxScale,
		TargetFPS:         p.Config.TargetFPS,
		SharpeningEnabled: p.Config.SharpeningEnabled,
		SharpeningAmount:  p.Config.SharpeningAmount,
	})
	if err != nil {
		vpool.Release()
		ipool.Release()
		uring.Release()
		return nil, fmt.Errorf("gpu: new scaler: %w", err)
	}

	c := &Context{
		Identity:    id,
		Tweaks:      tweaks,
		Config:      p.Config,
		Backend:     backend,
		VertexPool:  vpool,
		IndexPool:   ipool,
		UniformRing: uring,
		Textures:    texPool,
		Shaders:     shaders,
		Batch:       batcher,
		Scaler:      sc,
		nativeW:     p.NativeWidth,
		nativeH:     p.NativeHeight,
	}
	c.Pacer = scaler.NewFramePacer(sc)
	return c, nil
}

// BeginFrame arms the streaming ring's next region, resets the
// batcher's queue, and reports the dimensions the caller should render
// at — the scaler's off-screen size if dynamic resolution is enabled,
// native otherwise — per spec.md §2's "begin_frame arms C's ring, E's
// queue, and F's off-screen target".
func (c *Context) BeginFrame() (renderW, renderH int) {
	c.UniformRing.BeginFrame()
	c.Batch.BeginFrame()
	return c.Scaler.BeginFrame()
}

// EndFrame flushes the batcher, composites the scaler's off-screen
// target onto the default framebuffer, inserts the streaming ring's
// fence, and marks the pacer's submit point — per spec.md §2's
// "end_frame flushes E, composites through F, inserts a fence into C,
// and presents" (presentation itself, the actual buffer swap, is the
// root package's SwapBuffers, since it belongs to the platform context
// shim, not this orchestrator).
func (c *Context) EndFrame() {
	c.Batch.EndFrame()
	c.Scaler.EndFrame()
	c.UniformRing.EndFrame()
	c.Pacer.MarkSubmit()
}

// Release tears down every owned subsystem in reverse construction
// order, per spec.md §3's render-target/buffer lifecycle ("destroyed
// with the context").
func (c *Context) Release() {
	c.Scaler.Release()
	c.Textures.Trim(0)
	c.UniformRing.Release()
	c.IndexPool.Release()
	c.VertexPool.Release()
}
