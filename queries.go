// SPDX-License-Identifier: Unlicense OR MIT

package velocitygl

import (
	"github.com/kestrelgl/velocitygl/gpu"
)

// GetStats returns the live counters spec.md §6's `get_stats()`
// names, pulled from every component rather than duplicated here.
func GetStats() (gpu.Stats, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.inited {
		rt.errStats.NotInitialized++
		return gpu.Stats{}, ErrNotInitialized
	}
	if rt.ctx == nil {
		rt.errStats.ContextMissing++
		return gpu.Stats{}, ErrContextMissing
	}
	return rt.ctx.gpu.Stats(), nil
}

// ResetStats zeroes every component's live counters, per spec.md §6's
// `reset_stats()`.
func ResetStats() error {
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
	rt.ctx.gpu.ResetStats()
	return nil
}

// GetGPUCaps returns the device identity and version masquerade, per
// spec.md §6's `get_gpu_caps() -> caps`.
func GetGPUCaps() (gpu.Caps, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.inited {
		rt.errStats.NotInitialized++
		return gpu.Caps{}, ErrNotInitialized
	}
	if rt.ctx == nil {
		rt.errStats.ContextMissing++
		return gpu.Caps{}, ErrContextMissing
	}
	return rt.ctx.gpu.Caps(), nil
}

// GetResolutionScale returns the scaler's current scale factor, per
// spec.md §6's `get_resolution_scale() -> float`.
func GetResolutionScale() (float32, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.inited {
		rt.errStats.NotInitialized++
		return 0, ErrNotInitialized
	}
	if rt.ctx == nil {
		rt.errStats.ContextMissing++
		return 0, ErrContextMissing
	}
	return rt.ctx.gpu.Scaler.Scale(), nil
}

// SetResolutionScale overrides the scaler's current scale, per
// spec.md §6's `set_resolution_scale(float)`. The scaler still clamps
// to [min_scale, max_scale] and re-evens the resulting dimensions.
func SetResolutionScale(scale float32) error {
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
	return rt.ctx.gpu.Scaler.SetScale(scale)
}

// SetDynamicResolution toggles the scaler's adaptive feedback loop,
// per spec.md §6's `set_dynamic_resolution(bool)`. Disabling it
// freezes the scale at its current value rather than resetting to
// 1.0, so the caller's last explicit SetResolutionScale still holds.
func SetDynamicResolution(enabled bool) error {
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
	rt.ctx.gpu.Scaler.SetEnabled(enabled)
	return nil
}

// TrimMemory implements spec.md §6's `trim_memory(level)`, levels
// 0..3 as described in gpu.Context.TrimMemory.
func TrimMemory(level int) error {
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
	rt.ctx.gpu.TrimMemory(level)
	return nil
}

// GetMemoryUsage returns the bytes currently committed across the
// buffer and texture pools, per spec.md §6's
// `get_memory_usage() -> bytes`.
func GetMemoryUsage() (int64, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.inited {
		rt.errStats.NotInitialized++
		return 0, ErrNotInitialized
	}
	if rt.ctx == nil {
		rt.errStats.ContextMissing++
		return 0, ErrContextMissing
	}
	return rt.ctx.gpu.MemoryUsage(), nil
}
