// SPDX-License-Identifier: Unlicense OR MIT

package velocitygl

import "log"

// ShaderSource names one vertex+fragment pair for PreloadShaders, with
// the vertex-attrib binding order CompileProgram needs to link it.
type ShaderSource struct {
	Vertex, Fragment string
	Attribs          []string
}

// PreloadShaders compiles and links every pair that isn't already
// cached, per spec.md §6's `preload_shaders()`: warming the cache
// ahead of the first frame that would otherwise pay a cold compile.
// A pair that fails to compile is logged and skipped — shader link
// failure is never fatal, per spec.md §7.
func PreloadShaders(pairs []ShaderSource) error {
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
	for _, p := range pairs {
		if _, err := rt.ctx.gpu.CompileProgram(p.Vertex, p.Fragment, p.Attribs); err != nil {
			log.Printf("velocitygl: preload_shaders: %v", err)
			rt.errStats.DeviceErrors++
			continue
		}
	}
	return nil
}

// ClearShaderCache drops every in-memory cache entry, per spec.md §6's
// `clear_shader_cache()`.
func ClearShaderCache() error {
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
	rt.ctx.gpu.Shaders.Clear()
	return nil
}

// GetShaderCacheSize reports the in-memory cache's current byte
// total, per spec.md §6's `get_shader_cache_size() -> bytes`.
func GetShaderCacheSize() (int64, error) {
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
	return rt.ctx.gpu.Shaders.Size(), nil
}

// FlushShaderCache persists the in-memory cache to disk at the
// configured ShaderCachePath, per spec.md §6's `flush_shader_cache()`.
// A disabled or unset path is a no-op, not an error: the cache mode
// and path are the caller's own config decisions.
func FlushShaderCache() error {
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
	if rt.cfg.ShaderCachePath == "" {
		return nil
	}
	rt.ctx.gpu.Shaders.Save(rt.cfg.ShaderCachePath)
	return nil
}
