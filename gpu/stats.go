// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"github.com/kestrelgl/velocitygl/batch"
	glbackend "github.com/kestrelgl/velocitygl/gpu/gl"
	"github.com/kestrelgl/velocitygl/shadercache"
)

// Stats is get_stats()'s return value: the live counters spec.md §8's
// boundary scenarios check, pulled from every component that keeps
// one rather than duplicated here.
type Stats struct {
	State  glbackend.Stats
	Batch  batch.Stats
	Shader shadercache.Stats

	VertexPoolFreeBytes int
	IndexPoolFreeBytes  int
	TexturePoolFreeBytes int

	ScaleChanges uint64
	Scale        float32
}

// Stats snapshots every component's live counters.
func (c *Context) Stats() Stats {
	return Stats{
		State:                c.Backend.State.Stats(),
		Batch:                c.Batch.Stats(),
		Shader:               c.Shaders.Stats(),
		VertexPoolFreeBytes:  c.VertexPool.FreeBytes(),
		IndexPoolFreeBytes:   c.IndexPool.FreeBytes(),
		TexturePoolFreeBytes: c.Textures.FreeBytes(),
		ScaleChanges:         c.Scaler.ScaleChanges(),
		Scale:                c.Scaler.Scale(),
	}
}

// ResetStats zeroes every component's live counters, for reset_stats
// per spec.md §6.
func (c *Context) ResetStats() {
	c.Backend.State.ResetStats()
	c.Batch.ResetStats()
	c.Shaders.ResetStats()
}

// MemoryUsage reports the bytes currently committed across the buffer
// and texture pools, for get_memory_usage per spec.md §6.
func (c *Context) MemoryUsage() int64 {
	vertexUsed := c.VertexPool.CapBytes() - c.VertexPool.FreeBytes()
	indexUsed := c.IndexPool.CapBytes() - c.IndexPool.FreeBytes()
	texUsed := c.Textures.CapBytes() - c.Textures.FreeBytes()
	return int64(vertexUsed + indexUsed + texUsed)
}

// TrimMemory implements spec.md §6's trim levels: 0 trims buffer
// pools (a no-op beyond reporting today, since the pool has no
// "shrink" operation — only alloc/free — so there is nothing to
// release without breaking live allocations); 1 additionally halves
// the texture pool's budget; 2 additionally clears the shader cache;
// level 3 and above additionally clears the texture pool down to
// zero.
func (c *Context) TrimMemory(level int) {
	if level >= 1 {
		c.Textures.Trim(c.Textures.CapBytes() / 2)
	}
	if level >= 2 {
		c.Shaders.Clear()
	}
	if level >= 3 {
		c.Textures.Trim(0)
	}
}
