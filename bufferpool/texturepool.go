// SPDX-License-Identifier: Unlicense OR MIT

package bufferpool

import (
	"log"
	"sync"

	glc "github.com/kestrelgl/velocitygl/internal/gl"
)

// TextureDevice is the subset of the raw GL function table TexturePool
// needs to create and destroy texture storage.
type TextureDevice interface {
	CreateTexture() glc.Texture
	DeleteTexture(t glc.Texture)
}

// TexturePool is the buffer pool's sibling for texture memory: per
// native/src/texture/texture_compress.c and async_loader.c (see
// DESIGN.md), texture storage sub-allocation reuses the identical
// free-list allocator the buffer pool uses, generalized over "buffer
// vs. texture backing store" — here the linear space it suballocates
// is a virtual byte budget (TexturePoolMB), not a single GPU buffer,
// since textures are independent driver objects rather than ranges of
// one backing allocation.
type TexturePool struct {
	device TextureDevice
	capBytes int

	mu        sync.Mutex
	head      *block
	freeBytes int
	freeCount int

	live map[int]*TextureAllocation // block.offset -> allocation
	seq  int
}

// TextureAllocation is a live texture handle plus its accounted byte
// size and budget-space offset.
type TextureAllocation struct {
	Texture glc.Texture
	Bytes   int
	seq     int
	blk     *block
}

// NewTexturePool creates a texture pool with a budget of capMB
// megabytes, per spec.md §6's texturePoolMB config field.
func NewTexturePool(device TextureDevice, capMB int) *TexturePool {
	capBytes := capMB << 20
	return &TexturePool{
		device:    device,
		capBytes:  capBytes,
		head:      &block{offset: 0, size: capBytes, free: true},
		freeBytes: capBytes,
		freeCount: 1,
		live:      make(map[int]*TextureAllocation),
	}
}

// Alloc reserves sizeBytes of budget space and creates a backing
// texture object. Returns ErrOutOfMemory if the budget has no fitting
// hole — callers are expected to fall back to an unpooled texture or
// trigger a trim.
func (p *TexturePool) Alloc(sizeBytes int) (*TextureAllocation, error) {
	aligned := alignUp(sizeBytes)
	p.mu.Lock()
	var best *block
	for b := p.head; b != nil; b = b.next {
		if !b.free || b.size < aligned {
			continue
		}
		if best == nil || b.size < best.size {
			best = b
		}
	}
	if best == nil {
		p.mu.Unlock()
		log.Printf("bufferpool: texture alloc of %d bytes failed, no fitting budget hole (cap=%d, free=%d)", sizeBytes, p.capBytes, p.freeBytes)
		return nil, ErrOutOfMemory
	}
	best.free = false
	p.freeBytes -= best.size
	p.freeCount--
	if rem := best.size - aligned; rem > alignment {
		tail := &block{offset: best.offset + aligned, size: rem, free: true, prev: best, next: best.next}
		if tail.next != nil {
			tail.next.prev = tail
		}
		best.next = tail
		best.size = aligned
		p.freeBytes += rem
		p.freeCount++
	}
	p.seq++
	a := &TextureAllocation{Texture: p.device.CreateTexture(), Bytes: sizeBytes, seq: p.seq, blk: best}
	p.live[best.offset] = a
	p.mu.Unlock()
	return a, nil
}

// Free releases a's budget block and deletes its texture object,
// coalescing with free neighbours exactly as Pool.Free does.
func (p *TexturePool) Free(a *TextureAllocation) {
	if a == nil {
		return
	}
	p.mu.Lock()
	delete(p.live, a.blk.offset)
	p.releaseBlockLocked(a.blk)
	p.mu.Unlock()
	p.device.DeleteTexture(a.Texture)
}

// releaseBlockLocked marks b free and coalesces it with free
// neighbours. Callers must hold mu.
func (p *TexturePool) releaseBlockLocked(b *block) {
	b.free = true
	p.freeBytes += b.size
	p.freeCount++
	if left := b.prev; left != nil && left.free {
		left.size += b.size
		left.next = b.next
		if b.next != nil {
			b.next.prev = left
		}
		p.freeCount--
		b = left
	}
	if right := b.next; right != nil && right.free {
		b.size += right.size
		b.next = right.next
		if right.next != nil {
			right.next.prev = b
		}
		p.freeCount--
	}
}

// FreeBytes reports the pool's unallocated budget.
func (p *TexturePool) FreeBytes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.freeBytes
}

// CapBytes reports the pool's total budget.
func (p *TexturePool) CapBytes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.capBytes
}

// Trim evicts the oldest (lowest-seq) live allocations until the
// budget is at most newCapBytes, then lowers the cap, implementing
// spec.md §6's trim level 1 ("halve texture memory cap"). Evicted
// allocations are deleted; callers must not use them afterward.
func (p *TexturePool) Trim(newCapBytes int) []*TextureAllocation {
	p.mu.Lock()
	if newCapBytes >= p.capBytes {
		p.mu.Unlock()
		return nil
	}
	usedBytes := p.capBytes - p.freeBytes
	var victims []*TextureAllocation
	for usedBytes > newCapBytes && len(p.live) > 0 {
		var oldest *TextureAllocation
		for _, a := range p.live {
			if oldest == nil || a.seq < oldest.seq {
				oldest = a
			}
		}
		if oldest == nil {
			break
		}
		victims = append(victims, oldest)
		delete(p.live, oldest.blk.offset)
		p.releaseBlockLocked(oldest.blk)
		usedBytes -= oldest.Bytes
	}
	p.capBytes = newCapBytes
	p.mu.Unlock()
	for _, v := range victims {
		p.device.DeleteTexture(v.Texture)
	}
	log.Printf("bufferpool: trimmed texture pool, evicted %d allocations, new cap target %d bytes", len(victims), newCapBytes)
	return victims
}
