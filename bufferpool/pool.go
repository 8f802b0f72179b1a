// SPDX-License-Identifier: Unlicense OR MIT

// Package bufferpool sub-allocates vertex/index/uniform storage from a
// small number of large backing GPU buffers, and hands out a triple-
// buffered streaming ring for per-frame transient data. Grounded on
// gio's buffer ownership idiom (a backend-bound handle with a Release
// method) and on the fixed-size-record/byte-offset bookkeeping style of
// a binary drawlist builder: allocations here are records {offset,
// size}, not objects with their own storage.
package bufferpool

import (
	"errors"
	"log"
	"sync"
	"time"

	glc "github.com/kestrelgl/velocitygl/internal/gl"
)

// alignment is the allocator's fixed block granularity, per spec.md
// §3: "Alignment is 256 bytes."
const alignment = 256

// Device is the subset of the raw GL function table the pool and ring
// need. Any glc.Functions implementation satisfies it structurally.
type Device interface {
	CreateBuffer() glc.Buffer
	DeleteBuffer(b glc.Buffer)
	BindBuffer(target glc.Enum, b glc.Buffer)
	BufferData(target glc.Enum, src []byte, usage glc.Enum)
	BufferSubData(target glc.Enum, offset int, src []byte)
	MapBufferRange(target glc.Enum, offset, length int, access glc.Enum) []byte
	UnmapBuffer(target glc.Enum)
	FlushMappedBufferRange(target glc.Enum, offset, length int)
	FenceSync(condition glc.Enum) glc.Sync
	ClientWaitSync(sync glc.Sync, flags glc.Enum, timeout time.Duration) glc.Enum
	DeleteSync(sync glc.Sync)
}

// ErrOutOfMemory is returned by Alloc when no free block fits, per
// spec.md §4.C: "Allocation failure ... returns null with a warn-level
// log; no eviction."
var ErrOutOfMemory = errors.New("bufferpool: no free block fits the requested size")

func alignUp(size int) int {
	return (size + alignment - 1) &^ (alignment - 1)
}

// block is one node of the pool's doubly-linked free/used list.
type block struct {
	offset, size int
	free         bool
	prev, next   *block
}

// Allocation is a borrowing handle into a Pool's backing buffer. It
// stays valid until Free is called; the pool, not the allocation, owns
// the GPU storage.
type Allocation struct {
	pool        *Pool
	blk         *block
	rawSize     int
	alignedSize int
	hostPtr     []byte // non-nil only when the pool is persistently mapped
}

// Offset reports the byte offset of this allocation within the pool's
// backing buffer.
func (a *Allocation) Offset() int { return a.blk.offset }

// Size reports the originally requested (unaligned) size.
func (a *Allocation) Size() int { return a.rawSize }

// HostPtr returns the persistently-mapped host-visible slice backing
// this allocation, or nil if the pool was not created with persistent
// mapping.
func (a *Allocation) HostPtr() []byte {
	if a.hostPtr == nil {
		return nil
	}
	return a.hostPtr[:a.rawSize]
}

// Pool owns one backing GPU buffer and the free-list sub-allocating it.
// Structural updates (alloc/free) are serialised by mu, per spec.md §5:
// "[pool] data structures take their own mutex ... held only for the
// structural update, never across GL calls." The GL calls made here are
// cheap buffer-range operations, not draws, so holding mu across them
// keeps bookkeeping and device state atomic together.
type Pool struct {
	device Device
	target glc.Enum
	usage  glc.Enum
	buffer glc.Buffer
	cap    int

	persistent bool
	mapped     []byte

	mu        sync.Mutex
	head      *block
	freeBytes int
	freeCount int
}

// New creates a pool of size bytes bound to target, attempting
// persistent+coherent mapping when wantPersistent is true. Per spec.md
// §4.C: "If the extension is missing, storage falls back to dynamic-
// draw with unmapped upload using sub-data" — callers report extension
// availability via wantPersistent; this package trusts that signal
// rather than probing extensions itself (gpuid owns that decision).
func New(device Device, target, usage glc.Enum, size int, wantPersistent bool) (*Pool, error) {
	size = alignUp(size)
	buf := device.CreateBuffer()
	p := &Pool{
		device: device,
		target: target,
		usage:  usage,
		buffer: buf,
		cap:    size,
		head:   &block{offset: 0, size: size, free: true},
	}
	p.freeBytes = size
	p.freeCount = 1

	device.BindBuffer(target, buf)
	if wantPersistent {
		device.BufferData(target, make([]byte, size), glc.DYNAMIC_DRAW)
		mapped := device.MapBufferRange(target, 0, size, glc.MAP_WRITE_BIT|glc.MAP_PERSISTENT_BIT|glc.MAP_COHERENT_BIT)
		if mapped != nil {
			p.persistent = true
			p.mapped = mapped
			return p, nil
		}
		log.Printf("bufferpool: persistent mapping unavailable, falling back to sub-data uploads")
	}
	device.BufferData(target, make([]byte, size), usage)
	return p, nil
}

// Release deletes the backing buffer. The pool must not be used again.
func (p *Pool) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.persistent {
		p.device.BindBuffer(p.target, p.buffer)
		p.device.UnmapBuffer(p.target)
	}
	p.device.DeleteBuffer(p.buffer)
	p.buffer = glc.Buffer{}
}

// Alloc best-fits size (aligned up to 256) against the free list, per
// spec.md §4.C: split policy carves a tail free block when the chosen
// block exceeds size by more than one alignment unit.
func (p *Pool) Alloc(size int) (*Allocation, error) {
	aligned := alignUp(size)
	p.mu.Lock()
	defer p.mu.Unlock()

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
		log.Printf("bufferpool: alloc of %d bytes failed, no fitting free block (pool cap=%d, free=%d)", size, p.cap, p.freeBytes)
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

	a := &Allocation{pool: p, blk: best, rawSize: size, alignedSize: best.size}
	if p.persistent {
		a.hostPtr = p.mapped[best.offset : best.offset+best.size]
	}
	return a, nil
}

// Free returns a's block to the free list, coalescing with a free left
// neighbour then a free right neighbour, per spec.md §3: "adjacent free
// blocks are always coalesced on free."
func (p *Pool) Free(a *Allocation) {
	if a == nil || a.pool != p {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	b := a.blk
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

// Upload writes data into a's range at offset, via memcpy into the
// persistent mapping or an unmapped BufferSubData call, per spec.md
// §4.C.
func (p *Pool) Upload(a *Allocation, offset int, data []byte) {
	if a.pool != p {
		return
	}
	if p.persistent {
		copy(a.hostPtr[offset:], data)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.device.BindBuffer(p.target, p.buffer)
	p.device.BufferSubData(p.target, a.blk.offset+offset, data)
}

// Map returns a host-visible slice over [offset, offset+size) of a's
// range, for the general map(allocation, offset, size) -> pointer|null
// operation spec.md §4.C names alongside upload/unmap. For a
// persistently-mapped pool this is just a sub-slice of the mapping
// already in place (per spec.md §4.C's persistent-mapping fast path);
// for a non-persistent pool it issues an on-demand MapBufferRange that
// the caller must pair with a later Unmap call.
func (p *Pool) Map(a *Allocation, offset, size int) []byte {
	if a.pool != p || offset+size > a.alignedSize {
		return nil
	}
	if p.persistent {
		return a.hostPtr[offset : offset+size]
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.device.BindBuffer(p.target, p.buffer)
	return p.device.MapBufferRange(p.target, a.blk.offset+offset, size, glc.MAP_WRITE_BIT)
}

// Unmap ends an on-demand mapping started by Map. It is a no-op for a
// persistently-mapped pool, which stays mapped for its entire lifetime.
func (p *Pool) Unmap(a *Allocation) {
	if a.pool != p || p.persistent {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.device.BindBuffer(p.target, p.buffer)
	p.device.UnmapBuffer(p.target)
}

// Flush is a no-op for a coherent persistent mapping; callers keep it
// in their upload path so the behaviour is uniform whether or not
// persistent mapping is actually active.
func (p *Pool) Flush(a *Allocation, offset, length int) {
	if p.persistent {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.device.FlushMappedBufferRange(p.target, a.blk.offset+offset, length)
}

// FreeBytes reports the total free-list byte count, for the
// fragmentation round-trip property in spec.md §8.6.
func (p *Pool) FreeBytes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.freeBytes
}

// FreeBlockCount reports the number of free-list nodes.
func (p *Pool) FreeBlockCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.freeCount
}

// Buffer returns the backing GL buffer handle, for binding by higher
// layers (the batcher, vertex-attrib setup) that need the raw handle
// rather than an Allocation.
func (p *Pool) Buffer() glc.Buffer { return p.buffer }

// CapBytes reports the pool's total backing size, for memory-usage
// accounting alongside FreeBytes.
func (p *Pool) CapBytes() int { return p.cap }

// IsPersistent reports whether uploads go through a persistent mapping
// rather than BufferSubData.
func (p *Pool) IsPersistent() bool { return p.persistent }
