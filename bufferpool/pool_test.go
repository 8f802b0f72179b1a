// SPDX-License-Identifier: Unlicense OR MIT

package bufferpool

import (
	"testing"
	"time"

	glc "github.com/kestrelgl/velocitygl/internal/gl"
)

// fakeDevice is an in-process stand-in for the GL function table,
// backing every buffer with a plain Go byte slice. It lets the pool
// and ring tests exercise real alloc/free/upload bookkeeping without a
// driver.
type fakeDevice struct {
	backing map[uint]*[]byte
	next    uint
	bound   map[glc.Enum]glc.Buffer
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{backing: make(map[uint]*[]byte), bound: make(map[glc.Enum]glc.Buffer)}
}

func (d *fakeDevice) CreateBuffer() glc.Buffer {
	d.next++
	buf := make([]byte, 0)
	d.backing[d.next] = &buf
	return glc.Buffer{V: d.next}
}

func (d *fakeDevice) DeleteBuffer(b glc.Buffer) { delete(d.backing, b.V) }

func (d *fakeDevice) BindBuffer(target glc.Enum, b glc.Buffer) { d.bound[target] = b }

func (d *fakeDevice) BufferData(target glc.Enum, src []byte, usage glc.Enum) {
	p := d.backing[d.bound[target].V]
	*p = append((*p)[:0], src...)
}

func (d *fakeDevice) BufferSubData(target glc.Enum, offset int, src []byte) {
	p := d.backing[d.bound[target].V]
	copy((*p)[offset:], src)
}

func (d *fakeDevice) MapBufferRange(target glc.Enum, offset, length int, access glc.Enum) []byte {
	p := d.backing[d.bound[target].V]
	return (*p)[offset : offset+length]
}

func (d *fakeDevice) UnmapBuffer(target glc.Enum) {}

func (d *fakeDevice) FlushMappedBufferRange(target glc.Enum, offset, length int) {}

func (d *fakeDevice) FenceSync(condition glc.Enum) glc.Sync { return glc.Sync{V: 1} }

func (d *fakeDevice) ClientWaitSync(sync glc.Sync, flags glc.Enum, timeout time.Duration) glc.Enum {
	return glc.ALREADY_SIGNALED
}

func (d *fakeDevice) DeleteSync(sync glc.Sync) {}

// TestPoolFragmentationRoundTrip is spec.md §8's boundary scenario 6:
// alloc A/B/C, free B, alloc D into B's hole, free A/C/D, expect the
// free-list to return to exactly one block covering the whole pool.
func TestPoolFragmentationRoundTrip(t *testing.T) {
	dev := newFakeDevice()
	p, err := New(dev, glc.ARRAY_BUFFER, glc.STATIC_DRAW, 1<<20, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	a, err := p.Alloc(256 << 10)
	if err != nil {
		t.Fatalf("alloc A: %v", err)
	}
	b, err := p.Alloc(256 << 10)
	if err != nil {
		t.Fatalf("alloc B: %v", err)
	}
	c, err := p.Alloc(256 << 10)
	if err != nil {
		t.Fatalf("alloc C: %v", err)
	}

	p.Free(b)

	d, err := p.Alloc(200 << 10)
	if err != nil {
		t.Fatalf("alloc D into B's hole: %v", err)
	}

	p.Free(a)
	p.Free(c)
	p.Free(d)

	if got := p.FreeBytes(); got != 1<<20 {
		t.Fatalf("FreeBytes = %d, want %d", got, 1<<20)
	}
	if got := p.FreeBlockCount(); got != 1 {
		t.Fatalf("FreeBlockCount = %d, want 1", got)
	}
}

func TestPoolAllocFailsWhenExhausted(t *testing.T) {
	dev := newFakeDevice()
	p, err := New(dev, glc.ARRAY_BUFFER, glc.STATIC_DRAW, 1024, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := p.Alloc(1024); err != nil {
		t.Fatalf("alloc entire pool: %v", err)
	}
	if _, err := p.Alloc(1); err != ErrOutOfMemory {
		t.Fatalf("alloc over capacity: got %v, want ErrOutOfMemory", err)
	}
}

func TestPoolAlignment(t *testing.T) {
	dev := newFakeDevice()
	p, err := New(dev, glc.ARRAY_BUFFER, glc.STATIC_DRAW, 4096, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a, err := p.Alloc(1)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if got := p.FreeBytes(); got != 4096-alignment {
		t.Fatalf("FreeBytes after 1-byte alloc = %d, want %d", got, 4096-alignment)
	}
	p.Free(a)
}

func TestMapUnmapNonPersistentRoundTrips(t *testing.T) {
	dev := newFakeDevice()
	p, err := New(dev, glc.ARRAY_BUFFER, glc.STATIC_DRAW, 4096, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.IsPersistent() {
		t.Fatalf("pool should not be persistent when wantPersistent is false")
	}
	a, err := p.Alloc(64)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}

	mapped := p.Map(a, 0, 64)
	if mapped == nil {
		t.Fatalf("Map returned nil")
	}
	copy(mapped, []byte("hello, mapped buffer"))
	p.Unmap(a)

	// What was written through the mapping must be visible through a
	// normal Upload-free read of the backing store at a's offset.
	got := (*dev.backing[p.Buffer().V])[a.Offset() : a.Offset()+len("hello, mapped buffer")]
	if string(got) != "hello, mapped buffer" {
		t.Fatalf("backing store after Map/Unmap = %q, want %q", got, "hello, mapped buffer")
	}
	p.Free(a)
}

func TestMapPersistentReturnsExistingMapping(t *testing.T) {
	dev := newFakeDevice()
	p, err := New(dev, glc.ARRAY_BUFFER, glc.DYNAMIC_DRAW, 4096, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !p.IsPersistent() {
		t.Fatalf("pool should be persistent when the fake device's MapBufferRange succeeds")
	}
	a, err := p.Alloc(64)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}

	mapped := p.Map(a, 0, 64)
	if mapped == nil {
		t.Fatalf("Map returned nil for a persistent pool")
	}
	copy(mapped, []byte("persistent write"))
	if got := string(a.HostPtr()[:len("persistent write")]); got != "persistent write" {
		t.Fatalf("HostPtr after Map write = %q, want %q", got, "persistent write")
	}
	// Unmap must be a no-op: the allocation's HostPtr stays valid
	// afterward, since the pool never actually unmaps.
	p.Unmap(a)
	if got := string(a.HostPtr()[:len("persistent write")]); got != "persistent write" {
		t.Fatalf("HostPtr after Unmap = %q, want data to survive %q", got, "persistent write")
	}
	p.Free(a)
}

func TestMapRejectsOutOfRangeRequest(t *testing.T) {
	dev := newFakeDevice()
	p, err := New(dev, glc.ARRAY_BUFFER, glc.STATIC_DRAW, 4096, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a, err := p.Alloc(64)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if got := p.Map(a, 0, a.alignedSize+1); got != nil {
		t.Fatalf("Map beyond the allocation's aligned size should return nil, got %v", got)
	}
}

func TestRingOverflowReturnsFalse(t *testing.T) {
	dev := newFakeDevice()
	r := NewRing(dev, glc.ARRAY_BUFFER, 64<<10)
	r.BeginFrame()
	data := make([]byte, 70<<10)
	if _, ok := r.StreamAlloc(data); ok {
		t.Fatalf("StreamAlloc of 70KiB into a 64KiB region should overflow")
	}
	// A small allocation afterward must still succeed: the failed
	// overflow must not have committed any bytes or moved the offset.
	if off, ok := r.StreamAlloc([]byte{1, 2, 3}); !ok || off != 0 {
		t.Fatalf("StreamAlloc after overflow = (%d, %v), want (0, true)", off, ok)
	}
	r.EndFrame()
}

func TestRingRegionsRotate(t *testing.T) {
	dev := newFakeDevice()
	r := NewRing(dev, glc.ARRAY_BUFFER, 1024)
	seen := map[int]bool{}
	for i := 0; i < 6; i++ {
		r.BeginFrame()
		seen[r.RegionOffset()/1024] = true
		r.StreamAlloc([]byte{byte(i)})
		r.EndFrame()
	}
	if len(seen) != 3 {
		t.Fatalf("ring visited %d distinct regions over 6 frames, want 3", len(seen))
	}
}
