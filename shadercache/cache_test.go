// SPDX-License-Identifier: Unlicense OR MIT

package shadercache

import (
	"os"
	"path/filepath"
	"testing"

	glc "github.com/kestrelgl/velocitygl/internal/gl"
)

// fakeDevice is a minimal in-process materialization surface: binaries
// are just byte slices and "linking" always succeeds unless the binary
// was tampered with to the sentinel corrupt marker.
type fakeDevice struct {
	next     uint
	binaries map[uint]struct {
		format glc.Enum
		data   []byte
	}
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{binaries: make(map[uint]struct {
		format glc.Enum
		data   []byte
	})}
}

func (d *fakeDevice) CreateProgram() glc.Program {
	d.next++
	return glc.Program{V: d.next}
}

func (d *fakeDevice) DeleteProgram(p glc.Program) { delete(d.binaries, p.V) }

func (d *fakeDevice) ProgramBinary(p glc.Program, format glc.Enum, binary []byte) bool {
	if len(binary) == 0 {
		return false
	}
	d.binaries[p.V] = struct {
		format glc.Enum
		data   []byte
	}{format, binary}
	return true
}

func (d *fakeDevice) GetProgramBinary(p glc.Program) ([]byte, glc.Enum, bool) {
	b, ok := d.binaries[p.V]
	if !ok {
		return nil, 0, false
	}
	return b.data, b.format, true
}

func (d *fakeDevice) GetProgrami(p glc.Program, pname glc.Enum) int {
	if pname != glc.LINK_STATUS {
		return 0
	}
	if _, ok := d.binaries[p.V]; ok {
		return 1
	}
	return 0
}

const (
	vSrc0 = "attribute vec4 pos; void main(){ gl_Position = pos; }"
	fSrc0 = "void main(){ gl_FragColor = vec4(1.0); }"
)

func link(dev *fakeDevice, binary []byte) glc.Program {
	p := dev.CreateProgram()
	dev.ProgramBinary(p, 0x1, binary)
	return p
}

// TestShaderCacheHitCycle is spec.md §8's boundary scenario 3.
func TestShaderCacheHitCycle(t *testing.T) {
	dev := newFakeDevice()
	c := New(dev, 1<<20, 64, 0xAAAA, 0xBBBB)

	p := link(dev, []byte("binary-for-v0-f0"))
	c.Store(vSrc0, fSrc0, p)

	got, ok := c.Get(vSrc0, fSrc0)
	if !ok || !got.Valid() {
		t.Fatalf("Get after Store: ok=%v program=%v", ok, got)
	}
	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 0 {
		t.Fatalf("Stats after one hit: %+v", stats)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "shader_cache.bin")
	c.Save(path)

	c2 := New(dev, 1<<20, 64, 0xAAAA, 0xBBBB)
	c2.Load(path)
	if _, ok := c2.Get(vSrc0, fSrc0); !ok {
		t.Fatalf("Get after same-vendor disk load should hit")
	}

	c3 := New(dev, 1<<20, 64, 0xCCCC, 0xBBBB) // different vendor hash
	c3.Load(path)
	if _, ok := c3.Get(vSrc0, fSrc0); ok {
		t.Fatalf("Get after vendor-hash-mismatched disk load should miss")
	}
}

func TestShaderCacheMissOnUnknownSources(t *testing.T) {
	dev := newFakeDevice()
	c := New(dev, 1<<20, 64, 1, 1)
	if _, ok := c.Get("vs", "fs"); ok {
		t.Fatalf("Get on empty cache should miss")
	}
	if c.Stats().Misses != 1 {
		t.Fatalf("Misses = %d, want 1", c.Stats().Misses)
	}
}

func TestResetStatsZeroesCountersNotEntries(t *testing.T) {
	dev := newFakeDevice()
	c := New(dev, 1<<20, 64, 1, 1)
	p := link(dev, []byte("binary-for-v0-f0"))
	c.Store(vSrc0, fSrc0, p)
	if _, ok := c.Get(vSrc0, fSrc0); !ok {
		t.Fatalf("Get after Store should hit")
	}
	if _, ok := c.Get("missing", "missing"); ok {
		t.Fatalf("Get on unknown sources should miss")
	}
	if stats := c.Stats(); stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("Stats before reset = %+v, want Hits=1 Misses=1", stats)
	}

	c.ResetStats()

	stats := c.Stats()
	if stats.Hits != 0 || stats.Misses != 0 || stats.Evictions != 0 {
		t.Fatalf("Stats after ResetStats = %+v, want all counters zero", stats)
	}
	if stats.Entries != 1 {
		t.Fatalf("Entries after ResetStats = %d, want 1 (stored entry must survive)", stats.Entries)
	}
	if _, ok := c.Get(vSrc0, fSrc0); !ok {
		t.Fatalf("Get after ResetStats should still hit the stored entry")
	}
}

func TestShaderCacheByteCapEviction(t *testing.T) {
	dev := newFakeDevice()
	c := New(dev, 10, 64, 1, 1) // tiny 10-byte cap
	p1 := link(dev, []byte("0123456789"))
	c.Store("v1", "f1", p1)
	if c.Size() != 10 {
		t.Fatalf("Size after first store = %d, want 10", c.Size())
	}
	p2 := link(dev, []byte("abcdefghij"))
	c.Store("v2", "f2", p2)
	if c.Size() != 10 {
		t.Fatalf("Size after eviction = %d, want 10 (one entry max)", c.Size())
	}
	if _, ok := c.Get("v1", "f1"); ok {
		t.Fatalf("v1/f1 should have been evicted to make room for v2/f2")
	}
	if _, ok := c.Get("v2", "f2"); !ok {
		t.Fatalf("v2/f2 should still be cached")
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	c := New(newFakeDevice(), 1<<20, 64, 1, 1)
	c.Load(filepath.Join(os.TempDir(), "velocitygl-shadercache-does-not-exist.bin"))
	if c.Stats().Entries != 0 {
		t.Fatalf("Load of a missing file should leave the cache empty")
	}
}
