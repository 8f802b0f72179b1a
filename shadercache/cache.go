// SPDX-License-Identifier: Unlicense OR MIT

// Package shadercache is the content-addressed store of linked program
// binaries spec.md §4.D describes: an in-memory LRU in front of an
// optional on-disk file, both keyed by the FNV-1a combiner over the
// vertex and fragment source pairs. Grounded on
// gogpu-gg/backend/native/pipeline_cache_core.go's PipelineCacheCore
// (RWMutex double-checked locking, atomic hit/miss counters) for the
// in-memory half, and on a little-endian binary-section builder's
// header+records+blobs layout for the disk half.
package shadercache

import (
	"hash/fnv"
	"log"
	"sync"
	"sync/atomic"
	"time"

	glc "github.com/kestrelgl/velocitygl/internal/gl"
)

// Key combines the vertex and fragment source hashes the way spec.md
// §3 specifies: "combiner = vh XOR (fh*31)".
func Key(vertSrc, fragSrc string) uint64 {
	vh := fnvHash(vertSrc)
	fh := fnvHash(fragSrc)
	return vh ^ (fh * 31)
}

func fnvHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Device is the program-materialization surface the cache needs: it
// never compiles from source itself (that stays the caller's regular
// compile/link path) but it must be able to turn a stored binary back
// into a usable program and to inspect a freshly linked one.
type Device interface {
	CreateProgram() glc.Program
	DeleteProgram(p glc.Program)
	ProgramBinary(p glc.Program, format glc.Enum, binary []byte) bool
	GetProgramBinary(p glc.Program) (binary []byte, format glc.Enum, ok bool)
	GetProgrami(p glc.Program, pname glc.Enum) int
}

// entry is one cached program binary.
type entry struct {
	key        uint64
	format     glc.Enum
	binary     []byte
	lastUsed   int64 // unix nanos, monotonic enough for LRU ordering
	hitCount   uint64
	dirty      bool
}

func (e *entry) size() int { return len(e.binary) }

// Cache is the two-tier shader binary store. All structural access is
// serialised by mu; mu is never held across a GL call (GetProgramBinary /
// ProgramBinary are issued outside the lock), per spec.md §5.
type Cache struct {
	device Device

	mu         sync.RWMutex
	entries    map[uint64]*entry
	totalBytes int64

	maxBytes   int64
	maxEntries int

	vendorHash uint32
	driverHash uint32

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates an empty cache bounded by maxBytes and maxEntries, scoped
// to the current device's vendor/driver hash pair so a disk load later
// can reject binaries from a different GPU.
func New(device Device, maxBytes int64, maxEntries int, vendorHash, driverHash uint32) *Cache {
	return &Cache{
		device:     device,
		entries:    make(map[uint64]*entry),
		maxBytes:   maxBytes,
		maxEntries: maxEntries,
		vendorHash: vendorHash,
		driverHash: driverHash,
	}
}

// Get looks up the source pair, materializing and link-verifying a
// program from the stored binary on a hit. Per spec.md §4.D: "On hit:
// the cache materialises a new program handle from the stored binary,
// verifies link status; on verification failure, the entry is evicted
// and a miss is returned."
func (c *Cache) Get(vertSrc, fragSrc string) (glc.Program, bool) {
	key := Key(vertSrc, fragSrc)

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		c.misses.Add(1)
		return glc.Program{}, false
	}

	p := c.device.CreateProgram()
	if !c.device.ProgramBinary(p, e.format, e.binary) || c.device.GetProgrami(p, glc.LINK_STATUS) == 0 {
		c.device.DeleteProgram(p)
		c.mu.Lock()
		c.evict(key)
		c.mu.Unlock()
		c.misses.Add(1)
		log.Printf("shadercache: stored binary for key %x failed to relink, evicting", key)
		return glc.Program{}, false
	}

	c.mu.Lock()
	e.lastUsed = time.Now().UnixNano()
	e.hitCount++
	c.mu.Unlock()
	c.hits.Add(1)
	return p, true
}

// Store captures p's program binary under the vertSrc/fragSrc key,
// evicting least-recently-used entries first if needed to respect the
// byte and entry caps. If binary retrieval fails the call is a no-op,
// per spec.md §4.D.
func (c *Cache) Store(vertSrc, fragSrc string, p glc.Program) {
	binary, format, ok := c.device.GetProgramBinary(p)
	if !ok || len(binary) == 0 {
		return
	}
	key := Key(vertSrc, fragSrc)

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, exists := c.entries[key]; exists {
		c.totalBytes -= int64(old.size())
		delete(c.entries, key)
	}

	for (c.totalBytes+int64(len(binary)) > c.maxBytes || len(c.entries)+1 > c.maxEntries) && len(c.entries) > 0 {
		c.evictOldestLocked()
	}

	c.entries[key] = &entry{
		key:      key,
		format:   format,
		binary:   binary,
		lastUsed: time.Now().UnixNano(),
	}
	c.totalBytes += int64(len(binary))
}

// evict removes key if present. Caller holds mu.
func (c *Cache) evict(key uint64) {
	if e, ok := c.entries[key]; ok {
		c.totalBytes -= int64(e.size())
		delete(c.entries, key)
		c.evictions.Add(1)
	}
}

// evictOldestLocked drops the entry with the smallest lastUsed
// timestamp. Caller holds mu. Per the design note on §9's "concurrent
// maps" guidance, this walks the map directly rather than maintaining
// a separate ordered index — acceptable until benchmarks demand
// otherwise.
func (c *Cache) evictOldestLocked() {
	var oldestKey uint64
	var oldest *entry
	for k, e := range c.entries {
		if oldest == nil || e.lastUsed < oldest.lastUsed {
			oldestKey, oldest = k, e
		}
	}
	if oldest != nil {
		c.totalBytes -= int64(oldest.size())
		delete(c.entries, oldestKey)
		c.evictions.Add(1)
	}
}

// Stats is the live counter snapshot spec.md §8 boundary scenario 3
// checks (hits/misses) plus a few extras useful for trim/diagnostics.
type Stats struct {
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Entries    int
	TotalBytes int64
}

func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Evictions:  c.evictions.Load(),
		Entries:    len(c.entries),
		TotalBytes: c.totalBytes,
	}
}

// ResetStats zeroes the hit/miss/eviction counters, for reset_stats
// per spec.md §6. The stored entries themselves are untouched — this
// only resets the live counters Stats reports, same as the state
// tracker and batcher's own ResetStats.
func (c *Cache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// Size reports the total bytes of cached binaries, for
// get_shader_cache_size per spec.md §6.
func (c *Cache) Size() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalBytes
}

// Clear drops every entry without touching the disk file, for
// clear_shader_cache per spec.md §6.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*entry)
	c.totalBytes = 0
}
