// SPDX-License-Identifier: Unlicense OR MIT

// Package dispatch is the name->function-pointer entry table spec.md
// §4.G describes: every entry point the library intercepts is
// registered once at init, resolved by name, and two (really three,
// see aliases.go) compatibility aliases resolve through the
// same table. A miss falls through to a platform-supplied
// proc-address delegate, grounded on gio's internal/egl proc-address
// loading pattern (egl_windows.go's name->**Proc map), generalized
// from "load one platform's fixed EGL surface" to "resolve an
// arbitrary, caller-populated name set with a pluggable fallback".
package dispatch

import (
	"sync"
	"unsafe"
)

// ProcAddressFunc is the platform's native proc-address lookup,
// e.g. eglGetProcAddress or wglGetProcAddress, wired in by the
// context layer at CreateContext time.
type ProcAddressFunc func(name string) unsafe.Pointer

// Table is the name->function-pointer resolver. The zero value has no
// fallback and an empty map; use New for one with a fallback wired in.
type Table struct {
	mu       sync.RWMutex
	entries  map[string]unsafe.Pointer
	fallback ProcAddressFunc

	misses uint64
	hits   uint64
}

// New returns a Table that delegates unintercepted names to fallback
// (which may be nil, in which case a miss simply returns nil).
func New(fallback ProcAddressFunc) *Table {
	return &Table{
		entries:  make(map[string]unsafe.Pointer),
		fallback: fallback,
	}
}

// Register installs fn under name, overwriting any existing entry.
// Called once per intercepted entry point at init.
func (t *Table) Register(name string, fn unsafe.Pointer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[name] = fn
}

// RegisterAll is a convenience batch form of Register.
func (t *Table) RegisterAll(fns map[string]unsafe.Pointer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for name, fn := range fns {
		t.entries[name] = fn
	}
}

// Resolve looks up name: first the intercepted map, then — on miss —
// the platform fallback, so unintercepted extension entry points
// still resolve, per spec.md §4.G: "on miss, it delegates to the
// platform's native proc-address lookup".
func (t *Table) Resolve(name string) unsafe.Pointer {
	t.mu.RLock()
	fn, ok := t.entries[name]
	t.mu.RUnlock()
	if ok {
		t.bumpHit()
		return fn
	}
	t.bumpMiss()
	if t.fallback == nil {
		return nil
	}
	return t.fallback(name)
}

func (t *Table) bumpHit()   { t.mu.Lock(); t.hits++; t.mu.Unlock() }
func (t *Table) bumpMiss()  { t.mu.Lock(); t.misses++; t.mu.Unlock() }

// Stats reports how many Resolve calls hit the intercepted map versus
// fell through to the platform, for diagnostics.
func (t *Table) Stats() (hits, misses uint64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.hits, t.misses
}

// Len reports the number of intercepted entry points currently
// registered.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
