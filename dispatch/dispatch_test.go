// SPDX-License-Identifier: Unlicense OR MIT

package dispatch

import (
	"testing"
	"unsafe"
)

func sentinelPtr(v int) unsafe.Pointer {
	return unsafe.Pointer(&[]int{v}[0])
}

func TestResolveHitsRegisteredEntry(t *testing.T) {
	want := sentinelPtr(1)
	tbl := New(nil)
	tbl.Register("glDrawArrays", want)

	got := tbl.Resolve("glDrawArrays")
	if got != want {
		t.Fatalf("Resolve returned %p, want %p", got, want)
	}
	hits, misses := tbl.Stats()
	if hits != 1 || misses != 0 {
		t.Fatalf("Stats() = %d,%d, want 1,0", hits, misses)
	}
}

func TestResolveFallsThroughToPlatformOnMiss(t *testing.T) {
	want := sentinelPtr(2)
	var calledWith string
	tbl := New(func(name string) unsafe.Pointer {
		calledWith = name
		return want
	})

	got := tbl.Resolve("glSomeVendorExtension")
	if got != want {
		t.Fatalf("Resolve returned %p, want %p", got, want)
	}
	if calledWith != "glSomeVendorExtension" {
		t.Fatalf("fallback called with %q, want glSomeVendorExtension", calledWith)
	}
	hits, misses := tbl.Stats()
	if hits != 0 || misses != 1 {
		t.Fatalf("Stats() = %d,%d, want 0,1", hits, misses)
	}
}

func TestResolveNilFallbackReturnsNilOnMiss(t *testing.T) {
	tbl := New(nil)
	if got := tbl.Resolve("glUnknown"); got != nil {
		t.Fatalf("Resolve() = %p, want nil with no fallback registered", got)
	}
}

func TestAliasesResolveThroughTheSameTable(t *testing.T) {
	want := sentinelPtr(3)
	tbl := New(nil)
	tbl.Register("glDrawArrays", want)

	for _, alias := range []func(string) unsafe.Pointer{
		tbl.GetProcAddress,
		tbl.GLXGetProcAddress,
		tbl.GLXGetProcAddressARB,
		tbl.OSMesaGetProcAddress,
	} {
		if got := alias("glDrawArrays"); got != want {
			t.Fatalf("alias returned %p, want %p", got, want)
		}
	}
}

func TestRegisterAllAndLen(t *testing.T) {
	tbl := New(nil)
	tbl.RegisterAll(map[string]unsafe.Pointer{
		"glDrawArrays":   sentinelPtr(1),
		"glDrawElements": sentinelPtr(2),
	})
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
}

func TestRegisterOverwritesExistingEntry(t *testing.T) {
	first := sentinelPtr(1)
	second := sentinelPtr(2)
	tbl := New(nil)
	tbl.Register("glClear", first)
	tbl.Register("glClear", second)

	if got := tbl.Resolve("glClear"); got != second {
		t.Fatalf("Resolve() = %p, want the overwritten pointer %p", got, second)
	}
	if tbl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after overwrite", tbl.Len())
	}
}
