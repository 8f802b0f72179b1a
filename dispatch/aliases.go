// SPDX-License-Identifier: Unlicense OR MIT

package dispatch

import "unsafe"

// GetProcAddress is the canonical host-visible lookup spec.md §6 names:
// "a C-callable get_proc_address(name) -> pointer". Host-visible names
// are the desktop-GL names (glDrawArrays, ...).
func (t *Table) GetProcAddress(name string) unsafe.Pointer {
	return t.Resolve(name)
}

// GLXGetProcAddress and GLXGetProcAddressARB are the two legacy
// desktop aliases spec.md §6 requires forward through the same
// resolver: "glXGetProcAddress, glXGetProcAddressARB".
func (t *Table) GLXGetProcAddress(name string) unsafe.Pointer {
	return t.Resolve(name)
}

func (t *Table) GLXGetProcAddressARB(name string) unsafe.Pointer {
	return t.Resolve(name)
}

// OSMesaGetProcAddress is the third alias named in SPEC_FULL.md's Open
// Question resolution #2: the source's OSMesa-style name suggests a
// third ecosystem expects to load this library, but the contract
// beyond name resolution is undocumented, so this guarantees exactly
// that and nothing more — no claim about OSMesa's off-screen-only
// execution model is made or enforced.
func (t *Table) OSMesaGetProcAddress(name string) unsafe.Pointer {
	return t.Resolve(name)
}
