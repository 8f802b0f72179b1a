// SPDX-License-Identifier: Unlicense OR MIT

package velocitygl

import "unsafe"

// GetProcAddress is the C-callable entry-point lookup spec.md §6
// names: `get_proc_address(name) -> pointer`. Resolves through the
// shared dispatch.Table; unknown names fall through to whatever
// platform fallback the table was built with.
func GetProcAddress(name string) unsafe.Pointer {
	rt.mu.Lock()
	tbl := rt.dispatch
	rt.mu.Unlock()
	if tbl == nil {
		logNotInitialized("GetProcAddress")
		return nil
	}
	return tbl.Resolve(name)
}

// RegisterEntryPoint installs one name->function-pointer mapping.
// Populating the table with the library's own intercepted GL entry
// points is the cgo //export shim's job — this package only exposes
// the table those trampolines register into, per SPEC_FULL.md §0's
// "root package is the file a cgo shim calls into" framing.
func RegisterEntryPoint(name string, fn unsafe.Pointer) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.dispatch == nil {
		rt.errStats.NotInitialized++
		return ErrNotInitialized
	}
	rt.dispatch.Register(name, fn)
	return nil
}

// RegisterEntryPoints is a batch form of RegisterEntryPoint.
func RegisterEntryPoints(fns map[string]unsafe.Pointer) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.dispatch == nil {
		rt.errStats.NotInitialized++
		return ErrNotInitialized
	}
	rt.dispatch.RegisterAll(fns)
	return nil
}
