// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"fmt"

	"github.com/kestrelgl/velocitygl/gpuid"
)

// Caps is get_gpu_caps()'s return value, per spec.md §6.
type Caps struct {
	Vendor         gpuid.Vendor
	Tier           int
	Features       gpuid.Features
	MaxTextureSize int

	// MasqueradeVersion/MasqueradeRenderer are the desktop-GL strings
	// glGetString(VERSION)/glGetString(RENDERER) report to callers
	// that expect a desktop driver, per spec.md §6's version
	// masquerade rules.
	MasqueradeVersion  string
	MasqueradeRenderer string
	MasqueradeMajor    int
	MasqueradeMinor    int
}

// Caps reports the device's identity and the desktop-GL masquerade
// derived from it.
func (c *Context) Caps() Caps {
	major, minor := masqueradeVersion(c.Backend.GLVersion())
	return Caps{
		Vendor:             c.Identity.Vendor,
		Tier:               c.Identity.Tier,
		Features:           c.Identity.Features,
		MaxTextureSize:     c.Backend.MaxTextureSize(),
		MasqueradeVersion:  fmt.Sprintf("%d.%d VelocityGL", major, minor),
		MasqueradeRenderer: fmt.Sprintf("VelocityGL (%s)", c.Identity.RendererStr),
		MasqueradeMajor:    major,
		MasqueradeMinor:    minor,
	}
}

// masqueradeVersion implements spec.md §6's "get_string(VERSION)
// returns <M>.<m> VelocityGL with <M>.<m> derived from the device's ES
// capability" table, resolved per the Open Question recorded in
// DESIGN.md: ES 3.2 reports 4.6 (not 4.5) consistently, since ES 3.2's
// tessellation+geometry surface maps more naturally onto 4.6 than 4.5.
func masqueradeVersion(esVer [2]int) (major, minor int) {
	switch {
	case esVer[0] > 3 || (esVer[0] == 3 && esVer[1] >= 2):
		return 4, 6
	case esVer[0] == 3 && esVer[1] == 1:
		return 4, 3
	default:
		return 3, 3
	}
}
