// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"fmt"

	glc "github.com/kestrelgl/velocitygl/internal/gl"
	"github.com/kestrelgl/velocitygl/internal/glsl"
)

// CompileProgram links vsSrc/fsSrc (desktop-authored GLSL) into a
// usable program, consulting the shader cache first, per spec.md §4.D:
// on a cache hit the stored binary is relinked and verified; on a miss
// (or a relink failure) the sources are rewritten to GLSL ES 3.00 via
// internal/glsl and compiled fresh, then the result is stored back.
// Source-compile failure returns an error; cache-binary-load failure
// is never fatal, matching spec.md §5's "the caller path continues
// with the source-compile fallback".
func (c *Context) CompileProgram(vsSrc, fsSrc string, attribs []string) (glc.Program, error) {
	if p, ok := c.Shaders.Get(vsSrc, fsSrc); ok {
		return p, nil
	}

	vsES := glsl.Rewrite(vsSrc, glsl.StageVertex)
	fsES := glsl.Rewrite(fsSrc, glsl.StageFragment)
	p, err := c.Backend.CreateProgram(vsES, fsES, attribs)
	if err != nil {
		return glc.Program{}, fmt.Errorf("gpu: compile program: %w", err)
	}
	c.Shaders.Store(vsSrc, fsSrc, p)
	return p, nil
}
