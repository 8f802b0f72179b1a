// SPDX-License-Identifier: Unlicense OR MIT

// Package gl is the concrete GLES3 backend: the redundant-call filter
// (component B, the state tracker) sitting in front of every
// intercepted entry point, generalizing gio's gpu/gl/backend.go
// glstate from a handful of tracked fields (nattr, prog, two texture
// units, one buffer binding) to the full pipeline mirror spec.md §3
// describes.
package gl

import (
	glc "github.com/kestrelgl/velocitygl/internal/gl"
)

// Stats are the live counters spec.md §4.B and §8 name: every setter
// either avoids a redundant call or forwards a changed one.
type Stats struct {
	Avoided        uint64
	Changed        uint64
	StackOverflow  uint64
	StackUnderflow uint64
}

// cell is a single mirrored value, stamped with the epoch it was last
// written at. A cell whose stamp doesn't match the mirror's current
// epoch is stale — the spec's "sentinel pattern that cannot equal any
// legal value" translated into Go as an epoch mismatch rather than a
// magic constant, which would otherwise collide with legitimate enum
// zero values.
type cell[T comparable] struct {
	val   T
	epoch uint64
}

// apply compares v against the cell, forwarding through fn only when
// the cell is stale or the value actually differs, and keeps the
// tracker's avoided/changed counters in sync.
func (c *cell[T]) apply(epoch uint64, v T, stats *Stats, fn func()) {
	if c.epoch == epoch && c.val == v {
		stats.Avoided++
		return
	}
	c.val = v
	c.epoch = epoch
	stats.Changed++
	fn()
}

type blendState struct {
	srcRGB, dstRGB, srcA, dstA glc.Enum
	eqRGB, eqA                 glc.Enum
}

type colorf struct{ r, g, b, a float32 }

type depthRange struct{ near, far float32 }

type stencilSide struct {
	fn                     glc.Enum
	ref                    int32
	mask                   uint32
	writeMask              uint32
	sfail, dpfail, dppass  glc.Enum
}

type rect struct{ x, y, w, h int32 }

type texUnit struct {
	tex2D, tex3D, texCube, tex2DArray glc.Texture
	sampler                           glc.Object
}

// State is the per-context pipeline mirror. One State belongs to
// exactly one rendering thread, matching spec.md §5's single-threaded-
// per-context rule; it carries no internal lock.
type State struct {
	funcs glc.Functions
	epoch uint64
	stats Stats

	stack []savedState

	blendEnabled cell[bool]
	blend        cell[blendState]
	blendColor   cell[colorf]

	depthTest  cell[bool]
	depthWrite cell[bool]
	depthFunc  cell[glc.Enum]
	depthRange cell[depthRange]

	stencilEnabled cell[bool]
	stencilFront   cell[stencilSide]
	stencilBack    cell[stencilSide]

	cullEnabled  cell[bool]
	cullMode     cell[glc.Enum]
	frontFace    cell[glc.Enum]
	scissorOn    cell[bool]
	scissorRect  cell[rect]
	viewportRect cell[rect]
	lineWidth    cell[float32]

	activeUnit cell[int]
	units      [maxTexUnits]texUnit
	unitsValid [maxTexUnits]uint64

	buffers      map[glc.Enum]bufferBindingCell
	program      cell[glc.Program]
	vertexArray  cell[glc.VertexArray]
}

// maxTexUnits bounds the per-unit binding array. Spec.md's pipeline
// mirror tracks "per-unit bindings" without naming a count; 16 covers
// every GLES3 implementation's guaranteed minimum.
const maxTexUnits = 16

// stateStackDepth is spec.md §4.B's "bounded-depth stack (depth = 16)".
const stateStackDepth = 16

type bufferBindingCell struct {
	val   glc.Buffer
	epoch uint64
}

type savedState struct {
	blendEnabled bool
	blend        blendState
	blendColor   colorf
	depthTest    bool
	depthWrite   bool
	depthFunc    glc.Enum
	depthRange   depthRange
	stencilEn    bool
	stencilFront stencilSide
	stencilBack  stencilSide
	cullEnabled  bool
	cullMode     glc.Enum
	frontFace    glc.Enum
	scissorOn    bool
	scissorRect  rect
	viewportRect rect
	lineWidth    float32
	activeUnit   int
	units        [maxTexUnits]texUnit
	program      glc.Program
	vertexArray  glc.VertexArray
}

// NewState creates a pipeline mirror bound to funcs and invalidates it.
// The mirrored values start as Go zero values, not GL defaults; since
// every cell starts stale, the first set of each value is forwarded to
// the device whatever the mirror holds.
func NewState(funcs glc.Functions) *State {
	s := &State{funcs: funcs, buffers: make(map[glc.Enum]bufferBindingCell)}
	s.Invalidate()
	return s
}

// Stats returns a snapshot of the tracker's live counters.
func (s *State) Stats() Stats { return s.stats }

// ResetStats zeroes the live counters without touching the mirror.
func (s *State) ResetStats() { s.stats = Stats{} }

// Invalidate sets the entire mirror to the stale epoch, per spec.md
// §4.B: mandatory after context make-current, after the scaler rebinds
// framebuffers, after a batch flush that may have touched state, and
// after any call the tracker cannot model.
func (s *State) Invalidate() {
	s.epoch++
	if s.epoch == 0 { // guard the deliberately unreachable wraparound
		s.epoch = 1
	}
	// cell.epoch fields default-equal 0, and 0 never matches a live
	// epoch (epoch starts at 1), so new cells begin invalid without any
	// extra bookkeeping. Existing cells just fail the epoch match.
	for i := range s.units {
		s.unitsValid[i] = 0
	}
	s.buffers = make(map[glc.Enum]bufferBindingCell)
}

// --- blend -----------------------------------------------------------

func (s *State) SetBlendEnabled(enabled bool) {
	s.blendEnabled.apply(s.epoch, enabled, &s.stats, func() {
		if enabled {
			s.funcs.Enable(glc.BLEND)
		} else {
			s.funcs.Disable(glc.BLEND)
		}
	})
}

func (s *State) SetBlendFuncSeparate(srcRGB, dstRGB, srcA, dstA glc.Enum) {
	v := blendState{srcRGB: srcRGB, dstRGB: dstRGB, srcA: srcA, dstA: dstA, eqRGB: s.blend.val.eqRGB, eqA: s.blend.val.eqA}
	s.blend.apply(s.epoch, v, &s.stats, func() {
		s.funcs.BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA)
	})
}

func (s *State) SetBlendEquationSeparate(eqRGB, eqA glc.Enum) {
	v := s.blend.val
	v.eqRGB, v.eqA = eqRGB, eqA
	s.blend.apply(s.epoch, v, &s.stats, func() {
		s.funcs.BlendEquation(eqRGB)
	})
}

func (s *State) SetBlendColor(r, g, b, a float32) {
	s.blendColor.apply(s.epoch, colorf{r, g, b, a}, &s.stats, func() {
		s.funcs.BlendColor(r, g, b, a)
	})
}

// --- depth -------------------------------------------------------------

func (s *State) SetDepthTest(enabled bool) {
	s.depthTest.apply(s.epoch, enabled, &s.stats, func() {
		if enabled {
			s.funcs.Enable(glc.DEPTH_TEST)
		} else {
			s.funcs.Disable(glc.DEPTH_TEST)
		}
	})
}

func (s *State) SetDepthMask(write bool) {
	s.depthWrite.apply(s.epoch, write, &s.stats, func() {
		s.funcs.DepthMask(write)
	})
}

func (s *State) SetDepthFunc(fn glc.Enum) {
	s.depthFunc.apply(s.epoch, fn, &s.stats, func() {
		s.funcs.DepthFunc(fn)
	})
}

func (s *State) SetDepthRange(near, far float32) {
	s.depthRange.apply(s.epoch, depthRange{near, far}, &s.stats, func() {
		s.funcs.DepthRangef(near, far)
	})
}

// --- stencil -----------------------------------------------------------

func (s *State) SetStencilEnabled(enabled bool) {
	s.stencilEnabled.apply(s.epoch, enabled, &s.stats, func() {
		if enabled {
			s.funcs.Enable(glc.STENCIL_TEST)
		} else {
			s.funcs.Disable(glc.STENCIL_TEST)
		}
	})
}

func (s *State) setStencilSide(cellPtr *cell[stencilSide], face glc.Enum, v stencilSide) {
	cellPtr.apply(s.epoch, v, &s.stats, func() {
		s.funcs.StencilFuncSeparate(face, v.fn, v.ref, v.mask)
		s.funcs.StencilMaskSeparate(face, v.writeMask)
		s.funcs.StencilOpSeparate(face, v.sfail, v.dpfail, v.dppass)
	})
}

func (s *State) SetStencilFuncFront(fn glc.Enum, ref int32, mask uint32) {
	v := s.stencilFront.val
	v.fn, v.ref, v.mask = fn, ref, mask
	s.setStencilSide(&s.stencilFront, glc.FRONT, v)
}

func (s *State) SetStencilFuncBack(fn glc.Enum, ref int32, mask uint32) {
	v := s.stencilBack.val
	v.fn, v.ref, v.mask = fn, ref, mask
	s.setStencilSide(&s.stencilBack, glc.BACK, v)
}

func (s *State) SetStencilWriteMaskFront(mask uint32) {
	v := s.stencilFront.val
	v.writeMask = mask
	s.setStencilSide(&s.stencilFront, glc.FRONT, v)
}

func (s *State) SetStencilWriteMaskBack(mask uint32) {
	v := s.stencilBack.val
	v.writeMask = mask
	s.setStencilSide(&s.stencilBack, glc.BACK, v)
}

func (s *State) SetStencilOpFront(sfail, dpfail, dppass glc.Enum) {
	v := s.stencilFront.val
	v.sfail, v.dpfail, v.dppass = sfail, dpfail, dppass
	s.setStencilSide(&s.stencilFront, glc.FRONT, v)
}

func (s *State) SetStencilOpBack(sfail, dpfail, dppass glc.Enum) {
	v := s.stencilBack.val
	v.sfail, v.dpfail, v.dppass = sfail, dpfail, dppass
	s.setStencilSide(&s.stencilBack, glc.BACK, v)
}

// --- rasterizer ----------------------------------------------------------

func (s *State) SetCullEnabled(enabled bool) {
	s.cullEnabled.apply(s.epoch, enabled, &s.stats, func() {
		if enabled {
			s.funcs.Enable(glc.CULL_FACE)
		} else {
			s.funcs.Disable(glc.CULL_FACE)
		}
	})
}

func (s *State) SetCullMode(mode glc.Enum) {
	s.cullMode.apply(s.epoch, mode, &s.stats, func() {
		s.funcs.CullFace(mode)
	})
}

func (s *State) SetFrontFace(mode glc.Enum) {
	s.frontFace.apply(s.epoch, mode, &s.stats, func() {
		s.funcs.FrontFace(mode)
	})
}

func (s *State) SetScissorEnabled(enabled bool) {
	s.scissorOn.apply(s.epoch, enabled, &s.stats, func() {
		if enabled {
			s.funcs.Enable(glc.SCISSOR_TEST)
		} else {
			s.funcs.Disable(glc.SCISSOR_TEST)
		}
	})
}

func (s *State) SetScissor(x, y, w, h int32) {
	s.scissorRect.apply(s.epoch, rect{x, y, w, h}, &s.stats, func() {
		s.funcs.Scissor(x, y, w, h)
	})
}

func (s *State) SetViewport(x, y, w, h int32) {
	s.viewportRect.apply(s.epoch, rect{x, y, w, h}, &s.stats, func() {
		s.funcs.Viewport(int(x), int(y), int(w), int(h))
	})
}

func (s *State) SetLineWidth(width float32) {
	s.lineWidth.apply(s.epoch, width, &s.stats, func() {
		s.funcs.LineWidth(width)
	})
}

// --- textures, buffers, program, VAO --------------------------------------

func (s *State) SetActiveTexture(unit int) {
	s.activeUnit.apply(s.epoch, unit, &s.stats, func() {
		s.funcs.ActiveTexture(glc.TEXTURE0 + glc.Enum(unit))
	})
}

// bindTarget is one of glc.TEXTURE_2D, glc.TEXTURE_3D, glc.TEXTURE_CUBE_MAP,
// glc.TEXTURE_2D_ARRAY.
func (s *State) BindTexture(unit int, target glc.Enum, t glc.Texture) {
	if unit < 0 || unit >= maxTexUnits {
		s.funcs.ActiveTexture(glc.TEXTURE0 + glc.Enum(unit))
		s.funcs.BindTexture(target, t)
		s.stats.Changed++
		return
	}
	valid := s.unitsValid[unit] == s.epoch
	cur := &s.units[unit]
	var curVal glc.Texture
	switch target {
	case glc.TEXTURE_2D:
		curVal = cur.tex2D
	case glc.TEXTURE_3D:
		curVal = cur.tex3D
	case glc.TEXTURE_CUBE_MAP:
		curVal = cur.texCube
	case glc.TEXTURE_2D_ARRAY:
		curVal = cur.tex2DArray
	}
	if valid && curVal == t {
		s.stats.Avoided++
		return
	}
	s.SetActiveTexture(unit)
	s.funcs.BindTexture(target, t)
	s.stats.Changed++
	if !valid {
		*cur = texUnit{}
	}
	switch target {
	case glc.TEXTURE_2D:
		cur.tex2D = t
	case glc.TEXTURE_3D:
		cur.tex3D = t
	case glc.TEXTURE_CUBE_MAP:
		cur.texCube = t
	case glc.TEXTURE_2D_ARRAY:
		cur.tex2DArray = t
	}
	s.unitsValid[unit] = s.epoch
}

// SetSampler binds the sampler object for unit. Sampler objects are not
// modeled as a cell like the texture targets because a unit has at
// most one: the comparison is a plain field check guarded by the same
// per-unit validity stamp BindTexture uses.
func (s *State) SetSampler(unit int, sampler glc.Object) {
	if unit < 0 || unit >= maxTexUnits {
		s.funcs.BindSampler(unit, sampler)
		s.stats.Changed++
		return
	}
	cur := &s.units[unit]
	if s.unitsValid[unit] == s.epoch && cur.sampler == sampler {
		s.stats.Avoided++
		return
	}
	s.funcs.BindSampler(unit, sampler)
	cur.sampler = sampler
	s.stats.Changed++
}

func (s *State) BindBuffer(target glc.Enum, b glc.Buffer) {
	cur, ok := s.buffers[target]
	if ok && cur.epoch == s.epoch && cur.val == b {
		s.stats.Avoided++
		return
	}
	s.funcs.BindBuffer(target, b)
	s.buffers[target] = bufferBindingCell{val: b, epoch: s.epoch}
	s.stats.Changed++
}

func (s *State) UseProgram(p glc.Program) {
	s.program.apply(s.epoch, p, &s.stats, func() {
		s.funcs.UseProgram(p)
	})
}

func (s *State) BindVertexArray(a glc.VertexArray) {
	s.vertexArray.apply(s.epoch, a, &s.stats, func() {
		s.funcs.BindVertexArray(a)
	})
}

// --- error draining --------------------------------------------------------

// DrainError surfaces the device's first pending error, per spec.md
// §4.B: "the tracker never reports errors for redundant sets [but]
// does surface the underlying device's error state via the
// error-query interceptor".
func (s *State) DrainError() glc.Enum {
	return s.funcs.GetError()
}

// --- push / pop ------------------------------------------------------------

func (s *State) snapshot() savedState {
	return savedState{
		blendEnabled: s.blendEnabled.val,
		blend:        s.blend.val,
		blendColor:   s.blendColor.val,
		depthTest:    s.depthTest.val,
		depthWrite:   s.depthWrite.val,
		depthFunc:    s.depthFunc.val,
		depthRange:   s.depthRange.val,
		stencilEn:    s.stencilEnabled.val,
		stencilFront: s.stencilFront.val,
		stencilBack:  s.stencilBack.val,
		cullEnabled:  s.cullEnabled.val,
		cullMode:     s.cullMode.val,
		frontFace:    s.frontFace.val,
		scissorOn:    s.scissorOn.val,
		scissorRect:  s.scissorRect.val,
		viewportRect: s.viewportRect.val,
		lineWidth:    s.lineWidth.val,
		activeUnit:   s.activeUnit.val,
		units:        s.units,
		program:      s.program.val,
		vertexArray:  s.vertexArray.val,
	}
}

// PushState saves the mirror onto the bounded stack, per spec.md §4.B.
// Overflow beyond stateStackDepth is a warning, not an error: the push
// is dropped and the caller's subsequent Pop simply has one less frame
// than it assumed.
func (s *State) PushState() {
	if len(s.stack) >= stateStackDepth {
		s.stats.StackOverflow++
		return
	}
	s.stack = append(s.stack, s.snapshot())
}

// PopState reapplies the saved state by driving the delta back through
// the public setters, so the mirror converges without redundant calls,
// exactly as spec.md §4.B specifies.
func (s *State) PopState() {
	if len(s.stack) == 0 {
		s.stats.StackUnderflow++
		return
	}
	saved := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]

	s.SetBlendEnabled(saved.blendEnabled)
	s.SetBlendFuncSeparate(saved.blend.srcRGB, saved.blend.dstRGB, saved.blend.srcA, saved.blend.dstA)
	s.SetBlendEquationSeparate(saved.blend.eqRGB, saved.blend.eqA)
	s.SetBlendColor(saved.blendColor.r, saved.blendColor.g, saved.blendColor.b, saved.blendColor.a)
	s.SetDepthTest(saved.depthTest)
	s.SetDepthMask(saved.depthWrite)
	s.SetDepthFunc(saved.depthFunc)
	s.SetDepthRange(saved.depthRange.near, saved.depthRange.far)
	s.SetStencilEnabled(saved.stencilEn)
	s.setStencilSide(&s.stencilFront, glc.FRONT, saved.stencilFront)
	s.setStencilSide(&s.stencilBack, glc.BACK, saved.stencilBack)
	s.SetCullEnabled(saved.cullEnabled)
	s.SetCullMode(saved.cullMode)
	s.SetFrontFace(saved.frontFace)
	s.SetScissorEnabled(saved.scissorOn)
	s.SetScissor(saved.scissorRect.x, saved.scissorRect.y, saved.scissorRect.w, saved.scissorRect.h)
	s.SetViewport(saved.viewportRect.x, saved.viewportRect.y, saved.viewportRect.w, saved.viewportRect.h)
	s.SetLineWidth(saved.lineWidth)
	for unit, u := range saved.units {
		if u.tex2D.Valid() {
			s.BindTexture(unit, glc.TEXTURE_2D, u.tex2D)
		}
		if u.tex3D.Valid() {
			s.BindTexture(unit, glc.TEXTURE_3D, u.tex3D)
		}
		if u.texCube.Valid() {
			s.BindTexture(unit, glc.TEXTURE_CUBE_MAP, u.texCube)
		}
		if u.tex2DArray.Valid() {
			s.BindTexture(unit, glc.TEXTURE_2D_ARRAY, u.tex2DArray)
		}
		if u.sampler.V != 0 {
			s.SetSampler(unit, u.sampler)
		}
	}
	s.SetActiveTexture(saved.activeUnit)
	s.UseProgram(saved.program)
	s.BindVertexArray(saved.vertexArray)
}
