// SPDX-License-Identifier: Unlicense OR MIT

// Package scaler is the dynamic resolution scaler spec.md §4.F
// describes: an off-screen colour+depth-stencil render target sized
// adaptively from a frame-time feedback loop, composited onto the
// default framebuffer through a bilinear or CAS-lite upscale pass.
// Grounded on gio's gpu/headless package (self-contained off-screen
// framebuffer lifecycle) and gpu/gl/backend.go's NewFramebuffer
// (completeness re-verified on every resize); the feedback controller
// itself is new code in the teacher's idiom, since nothing in the
// corpus offers a frame-pacing/feedback-controller library.
package scaler

import (
	"fmt"
	"log"
	"math"

	glc "github.com/kestrelgl/velocitygl/internal/gl"
)

// Device is the subset of the GLES3 surface the scaler drives: texture
// and framebuffer lifecycle, the fullscreen-quad draw, and the handful
// of pipeline toggles end_frame needs around the upscale blit.
type Device interface {
	CreateTexture(minFilter, magFilter glc.Enum) glc.Texture
	ResizeColorTexture(tex glc.Texture, width, height int)
	ResizeDepthStencilTexture(tex glc.Texture, width, height int)
	NewFramebuffer(color, depthStencil glc.Texture) (glc.Framebuffer, error)
	DefaultFramebuffer() glc.Framebuffer

	RawFuncs() glc.Functions

	// Invalidate forces the pipeline-state tracker to re-set every
	// mirrored value on its next call, per spec.md §4.B: BeginFrame
	// and EndFrame both rebind framebuffer/viewport/program/VAO/
	// texture-unit-0 directly on RawFuncs, bypassing the tracker, so
	// it must be told its mirror no longer matches reality.
	Invalidate()
}

// roundEven rounds x to the nearest integer and, if that lands on an
// odd value, nudges to the nearer even one, per spec.md §4.F's
// "render_w = round_even(native_w · s)".
func roundEven(x float32) int {
	n := int(math.Round(float64(x)))
	if n%2 == 0 {
		return n
	}
	if x-float32(n-1) <= float32(n+1)-x {
		return n - 1
	}
	return n + 1
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Target is the scaler's off-screen render target: one colour texture
// (RGBA8), one depth-stencil texture (D24S8), and the framebuffer that
// binds them, per spec.md §4.F.
type Target struct {
	Color        glc.Texture
	DepthStencil glc.Texture
	FB           glc.Framebuffer
	Width        int
	Height       int
}

// frameWindow is the 60-sample circular buffer spec.md §4.F's adaptive
// loop reads, implemented as a plain slice index — container/ring would
// add an interface-boxing layer for no benefit over a fixed-size array.
const windowSize = 60

type frameWindow struct {
	samples [windowSize]float32
	count   int
	next    int
	sum     float32
}

func (w *frameWindow) add(ms float32) {
	if w.count == windowSize {
		w.sum -= w.samples[w.next]
	} else {
		w.count++
	}
	w.samples[w.next] = ms
	w.sum += ms
	w.next = (w.next + 1) % windowSize
}

func (w *frameWindow) average() float32 {
	if w.count == 0 {
		return 0
	}
	return w.sum / float32(w.count)
}

// Scaler owns the off-screen target, the adaptive feedback loop and the
// two upscale programs. It is driven once per frame from the rendering
// thread; per spec.md §5 it takes no lock of its own.
type Scaler struct {
	device Device

	enabled       bool
	sharpen       bool
	sharpenAmount float32
	scale         float32
	minScale      float32
	maxScale      float32
	nativeW       int
	nativeH       int
	adjustSpd     float32

	window       frameWindow
	targetFrameMs float32
	scaleChanges  uint64

	target Target

	quad quadGeometry
	bilinear program
	cas      program
}

// quadGeometry is the shared fullscreen-quad VAO/VBO spec.md §4.F's
// "Contracts" paragraph requires be created once and shared by both
// upscale programs.
type quadGeometry struct {
	vao glc.VertexArray
	vbo glc.Buffer
}

type program struct {
	p        glc.Program
	texUniform glc.Uniform
	sharpenUniform glc.Uniform
}

// Config bundles the construction-time parameters spec.md §6's config
// surface exposes for the scaler.
type Config struct {
	Enabled           bool
	MinScale          float32
	MaxScale          float32
	TargetFPS         float32
	AdjustSpeed       float32
	SharpeningEnabled bool
	SharpeningAmount  float32
}

// New builds a scaler sized for nativeW×nativeH, compiling its two
// upscale programs and creating the shared fullscreen-quad geometry.
// The off-screen target is created here too, at the starting (maximum)
// scale, so construction needs a bound context.
func New(device Device, nativeW, nativeH int, cfg Config) (*Scaler, error) {
	if cfg.MinScale <= 0 {
		cfg.MinScale = 0.5
	}
	if cfg.MaxScale <= 0 {
		cfg.MaxScale = 1.0
	}
	if cfg.TargetFPS <= 0 {
		cfg.TargetFPS = 60
	}
	if cfg.AdjustSpeed <= 0 {
		cfg.AdjustSpeed = 0.5
	}
	if cfg.SharpeningAmount <= 0 {
		cfg.SharpeningAmount = 1
	}

	s := &Scaler{
		device:        device,
		enabled:       cfg.Enabled,
		sharpen:       cfg.SharpeningEnabled,
		sharpenAmount: clampF(cfg.SharpeningAmount, 0, 1),
		scale:         cfg.MaxScale,
		minScale:      cfg.MinScale,
		maxScale:      cfg.MaxScale,
		nativeW:       nativeW,
		nativeH:       nativeH,
		adjustSpd:     cfg.AdjustSpeed,
		targetFrameMs: 1000 / cfg.TargetFPS,
	}

	f := device.RawFuncs()
	bp, err := compileUpscaleProgram(f, bilinearFragSrc)
	if err != nil {
		return nil, fmt.Errorf("scaler: compile bilinear program: %w", err)
	}
	s.bilinear = bp
	cp, err := compileUpscaleProgram(f, casLiteFragSrc)
	if err != nil {
		return nil, fmt.Errorf("scaler: compile CAS-lite program: %w", err)
	}
	s.cas = cp

	s.quad = newQuadGeometry(f)

	if err := s.rebuildTarget(); err != nil {
		return nil, err
	}
	return s, nil
}

// renderSize computes render_w/render_h per spec.md §4.F's
// "render_w = round_even(native_w · s), clamped to [64, 2·native_w]".
func (s *Scaler) renderSize() (int, int) {
	w := clampInt(roundEven(float32(s.nativeW)*s.scale), 64, 2*s.nativeW)
	h := clampInt(roundEven(float32(s.nativeH)*s.scale), 64, 2*s.nativeH)
	return w, h
}

func (s *Scaler) rebuildTarget() error {
	w, h := s.renderSize()
	f := s.device.RawFuncs()

	old := s.target
	color := s.device.CreateTexture(glc.LINEAR, glc.LINEAR)
	s.device.ResizeColorTexture(color, w, h)
	depthStencil := s.device.CreateTexture(glc.NEAREST, glc.NEAREST)
	s.device.ResizeDepthStencilTexture(depthStencil, w, h)
	fb, err := s.device.NewFramebuffer(color, depthStencil)
	if err != nil {
		f.DeleteTexture(color)
		f.DeleteTexture(depthStencil)
		return fmt.Errorf("scaler: rebuild target %dx%d: %w", w, h, err)
	}

	s.target = Target{Color: color, DepthStencil: depthStencil, FB: fb, Width: w, Height: h}

	if old.FB.Valid() {
		f.DeleteFramebuffer(old.FB)
		f.DeleteTexture(old.Color)
		f.DeleteTexture(old.DepthStencil)
	}
	return nil
}

// SetEnabled toggles dynamic resolution per set_dynamic_resolution.
func (s *Scaler) SetEnabled(enabled bool) { s.enabled = enabled }

// SetSharpening toggles the CAS-lite pass and sets its blend amount
// (clamped to [0,1]), per spec.md §4.F: "Sharpening amount is a uniform
// in [0,1]".
func (s *Scaler) SetSharpening(enabled bool, amount float32) {
	s.sharpen = enabled
	s.sharpenAmount = clampF(amount, 0, 1)
}

// Sharpening reports the current sharpen toggle and blend amount.
func (s *Scaler) Sharpening() (enabled bool, amount float32) {
	return s.sharpen, s.sharpenAmount
}

// Scale reports the current scale factor, for get_resolution_scale.
func (s *Scaler) Scale() float32 { return s.scale }

// SetScale forces the scale factor, for set_resolution_scale, rebuilding
// the target if it actually changes.
func (s *Scaler) SetScale(scale float32) error {
	scale = clampF(scale, s.minScale, s.maxScale)
	if scale == s.scale {
		return nil
	}
	s.scale = scale
	return s.rebuildTarget()
}

// ScaleChanges reports how many times the adaptive loop has committed a
// scale change, for diagnostics.
func (s *Scaler) ScaleChanges() uint64 { return s.scaleChanges }

// RecordFrameTime appends ms to the 60-sample window and, if disabled,
// does nothing further; if enabled, it evaluates spec.md §4.F's
// adaptive formula and rebuilds the target when the proposed scale
// differs enough to matter.
func (s *Scaler) RecordFrameTime(ms float32) {
	s.window.add(ms)
	if !s.enabled || s.window.count < windowSize {
		return
	}
	avg := s.window.average()
	delta := (avg - s.targetFrameMs) / s.targetFrameMs
	if delta > -0.1 && delta < 0.1 {
		return
	}
	proposed := clampF(s.scale-delta*s.adjustSpd, s.minScale, s.maxScale)
	diff := proposed - s.scale
	if diff < 0 {
		diff = -diff
	}
	if diff <= 0.01 {
		return
	}
	s.scale = proposed
	s.scaleChanges++
	if err := s.rebuildTarget(); err != nil {
		log.Printf("scaler: adaptive rebuild failed: %v", err)
	}
}

// BeginFrame reports the dimensions the caller should render at. If
// disabled, it reports native dimensions and does not rebind anything,
// per spec.md §4.F: "if disabled, report native dimensions and do not
// rebind".
func (s *Scaler) BeginFrame() (renderW, renderH int) {
	if !s.enabled {
		return s.nativeW, s.nativeH
	}
	f := s.device.RawFuncs()
	f.BindFramebuffer(glc.FRAMEBUFFER, s.target.FB)
	f.Viewport(0, 0, s.target.Width, s.target.Height)
	s.device.Invalidate()
	return s.target.Width, s.target.Height
}

// EndFrame composites the off-screen target onto the default
// framebuffer through the selected upscale program, per spec.md §4.F's
// end_frame sequence.
func (s *Scaler) EndFrame() {
	if !s.enabled {
		return
	}
	f := s.device.RawFuncs()
	f.BindFramebuffer(glc.FRAMEBUFFER, s.device.DefaultFramebuffer())
	f.Viewport(0, 0, s.nativeW, s.nativeH)
	f.Disable(glc.DEPTH_TEST)
	f.Disable(glc.BLEND)

	prog := s.bilinear
	if s.sharpen {
		prog = s.cas
	}
	f.UseProgram(prog.p)
	f.ActiveTexture(glc.TEXTURE0)
	f.BindTexture(glc.TEXTURE_2D, s.target.Color)
	f.Uniform1i(prog.texUniform, 0)
	if prog.sharpenUniform.Valid() {
		amount := float32(0)
		if s.sharpen {
			amount = s.sharpenAmount
		}
		f.Uniform1f(prog.sharpenUniform, amount)
	}
	f.BindVertexArray(s.quad.vao)
	f.DrawArrays(glc.TRIANGLES, 0, 6)

	f.Enable(glc.DEPTH_TEST)
	s.device.Invalidate()
}

// Release deletes the off-screen target, both upscale programs and the
// shared quad geometry — the scaler's entire resource footprint, per
// spec.md §4.F's "never leaks these across shutdown".
func (s *Scaler) Release() {
	f := s.device.RawFuncs()
	if s.target.FB.Valid() {
		f.DeleteFramebuffer(s.target.FB)
		f.DeleteTexture(s.target.Color)
		f.DeleteTexture(s.target.DepthStencil)
	}
	if s.bilinear.p.Valid() {
		f.DeleteProgram(s.bilinear.p)
	}
	if s.cas.p.Valid() {
		f.DeleteProgram(s.cas.p)
	}
	if s.quad.vao.Valid() {
		f.DeleteVertexArray(s.quad.vao)
	}
	if s.quad.vbo.Valid() {
		f.DeleteBuffer(s.quad.vbo)
	}
}
