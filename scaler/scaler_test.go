// SPDX-License-Identifier: Unlicense OR MIT

package scaler

import (
	"testing"

	glc "github.com/kestrelgl/velocitygl/internal/gl"
)

// fakeDevice implements Device entirely in memory, mirroring the
// fakeDevice pattern used by bufferpool/pool_test.go and
// shadercache/cache_test.go.
type fakeDevice struct {
	nextTex         uint
	nextFB          uint
	funcs           *fakeFuncs
	invalidateCalls int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{funcs: &fakeFuncs{}}
}

func (d *fakeDevice) CreateTexture(minFilter, magFilter glc.Enum) glc.Texture {
	d.nextTex++
	return glc.Texture{V: d.nextTex}
}

func (d *fakeDevice) ResizeColorTexture(tex glc.Texture, width, height int)        {}
func (d *fakeDevice) ResizeDepthStencilTexture(tex glc.Texture, width, height int) {}

func (d *fakeDevice) NewFramebuffer(color, depthStencil glc.Texture) (glc.Framebuffer, error) {
	d.nextFB++
	return glc.Framebuffer{V: d.nextFB}, nil
}

func (d *fakeDevice) DefaultFramebuffer() glc.Framebuffer { return glc.Framebuffer{} }

func (d *fakeDevice) RawFuncs() glc.Functions { return d.funcs }

func (d *fakeDevice) Invalidate() { d.invalidateCalls++ }

// fakeFuncs implements just enough of glc.Functions for the scaler's
// program-compile and draw paths to run without a real driver: shader
// compile/link always "succeeds", and every other call is a no-op.
type fakeFuncs struct {
	glc.Functions
	boundFB glc.Framebuffer
	viewW   int
	viewH   int
}

func (f *fakeFuncs) CreateShader(ty glc.Enum) glc.Shader   { return glc.Shader{V: 1} }
func (f *fakeFuncs) ShaderSource(s glc.Shader, src string) {}
func (f *fakeFuncs) CompileShader(s glc.Shader)            {}
func (f *fakeFuncs) GetShaderi(s glc.Shader, pname glc.Enum) int {
	if pname == glc.COMPILE_STATUS {
		return 1
	}
	return 0
}
func (f *fakeFuncs) GetShaderInfoLog(s glc.Shader) string { return "" }
func (f *fakeFuncs) CreateProgram() glc.Program           { return glc.Program{V: 1} }
func (f *fakeFuncs) AttachShader(p glc.Program, s glc.Shader)             {}
func (f *fakeFuncs) BindAttribLocation(p glc.Program, a glc.Attrib, name string) {}
func (f *fakeFuncs) LinkProgram(p glc.Program)                            {}
func (f *fakeFuncs) GetProgrami(p glc.Program, pname glc.Enum) int {
	if pname == glc.LINK_STATUS {
		return 1
	}
	return 0
}
func (f *fakeFuncs) GetProgramInfoLog(p glc.Program) string          { return "" }
func (f *fakeFuncs) DeleteShader(s glc.Shader)                       {}
func (f *fakeFuncs) GetUniformLocation(p glc.Program, name string) glc.Uniform {
	return glc.Uniform{V: 1}
}
func (f *fakeFuncs) CreateBuffer() glc.Buffer                                 { return glc.Buffer{V: 1} }
func (f *fakeFuncs) BindBuffer(target glc.Enum, b glc.Buffer)                 {}
func (f *fakeFuncs) BufferData(target glc.Enum, src []byte, usage glc.Enum)   {}
func (f *fakeFuncs) CreateVertexArray() glc.VertexArray                      { return glc.VertexArray{V: 1} }
func (f *fakeFuncs) BindVertexArray(va glc.VertexArray)                      {}
func (f *fakeFuncs) VertexAttribPointer(a glc.Attrib, size int, ty glc.Enum, normalized bool, stride, offset int) {
}
func (f *fakeFuncs) EnableVertexAttribArray(a glc.Attrib)  {}
func (f *fakeFuncs) DisableVertexAttribArray(a glc.Attrib) {}
func (f *fakeFuncs) DeleteBuffer(b glc.Buffer)             {}
func (f *fakeFuncs) DeleteVertexArray(va glc.VertexArray)  {}
func (f *fakeFuncs) DeleteTexture(t glc.Texture)           {}
func (f *fakeFuncs) DeleteFramebuffer(fb glc.Framebuffer)  {}
func (f *fakeFuncs) DeleteProgram(p glc.Program)           {}
func (f *fakeFuncs) BindFramebuffer(target glc.Enum, fb glc.Framebuffer) {
	f.boundFB = fb
}
func (f *fakeFuncs) Viewport(x, y, width, height int) {
	f.viewW, f.viewH = width, height
}
func (f *fakeFuncs) Disable(cap glc.Enum)                        {}
func (f *fakeFuncs) Enable(cap glc.Enum)                         {}
func (f *fakeFuncs) UseProgram(p glc.Program)                    {}
func (f *fakeFuncs) ActiveTexture(texture glc.Enum)               {}
func (f *fakeFuncs) BindTexture(target glc.Enum, t glc.Texture)   {}
func (f *fakeFuncs) Uniform1i(dst glc.Uniform, v int)             {}
func (f *fakeFuncs) Uniform1f(dst glc.Uniform, v float32)         {}
func (f *fakeFuncs) DrawArrays(mode glc.Enum, first, count int)   {}

func TestNewBuildsTargetAtMaxScale(t *testing.T) {
	dev := newFakeDevice()
	s, err := New(dev, 1920, 1080, Config{Enabled: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.target.Width != 1920 || s.target.Height != 1080 {
		t.Fatalf("target = %dx%d, want 1920x1080 at scale 1.0", s.target.Width, s.target.Height)
	}
}

func TestBeginFrameDisabledReportsNativeAndDoesNotRebind(t *testing.T) {
	dev := newFakeDevice()
	s, err := New(dev, 800, 600, Config{Enabled: false})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dev.funcs.boundFB = glc.Framebuffer{V: 999} // sentinel: should stay untouched
	w, h := s.BeginFrame()
	if w != 800 || h != 600 {
		t.Fatalf("BeginFrame() = %d,%d, want native 800,600 when disabled", w, h)
	}
	if dev.funcs.boundFB.V != 999 {
		t.Fatalf("BeginFrame rebound the framebuffer while disabled")
	}
}

func TestBeginFrameEnabledBindsOffscreenTarget(t *testing.T) {
	dev := newFakeDevice()
	s, err := New(dev, 800, 600, Config{Enabled: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w, h := s.BeginFrame()
	if w != s.target.Width || h != s.target.Height {
		t.Fatalf("BeginFrame() = %d,%d, want target dims %d,%d", w, h, s.target.Width, s.target.Height)
	}
	if dev.funcs.boundFB != s.target.FB {
		t.Fatalf("BeginFrame did not bind the off-screen framebuffer")
	}
}

// TestRecordFrameTimeAdaptsScaleDown is spec.md §8 boundary scenario 5:
// a sustained high frame time should, once the 60-sample window fills,
// commit at least one scale-down.
func TestRecordFrameTimeAdaptsScaleDown(t *testing.T) {
	dev := newFakeDevice()
	s, err := New(dev, 1920, 1080, Config{
		Enabled:     true,
		MinScale:    0.5,
		MaxScale:    1.0,
		TargetFPS:   60, // targetFrameMs ~= 16.67
		AdjustSpeed: 0.5,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	startScale := s.Scale()

	// 33ms per frame is ~2x the 16.67ms target: delta is well past the
	// 0.1 gate, so the window filling should trigger a commit.
	for i := 0; i < windowSize; i++ {
		s.RecordFrameTime(33.0)
	}

	if s.ScaleChanges() == 0 {
		t.Fatalf("ScaleChanges() = 0, want at least one commit under sustained high frame time")
	}
	if s.Scale() >= startScale {
		t.Fatalf("Scale() = %v, want it to have decreased from %v", s.Scale(), startScale)
	}
	if s.Scale() < s.minScale {
		t.Fatalf("Scale() = %v, want >= minScale %v", s.Scale(), s.minScale)
	}
}

func TestRecordFrameTimeDoesNothingBeforeWindowFills(t *testing.T) {
	dev := newFakeDevice()
	s, err := New(dev, 1920, 1080, Config{Enabled: true, TargetFPS: 60})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < windowSize-1; i++ {
		s.RecordFrameTime(100.0)
	}
	if s.ScaleChanges() != 0 {
		t.Fatalf("ScaleChanges() = %d, want 0 before the window fills", s.ScaleChanges())
	}
}

func TestRecordFrameTimeDisabledNeverAdapts(t *testing.T) {
	dev := newFakeDevice()
	s, err := New(dev, 1920, 1080, Config{Enabled: false, TargetFPS: 60})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < windowSize*2; i++ {
		s.RecordFrameTime(100.0)
	}
	if s.ScaleChanges() != 0 {
		t.Fatalf("ScaleChanges() = %d, want 0 while disabled", s.ScaleChanges())
	}
}

func TestRenderSizeClampsToEvenBounds(t *testing.T) {
	dev := newFakeDevice()
	s, err := New(dev, 1920, 1080, Config{Enabled: true, MinScale: 0.01, MaxScale: 3.0})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.SetScale(0.01); err != nil {
		t.Fatalf("SetScale: %v", err)
	}
	w, h := s.renderSize()
	if w != 64 || h != 64 {
		t.Fatalf("renderSize() = %d,%d at near-zero scale, want clamped to 64,64", w, h)
	}

	if err := s.SetScale(3.0); err != nil {
		t.Fatalf("SetScale: %v", err)
	}
	w, h = s.renderSize()
	if w != 2*1920 || h != 2*1080 {
		t.Fatalf("renderSize() = %d,%d at scale 3.0, want clamped to %d,%d", w, h, 2*1920, 2*1080)
	}
}

func TestRoundEvenNudgesOddResultsToNearerEven(t *testing.T) {
	cases := []struct {
		in   float32
		want int
	}{
		{4.0, 4},
		{4.4, 4},
		{4.6, 4}, // rounds to 5 (odd) then nudges to the nearer even neighbour (4, distance 0.6 vs 6's 1.4)
		{5.0, 4}, // exact odd input nudges down (tie broken toward n-1)
		{2.0, 2},
	}
	for _, c := range cases {
		if got := roundEven(c.in); got%2 != 0 {
			t.Fatalf("roundEven(%v) = %d, want an even result", c.in, got)
		} else if got != c.want {
			t.Fatalf("roundEven(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestSetSharpeningClampsAmount(t *testing.T) {
	dev := newFakeDevice()
	s, err := New(dev, 800, 600, Config{Enabled: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.SetSharpening(true, 5.0)
	enabled, amount := s.Sharpening()
	if !enabled || amount != 1 {
		t.Fatalf("Sharpening() = %v,%v, want true,1 (clamped)", enabled, amount)
	}
	s.SetSharpening(false, -5.0)
	enabled, amount = s.Sharpening()
	if enabled || amount != 0 {
		t.Fatalf("Sharpening() = %v,%v, want false,0 (clamped)", enabled, amount)
	}
}

// TestBeginEndFrameInvalidateStateTracker guards against the bug where
// BeginFrame/EndFrame rebind framebuffer/viewport/program/VAO/texture-unit-0
// directly on RawFuncs, bypassing Backend.State's redundant-call filter: if
// the real State tracker isn't told to invalidate its mirror, the next
// frame's first UseProgram/BindVertexArray/BindTexture calls for the actual
// scene can be wrongly filtered as redundant against the scaler's bindings.
func TestBeginEndFrameInvalidateStateTracker(t *testing.T) {
	dev := newFakeDevice()
	s, err := New(dev, 800, 600, Config{Enabled: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dev.invalidateCalls = 0

	s.BeginFrame()
	if dev.invalidateCalls != 1 {
		t.Fatalf("invalidateCalls after BeginFrame = %d, want 1", dev.invalidateCalls)
	}

	s.EndFrame()
	if dev.invalidateCalls != 2 {
		t.Fatalf("invalidateCalls after EndFrame = %d, want 2", dev.invalidateCalls)
	}
}

func TestBeginFrameDisabledDoesNotInvalidate(t *testing.T) {
	dev := newFakeDevice()
	s, err := New(dev, 800, 600, Config{Enabled: false})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.BeginFrame()
	s.EndFrame()
	if dev.invalidateCalls != 0 {
		t.Fatalf("invalidateCalls = %d, want 0 when disabled", dev.invalidateCalls)
	}
}

func TestReleaseDeletesTargetAndPrograms(t *testing.T) {
	dev := newFakeDevice()
	s, err := New(dev, 800, 600, Config{Enabled: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Release() // must not panic on a fully-populated scaler
}
