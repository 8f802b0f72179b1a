// SPDX-License-Identifier: Unlicense OR MIT

package egl

import (
	"errors"
	"fmt"
	"strings"
)

// eglExtensions is the EGL_EXTENSIONS query name (distinct from GLES's
// own GL_EXTENSIONS string, which gpu/gl.Backend queries separately).
const eglExtensions _EGLint = 0x3055

// Context is the thin window-system surface/context shim spec.md §1
// names as an external collaborator ("consumed, not specified"). It is
// implemented only as far as is needed to be a believable collaborator
// for CreateContext/MakeCurrent/SwapBuffers — not a full EGL
// reimplementation.
type Context struct {
	disp    _EGLDisplay
	cfg     _EGLConfig
	ctx     _EGLContext
	surf    _EGLSurface
	current bool
}

// NewContext acquires an EGL display, chooses a config and creates a
// GLES3 context, mirroring the attribute lists gio's egl_windows.go
// uses for the same purpose.
func NewContext(disp NativeDisplayType) (*Context, error) {
	if err := loadEGL(); err != nil {
		return nil, err
	}
	eglDisp := eglGetDisplay(disp)
	if eglDisp == 0 {
		return nil, errors.New("egl: eglGetDisplay failed")
	}
	if _, _, ok := eglInitialize(eglDisp); !ok {
		return nil, fmt.Errorf("egl: eglInitialize failed: %#x", eglGetError())
	}
	attribs := []_EGLint{
		0x3040, 4, // EGL_RENDERABLE_TYPE, EGL_OPENGL_ES3_BIT_KHR
		0x3024, 8, // EGL_RED_SIZE
		0x3023, 8, // EGL_GREEN_SIZE
		0x3022, 8, // EGL_BLUE_SIZE
		0x3021, 8, // EGL_ALPHA_SIZE
		0x3025, 24, // EGL_DEPTH_SIZE
		0x3026, 8, // EGL_STENCIL_SIZE
		0x3038, // EGL_NONE
	}
	cfg, ok := eglChooseConfig(eglDisp, attribs)
	if !ok {
		return nil, fmt.Errorf("egl: eglChooseConfig failed: %#x", eglGetError())
	}
	ctxAttribs := []_EGLint{
		0x3098, 3, // EGL_CONTEXT_MAJOR_VERSION
		0x30FB, 0, // EGL_CONTEXT_MINOR_VERSION
		0x3038, // EGL_NONE
	}
	ctx := eglCreateContext(eglDisp, cfg, 0, ctxAttribs)
	if ctx == 0 {
		return nil, fmt.Errorf("egl: eglCreateContext failed: %#x", eglGetError())
	}
	return &Context{disp: eglDisp, cfg: cfg, ctx: ctx}, nil
}

// SetSwapInterval controls whether SwapBuffers blocks for vsync. The
// scaler's FramePacer wants it disabled (interval 0) while measuring
// submit-to-present latency, so frame time isn't padded by the
// display's refresh cadence.
func (c *Context) SetSwapInterval(interval int) error {
	if !eglSwapInterval(c.disp, _EGLint(interval)) {
		return fmt.Errorf("egl: eglSwapInterval failed: %#x", eglGetError())
	}
	return nil
}

// Extensions reports the EGL-level extension strings the display
// advertises, the EGL counterpart to gpu/gl.Backend.HasExtension's
// GLES-level scan.
func (c *Context) Extensions() []string {
	return strings.Split(eglQueryString(c.disp, eglExtensions), " ")
}

// CreateSurface binds an on-screen window surface to the context.
func (c *Context) CreateSurface(win NativeWindowType) error {
	surf := eglCreateWindowSurface(c.disp, c.cfg, win, []_EGLint{0x3038})
	if surf == 0 {
		return fmt.Errorf("egl: eglCreateWindowSurface failed: %#x", eglGetError())
	}
	c.surf = surf
	return nil
}

// MakeCurrent binds the context (and its surface, if any) to the
// calling thread, per spec.md §5's rendering-thread contract.
func (c *Context) MakeCurrent() error {
	if !eglMakeCurrent(c.disp, c.surf, c.surf, c.ctx) {
		return fmt.Errorf("egl: eglMakeCurrent failed: %#x", eglGetError())
	}
	c.current = true
	return nil
}

// ReleaseCurrent unbinds the context from the calling thread.
func (c *Context) ReleaseCurrent() {
	if !c.current {
		return
	}
	eglMakeCurrent(c.disp, 0, 0, 0)
	eglReleaseThread()
	c.current = false
}

// SwapBuffers presents the surface, advancing the window system's
// front/back buffers.
func (c *Context) SwapBuffers() error {
	if !eglSwapBuffers(c.disp, c.surf) {
		return fmt.Errorf("egl: eglSwapBuffers failed: %#x", eglGetError())
	}
	return nil
}

// Release tears down the surface and context. Safe to call more than
// once; a failing CreateContext path calls it to unwind whatever was
// already allocated.
func (c *Context) Release() {
	if c.surf != 0 {
		eglDestroySurface(c.disp, c.surf)
		c.surf = 0
	}
	if c.ctx != 0 {
		eglDestroyContext(c.disp, c.ctx)
		c.ctx = 0
	}
	if c.disp != 0 {
		eglTerminate(c.disp)
		c.disp = 0
	}
}
