// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"fmt"
	"strings"

	glc "github.com/kestrelgl/velocitygl/internal/gl"
)

// Backend is the concrete GLES3 driver binding every other subsystem
// forwards through: the batcher issues draws on it, the shader cache
// links programs through it, the buffer pool creates buffers on it.
// Every stateful entry point goes through the embedded *State first.
type Backend struct {
	Funcs glc.Functions
	State *State

	defFBO glc.Framebuffer

	glVer [2]int
	exts  []string

	maxTextureSize int

	activeUnit int
}

// NewBackend probes the driver's version/extension surface and builds
// a Backend bound to a fresh pipeline mirror, generalizing gio's
// gpu/gl.NewBackend to construct the full State tracker instead of
// gio's float/srgba/alpha texture-triple detection: this library's
// single off-screen colour target is always plain RGBA8 (scaler.go's
// "one colour texture (RGBA8)"), which GLES 3.0 guarantees as a
// renderable internal format, so no FBO-completeness probing is
// needed to pick one.
func NewBackend(f glc.Functions) (*Backend, error) {
	exts := strings.Split(f.GetString(glc.EXTENSIONS), " ")
	ver, err := ParseGLVersion(f.GetString(glc.VERSION))
	if err != nil {
		return nil, err
	}
	b := &Backend{
		Funcs:          f,
		State:          NewState(f),
		defFBO:         glc.Framebuffer{V: f.GetBinding(glc.FRAMEBUFFER_BINDING).V},
		glVer:          ver,
		exts:           exts,
		maxTextureSize: f.GetInteger(glc.MAX_TEXTURE_SIZE),
	}
	return b, nil
}

// MaxTextureSize reports the driver-advertised limit.
func (b *Backend) MaxTextureSize() int { return b.maxTextureSize }

// GLVersion reports the driver's parsed (major, minor) GLES version.
func (b *Backend) GLVersion() [2]int { return b.glVer }

// HasExtension reports whether the driver advertises ext.
func (b *Backend) HasExtension(ext string) bool { return hasExtension(b.exts, ext) }

// Invalidate forces State's pipeline mirror to re-set every value on
// its next Set* call, per spec.md §4.B's "any internal subsystem that
// issues GL directly must call invalidate on the state tracker before
// returning" — the scaler's framebuffer/program/VAO/texture-unit-0
// rebinding around the upscale blit is exactly that case.
func (b *Backend) Invalidate() { b.State.Invalidate() }

// DefaultFramebuffer returns the framebuffer bound at context creation
// (the window system's own backbuffer).
func (b *Backend) DefaultFramebuffer() glc.Framebuffer { return b.defFBO }

// RawFuncs exposes the underlying GLES3 function table for subsystems
// (the scaler's target and upscale blit, the buffer pools, the texture
// pool and the shader cache) that need
// entry points beyond Backend's own higher-level helpers.
func (b *Backend) RawFuncs() glc.Functions { return b.Funcs }

// CreateProgram compiles and links a vertex+fragment pair, binding
// attrib locations by name before linking so the input layout is
// stable across relink.
func (b *Backend) CreateProgram(vsSrc, fsSrc string, attribs []string) (glc.Program, error) {
	return CreateProgram(b.Funcs, vsSrc, fsSrc, attribs)
}

// CreateTexture allocates a 2D texture with the given min/mag filters
// and clamp-to-edge wrap, mirroring gio's NewTexture.
func (b *Backend) CreateTexture(minFilter, magFilter glc.Enum) glc.Texture {
	tex := b.Funcs.CreateTexture()
	b.State.BindTexture(0, glc.TEXTURE_2D, tex)
	b.Funcs.TexParameteri(glc.TEXTURE_2D, glc.TEXTURE_MAG_FILTER, int(magFilter))
	b.Funcs.TexParameteri(glc.TEXTURE_2D, glc.TEXTURE_MIN_FILTER, int(minFilter))
	b.Funcs.TexParameteri(glc.TEXTURE_2D, glc.TEXTURE_WRAP_S, glc.CLAMP_TO_EDGE)
	b.Funcs.TexParameteri(glc.TEXTURE_2D, glc.TEXTURE_WRAP_T, glc.CLAMP_TO_EDGE)
	return tex
}

// ResizeColorTexture reallocates storage for the scaler's off-screen
// colour texture, per spec.md §4.F's "one colour texture (RGBA8)" —
// plain RGBA8, never an sRGB format, so the driver never applies an
// sRGB<->linear decode on sampling.
func (b *Backend) ResizeColorTexture(tex glc.Texture, width, height int) {
	b.State.BindTexture(0, glc.TEXTURE_2D, tex)
	b.Funcs.TexImage2D(glc.TEXTURE_2D, 0, glc.RGBA8, width, height, glc.Enum(glc.RGBA), glc.Enum(glc.UNSIGNED_BYTE))
}

// ResizeDepthStencilTexture reallocates a combined depth24-stencil8
// texture, as spec.md §4.F's off-screen target requires ("depth-stencil
// texture D24S8").
func (b *Backend) ResizeDepthStencilTexture(tex glc.Texture, width, height int) {
	b.State.BindTexture(0, glc.TEXTURE_2D, tex)
	b.Funcs.TexImage2D(glc.TEXTURE_2D, 0, glc.DEPTH24_STENCIL8, width, height, glc.Enum(glc.DEPTH_STENCIL), glc.Enum(glc.UNSIGNED_INT_24_8))
}

// NewFramebuffer creates a framebuffer with a colour attachment and an
// optional depth-stencil attachment, and verifies completeness per
// spec.md §3: "framebuffer completeness is re-verified at every
// resize".
func (b *Backend) NewFramebuffer(color, depthStencil glc.Texture) (glc.Framebuffer, error) {
	fb := b.Funcs.CreateFramebuffer()
	b.Funcs.BindFramebuffer(glc.FRAMEBUFFER, fb)
	b.Funcs.FramebufferTexture2D(glc.FRAMEBUFFER, glc.COLOR_ATTACHMENT0, glc.TEXTURE_2D, color, 0)
	if depthStencil.Valid() {
		b.Funcs.FramebufferTexture2D(glc.FRAMEBUFFER, glc.DEPTH_STENCIL_ATTACHMENT, glc.TEXTURE_2D, depthStencil, 0)
	}
	if st := b.Funcs.CheckFramebufferStatus(glc.FRAMEBUFFER); st != glc.FRAMEBUFFER_COMPLETE {
		b.Funcs.DeleteFramebuffer(fb)
		return glc.Framebuffer{}, fmt.Errorf("gl: incomplete framebuffer, status=0x%x", st)
	}
	return fb, nil
}

func hasExtension(exts []string, ext string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}
