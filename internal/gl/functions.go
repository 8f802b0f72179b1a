// SPDX-License-Identifier: Unlicense OR MIT

package gl

import "time"

// Functions is the raw GLES3 entry-point surface that every higher-level
// package (state tracker, buffer pool, shader cache, batcher, scaler) is
// built on. It deliberately exposes only the subset of GLES3 actually
// exercised by those packages, not the whole API.
type Functions interface {
	ActiveTexture(texture Enum)
	AttachShader(p Program, s Shader)
	BeginQuery(target Enum, query Query)
	BindAttribLocation(p Program, a Attrib, name string)
	BindBuffer(target Enum, b Buffer)
	BindBufferBase(target Enum, index int, b Buffer)
	BindBufferRange(target Enum, index int, b Buffer, offset, size int)
	BindFramebuffer(target Enum, fb Framebuffer)
	BindRenderbuffer(target Enum, rb Renderbuffer)
	BindSampler(unit int, sampler Object)
	BindTexture(target Enum, t Texture)
	BindVertexArray(va VertexArray)
	BlendColor(r, g, b, a float32)
	BlendEquation(mode Enum)
	BlendFunc(src, dst Enum)
	BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA Enum)
	BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int, mask Enum, filter Enum)
	BufferData(target Enum, src []byte, usage Enum)
	BufferSubData(target Enum, offset int, src []byte)
	CheckFramebufferStatus(target Enum) Enum
	Clear(mask Enum)
	ClearColor(r, g, b, a float32)
	ClearDepthf(d float32)
	ClientWaitSync(sync Sync, flags Enum, timeout time.Duration) Enum
	ColorMask(r, g, b, a bool)
	CompileShader(s Shader)
	CreateBuffer() Buffer
	CreateFramebuffer() Framebuffer
	CreateProgram() Program
	CreateQuery() Query
	CreateRenderbuffer() Renderbuffer
	CreateShader(ty Enum) Shader
	CreateTexture() Texture
	CreateVertexArray() VertexArray
	CullFace(mode Enum)
	DeleteBuffer(b Buffer)
	DeleteFramebuffer(fb Framebuffer)
	DeleteProgram(p Program)
	DeleteQuery(query Query)
	DeleteRenderbuffer(rb Renderbuffer)
	DeleteShader(s Shader)
	DeleteSync(sync Sync)
	DeleteTexture(t Texture)
	DeleteVertexArray(va VertexArray)
	DepthFunc(f Enum)
	DepthMask(mask bool)
	DepthRangef(near, far float32)
	Disable(cap Enum)
	DisableVertexAttribArray(a Attrib)
	EnableVertexAttribArray(a Attrib)
	DrawArrays(mode Enum, first, count int)
	DrawArraysInstanced(mode Enum, first, count, instances int)
	DrawBuffers(bufs []Enum)
	DrawElements(mode Enum, count int, ty Enum, offset int)
	DrawElementsInstanced(mode Enum, count int, ty Enum, offset, instances int)
	Enable(cap Enum)
	EndQuery(target Enum)
	Finish()
	Flush()
	FlushMappedBufferRange(target Enum, offset, length int)
	FenceSync(condition Enum) Sync
	FramebufferRenderbuffer(target, attachment Enum, rbTarget Enum, rb Renderbuffer)
	FramebufferTexture2D(target, attachment Enum, texTarget Enum, t Texture, level int)
	FrontFace(mode Enum)
	GenerateMipmap(target Enum)
	GetAttribLocation(p Program, name string) Attrib
	GetBinding(pname Enum) Object
	GetError() Enum
	GetFloat(pname Enum) float32
	GetFloat4(pname Enum) [4]float32
	GetInteger(pname Enum) int
	GetInteger4(pname Enum) [4]int
	GetProgrami(p Program, pname Enum) int
	GetProgramBinary(p Program) (binary []byte, format Enum, ok bool)
	GetProgramInfoLog(p Program) string
	GetQueryObjectuiv(query Query, pname Enum) uint
	GetShaderi(s Shader, pname Enum) int
	GetShaderInfoLog(s Shader) string
	GetString(pname Enum) string
	GetStringi(pname Enum, index int) string
	GetUniformBlockIndex(p Program, name string) uint
	GetUniformLocation(p Program, name string) Uniform
	InvalidateFramebuffer(target, attachment Enum)
	IsEnabled(cap Enum) bool
	LineWidth(width float32)
	LinkProgram(p Program)
	MapBufferRange(target Enum, offset, length int, access Enum) []byte
	PixelStorei(pname Enum, param int32)
	ProgramBinary(p Program, format Enum, binary []byte) bool
	ReadPixels(x, y, width, height int, format, ty Enum) []byte
	RenderbufferStorage(target, internalformat Enum, width, height int)
	Scissor(x, y, width, height int32)
	ShaderSource(s Shader, src string)
	StencilFuncSeparate(face, fn Enum, ref int32, mask uint32)
	StencilMaskSeparate(face Enum, mask uint32)
	StencilOpSeparate(face, sfail, dpfail, dppass Enum)
	TexImage2D(target Enum, level int, internalFormat Enum, width, height int, format, ty Enum)
	TexParameterf(target, pname Enum, value float32)
	TexParameteri(target, pname Enum, value int)
	TexStorage2D(target Enum, levels int, internalFormat Enum, width, height int)
	TexSubImage2D(target Enum, level int, x, y, width, height int, format, ty Enum, data []byte)
	Uniform1f(dst Uniform, v float32)
	Uniform1i(dst Uniform, v int)
	Uniform2f(dst Uniform, v0, v1 float32)
	Uniform3f(dst Uniform, v0, v1, v2 float32)
	Uniform4f(dst Uniform, v0, v1, v2, v3 float32)
	UniformBlockBinding(p Program, uniformBlockIndex uint, uniformBlockBinding uint)
	UniformMatrix4fv(dst Uniform, src []float32)
	UnmapBuffer(target Enum)
	UseProgram(p Program)
	VertexAttribDivisor(a Attrib, divisor int)
	VertexAttribPointer(a Attrib, size int, ty Enum, normalized bool, stride, offset int)
	Viewport(x, y, width, height int)
}
