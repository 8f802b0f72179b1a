// SPDX-License-Identifier: Unlicense OR MIT

// Command velocitygl-bench drives a headless gpu.Context through a
// synthetic frame loop and prints its stats, mirroring gio's
// cmd/gio convention of shipping a command alongside the library.
// It talks to a fake GLES function table rather than a real driver,
// so it measures the library's own bookkeeping overhead (state
// filtering, batching, pool allocation) in isolation, not driver
// throughput.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/kestrelgl/velocitygl/batch"
	"github.com/kestrelgl/velocitygl/config"
	"github.com/kestrelgl/velocitygl/gpu"
	glc "github.com/kestrelgl/velocitygl/internal/gl"
)

var (
	frames        = flag.Int("frames", 600, "number of synthetic frames to drive")
	tier          = flag.Int("tier", 3, "performance tier (1-5) used for config.RecommendedFor")
	drawsPerFrame = flag.Int("draws", 64, "synthetic draw calls issued per frame")
	width         = flag.Int("width", 1920, "native render width")
	height        = flag.Int("height", 1080, "native render height")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	cfg := config.RecommendedFor(*tier)
	f := &benchFuncs{}
	ctx, err := gpu.New(gpu.NewParams{
		Funcs:        f,
		NativeWidth:  *width,
		NativeHeight: *height,
		VendorStr:    "ARM",
		RendererStr:  "Mali-G710",
		VersionStr:   "OpenGL ES 3.2",
		Config:       cfg,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "velocitygl-bench: gpu.New: %v\n", err)
		os.Exit(1)
	}

	vs := "void main(){gl_Position=vec4(0.0);}"
	fs := "void main(){gl_FragColor=vec4(1.0);}"
	prog, err := ctx.CompileProgram(vs, fs, []string{"pos"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "velocitygl-bench: CompileProgram: %v\n", err)
		os.Exit(1)
	}
	vao := ctx.Backend.RawFuncs().CreateVertexArray()
	key := batch.Key{Program: prog, VertexArray: vao, Mode: glc.TRIANGLES}

	start := time.Now()
	for i := 0; i < *frames; i++ {
		ctx.BeginFrame()
		for d := 0; d < *drawsPerFrame; d++ {
			ctx.Batch.Submit(batch.Command{
				Kind:  batch.KindArrays,
				Key:   key,
				First: 0,
				Count: 6,
			})
		}
		ctx.Scaler.RecordFrameTime(syntheticFrameMs())
		ctx.EndFrame()
	}
	elapsed := time.Since(start)

	stats := ctx.Stats()
	fmt.Printf("frames=%d elapsed=%s avg_frame=%s\n", *frames, elapsed, elapsed/time.Duration(*frames))
	fmt.Printf("state: changed=%d avoided=%d\n", stats.State.Changed, stats.State.Avoided)
	fmt.Printf("batch: submitted=%d executed=%d saved=%d batches=%d\n",
		stats.Batch.Submitted, stats.Batch.Executed, stats.Batch.Saved, stats.Batch.BatchesCreated)
	fmt.Printf("shader cache: hits=%d misses=%d entries=%d bytes=%d\n",
		stats.Shader.Hits, stats.Shader.Misses, stats.Shader.Entries, stats.Shader.TotalBytes)
	fmt.Printf("scaler: scale=%.3f scale_changes=%d\n", stats.Scale, stats.ScaleChanges)
	fmt.Printf("memory usage: %d bytes\n", ctx.MemoryUsage())
}

// syntheticFrameMs produces a jittery frame time centred a little
// above 16.67ms, so the scaler's adaptive loop has something to react
// to over the course of the run.
func syntheticFrameMs() float32 {
	return 17 + rand.Float32()*6
}

// benchFuncs is a minimal glc.Functions double: enough for
// gpu.New's probing and a full begin/submit/end frame loop to run
// against no real driver, in the spirit of gpu/context_test.go's
// fakeFuncs but scoped to package main since that type is unexported.
type benchFuncs struct {
	glc.Functions

	next uint
}

func (f *benchFuncs) handle() uint { f.next++; return f.next }

func (f *benchFuncs) GetString(pname glc.Enum) string {
	switch pname {
	case glc.VERSION:
		return "OpenGL ES 3.2 VelocityGL-bench"
	case glc.EXTENSIONS:
		return ""
	default:
		return ""
	}
}

func (f *benchFuncs) GetBinding(pname glc.Enum) glc.Object { return glc.Object{} }
func (f *benchFuncs) GetInteger(pname glc.Enum) int         { return 4096 }

func (f *benchFuncs) CreateTexture() glc.Texture  { return glc.Texture{V: f.handle()} }
func (f *benchFuncs) DeleteTexture(t glc.Texture) {}
func (f *benchFuncs) TexParameteri(target, pname glc.Enum, v int) {}
func (f *benchFuncs) TexImage2D(target glc.Enum, level int, internalFormat glc.Enum, width, height int, format, ty glc.Enum) {
}

func (f *benchFuncs) CreateFramebuffer() glc.Framebuffer  { return glc.Framebuffer{V: f.handle()} }
func (f *benchFuncs) DeleteFramebuffer(fb glc.Framebuffer) {}
func (f *benchFuncs) BindFramebuffer(target glc.Enum, fb glc.Framebuffer) {}
func (f *benchFuncs) FramebufferTexture2D(target, attachment glc.Enum, texTarget glc.Enum, t glc.Texture, level int) {
}
func (f *benchFuncs) CheckFramebufferStatus(target glc.Enum) glc.Enum { return glc.FRAMEBUFFER_COMPLETE }

func (f *benchFuncs) ActiveTexture(texture glc.Enum)             {}
func (f *benchFuncs) BindTexture(target glc.Enum, t glc.Texture) {}
func (f *benchFuncs) UseProgram(p glc.Program)                   {}
func (f *benchFuncs) BindVertexArray(va glc.VertexArray)         {}
func (f *benchFuncs) Viewport(x, y, width, height int)           {}
func (f *benchFuncs) Disable(cap glc.Enum)                       {}
func (f *benchFuncs) Enable(cap glc.Enum)                        {}
func (f *benchFuncs) Uniform1i(dst glc.Uniform, v int)     {}
func (f *benchFuncs) Uniform1f(dst glc.Uniform, v float32) {}
func (f *benchFuncs) DrawArrays(mode glc.Enum, first, count int) {}
func (f *benchFuncs) DrawArraysInstanced(mode glc.Enum, first, count, instances int) {
}
func (f *benchFuncs) DrawElements(mode glc.Enum, count int, ty glc.Enum, offset int) {
}
func (f *benchFuncs) DrawElementsInstanced(mode glc.Enum, count int, ty glc.Enum, offset, instances int) {
}

func (f *benchFuncs) CreateShader(ty glc.Enum) glc.Shader  { return glc.Shader{V: f.handle()} }
func (f *benchFuncs) ShaderSource(s glc.Shader, src string) {}
func (f *benchFuncs) CompileShader(s glc.Shader)            {}
func (f *benchFuncs) GetShaderi(s glc.Shader, pname glc.Enum) int {
	if pname == glc.COMPILE_STATUS {
		return 1
	}
	return 0
}
func (f *benchFuncs) GetShaderInfoLog(s glc.Shader) string { return "" }
func (f *benchFuncs) DeleteShader(s glc.Shader)            {}

func (f *benchFuncs) CreateProgram() glc.Program { return glc.Program{V: f.handle()} }
func (f *benchFuncs) AttachShader(p glc.Program, s glc.Shader)                    {}
func (f *benchFuncs) BindAttribLocation(p glc.Program, a glc.Attrib, name string) {}
func (f *benchFuncs) LinkProgram(p glc.Program)                                   {}
func (f *benchFuncs) GetProgrami(p glc.Program, pname glc.Enum) int {
	if pname == glc.LINK_STATUS {
		return 1
	}
	return 0
}
func (f *benchFuncs) GetProgramInfoLog(p glc.Program) string { return "" }
func (f *benchFuncs) DeleteProgram(p glc.Program)            {}
func (f *benchFuncs) GetUniformLocation(p glc.Program, name string) glc.Uniform {
	return glc.Uniform{V: 1}
}
func (f *benchFuncs) ProgramBinary(p glc.Program, format glc.Enum, binary []byte) bool { return true }
func (f *benchFuncs) GetProgramBinary(p glc.Program) ([]byte, glc.Enum, bool) {
	return []byte{1, 2, 3}, glc.Enum(1), true
}

func (f *benchFuncs) CreateBuffer() glc.Buffer                               { return glc.Buffer{V: f.handle()} }
func (f *benchFuncs) DeleteBuffer(b glc.Buffer)                              {}
func (f *benchFuncs) BindBuffer(target glc.Enum, b glc.Buffer)               {}
func (f *benchFuncs) BufferData(target glc.Enum, src []byte, usage glc.Enum) {}
func (f *benchFuncs) BufferSubData(target glc.Enum, offset int, src []byte)  {}
func (f *benchFuncs) MapBufferRange(target glc.Enum, offset, length int, access glc.Enum) []byte {
	return nil
}
func (f *benchFuncs) UnmapBuffer(target glc.Enum)                               {}
func (f *benchFuncs) FlushMappedBufferRange(target glc.Enum, offset, length int) {}
func (f *benchFuncs) FenceSync(condition glc.Enum) glc.Sync { return glc.Sync{V: uintptr(f.handle())} }
func (f *benchFuncs) ClientWaitSync(sync glc.Sync, flags glc.Enum, timeout time.Duration) glc.Enum {
	return glc.CONDITION_SATISFIED
}
func (f *benchFuncs) DeleteSync(sync glc.Sync) {}

func (f *benchFuncs) CreateVertexArray() glc.VertexArray  { return glc.VertexArray{V: f.handle()} }
func (f *benchFuncs) DeleteVertexArray(va glc.VertexArray) {}
func (f *benchFuncs) VertexAttribPointer(a glc.Attrib, size int, ty glc.Enum, normalized bool, stride, offset int) {
}
func (f *benchFuncs) EnableVertexAttribArray(a glc.Attrib)  {}
func (f *benchFuncs) DisableVertexAttribArray(a glc.Attrib) {}
func (f *benchFuncs) GetAttribLocation(p glc.Program, name string) glc.Attrib {
	return glc.Attrib(0)
}
