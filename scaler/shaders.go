// SPDX-License-Identifier: Unlicense OR MIT

package scaler

import (
	"math"

	"github.com/kestrelgl/velocitygl/f32"
	glgl "github.com/kestrelgl/velocitygl/gpu/gl"
	glc "github.com/kestrelgl/velocitygl/internal/gl"
)

// quadNDC and quadUV are the fullscreen quad's two corner rectangles:
// the NDC square the vertex shader outputs positions in, and the UV
// square sampled from the off-screen colour target. Each of the six
// vertices below is a (NDC corner, UV corner) pair drawn from these two
// rectangles, rather than six hand-typed literal rows.
var quadNDC = f32.Rectangle{Min: f32.Point{X: -1, Y: -1}, Max: f32.Point{X: 1, Y: 1}}
var quadUV = f32.Rectangle{Min: f32.Point{X: 0, Y: 0}, Max: f32.Point{X: 1, Y: 1}}

// newQuadGeometry creates the fullscreen two-triangle quad VAO/VBO
// spec.md §4.F's "Contracts" paragraph requires be shared by both
// upscale programs, in the same interleaved pos+uv layout as gio's
// srgb.go blit quad.
func newQuadGeometry(f glc.Functions) quadGeometry {
	vbo := f.CreateBuffer()
	f.BindBuffer(glc.ARRAY_BUFFER, vbo)

	corners := []struct{ pos, uv f32.Point }{
		{f32.Point{X: quadNDC.Min.X, Y: quadNDC.Min.Y}, f32.Point{X: quadUV.Min.X, Y: quadUV.Min.Y}},
		{f32.Point{X: quadNDC.Max.X, Y: quadNDC.Min.Y}, f32.Point{X: quadUV.Max.X, Y: quadUV.Min.Y}},
		{f32.Point{X: quadNDC.Min.X, Y: quadNDC.Max.Y}, f32.Point{X: quadUV.Min.X, Y: quadUV.Max.Y}},
		{f32.Point{X: quadNDC.Min.X, Y: quadNDC.Max.Y}, f32.Point{X: quadUV.Min.X, Y: quadUV.Max.Y}},
		{f32.Point{X: quadNDC.Max.X, Y: quadNDC.Min.Y}, f32.Point{X: quadUV.Max.X, Y: quadUV.Min.Y}},
		{f32.Point{X: quadNDC.Max.X, Y: quadNDC.Max.Y}, f32.Point{X: quadUV.Max.X, Y: quadUV.Max.Y}},
	}
	verts := make([]float32, 0, len(corners)*4)
	for _, c := range corners {
		verts = append(verts, c.pos.X, c.pos.Y, c.uv.X, c.uv.Y)
	}
	f.BufferData(glc.ARRAY_BUFFER, bytesView(verts), glc.STATIC_DRAW)

	vao := f.CreateVertexArray()
	f.BindVertexArray(vao)
	f.VertexAttribPointer(0, 2, glc.FLOAT, false, 4*4, 0)
	f.VertexAttribPointer(1, 2, glc.FLOAT, false, 4*4, 2*4)
	f.EnableVertexAttribArray(0)
	f.EnableVertexAttribArray(1)
	f.BindVertexArray(glc.VertexArray{})
	f.BindBuffer(glc.ARRAY_BUFFER, glc.Buffer{})

	return quadGeometry{vao: vao, vbo: vbo}
}

// compileUpscaleProgram links fragSrc against the shared fullscreen-quad
// vertex shader, looking up the "tex" and (if present) "sharpenAmount"
// uniforms.
func compileUpscaleProgram(f glc.Functions, fragSrc string) (program, error) {
	p, err := glgl.CreateProgram(f, quadVertSrc, fragSrc, []string{"pos", "uv"})
	if err != nil {
		return program{}, err
	}
	return program{
		p:              p,
		texUniform:     glgl.GetUniformLocation(f, p, "tex"),
		sharpenUniform: glgl.GetUniformLocation(f, p, "sharpenAmount"),
	}, nil
}

// bytesView reinterprets a float32 slice as a byte slice, matching
// gio's app/internal/gl.BytesView helper.
func bytesView(f []float32) []byte {
	b := make([]byte, len(f)*4)
	for i, v := range f {
		u := math.Float32bits(v)
		b[4*i+0] = byte(u)
		b[4*i+1] = byte(u >> 8)
		b[4*i+2] = byte(u >> 16)
		b[4*i+3] = byte(u >> 24)
	}
	return b
}

const quadVertSrc = `#version 300 es

precision highp float;

layout(location = 0) in vec2 pos;
layout(location = 1) in vec2 uv;

out vec2 vUV;

void main() {
	gl_Position = vec4(pos, 0.0, 1.0);
	vUV = uv;
}
`

// bilinearFragSrc is the single-texture-fetch upscale pass spec.md
// §4.F names: "bilinear (single texture() fetch)".
const bilinearFragSrc = `#version 300 es

precision mediump float;

uniform sampler2D tex;
uniform float sharpenAmount; // unused, present so both programs share a uniform layout

in vec2 vUV;
out vec4 fragColor;

void main() {
	fragColor = texture(tex, vUV);
}
`

// casLiteFragSrc is the luma-based 3x3 contrast-adaptive sharpening
// pass spec.md §4.F names: "CAS-lite (luma-based 3x3 contrast-adaptive
// sharpening)". sharpenAmount in [0,1] blends the sharpened result with
// the plain bilinear sample.
const casLiteFragSrc = `#version 300 es

precision mediump float;

uniform sampler2D tex;
uniform float sharpenAmount;

in vec2 vUV;
out vec4 fragColor;

float luma(vec3 c) {
	return dot(c, vec3(0.2126, 0.7152, 0.0722));
}

void main() {
	vec2 ts = 1.0 / vec2(textureSize(tex, 0));

	vec3 center = texture(tex, vUV).rgb;
	vec3 n = texture(tex, vUV + vec2(0.0, ts.y)).rgb;
	vec3 s = texture(tex, vUV - vec2(0.0, ts.y)).rgb;
	vec3 e = texture(tex, vUV + vec2(ts.x, 0.0)).rgb;
	vec3 w = texture(tex, vUV - vec2(ts.x, 0.0)).rgb;

	float lC = luma(center);
	float lMin = min(luma(n), min(luma(s), min(luma(e), min(luma(w), lC))));
	float lMax = max(luma(n), max(luma(s), max(luma(e), max(luma(w), lC))));

	float amp = (lMax - lMin) > 0.0001 ? (1.0 - (lMax - lMin)) : 1.0;
	vec3 sharpened = center + (center - (n + s + e + w) * 0.25) * amp * sharpenAmount * 2.0;

	vec3 result = mix(center, sharpened, sharpenAmount);
	fragColor = vec4(result, texture(tex, vUV).a);
}
`
