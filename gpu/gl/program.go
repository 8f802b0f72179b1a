// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"fmt"
	"regexp"
	"strconv"

	glc "github.com/kestrelgl/velocitygl/internal/gl"
)

var glVersionRE = regexp.MustCompile(`^(?:OpenGL ES(?: GLSL ES)? )?(\d+)\.(\d+)`)

// ParseGLVersion extracts the (major, minor) pair from a GL_VERSION
// string such as "OpenGL ES 3.1 build 1.13" or a desktop "4.6.0".
func ParseGLVersion(s string) ([2]int, error) {
	m := glVersionRE.FindStringSubmatch(s)
	if m == nil {
		return [2]int{}, fmt.Errorf("gl: failed to parse GL version %q", s)
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return [2]int{}, err
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return [2]int{}, err
	}
	return [2]int{major, minor}, nil
}

// CreateProgram compiles, attaches and links a vertex+fragment shader
// pair, binding each named attribute to its slice index before
// linking. This is the same compile/link fallback path the shader
// cache calls into on a miss.
func CreateProgram(f glc.Functions, vsSrc, fsSrc string, attribs []string) (glc.Program, error) {
	vs, err := compileShader(f, glc.VERTEX_SHADER, vsSrc)
	if err != nil {
		return glc.Program{}, err
	}
	defer f.DeleteShader(vs)
	fs, err := compileShader(f, glc.FRAGMENT_SHADER, fsSrc)
	if err != nil {
		return glc.Program{}, err
	}
	defer f.DeleteShader(fs)

	p := f.CreateProgram()
	f.AttachShader(p, vs)
	f.AttachShader(p, fs)
	for i, name := range attribs {
		if name == "" {
			continue
		}
		f.BindAttribLocation(p, glc.Attrib(i), name)
	}
	f.LinkProgram(p)
	if f.GetProgrami(p, glc.LINK_STATUS) == 0 {
		log := f.GetProgramInfoLog(p)
		f.DeleteProgram(p)
		return glc.Program{}, fmt.Errorf("gl: program link failed: %s", log)
	}
	return p, nil
}

func compileShader(f glc.Functions, typ glc.Enum, src string) (glc.Shader, error) {
	s := f.CreateShader(typ)
	f.ShaderSource(s, src)
	f.CompileShader(s)
	if f.GetShaderi(s, glc.COMPILE_STATUS) == 0 {
		log := f.GetShaderInfoLog(s)
		f.DeleteShader(s)
		return glc.Shader{}, fmt.Errorf("gl: shader compile failed: %s", log)
	}
	return s, nil
}

// GetUniformLocation looks up uniform name in program p, returning the
// invalid Uniform if it isn't found (unused uniforms are optimized
// away by some drivers, which is not an error).
func GetUniformLocation(f glc.Functions, p glc.Program, name string) glc.Uniform {
	return f.GetUniformLocation(p, name)
}
