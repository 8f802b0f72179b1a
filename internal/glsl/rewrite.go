// SPDX-License-Identifier: Unlicense OR MIT

// Package glsl is the minimal desktop-GLSL-to-GLSL-ES rewriter spec.md
// §1 scopes narrowly: "no GLSL rewriting beyond prefix/precision/symbol
// substitution". It is a direct, deliberately narrowed port of
// original_source/native/src/shader/shader_translator.c's
// shaderTranslate — the version-directive rewrite, the precision
// header injection, the texture2D/3D/Cube/shadow2D -> texture rename,
// and the gl_FragColor -> out-variable rewrite all survive; anything
// resembling a real parser (original_source's glsl_parser.c) does not,
// since this package's only job is making desktop-authored source link
// against the GLES 3.00 core this library actually executes on.
package glsl

import (
	"regexp"
	"strings"
)

// Stage distinguishes vertex from fragment source, since only
// fragment shaders get a precision header and a gl_FragColor rewrite.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

var versionRE = regexp.MustCompile(`(?m)^\s*#version\s+\d+(\s+\w+)?\s*$`)

// Rewrite translates source, authored against desktop GLSL, into GLSL
// ES 3.00 source suitable for this library's GLES3 backend. It is
// idempotent: rewriting already-ES source is a no-op beyond the
// version-directive normalization.
func Rewrite(source string, stage Stage) string {
	out := rewriteVersion(source)
	if stage == StageFragment {
		out = injectPrecision(out)
		out = rewriteFragColor(out)
	}
	out = substituteSymbols(out)
	return out
}

// rewriteVersion replaces (or, if absent, prepends) the #version
// directive with "#version 300 es", mirroring shaderTranslate's
// replaceVersionDirective — simplified to a single fixed target
// version since this library always executes on a GLES 3.0 core
// profile, never GLES 3.1/3.2.
func rewriteVersion(source string) string {
	const target = "#version 300 es"
	if versionRE.MatchString(source) {
		return versionRE.ReplaceAllString(source, target)
	}
	return target + "\n" + source
}

// injectPrecision inserts the default precision block immediately
// after the version directive, unless the source already declares one
// — mirroring shaderTranslate's "add precision qualifiers if not
// present" step.
func injectPrecision(source string) string {
	if strings.Contains(source, "precision ") {
		return source
	}
	const header = "precision highp float;\nprecision highp int;\nprecision highp sampler2D;\nprecision highp sampler3D;\nprecision highp samplerCube;\n"
	nl := strings.IndexByte(source, '\n')
	if nl < 0 {
		return source + "\n" + header
	}
	return source[:nl+1] + header + source[nl+1:]
}

var legacyTextureFnRE = regexp.MustCompile(`\b(texture2D|texture3D|textureCube|shadow2D)\(`)

// rewriteFragColor replaces the legacy gl_FragColor output with an
// explicit `out vec4 fragColor` declaration inserted after the
// version/precision header, mirroring shaderTranslate's equivalent
// step for GLSL ES 3.00's mandatory explicit fragment output.
func rewriteFragColor(source string) string {
	if !strings.Contains(source, "gl_FragColor") {
		return source
	}
	insertAt := 0
	for {
		idx := strings.Index(source[insertAt:], "precision")
		if idx < 0 {
			break
		}
		lineEnd := strings.IndexByte(source[insertAt+idx:], '\n')
		if lineEnd < 0 {
			break
		}
		insertAt += idx + lineEnd + 1
	}
	if insertAt == 0 {
		if nl := strings.IndexByte(source, '\n'); nl >= 0 {
			insertAt = nl + 1
		}
	}
	const decl = "out vec4 fragColor;\n"
	out := source[:insertAt] + decl + source[insertAt:]
	return strings.ReplaceAll(out, "gl_FragColor", "fragColor")
}

var clipVertexRE = regexp.MustCompile(`\bgl_ClipVertex\b[^;]*;`)

// substituteSymbols applies the fixed prefix/symbol substitution
// table: the desktop sampler-fetch spellings collapse onto GLSL ES
// 3.00's single overloaded texture(), and each gl_ClipVertex statement
// — which GLES has no equivalent for — is replaced by a comment rather
// than left to fail to compile.
func substituteSymbols(source string) string {
	out := legacyTextureFnRE.ReplaceAllString(source, "texture(")
	out = clipVertexRE.ReplaceAllString(out, "/* clip-vertex write removed (unsupported) */")
	return out
}
