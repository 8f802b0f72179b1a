// SPDX-License-Identifier: Unlicense OR MIT

package glsl

import (
	"strings"
	"testing"
)

func TestRewriteNormalizesDesktopVersionDirective(t *testing.T) {
	src := "#version 450 core\nvoid main() {}\n"
	got := Rewrite(src, StageVertex)
	if !strings.HasPrefix(got, "#version 300 es\n") {
		t.Fatalf("Rewrite() = %q, want it to start with the ES 3.00 directive", got)
	}
	if strings.Contains(got, "450") {
		t.Fatalf("Rewrite() = %q, want the desktop version number gone", got)
	}
}

func TestRewritePrependsVersionWhenAbsent(t *testing.T) {
	src := "void main() { gl_Position = vec4(0.0); }\n"
	got := Rewrite(src, StageVertex)
	if !strings.HasPrefix(got, "#version 300 es\n") {
		t.Fatalf("Rewrite() = %q, want a version directive prepended", got)
	}
}

func TestRewriteAddsFragmentPrecisionHeader(t *testing.T) {
	src := "#version 330\nout vec4 o;\nvoid main() { o = vec4(1.0); }\n"
	got := Rewrite(src, StageFragment)
	if !strings.Contains(got, "precision highp float;") {
		t.Fatalf("Rewrite() = %q, want a precision header injected", got)
	}
}

func TestRewriteSkipsPrecisionHeaderWhenAlreadyPresent(t *testing.T) {
	src := "#version 330\nprecision mediump float;\nout vec4 o;\nvoid main() { o = vec4(1.0); }\n"
	got := Rewrite(src, StageFragment)
	if strings.Count(got, "precision ") != 1 {
		t.Fatalf("Rewrite() = %q, want the existing precision statement left alone, not duplicated", got)
	}
}

func TestRewriteReplacesLegacyTextureFetchFunctions(t *testing.T) {
	src := "#version 330\nuniform sampler2D tex;\nvoid main() { vec4 c = texture2D(tex, vec2(0.0)); }\n"
	got := Rewrite(src, StageFragment)
	if strings.Contains(got, "texture2D(") {
		t.Fatalf("Rewrite() = %q, want texture2D( rewritten to texture(", got)
	}
	if !strings.Contains(got, "texture(tex") {
		t.Fatalf("Rewrite() = %q, want a texture( call present", got)
	}
}

func TestRewriteReplacesGLFragColorWithExplicitOutput(t *testing.T) {
	src := "#version 120\nvoid main() { gl_FragColor = vec4(1.0); }\n"
	got := Rewrite(src, StageFragment)
	if strings.Contains(got, "gl_FragColor") {
		t.Fatalf("Rewrite() = %q, want gl_FragColor rewritten away", got)
	}
	if !strings.Contains(got, "out vec4 fragColor;") {
		t.Fatalf("Rewrite() = %q, want an explicit fragColor output declared", got)
	}
	if !strings.Contains(got, "fragColor = vec4(1.0)") {
		t.Fatalf("Rewrite() = %q, want the assignment rewritten to the new output name", got)
	}
}

func TestRewriteCommentsOutGLClipVertex(t *testing.T) {
	src := "#version 330\nvoid main() { gl_ClipVertex = vec4(0.0); gl_Position = vec4(0.0); }\n"
	got := Rewrite(src, StageVertex)
	if strings.Contains(got, "gl_ClipVertex =") {
		t.Fatalf("Rewrite() = %q, want the gl_ClipVertex assignment neutralized", got)
	}
}

func TestRewriteVertexStageDoesNotInjectPrecisionOrFragColor(t *testing.T) {
	src := "#version 330\nvoid main() { gl_Position = vec4(0.0); }\n"
	got := Rewrite(src, StageVertex)
	if strings.Contains(got, "precision ") {
		t.Fatalf("Rewrite() = %q, vertex stage should not get a precision header", got)
	}
}
