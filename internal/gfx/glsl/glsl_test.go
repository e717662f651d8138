package glsl

import (
	"strings"
	"testing"
)

func TestAnnotate(t *testing.T) {
	src := "#version 410 core\nvoid main()\n{\n}\n"
	out := Annotate(src, "0:2(1): error: oops\n\x00")

	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "   1 | #version 410 core" {
		t.Errorf("unexpected first line: %q", lines[0])
	}
	if lines[3] != "   4 | }" {
		t.Errorf("unexpected last source line: %q", lines[3])
	}
	if lines[4] != "0:2(1): error: oops" {
		t.Errorf("info log not trimmed: %q", lines[4])
	}
}

func TestEmbeddedSources(t *testing.T) {
	if !strings.Contains(PointVertex, "uniform mat4 "+MVPUniform) {
		t.Error("vertex shader does not declare the mvp uniform")
	}
	for name, src := range map[string]string{"vertex": PointVertex, "fragment": PointFragment} {
		if !strings.HasPrefix(src, "#version") {
			t.Errorf("%s shader must start with a #version directive", name)
		}
	}
}
