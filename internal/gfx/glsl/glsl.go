// Package glsl holds the fixed shader sources used to draw point clouds and
// helpers for reporting shader diagnostics.
package glsl

import (
	_ "embed"
	"fmt"
	"strings"
)

// PointVertex is the vertex stage of the point program. A three-component
// color attribute is widened to vec4 with alpha 1 by the GL.
//
//go:embed point.vert
var PointVertex string

//go:embed point.frag
var PointFragment string

// MVPUniform is the name of the model-view-projection uniform.
const MVPUniform = "mvp"

// Annotate renders source with line numbers followed by the driver info log,
// so compile errors that cite a line can be read against the listing.
func Annotate(source, infoLog string) string {
	var b strings.Builder
	lines := strings.Split(strings.TrimSuffix(source, "\n"), "\n")
	for i, line := range lines {
		fmt.Fprintf(&b, "%4d | %s\n", i+1, line)
	}
	b.WriteString(strings.TrimRight(infoLog, "\x00\n"))
	return b.String()
}
