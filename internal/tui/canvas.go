package tui

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBase = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells addressed in dots: Width*2 by Height*4.
type Canvas struct {
	Width, Height int
	grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, grid: make([][]rune, h)}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = brailleBase
		}
	}
}

// Plot projects p by mvp and sets the dot under it. Points outside the
// clip volume are dropped. It reports whether a dot was set.
func (c *Canvas) Plot(p mgl32.Vec3, mvp mgl32.Mat4) bool {
	clip := mvp.Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	if ndc[0] < -1 || ndc[0] > 1 || ndc[1] < -1 || ndc[1] > 1 || ndc[2] < -1 || ndc[2] > 1 {
		return false
	}
	dotsW, dotsH := float32(c.Width*2-1), float32(c.Height*4-1)
	x := int((ndc[0] + 1) / 2 * dotsW)
	y := int((1 - ndc[1]) / 2 * dotsH)
	c.Set(x, y)
	return true
}

// Aspect is the width/height ratio of the canvas in dots.
func (c *Canvas) Aspect() float32 {
	if c.Height == 0 {
		return 1
	}
	return float32(c.Width*2) / float32(c.Height*4)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.grid {
		b.WriteString(string(row))
		if i < len(c.grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
