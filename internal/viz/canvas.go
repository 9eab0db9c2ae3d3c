package viz

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a grid of braille cells, Width*2 by Height*4 dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at (x, y) in dot coordinates; out of range is ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// Plot lights the dot nearest (u, v), with both in [-1, 1] and v up.
func (c *Canvas) Plot(u, v float64) {
	w, h := float64(c.Width*2-1), float64(c.Height*4-1)
	x := int(math.Round((u + 1) / 2 * w))
	y := int(math.Round((1 - v) / 2 * h))
	c.Set(x, y)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// DirectionMap draws directions seen from behind the beam axis: each unit
// vector lands at its (x, y) components, inside the outline of the unit
// circle.
func DirectionMap(dirs []r3.Vec, w, h int) string {
	c := NewCanvas(w, h)
	const outline = 96
	for i := range outline {
		phi := 2 * math.Pi * float64(i) / outline
		c.Plot(math.Cos(phi), math.Sin(phi))
	}
	for _, d := range dirs {
		c.Plot(d.X, d.Y)
	}
	return c.String()
}
