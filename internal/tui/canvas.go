package tui

import (
	"math"
	"strings"

	"github.com/drmarkreuter/physiCCs/internal/engine"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille pixel grid that draws layout-space geometry. One
// terminal cell holds 2x4 dots, so a canvas of W x H cells exposes a
// (W*2) x (H*4) dot grid. Fit establishes the layout-to-dot scale; the
// layout-space drawing methods go through it so the simulations never
// know about cells.
type Canvas struct {
	Width, Height int
	Grid          [][]rune

	sx, sy float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	c.Fit(layoutW, layoutH)
	return c
}

// Fit sets the scale so the given layout extent fills the dot grid.
func (c *Canvas) Fit(w, h float64) {
	c.sx = float64(c.Width*2) / w
	c.sy = float64(c.Height*4) / h
}

// Set turns on the dot at (x, y) in dot coordinates.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

func (c *Canvas) dotX(x float64) int { return int(x * c.sx) }
func (c *Canvas) dotY(y float64) int { return int(y * c.sy) }

// Dot draws a single layout-space point.
func (c *Canvas) Dot(p engine.Vec2) {
	c.Set(c.dotX(p.X), c.dotY(p.Y))
}

// Line draws a layout-space segment using Bresenham's algorithm.
func (c *Canvas) Line(a, b engine.Vec2) {
	x0, y0 := c.dotX(a.X), c.dotY(a.Y)
	x1, y1 := c.dotX(b.X), c.dotY(b.Y)

	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Box draws a layout-space rectangle outline.
func (c *Canvas) Box(r engine.Rect) {
	tl := engine.Vec2{X: r.X, Y: r.Y}
	tr := engine.Vec2{X: r.X + r.W, Y: r.Y}
	bl := engine.Vec2{X: r.X, Y: r.Y + r.H}
	br := engine.Vec2{X: r.X + r.W, Y: r.Y + r.H}
	c.Line(tl, tr)
	c.Line(tr, br)
	c.Line(br, bl)
	c.Line(bl, tl)
}

// FillBox draws a filled layout-space rectangle.
func (c *Canvas) FillBox(r engine.Rect) {
	x0, y0 := c.dotX(r.X), c.dotY(r.Y)
	x1, y1 := c.dotX(r.X+r.W), c.dotY(r.Y+r.H)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.Set(x, y)
		}
	}
}

// Circle draws a layout-space circle outline. The radius follows the
// horizontal scale; the vertical scale corrects the y coordinate so
// the circle stays round on screen.
func (c *Canvas) Circle(center engine.Vec2, radius float64) {
	cx, cy := c.dotX(center.X), c.dotY(center.Y)
	r := int(radius * c.sx)
	if r < 1 {
		c.Set(cx, cy)
		return
	}
	aspect := c.sy / c.sx

	x, y := r, 0
	err := 1 - r
	for x >= y {
		c.setRound(cx, cy, x, y, aspect)
		c.setRound(cx, cy, y, x, aspect)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

func (c *Canvas) setRound(cx, cy, dx, dy int, aspect float64) {
	ay := int(float64(dy) * aspect)
	c.Set(cx+dx, cy+ay)
	c.Set(cx-dx, cy+ay)
	c.Set(cx+dx, cy-ay)
	c.Set(cx-dx, cy-ay)
}

// Disc draws a filled layout-space circle.
func (c *Canvas) Disc(center engine.Vec2, radius float64) {
	cx, cy := c.dotX(center.X), c.dotY(center.Y)
	rx := int(radius * c.sx)
	ry := int(radius * c.sy)
	if rx < 1 || ry < 1 {
		c.Set(cx, cy)
		return
	}
	for dy := -ry; dy <= ry; dy++ {
		fy := float64(dy) / float64(ry)
		span := int(float64(rx) * math.Sqrt(1-fy*fy))
		for dx := -span; dx <= span; dx++ {
			c.Set(cx+dx, cy+dy)
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
