package tui

import (
	"testing"

	"github.com/drmarkreuter/physiCCs/internal/engine"
)

func TestCanvasSetFirstDot(t *testing.T) {
	c := NewCanvas(10, 10)
	c.Set(0, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected first dot 0x2801, got %x", c.Grid[0][0])
	}
}

func TestCanvasSetOutOfBounds(t *testing.T) {
	c := NewCanvas(10, 10)

	c.Set(-1, 5)
	c.Set(5, -1)
	c.Set(1000, 5)
	c.Set(5, 1000)

	for y, row := range c.Grid {
		for x, cell := range row {
			if cell != 0x2800 {
				t.Errorf("cell (%d,%d) unexpectedly set", x, y)
			}
		}
	}
}

func TestCanvasLineEndpoints(t *testing.T) {
	c := NewCanvas(20, 15)
	c.Line(engine.Vec2{X: 0, Y: 0}, engine.Vec2{X: 799, Y: 599})

	if c.Grid[0][0] == 0x2800 {
		t.Error("expected start corner set")
	}
	if c.Grid[14][19] == 0x2800 {
		t.Error("expected end corner set")
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(10, 10)
	c.Line(engine.Vec2{X: 0, Y: 0}, engine.Vec2{X: 799, Y: 599})
	c.Clear()

	for _, row := range c.Grid {
		for _, cell := range row {
			if cell != 0x2800 {
				t.Error("expected empty grid after clear")
				return
			}
		}
	}
}

func TestCanvasDiscCoversCenter(t *testing.T) {
	c := NewCanvas(40, 30)
	c.Disc(engine.Vec2{X: 400, Y: 300}, 20)

	cx := c.dotX(400)
	cy := c.dotY(300)
	if c.Grid[cy/4][cx/2] == 0x2800 {
		t.Error("expected disc center set")
	}
}

func TestCanvasFillBox(t *testing.T) {
	c := NewCanvas(40, 30)
	r := engine.Rect{X: 100, Y: 100, W: 200, H: 100}
	c.FillBox(r)

	x := c.dotX(200)
	y := c.dotY(150)
	if c.Grid[y/4][x/2] == 0x2800 {
		t.Error("expected box interior set")
	}
}
