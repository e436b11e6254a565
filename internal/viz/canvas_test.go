package viz

import (
	"strings"
	"testing"
)

func TestCanvasSetLightsDot(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1 lit, got %#x", c.Grid[0][0])
	}
	if strings.Count(c.String(), "\n") != 2 {
		t.Errorf("expected 2 rows, got %q", c.String())
	}
}

func TestCanvasSetPacksCell(t *testing.T) {
	c := NewCanvas(4, 2)
	// all 8 dots of the top-left cell
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			c.Set(x, y)
		}
	}
	if c.Grid[0][0] != 0x28FF {
		t.Errorf("expected full cell 0x28FF, got %#x", c.Grid[0][0])
	}
}

func TestCanvasIgnoresOutOfRange(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(-1, 0)
	c.Set(0, -3)
	c.Set(8, 0)
	c.Set(0, 8)

	for _, row := range c.Grid {
		for _, cell := range row {
			if cell != 0x2800 {
				t.Errorf("out-of-range Set lit a dot: %#x", cell)
			}
		}
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	c.Clear()

	for _, row := range c.Grid {
		for _, cell := range row {
			if cell != 0x2800 {
				t.Errorf("clear left a dot: %#x", cell)
			}
		}
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)

	if c.Grid[0][0] == 0x2800 {
		t.Error("line start not lit")
	}
	if c.Grid[1][3] == 0x2800 {
		t.Error("line end not lit")
	}
}
