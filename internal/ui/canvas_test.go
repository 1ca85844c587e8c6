package ui

import (
	"strings"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/glimmer-app/glimmer/internal/engine"
)

func brailleCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x2800 && r <= 0x28FF {
			n++
		}
	}
	return n
}

func TestCanvasResizeEnforcesMinimums(t *testing.T) {
	c := NewCanvas()
	c.Resize(0, 0)
	if c.width < 2 || c.height < 1 {
		t.Fatalf("expected minimum dimensions, got %dx%d", c.width, c.height)
	}
}

func TestCanvasRendersCenterPoint(t *testing.T) {
	c := NewCanvas()
	c.Resize(21, 11)

	p := engine.Payload{Points: &engine.PointCloud{
		Positions: []float64{0, 0, 0},
		Colors:    []float64{1, 1, 1},
		Sizes:     []float64{1},
	}}
	out := c.Render(p, 0)

	if brailleCount(out) != 1 {
		t.Fatalf("expected exactly one braille cell, got %d in %q", brailleCount(out), out)
	}
	rows := strings.Split(out, "\n")
	if len(rows) != 11 {
		t.Fatalf("expected 11 rows, got %d", len(rows))
	}
	if brailleCount(rows[5]) != 1 {
		t.Fatal("expected the center row to carry the dot")
	}
}

func TestCanvasSkipsZeroSizeSlots(t *testing.T) {
	c := NewCanvas()
	c.Resize(10, 5)

	p := engine.Payload{Points: &engine.PointCloud{
		Positions: []float64{0, 0, -100, 0.5, 0.5, 0},
		Colors:    []float64{1, 1, 1, 1, 1, 1},
		Sizes:     []float64{0, 1},
	}}
	out := c.Render(p, 0)

	if brailleCount(out) != 1 {
		t.Fatalf("expected only the live slot rendered, got %d cells", brailleCount(out))
	}
}

func TestCanvasRendersPolyline(t *testing.T) {
	c := NewCanvas()
	c.Resize(30, 9)

	line := engine.Polyline{
		Points: []engine.Vec3{{X: -0.8, Y: 0, Z: 0}, {X: 0.8, Y: 0, Z: 0}},
		Color:  colorful.Color{R: 1, G: 1, B: 1},
		Width:  1,
	}
	out := c.Render(engine.Payload{Lines: []engine.Polyline{line}}, 0)

	if brailleCount(out) < 5 {
		t.Fatalf("expected a stroked horizontal line, got %d cells", brailleCount(out))
	}
}

func TestProjectYawRotatesScene(t *testing.T) {
	c := NewCanvas()
	c.Resize(40, 20)

	x0, _, ok := c.project(1, 0, 0, 0)
	if !ok {
		t.Fatal("expected point visible at yaw 0")
	}
	x1, _, ok := c.project(1, 0, 0, 1.5707963)
	if !ok {
		t.Fatal("expected point visible at yaw pi/2")
	}
	if x0 <= x1 {
		t.Fatalf("expected yaw rotation to move the point toward center: %d -> %d", x0, x1)
	}

	center := c.dotW / 2
	if abs(x1-center) > 1 {
		t.Fatalf("expected rotated point near center %d, got %d", center, x1)
	}
}

func TestProjectRejectsParkedPoints(t *testing.T) {
	c := NewCanvas()
	c.Resize(10, 10)
	if _, _, ok := c.project(0, 0, -100, 0); ok {
		t.Fatal("expected parked sentinel depth to be rejected")
	}
}
