package ui

import (
	"math"
	"strings"

	"github.com/glimmer-app/glimmer/internal/engine"
)

// Canvas rasterizes engine payloads onto a Braille dot grid. Each terminal
// cell is a 2x4 dot matrix, so a WxH cell area gives 2W x 4H addressable
// dots. Scene coordinates are the engine's unit disk, x right, y up, z
// toward the viewer.
type Canvas struct {
	width  int // cells
	height int
	dotW   int
	dotH   int

	patterns []uint8
	colors   []colorRGB
	lums     []int
}

// Braille dot positions (col, row) -> bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

const cameraDistance = 3.0

func NewCanvas() *Canvas {
	return &Canvas{}
}

// Resize sets the cell dimensions, reallocating buffers only on change.
func (c *Canvas) Resize(width, height int) {
	if width < 2 {
		width = 2
	}
	if height < 1 {
		height = 1
	}
	if width == c.width && height == c.height {
		return
	}
	c.width = width
	c.height = height
	c.dotW = width * 2
	c.dotH = height * 4
	c.patterns = make([]uint8, width*height)
	c.colors = make([]colorRGB, width*height)
	c.lums = make([]int, width*height)
}

func (c *Canvas) clear() {
	for i := range c.patterns {
		c.patterns[i] = 0
		c.lums[i] = 0
	}
}

// project maps a scene point through the yaw orbit and a mild perspective
// onto dot coordinates. ok is false when the point sits behind the camera
// or is flagged as parked offscreen.
func (c *Canvas) project(x, y, z, yaw float64) (dx, dy int, ok bool) {
	if z < -10 {
		return 0, 0, false
	}

	sin, cos := math.Sincos(yaw)
	rx := x*cos + z*sin
	rz := -x*sin + z*cos

	depth := cameraDistance - rz
	if depth < 0.1 {
		return 0, 0, false
	}
	s := cameraDistance / depth

	scale := float64(c.dotW)
	if float64(c.dotH) < scale {
		scale = float64(c.dotH)
	}
	scale = scale/2 - 1

	cx := float64(c.dotW) / 2
	cy := float64(c.dotH) / 2
	dx = int(cx + rx*s*scale)
	dy = int(cy - y*s*scale)
	if dx < 0 || dx >= c.dotW || dy < 0 || dy >= c.dotH {
		return 0, 0, false
	}
	return dx, dy, true
}

// plot sets one dot and competes its color into the cell by luminance.
func (c *Canvas) plot(dx, dy int, col colorRGB) {
	cell := (dy/4)*c.width + dx/2
	c.patterns[cell] |= 1 << brailleBits[dx%2][dy%4]
	if lum := col.luminance(); lum >= c.lums[cell] {
		c.lums[cell] = lum
		c.colors[cell] = col
	}
}

// Render rasterizes the payload and returns the ANSI-colored frame.
func (c *Canvas) Render(p engine.Payload, yaw float64) string {
	if c.width == 0 {
		return ""
	}
	c.clear()

	for _, line := range p.Lines {
		col := packColor(line.Color)
		thick := line.Width > 1.6
		for i := 1; i < len(line.Points); i++ {
			c.segment(line.Points[i-1], line.Points[i], yaw, col, thick)
		}
	}

	if p.Points != nil {
		n := len(p.Points.Sizes)
		for i := 0; i < n; i++ {
			if p.Points.Sizes[i] <= 0 {
				continue
			}
			x := p.Points.Positions[i*3]
			y := p.Points.Positions[i*3+1]
			z := p.Points.Positions[i*3+2]
			dx, dy, ok := c.project(x, y, z, yaw)
			if !ok {
				continue
			}
			col := colorRGB{
				R: uint8(clampUnit(p.Points.Colors[i*3]) * 255),
				G: uint8(clampUnit(p.Points.Colors[i*3+1]) * 255),
				B: uint8(clampUnit(p.Points.Colors[i*3+2]) * 255),
			}
			c.plot(dx, dy, col)
			if p.Points.Sizes[i] > 2.5 && dx+1 < c.dotW {
				c.plot(dx+1, dy, col)
			}
		}
	}

	return c.compose()
}

// segment draws a line between two scene points with integer stepping over
// the dot grid.
func (c *Canvas) segment(a, b engine.Vec3, yaw float64, col colorRGB, thick bool) {
	x0, y0, ok0 := c.project(a.X, a.Y, a.Z, yaw)
	x1, y1, ok1 := c.project(b.X, b.Y, b.Z, yaw)
	if !ok0 || !ok1 {
		return
	}

	dx := x1 - x0
	dy := y1 - y0
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	if steps == 0 {
		c.plot(x0, y0, col)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		px := x0 + int(math.Round(float64(dx)*t))
		py := y0 + int(math.Round(float64(dy)*t))
		c.plot(px, py, col)
		if thick && px+1 < c.dotW {
			c.plot(px+1, py, col)
		}
	}
}

func (c *Canvas) compose() string {
	var sb strings.Builder
	sb.Grow(c.width*c.height*4 + c.height)

	state := newANSIState()
	for row := 0; row < c.height; row++ {
		for col := 0; col < c.width; col++ {
			cell := row*c.width + col
			pattern := c.patterns[cell]
			if pattern == 0 {
				sb.WriteByte(' ')
				continue
			}
			state.set(&sb, c.colors[cell])
			sb.WriteRune(rune(0x2800 + uint32(pattern)))
		}
		if row < c.height-1 {
			sb.WriteByte('\n')
		}
	}
	state.reset(&sb)

	return sb.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
