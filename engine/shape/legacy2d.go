package shape

import (
	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/chewxy/math32"
)

// sizeScale converts a brush size in pixels-per-slider-unit into clip-space extent.
const sizeScale = 1.0 / 200

// DefaultCircleSegments is the segment count used when a Circle has fewer than three.
const DefaultCircleSegments = 10

// Point is a square brush stamp centered on Center, in clip space at z = 0.
type Point struct {
	Center [2]float32
	Size   float32
}

// Triangle is a right triangle with its right angle at Center.
type Triangle struct {
	Center [2]float32
	Size   float32
}

// Circle is a triangle fan around Center.
type Circle struct {
	Center   [2]float32
	Size     float32
	Segments int
}

// Line is a quad of the given Width joining two clicks.
type Line struct {
	From  [2]float32
	To    [2]float32
	Width float32
}

var (
	_ Shape = Point{}
	_ Shape = Triangle{}
	_ Shape = Circle{}
	_ Shape = Line{}
)

func (Point) Kind() Kind    { return KindPoint }
func (Triangle) Kind() Kind { return KindTriangle }
func (Circle) Kind() Kind   { return KindCircle }
func (Line) Kind() Kind     { return KindLine }

func (p Point) Geometry() Geometry {
	h := p.Size * sizeScale / 2
	x, y := p.Center[0], p.Center[1]
	return flat2D(quad(
		[2]float32{x - h, y - h},
		[2]float32{x + h, y - h},
		[2]float32{x + h, y + h},
		[2]float32{x - h, y + h},
	)...)
}

func (t Triangle) Geometry() Geometry {
	d := t.Size * sizeScale
	x, y := t.Center[0], t.Center[1]
	return flat2D([2]float32{x, y}, [2]float32{x + d, y}, [2]float32{x, y + d})
}

func (c Circle) Geometry() Geometry {
	segments := c.Segments
	if segments < 3 {
		segments = DefaultCircleSegments
	}
	d := c.Size * sizeScale
	x, y := c.Center[0], c.Center[1]
	step := 2 * math32.Pi / float32(segments)

	pts := make([][2]float32, 0, segments*3)
	for i := range segments {
		a1 := float32(i) * step
		a2 := float32(i+1) * step
		pts = append(pts,
			[2]float32{x, y},
			[2]float32{x + math32.Cos(a1)*d, y + math32.Sin(a1)*d},
			[2]float32{x + math32.Cos(a2)*d, y + math32.Sin(a2)*d},
		)
	}
	return flat2D(pts...)
}

// Geometry returns the joining quad, or no triangles when From equals To.
func (l Line) Geometry() Geometry {
	dir, err := common.Vec3(l.To[0]-l.From[0], l.To[1]-l.From[1], 0).Normalize()
	if err != nil {
		return Geometry{PositionsOnly: true}
	}
	h := l.Width * sizeScale / 2
	nx, ny := -dir.Y*h, dir.X*h
	return flat2D(quad(
		[2]float32{l.From[0] - nx, l.From[1] - ny},
		[2]float32{l.To[0] - nx, l.To[1] - ny},
		[2]float32{l.To[0] + nx, l.To[1] + ny},
		[2]float32{l.From[0] + nx, l.From[1] + ny},
	)...)
}

// quad splits a counter-clockwise quad into two triangles.
func quad(a, b, c, d [2]float32) [][2]float32 {
	return [][2]float32{a, b, c, a, c, d}
}

func flat2D(pts ...[2]float32) Geometry {
	out := make([]Vertex, len(pts))
	for i, p := range pts {
		out[i] = Vertex{Position: common.Vec3(p[0], p[1], 0)}
	}
	return Geometry{Vertices: out, PositionsOnly: true}
}
