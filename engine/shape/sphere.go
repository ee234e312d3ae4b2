package shape

import (
	"fmt"

	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/chewxy/math32"
)

const (
	// DefaultSphereStacks is the default number of latitude bands.
	DefaultSphereStacks = 10
	// DefaultSphereSlices is the default number of longitude bands.
	DefaultSphereSlices = 20
)

// Sphere is a unit-radius sphere centered at the origin, tessellated into Stacks latitude bands and Slices
// longitude bands. Values below the minimum (2 stacks, 3 slices) are raised to it; zero selects the defaults.
type Sphere struct {
	Stacks int
	Slices int
}

var _ Shape = Sphere{}

func (Sphere) Kind() Kind { return KindSphere }

// Geometry returns the flat-shaded sphere. The rows touching a pole emit one triangle per slice so no
// triangle collapses to a line.
func (s Sphere) Geometry() Geometry {
	stacks, slices := s.resolution()

	grid := make([][]Vertex, stacks+1)
	for y := 0; y <= stacks; y++ {
		v := float32(y) / float32(stacks)
		elev := v * math32.Pi
		grid[y] = make([]Vertex, slices+1)
		for x := 0; x <= slices; x++ {
			u := float32(x) / float32(slices)
			ang := u * 2 * math32.Pi
			grid[y][x] = Vertex{
				Position: common.Vec3(
					-math32.Cos(ang)*math32.Sin(elev),
					math32.Cos(elev),
					math32.Sin(ang)*math32.Sin(elev),
				),
				UV: [2]float32{u, v},
			}
		}
	}

	out := make([]Vertex, 0, slices*(2*stacks-2)*3)
	for y := 0; y < stacks; y++ {
		for x := 0; x < slices; x++ {
			v1 := grid[y][x+1]
			v2 := grid[y][x]
			v3 := grid[y+1][x]
			v4 := grid[y+1][x+1]
			if y != 0 {
				out = appendFlat(out, v1, v2, v4)
			}
			if y != stacks-1 {
				out = appendFlat(out, v2, v3, v4)
			}
		}
	}
	return Geometry{Key: fmt.Sprintf("sphere/%dx%d", stacks, slices), Vertices: out}
}

func (s Sphere) resolution() (int, int) {
	stacks, slices := s.Stacks, s.Slices
	if stacks == 0 {
		stacks = DefaultSphereStacks
	}
	if slices == 0 {
		slices = DefaultSphereSlices
	}
	return max(stacks, 2), max(slices, 3)
}

// appendFlat appends a triangle whose corners all carry the outward face normal.
func appendFlat(out []Vertex, a, b, c Vertex) []Vertex {
	n, err := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position)).Normalize()
	if err != nil {
		return out
	}
	centroid := a.Position.Add(b.Position).Add(c.Position)
	if n.Dot(centroid) < 0 {
		n = n.Scale(-1)
		b, c = c, b
	}
	a.Normal, b.Normal, c.Normal = n, n, n
	return append(out, a, b, c)
}
