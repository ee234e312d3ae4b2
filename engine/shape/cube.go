package shape

import (
	"slices"

	"github.com/Carmen-Shannon/blocky-world/common"
)

// CubeMode selects how a Cube is expanded.
type CubeMode int

const (
	// CubeModeLit emits 36 vertices with per-face UVs and axis normals.
	CubeModeLit CubeMode = iota
	// CubeModeBatched emits the same 36 positions in one positions-only buffer.
	// Texturing and lighting are unavailable; the draw costs a single small upload.
	CubeModeBatched
)

const (
	cubeLitKey     = "cube/lit"
	cubeBatchedKey = "cube/batched"
)

// Cube is the unit cube spanning [0, 1]³.
type Cube struct {
	Mode CubeMode
}

var _ Shape = Cube{}

func (Cube) Kind() Kind { return KindCube }

// Geometry returns the cube triangles for c.Mode.
func (c Cube) Geometry() Geometry {
	if c.Mode == CubeModeBatched {
		return Geometry{Key: cubeBatchedKey, Vertices: slices.Clone(cubeBatchedVertices), PositionsOnly: true}
	}
	return Geometry{Key: cubeLitKey, Vertices: slices.Clone(cubeLitVertices)}
}

// cubeFace is two triangles sharing one outward normal.
type cubeFace struct {
	normal    common.Vector3
	positions [6][3]float32
	uvs       [6][2]float32
}

// Faces in emission order front, top, right, left, bottom, back.
// Each face maps its four corners onto the full [0, 1]² texture.
var cubeFaces = []cubeFace{
	{
		normal:    common.Vec3(0, 0, -1),
		positions: [6][3]float32{{0, 0, 0}, {1, 1, 0}, {1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}},
		uvs:       [6][2]float32{{0, 0}, {1, 1}, {1, 0}, {0, 0}, {0, 1}, {1, 1}},
	},
	{
		normal:    common.Vec3(0, 1, 0),
		positions: [6][3]float32{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {0, 1, 0}, {1, 1, 1}, {1, 1, 0}},
		uvs:       [6][2]float32{{0, 0}, {0, 1}, {1, 1}, {0, 0}, {1, 1}, {1, 0}},
	},
	{
		normal:    common.Vec3(1, 0, 0),
		positions: [6][3]float32{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 0}, {1, 1, 1}, {1, 0, 1}},
		uvs:       [6][2]float32{{0, 0}, {0, 1}, {1, 1}, {0, 0}, {1, 1}, {1, 0}},
	},
	{
		normal:    common.Vec3(-1, 0, 0),
		positions: [6][3]float32{{0, 0, 0}, {0, 1, 0}, {0, 1, 1}, {0, 0, 0}, {0, 1, 1}, {0, 0, 1}},
		uvs:       [6][2]float32{{0, 0}, {0, 1}, {1, 1}, {0, 0}, {1, 1}, {1, 0}},
	},
	{
		normal:    common.Vec3(0, -1, 0),
		positions: [6][3]float32{{0, 0, 0}, {1, 0, 1}, {1, 0, 0}, {0, 0, 0}, {0, 0, 1}, {1, 0, 1}},
		uvs:       [6][2]float32{{0, 0}, {1, 1}, {1, 0}, {0, 0}, {0, 1}, {1, 1}},
	},
	{
		normal:    common.Vec3(0, 0, 1),
		positions: [6][3]float32{{0, 0, 1}, {0, 1, 1}, {1, 1, 1}, {0, 0, 1}, {1, 1, 1}, {1, 0, 1}},
		uvs:       [6][2]float32{{0, 0}, {0, 1}, {1, 1}, {0, 0}, {1, 1}, {1, 0}},
	},
}

// batchedFaceOrder lists cubeFaces indices in the batched emission order front, back, top, left, right, bottom.
var batchedFaceOrder = []int{0, 5, 1, 3, 2, 4}

var (
	cubeLitVertices     = buildCubeLit()
	cubeBatchedVertices = buildCubeBatched()
)

func buildCubeLit() []Vertex {
	out := make([]Vertex, 0, 36)
	for _, f := range cubeFaces {
		for i, p := range f.positions {
			out = append(out, Vertex{
				Position: common.Vec3(p[0], p[1], p[2]),
				UV:       f.uvs[i],
				Normal:   f.normal,
			})
		}
	}
	return out
}

func buildCubeBatched() []Vertex {
	out := make([]Vertex, 0, 36)
	for _, idx := range batchedFaceOrder {
		for _, p := range cubeFaces[idx].positions {
			out = append(out, Vertex{Position: common.Vec3(p[0], p[1], p[2])})
		}
	}
	return out
}
