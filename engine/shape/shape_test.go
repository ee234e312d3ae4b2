package shape

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var axisNormals = []common.Vector3{
	common.Vec3(1, 0, 0), common.Vec3(-1, 0, 0),
	common.Vec3(0, 1, 0), common.Vec3(0, -1, 0),
	common.Vec3(0, 0, 1), common.Vec3(0, 0, -1),
}

func TestCubeLitGeometry(t *testing.T) {
	g := Cube{}.Geometry()

	require.Len(t, g.Vertices, 36)
	assert.False(t, g.PositionsOnly)
	assert.Equal(t, 12, g.TriangleCount())

	faces := map[common.Vector3][]Vertex{}
	for _, v := range g.Vertices {
		assert.Contains(t, axisNormals, v.Normal)
		faces[v.Normal] = append(faces[v.Normal], v)
	}
	require.Len(t, faces, 6)

	for n, verts := range faces {
		require.Len(t, verts, 6, "face %v", n)
		corners := map[[2]float32]bool{}
		for _, v := range verts {
			corners[v.UV] = true
			// every corner lies on the face plane the normal points out of
			p := v.Position
			switch n {
			case common.Vec3(1, 0, 0):
				assert.Equal(t, float32(1), p.X)
			case common.Vec3(-1, 0, 0):
				assert.Equal(t, float32(0), p.X)
			case common.Vec3(0, 1, 0):
				assert.Equal(t, float32(1), p.Y)
			case common.Vec3(0, -1, 0):
				assert.Equal(t, float32(0), p.Y)
			case common.Vec3(0, 0, 1):
				assert.Equal(t, float32(1), p.Z)
			case common.Vec3(0, 0, -1):
				assert.Equal(t, float32(0), p.Z)
			}
		}
		assert.Equal(t, map[[2]float32]bool{{0, 0}: true, {0, 1}: true, {1, 0}: true, {1, 1}: true}, corners, "face %v", n)
	}
}

func TestCubeGeometryIsIndependentPerCall(t *testing.T) {
	a := Cube{}.Geometry()
	a.Vertices[0].Position = common.Vec3(9, 9, 9)

	b := Cube{}.Geometry()
	assert.Equal(t, common.Vec3(0, 0, 0), b.Vertices[0].Position)
}

func TestCubeBatchedGeometry(t *testing.T) {
	lit := Cube{Mode: CubeModeLit}.Geometry()
	batched := Cube{Mode: CubeModeBatched}.Geometry()

	require.Len(t, batched.Vertices, 36)
	assert.True(t, batched.PositionsOnly)
	assert.NotEqual(t, lit.Key, batched.Key)

	// same surface, different face order: front then back
	assert.Equal(t, lit.Vertices[0].Position, batched.Vertices[0].Position)
	assert.Equal(t, common.Vec3(0, 0, 1), batched.Vertices[6].Position)

	countPositions := func(vs []Vertex) map[common.Vector3]int {
		m := map[common.Vector3]int{}
		for _, v := range vs {
			m[v.Position]++
		}
		return m
	}
	assert.Equal(t, countPositions(lit.Vertices), countPositions(batched.Vertices))
}

func TestSphereGeometry(t *testing.T) {
	g := Sphere{}.Geometry()

	assert.Equal(t, "sphere/10x20", g.Key)
	assert.Len(t, g.Vertices, DefaultSphereSlices*(2*DefaultSphereStacks-2)*3)

	for i := 0; i < len(g.Vertices); i += 3 {
		a, b, c := g.Vertices[i], g.Vertices[i+1], g.Vertices[i+2]
		assert.Equal(t, a.Normal, b.Normal)
		assert.Equal(t, a.Normal, c.Normal)
		assert.InDelta(t, 1, a.Normal.Length(), 1e-4)

		centroid := a.Position.Add(b.Position).Add(c.Position)
		assert.Greater(t, a.Normal.Dot(centroid), float32(0), "normal points outward")

		for _, v := range []Vertex{a, b, c} {
			assert.InDelta(t, 1, v.Position.Length(), 1e-5)
			assert.GreaterOrEqual(t, v.UV[0], float32(0))
			assert.LessOrEqual(t, v.UV[0], float32(1))
			assert.GreaterOrEqual(t, v.UV[1], float32(0))
			assert.LessOrEqual(t, v.UV[1], float32(1))
		}
	}
}

func TestSphereResolutionClamp(t *testing.T) {
	g := Sphere{Stacks: 1, Slices: 1}.Geometry()
	assert.Equal(t, "sphere/2x3", g.Key)
	assert.Len(t, g.Vertices, 3*2*3)
}

func TestLegacyShapes(t *testing.T) {
	tests := []struct {
		name      string
		shape     Shape
		kind      Kind
		triangles int
	}{
		{"point", Point{Center: [2]float32{0.5, 0.5}, Size: 10}, KindPoint, 2},
		{"triangle", Triangle{Size: 10}, KindTriangle, 1},
		{"circle", Circle{Size: 10, Segments: 12}, KindCircle, 12},
		{"circle default segments", Circle{Size: 10}, KindCircle, DefaultCircleSegments},
		{"line", Line{From: [2]float32{0, 0}, To: [2]float32{1, 0}, Width: 10}, KindLine, 2},
		{"degenerate line", Line{From: [2]float32{1, 1}, To: [2]float32{1, 1}, Width: 10}, KindLine, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.shape.Geometry()
			assert.Equal(t, tt.kind, tt.shape.Kind())
			assert.True(t, g.PositionsOnly)
			assert.Empty(t, g.Key)
			assert.Equal(t, tt.triangles, g.TriangleCount())
			for _, v := range g.Vertices {
				assert.Equal(t, float32(0), v.Position.Z)
			}
		})
	}
}

func TestPointIsCentered(t *testing.T) {
	g := Point{Center: [2]float32{0.5, -0.5}, Size: 20}.Geometry()

	// first and third vertices are opposite corners of the square
	assert.InDelta(t, 0.45, g.Vertices[0].Position.X, 1e-6)
	assert.InDelta(t, 0.55, g.Vertices[2].Position.X, 1e-6)
	assert.InDelta(t, -0.55, g.Vertices[0].Position.Y, 1e-6)
	assert.InDelta(t, -0.45, g.Vertices[2].Position.Y, 1e-6)
}

func TestTextureSelector(t *testing.T) {
	tests := []struct {
		code int32
		want TextureSelector
		name string
	}{
		{-3, TextureNormals, "normals"},
		{-2, TextureSolidColor, "solid"},
		{-1, TextureUVDebug, "uv"},
		{0, TextureUnit0, "texture0"},
		{1, TextureUnit1, "texture1"},
		{2, TextureFallback, "fallback"},
		{-4, TextureFallback, "fallback"},
		{42, TextureFallback, "fallback"},
	}
	for _, tt := range tests {
		got := ParseTextureSelector(tt.code)
		assert.Equal(t, tt.want, got, "code %d", tt.code)
		assert.Equal(t, tt.name, got.String())
		assert.Equal(t, tt.name, TextureSelector(tt.code).String())
	}

	assert.Equal(t, int32(2), TextureSelector(99).Code())

	unit, ok := TextureUnit1.Unit()
	assert.True(t, ok)
	assert.Equal(t, 1, unit)
	_, ok = TextureSolidColor.Unit()
	assert.False(t, ok)
}

func TestNewInstance(t *testing.T) {
	in := NewInstance(Cube{})
	assert.Equal(t, common.Identity4(), in.Model)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, in.Color)
	assert.Equal(t, TextureUVDebug, in.Texture)

	in = NewInstance(Cube{},
		WithColor(0, 1, 0, 1),
		WithTexture(TextureSolidColor),
		Translate(0, -0.75, 0),
		Scale(42, 0, 42),
		Translate(-0.5, 0, -0.5),
	)
	want := common.Identity4().Translate(0, -0.75, 0).Scale(42, 0, 42).Translate(-0.5, 0, -0.5)
	assert.Equal(t, want, in.Model)
	assert.Equal(t, [4]float32{0, 1, 0, 1}, in.Color)
	assert.Equal(t, TextureSolidColor, in.Texture)
}

func TestGeometryBytes(t *testing.T) {
	g := Geometry{Vertices: []Vertex{{
		Position: common.Vec3(1, 2, 3),
		UV:       [2]float32{0.25, 0.75},
		Normal:   common.Vec3(0, 0, -1),
	}}}

	buf := g.Bytes()
	require.Len(t, buf, VertexStride)
	want := []float32{1, 2, 3, 0.25, 0.75, 0, 0, -1}
	for i, f := range want {
		assert.Equal(t, f, math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])), "float %d", i)
	}

	g.PositionsOnly = true
	buf = g.Bytes()
	require.Len(t, buf, PositionStride)
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(buf[8:])))
}
