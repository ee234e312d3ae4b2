// Package shape expands logical primitives into triangle lists ready for upload.
// Every primitive is a Shape variant carrying only the fields its generator needs; an Instance pairs a Shape with
// the per-draw model matrix, color and texture selector.
package shape

import (
	"github.com/Carmen-Shannon/blocky-world/common"
)

// Kind tags the primitive variant of a Shape.
type Kind int

const (
	KindCube Kind = iota
	KindSphere
	KindPoint
	KindTriangle
	KindCircle
	KindLine
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindCube:
		return "cube"
	case KindSphere:
		return "sphere"
	case KindPoint:
		return "point"
	case KindTriangle:
		return "triangle"
	case KindCircle:
		return "circle"
	case KindLine:
		return "line"
	default:
		return "unknown"
	}
}

// Vertex is a single triangle corner in object space.
type Vertex struct {
	// Position is the object-space position.
	Position common.Vector3

	// UV is the texture coordinate in [0, 1]².
	UV [2]float32

	// Normal is the unit face normal shared by every corner of the triangle.
	Normal common.Vector3
}

// Geometry is an ordered, non-indexed triangle list.
type Geometry struct {
	// Key identifies geometry whose vertices never change so the renderer can keep its buffer resident.
	// An empty key marks per-draw geometry that is uploaded every time it is drawn.
	Key string

	// Vertices holds three entries per triangle.
	Vertices []Vertex

	// PositionsOnly reports that UV and Normal are unset and only positions are uploaded.
	PositionsOnly bool
}

// TriangleCount returns the number of triangles in the geometry.
func (g Geometry) TriangleCount() int {
	return len(g.Vertices) / 3
}

// Shape is a tagged primitive that can generate its own triangle list.
type Shape interface {
	// Kind returns the primitive variant.
	Kind() Kind

	// Geometry expands the primitive into triangles.
	//
	// Returns:
	//   - Geometry: the triangle list; callers own the returned vertex slice
	Geometry() Geometry
}

// Instance is one transient draw of a shape: created, configured, rendered and discarded within a frame.
type Instance struct {
	// Shape is the primitive to draw.
	Shape Shape

	// Model is the object-to-world transform. Each instance owns its own copy.
	Model common.Matrix4

	// Color is the normalized RGBA base color.
	Color [4]float32

	// Texture selects how the base color is shaded.
	Texture TextureSelector
}

// NewInstance creates an instance of s with an identity model matrix, white color and the UV debug selector.
//
// Parameters:
//   - s: the shape to draw
//   - options: functional options applied in order
//
// Returns:
//   - Instance: the configured instance
func NewInstance(s Shape, options ...InstanceOption) Instance {
	in := Instance{
		Shape:   s,
		Model:   common.Identity4(),
		Color:   [4]float32{1, 1, 1, 1},
		Texture: TextureUVDebug,
	}
	for _, option := range options {
		option(&in)
	}
	return in
}
