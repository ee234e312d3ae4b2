package common

import (
	"errors"
	"math"

	"github.com/chewxy/math32"
)

// normalizeEpsilon is the smallest vector length that can be normalized.
const normalizeEpsilon = 1e-8

// degToRad converts degrees to radians.
const degToRad = math.Pi / 180.0

var (
	// ErrZeroVector is returned when a zero-length (or near zero-length) vector would be normalized.
	ErrZeroVector = errors.New("cannot normalize a zero-length vector")

	// ErrInvalidAspect is returned when a projection is built from a zero, NaN, or infinite aspect ratio.
	ErrInvalidAspect = errors.New("aspect ratio must be finite and non-zero")

	// ErrInvalidClipPlanes is returned when near/far planes do not satisfy 0 < near < far.
	ErrInvalidClipPlanes = errors.New("clip planes must satisfy 0 < near < far")
)

// Vector3 is a 3-component float32 vector. It is a plain value type; every operation returns a new vector.
type Vector3 struct {
	X, Y, Z float32
}

// Vec3 is shorthand for constructing a Vector3.
func Vec3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v multiplied by the scalar s.
func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vector3) Dot(o Vector3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the right-handed cross product v × o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vector3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length.
//
// Returns:
//   - Vector3: the unit-length vector
//   - error: ErrZeroVector if v has (near) zero length or non-finite components
func (v Vector3) Normalize() (Vector3, error) {
	l := v.Length()
	if l < normalizeEpsilon || math32.IsNaN(l) || math32.IsInf(l, 0) {
		return Vector3{}, ErrZeroVector
	}
	return v.Scale(1 / l), nil
}

// Array returns the components as a [3]float32.
func (v Vector3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// Matrix4 is a 4x4 float32 matrix stored in column-major order: element (row r, column c) lives at index c*4+r.
// This is the layout WGSL mat4x4<f32> expects, so a Matrix4 can be uploaded without transposition.
type Matrix4 [16]float32

// Identity4 returns the 4x4 identity matrix.
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a matrix translating by (x, y, z).
func Translation(x, y, z float32) Matrix4 {
	m := Identity4()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scaling returns a matrix scaling by (x, y, z). Negative factors mirror the geometry.
func Scaling(x, y, z float32) Matrix4 {
	m := Identity4()
	m[0], m[5], m[10] = x, y, z
	return m
}

// Rotation returns a matrix rotating by angleDeg degrees counter-clockwise about axis.
// A zero axis yields the identity matrix.
//
// Parameters:
//   - angleDeg: rotation angle in degrees
//   - axis: the rotation axis; it does not need to be unit length
//
// Returns:
//   - Matrix4: the rotation matrix
func Rotation(angleDeg float32, axis Vector3) Matrix4 {
	a, err := axis.Normalize()
	if err != nil {
		return Identity4()
	}
	rad := angleDeg * degToRad
	s, c := math32.Sin(rad), math32.Cos(rad)
	nc := 1 - c
	x, y, z := a.X, a.Y, a.Z

	return Matrix4{
		x*x*nc + c, y*x*nc + z*s, z*x*nc - y*s, 0,
		x*y*nc - z*s, y*y*nc + c, z*y*nc + x*s, 0,
		x*z*nc + y*s, y*z*nc - x*s, z*z*nc + c, 0,
		0, 0, 0, 1,
	}
}

// LookAt builds a right-handed view matrix looking from eye towards at with the given up direction.
//
// Parameters:
//   - eye: camera position
//   - at: point the camera looks at
//   - up: approximate up direction
//
// Returns:
//   - Matrix4: the view matrix
//   - error: ErrZeroVector if eye equals at or up is parallel to the viewing direction
func LookAt(eye, at, up Vector3) (Matrix4, error) {
	f, err := at.Sub(eye).Normalize()
	if err != nil {
		return Matrix4{}, err
	}
	s, err := f.Cross(up).Normalize()
	if err != nil {
		return Matrix4{}, err
	}
	u := s.Cross(f)

	return Matrix4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}, nil
}

// Perspective builds a perspective projection for WebGPU clip space (depth in [0, 1]).
//
// Parameters:
//   - fovDeg: vertical field of view in degrees
//   - aspect: viewport width / height
//   - near: near clipping plane distance
//   - far: far clipping plane distance
//
// Returns:
//   - Matrix4: the projection matrix
//   - error: ErrInvalidAspect or ErrInvalidClipPlanes when the parameters cannot form a projection
func Perspective(fovDeg, aspect, near, far float32) (Matrix4, error) {
	if aspect == 0 || math32.IsNaN(aspect) || math32.IsInf(aspect, 0) {
		return Matrix4{}, ErrInvalidAspect
	}
	if near <= 0 || far <= near {
		return Matrix4{}, ErrInvalidClipPlanes
	}
	f := 1 / math32.Tan(fovDeg*degToRad/2)

	var m Matrix4
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1
	m[14] = (near * far) / (near - far)
	return m, nil
}

// Mul returns m * o.
func (m Matrix4) Mul(o Matrix4) Matrix4 {
	var out Matrix4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * o[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// Translate returns m * Translation(x, y, z).
func (m Matrix4) Translate(x, y, z float32) Matrix4 {
	return m.Mul(Translation(x, y, z))
}

// Scale returns m * Scaling(x, y, z).
func (m Matrix4) Scale(x, y, z float32) Matrix4 {
	return m.Mul(Scaling(x, y, z))
}

// Rotate returns m * Rotation(angleDeg, axis).
func (m Matrix4) Rotate(angleDeg float32, axis Vector3) Matrix4 {
	return m.Mul(Rotation(angleDeg, axis))
}

// MulVector3 transforms v as a point (w = 1), applying the perspective divide when w is not 1.
func (m Matrix4) MulVector3(v Vector3) Vector3 {
	x := m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]
	y := m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]
	z := m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]
	w := m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]
	if w != 0 && w != 1 {
		return Vector3{x / w, y / w, z / w}
	}
	return Vector3{x, y, z}
}

// MulDirection transforms v as a direction (w = 0), ignoring translation.
func (m Matrix4) MulDirection(v Vector3) Vector3 {
	return Vector3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}
