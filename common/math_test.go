package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func assertVec(t *testing.T, want, got Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "x")
	assert.InDelta(t, want.Y, got.Y, tol, "y")
	assert.InDelta(t, want.Z, got.Z, tol, "z")
}

func assertMat(t *testing.T, want, got Matrix4) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, "element %d", i)
	}
}

func TestVectorOps(t *testing.T) {
	a := Vec3(1, 2, 3)
	b := Vec3(4, -5, 6)

	assert.Equal(t, Vec3(5, -3, 9), a.Add(b))
	assert.Equal(t, Vec3(-3, 7, -3), a.Sub(b))
	assert.Equal(t, Vec3(2, 4, 6), a.Scale(2))
	assert.Equal(t, float32(12), a.Dot(b))
	assert.Equal(t, Vec3(27, 6, -13), a.Cross(b))
	assert.Equal(t, Vec3(0, 0, 1), Vec3(1, 0, 0).Cross(Vec3(0, 1, 0)))
}

func TestNormalize(t *testing.T) {
	n, err := Vec3(3, 0, 4).Normalize()
	require.NoError(t, err)
	assertVec(t, Vec3(0.6, 0, 0.8), n)
	assert.InDelta(t, 1, n.Length(), tol)

	_, err = Vec3(0, 0, 0).Normalize()
	assert.ErrorIs(t, err, ErrZeroVector)

	_, err = Vec3(float32(math.NaN()), 0, 0).Normalize()
	assert.ErrorIs(t, err, ErrZeroVector)
}

func TestMatrixMulIdentity(t *testing.T) {
	m := Translation(1, 2, 3).Mul(Scaling(2, 2, 2))
	assert.Equal(t, m, Identity4().Mul(m))
	assert.Equal(t, m, m.Mul(Identity4()))
}

func TestTranslateScaleComposition(t *testing.T) {
	// post-multiplication: the last call is applied to the point first
	m := Identity4().Translate(1, 0, 0).Scale(2, 2, 2)
	assertVec(t, Vec3(3, 2, 2), m.MulVector3(Vec3(1, 1, 1)))

	m = Identity4().Scale(2, 2, 2).Translate(1, 0, 0)
	assertVec(t, Vec3(4, 2, 2), m.MulVector3(Vec3(1, 1, 1)))
}

func TestRotation(t *testing.T) {
	tests := []struct {
		name  string
		angle float32
		axis  Vector3
		in    Vector3
		want  Vector3
	}{
		{"y axis quarter turn", 90, Vec3(0, 1, 0), Vec3(1, 0, 0), Vec3(0, 0, -1)},
		{"z axis quarter turn", 90, Vec3(0, 0, 1), Vec3(1, 0, 0), Vec3(0, 1, 0)},
		{"x axis half turn", 180, Vec3(1, 0, 0), Vec3(0, 1, 0), Vec3(0, -1, 0)},
		{"unnormalized axis", 90, Vec3(0, 5, 0), Vec3(0, 0, 1), Vec3(1, 0, 0)},
		{"zero axis is identity", 45, Vec3(0, 0, 0), Vec3(1, 2, 3), Vec3(1, 2, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertVec(t, tt.want, Rotation(tt.angle, tt.axis).MulDirection(tt.in))
		})
	}
}

func TestMulDirectionIgnoresTranslation(t *testing.T) {
	m := Translation(5, 5, 5)
	assert.Equal(t, Vec3(1, 0, 0), m.MulDirection(Vec3(1, 0, 0)))
	assert.Equal(t, Vec3(6, 5, 5), m.MulVector3(Vec3(1, 0, 0)))
}

func TestLookAt(t *testing.T) {
	eye, at, up := Vec3(0, 0, 3), Vec3(0, 0, -1), Vec3(0, 1, 0)
	m, err := LookAt(eye, at, up)
	require.NoError(t, err)

	assertVec(t, Vec3(0, 0, 0), m.MulVector3(eye))
	// the look target sits on the -Z axis in view space
	assertVec(t, Vec3(0, 0, -4), m.MulVector3(at))
	assertVec(t, Vec3(0, 1, 0), m.MulDirection(up))
}

func TestLookAtDegenerate(t *testing.T) {
	_, err := LookAt(Vec3(1, 1, 1), Vec3(1, 1, 1), Vec3(0, 1, 0))
	assert.ErrorIs(t, err, ErrZeroVector)

	_, err = LookAt(Vec3(0, 0, 0), Vec3(0, 5, 0), Vec3(0, 1, 0))
	assert.ErrorIs(t, err, ErrZeroVector)
}

func TestPerspective(t *testing.T) {
	m, err := Perspective(90, 2, 1, 10)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, m[0], tol)
	assert.InDelta(t, 1, m[5], tol)
	assert.InDelta(t, -1, m[11], tol)

	// near plane maps to depth 0, far plane to depth 1
	assert.InDelta(t, 0, m.MulVector3(Vec3(0, 0, -1)).Z, tol)
	assert.InDelta(t, 1, m.MulVector3(Vec3(0, 0, -10)).Z, tol)
}

func TestPerspectiveErrors(t *testing.T) {
	_, err := Perspective(60, 0, 0.1, 100)
	assert.ErrorIs(t, err, ErrInvalidAspect)

	_, err = Perspective(60, float32(math.Inf(1)), 0.1, 100)
	assert.ErrorIs(t, err, ErrInvalidAspect)

	_, err = Perspective(60, 1, 0, 100)
	assert.ErrorIs(t, err, ErrInvalidClipPlanes)

	_, err = Perspective(60, 1, 10, 1)
	assert.ErrorIs(t, err, ErrInvalidClipPlanes)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "", Coalesce[string]())
	assert.Equal(t, "a", Coalesce("", "a"))
}
