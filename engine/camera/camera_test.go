package camera

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCamera(t *testing.T, options ...CameraBuilderOption) Camera {
	t.Helper()
	c, err := NewCamera(options...)
	require.NoError(t, err)
	return c
}

func assertVecNear(t *testing.T, want, got common.Vector3, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x")
	assert.InDelta(t, want.Y, got.Y, delta, "y")
	assert.InDelta(t, want.Z, got.Z, delta, "z")
}

func assertViewMatchesBasis(t *testing.T, c Camera) {
	t.Helper()
	want, err := common.LookAt(c.Eye(), c.At(), c.Up())
	require.NoError(t, err)
	got := c.ViewMatrix()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6, "view element %d", i)
	}
}

func TestNewCameraDefaults(t *testing.T) {
	c := newTestCamera(t)

	assert.Equal(t, common.Vec3(0, 0, 3), c.Eye())
	assert.Equal(t, common.Vec3(0, 0, -1), c.At())
	assert.Equal(t, common.Vec3(0, 1, 0), c.Up())
	assert.Equal(t, DefaultFov, c.Fov())
	assert.Equal(t, DefaultSpeed, c.Speed())
	assert.Equal(t, DefaultPanAngle, c.PanAngle())
	assert.Equal(t, DefaultNear, c.Near())
	assert.Equal(t, DefaultFar, c.Far())
	assertViewMatchesBasis(t, c)

	proj, err := common.Perspective(DefaultFov, 1, DefaultNear, DefaultFar)
	require.NoError(t, err)
	assert.Equal(t, proj, c.ProjectionMatrix())
}

func TestNewCameraRejectsDegenerateInput(t *testing.T) {
	_, err := NewCamera(WithEye(common.Vec3(1, 2, 3)), WithAt(common.Vec3(1, 2, 3)))
	assert.ErrorIs(t, err, common.ErrZeroVector)

	_, err = NewCamera(WithAspect(0))
	assert.ErrorIs(t, err, common.ErrInvalidAspect)
}

func TestViewMatrixTracksEveryMutation(t *testing.T) {
	ops := map[string]func(Camera) error{
		"forward":         Camera.MoveForward,
		"backward":        Camera.MoveBackward,
		"left":            Camera.MoveLeft,
		"right":           Camera.MoveRight,
		"pan left":        Camera.PanLeft,
		"pan right":       Camera.PanRight,
		"rotate h":        func(c Camera) error { return c.RotateHorizontally(17) },
		"rotate v":        func(c Camera) error { return c.RotateVertically(-23) },
		"rotate v then h": func(c Camera) error { _ = c.RotateVertically(30); return c.RotateHorizontally(40) },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			c := newTestCamera(t, WithAspect(16.0/9.0))
			require.NoError(t, op(c))
			assertViewMatchesBasis(t, c)
		})
	}
}

func TestMoveForwardScenario(t *testing.T) {
	c := newTestCamera(t)
	require.NoError(t, c.MoveForward())

	assertVecNear(t, common.Vec3(0, 0, 2.8), c.Eye(), 1e-6)
	assertVecNear(t, common.Vec3(0, 0, -1.2), c.At(), 1e-6)
}

func TestMoveForwardBackwardRoundTrip(t *testing.T) {
	c := newTestCamera(t, WithEye(common.Vec3(1, 2, 3)), WithAt(common.Vec3(-4, 0.5, 7)))
	eye, at := c.Eye(), c.At()

	require.NoError(t, c.MoveForward())
	require.NoError(t, c.MoveBackward())

	assertVecNear(t, eye, c.Eye(), 1e-5)
	assertVecNear(t, at, c.At(), 1e-5)
}

func TestMoveLeftRight(t *testing.T) {
	c := newTestCamera(t)

	require.NoError(t, c.MoveLeft())
	assertVecNear(t, common.Vec3(-0.2, 0, 3), c.Eye(), 1e-6)
	assertVecNear(t, common.Vec3(-0.2, 0, -1), c.At(), 1e-6)

	require.NoError(t, c.MoveRight())
	require.NoError(t, c.MoveRight())
	assertVecNear(t, common.Vec3(0.2, 0, 3), c.Eye(), 1e-6)
}

func TestPanFullCircleCloses(t *testing.T) {
	c := newTestCamera(t)
	at := c.At()

	for range 72 {
		require.NoError(t, c.PanLeft())
	}

	assertVecNear(t, at, c.At(), 1e-3)
	assert.Equal(t, common.Vec3(0, 1, 0), c.Up())
}

func TestPanLeftTurnsTowardsNegativeX(t *testing.T) {
	c := newTestCamera(t, WithPanAngle(90))
	require.NoError(t, c.PanLeft())

	// looking down -Z, a left turn about +Y faces -X
	assertVecNear(t, common.Vec3(-4, 0, 3), c.At(), 1e-5)

	require.NoError(t, c.PanRight())
	assertVecNear(t, common.Vec3(0, 0, -1), c.At(), 1e-5)
}

func TestRotateVerticallyKeepsBasisOrthogonal(t *testing.T) {
	for _, angle := range []float32{-89.5, -60, -10, 1, 10, 45, 80, 89.5} {
		c := newTestCamera(t)
		require.NoError(t, c.RotateVertically(angle))
		assertOrthogonal(t, c)
	}

	// stepping past the pole keeps the basis orthogonal even though up inverts
	c := newTestCamera(t)
	for range 20 {
		require.NoError(t, c.RotateVertically(10))
		assertOrthogonal(t, c)
	}
}

func assertOrthogonal(t *testing.T, c Camera) {
	t.Helper()
	f, err := c.At().Sub(c.Eye()).Normalize()
	require.NoError(t, err)
	up := c.Up()
	right, err := f.Cross(up).Normalize()
	require.NoError(t, err)

	assert.InDelta(t, 0, f.Dot(up), 1e-4)
	assert.InDelta(t, 0, f.Dot(right), 1e-4)
	assert.InDelta(t, 0, up.Dot(right), 1e-4)
	assert.InDelta(t, 1, up.Length(), 1e-4)
}

func TestRotateVerticallyDegenerate(t *testing.T) {
	// forward parallel to up cannot define a right vector
	bad := &cameraImpl{
		mu:  &sync.Mutex{},
		eye: common.Vec3(0, 0, 0),
		at:  common.Vec3(0, 1, 0),
		up:  common.Vec3(0, 1, 0),
	}
	assert.ErrorIs(t, bad.RotateVertically(10), common.ErrZeroVector)
	assert.Equal(t, common.Vec3(0, 1, 0), bad.at)
}

func TestSetAspect(t *testing.T) {
	c := newTestCamera(t)
	before := c.ProjectionMatrix()

	assert.ErrorIs(t, c.SetAspect(0), common.ErrInvalidAspect)
	assert.Equal(t, before, c.ProjectionMatrix())

	require.NoError(t, c.SetAspect(2))
	assert.Equal(t, float32(2), c.Aspect())
	assert.NotEqual(t, before, c.ProjectionMatrix())
}

func TestControllerKeyBindings(t *testing.T) {
	c := newTestCamera(t)
	cc := NewCameraController(c)

	handled, err := cc.HandleKeyDown(common.KeyW)
	require.NoError(t, err)
	assert.True(t, handled)
	assertVecNear(t, common.Vec3(0, 0, 2.8), c.Eye(), 1e-6)

	handled, err = cc.HandleKeyDown(common.KeyS)
	require.NoError(t, err)
	assert.True(t, handled)
	assertVecNear(t, common.Vec3(0, 0, 3), c.Eye(), 1e-6)

	handled, err = cc.HandleKeyDown(common.KeyL)
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestControllerCustomBinding(t *testing.T) {
	c := newTestCamera(t)
	cc := NewCameraController(c,
		WithKeyBinding(common.KeyW, ActionNone),
		WithKeyBinding(common.KeySpace, ActionMoveForward),
	)

	handled, _ := cc.HandleKeyDown(common.KeyW)
	assert.False(t, handled)

	handled, err := cc.HandleKeyDown(common.KeySpace)
	require.NoError(t, err)
	assert.True(t, handled)
}

func TestControllerDrag(t *testing.T) {
	c := newTestCamera(t)
	cc := NewCameraController(c)

	rotated, err := cc.Drag(10, 10)
	require.NoError(t, err)
	assert.False(t, rotated, "no drag in progress")

	cc.BeginDrag(100, 100)
	assert.True(t, cc.Dragging())

	// dx = -180 px -> RotateHorizontally(90): a left turn
	rotated, err = cc.Drag(-80, 100)
	require.NoError(t, err)
	assert.True(t, rotated)
	assertVecNear(t, common.Vec3(-4, 0, 3), c.At(), 1e-4)

	cc.EndDrag()
	assert.False(t, cc.Dragging())
	rotated, _ = cc.Drag(0, 0)
	assert.False(t, rotated)
}
