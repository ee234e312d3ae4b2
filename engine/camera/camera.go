package camera

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/blocky-world/common"
)

const (
	// DefaultFov is the default vertical field of view in degrees.
	DefaultFov float32 = 60
	// DefaultSpeed is the default distance travelled by one dolly step.
	DefaultSpeed float32 = 0.2
	// DefaultPanAngle is the default rotation in degrees applied by one pan step.
	DefaultPanAngle float32 = 5
	// DefaultNear is the default near clipping plane distance.
	DefaultNear float32 = 0.1
	// DefaultFar is the default far clipping plane distance.
	DefaultFar float32 = 1000
)

type cameraImpl struct {
	mu *sync.Mutex

	eye common.Vector3
	at  common.Vector3
	up  common.Vector3

	fov      float32
	aspect   float32
	near     float32
	far      float32
	speed    float32
	panAngle float32

	viewMatrix       common.Matrix4
	projectionMatrix common.Matrix4
}

// Camera defines the interface for the first-person camera.
// The camera owns its eye, look-at point and up vector and keeps the view matrix equal to
// LookAt(eye, at, up) after every mutation. Operations that would produce a degenerate basis
// return an error and leave the camera untouched.
type Camera interface {
	// Eye returns the camera position.
	//
	// Returns:
	//   - common.Vector3: the eye position in world space
	Eye() common.Vector3

	// At returns the point the camera looks at.
	//
	// Returns:
	//   - common.Vector3: the look-at point in world space
	At() common.Vector3

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - common.Vector3: the up vector
	Up() common.Vector3

	// Fov returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float32: field of view in degrees
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// Speed returns the distance travelled by one dolly step.
	Speed() float32

	// PanAngle returns the rotation in degrees applied by one pan step.
	PanAngle() float32

	// ViewMatrix returns the current view matrix.
	//
	// Returns:
	//   - common.Matrix4: LookAt(eye, at, up) as of the last mutation
	ViewMatrix() common.Matrix4

	// ProjectionMatrix returns the current perspective projection matrix.
	//
	// Returns:
	//   - common.Matrix4: the projection matrix
	ProjectionMatrix() common.Matrix4

	// MoveForward moves eye and at by Speed along the normalized forward vector (at - eye).
	//
	// Returns:
	//   - error: common.ErrZeroVector if eye equals at
	MoveForward() error

	// MoveBackward moves eye and at by Speed along the normalized backward vector (eye - at).
	//
	// Returns:
	//   - error: common.ErrZeroVector if eye equals at
	MoveBackward() error

	// MoveLeft moves eye and at by Speed along the normalized vector up × forward.
	//
	// Returns:
	//   - error: common.ErrZeroVector if up is parallel to the forward vector
	MoveLeft() error

	// MoveRight moves eye and at by Speed along the normalized vector forward × up.
	//
	// Returns:
	//   - error: common.ErrZeroVector if up is parallel to the forward vector
	MoveRight() error

	// PanLeft rotates the forward vector by +PanAngle degrees about the up vector.
	//
	// Returns:
	//   - error: common.ErrZeroVector if the resulting basis is degenerate
	PanLeft() error

	// PanRight rotates the forward vector by -PanAngle degrees about the up vector.
	//
	// Returns:
	//   - error: common.ErrZeroVector if the resulting basis is degenerate
	PanRight() error

	// RotateHorizontally rotates the forward vector about the up vector by an arbitrary angle.
	// Used for continuous look-around driven by drag deltas.
	//
	// Parameters:
	//   - angleDeg: rotation angle in degrees (positive turns left)
	//
	// Returns:
	//   - error: common.ErrZeroVector if the resulting basis is degenerate
	RotateHorizontally(angleDeg float32) error

	// RotateVertically rotates the forward vector about the camera's right vector, then recomputes
	// up as normalize(right × forward) so the basis stays orthogonal. Extreme angles can still invert up.
	//
	// Parameters:
	//   - angleDeg: rotation angle in degrees (positive tilts up)
	//
	// Returns:
	//   - error: common.ErrZeroVector if forward is parallel to up or eye equals at
	RotateVertically(angleDeg float32) error

	// SetAspect sets the aspect ratio (width / height) and recomputes the projection.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	//
	// Returns:
	//   - error: common.ErrInvalidAspect if aspect is zero or not finite
	SetAspect(aspect float32) error
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera. Defaults: eye (0,0,3), at (0,0,-1), up (0,1,0), fov 60°,
// aspect 1, near 0.1, far 1000, speed 0.2, pan angle 5°.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera with up-to-date matrices
//   - error: error if the configured basis or projection parameters are invalid
func NewCamera(options ...CameraBuilderOption) (Camera, error) {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		eye:      common.Vec3(0, 0, 3),
		at:       common.Vec3(0, 0, -1),
		up:       common.Vec3(0, 1, 0),
		fov:      DefaultFov,
		aspect:   1,
		near:     DefaultNear,
		far:      DefaultFar,
		speed:    DefaultSpeed,
		panAngle: DefaultPanAngle,
	}
	for _, option := range options {
		option(c)
	}

	view, err := common.LookAt(c.eye, c.at, c.up)
	if err != nil {
		return nil, fmt.Errorf("invalid camera basis: %w", err)
	}
	proj, err := common.Perspective(c.fov, c.aspect, c.near, c.far)
	if err != nil {
		return nil, fmt.Errorf("invalid camera projection: %w", err)
	}
	c.viewMatrix = view
	c.projectionMatrix = proj
	return c, nil
}

func (c *cameraImpl) Eye() common.Vector3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) At() common.Vector3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *cameraImpl) Up() common.Vector3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Speed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

func (c *cameraImpl) PanAngle() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panAngle
}

func (c *cameraImpl) ViewMatrix() common.Matrix4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() common.Matrix4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) MoveForward() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, err := c.at.Sub(c.eye).Normalize()
	if err != nil {
		return err
	}
	return c.translate(f.Scale(c.speed))
}

func (c *cameraImpl) MoveBackward() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := c.eye.Sub(c.at).Normalize()
	if err != nil {
		return err
	}
	return c.translate(b.Scale(c.speed))
}

func (c *cameraImpl) MoveLeft() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.up.Cross(c.at.Sub(c.eye)).Normalize()
	if err != nil {
		return err
	}
	return c.translate(s.Scale(c.speed))
}

func (c *cameraImpl) MoveRight() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.at.Sub(c.eye).Cross(c.up).Normalize()
	if err != nil {
		return err
	}
	return c.translate(s.Scale(c.speed))
}

func (c *cameraImpl) PanLeft() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotateAboutUp(c.panAngle)
}

func (c *cameraImpl) PanRight() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotateAboutUp(-c.panAngle)
}

func (c *cameraImpl) RotateHorizontally(angleDeg float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotateAboutUp(angleDeg)
}

func (c *cameraImpl) RotateVertically(angleDeg float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := c.at.Sub(c.eye)
	right, err := f.Cross(c.up).Normalize()
	if err != nil {
		return err
	}
	fPrime := common.Rotation(angleDeg, right).MulDirection(f)
	up, err := right.Cross(fPrime).Normalize()
	if err != nil {
		return err
	}
	return c.apply(c.eye, c.eye.Add(fPrime), up)
}

func (c *cameraImpl) SetAspect(aspect float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	proj, err := common.Perspective(c.fov, aspect, c.near, c.far)
	if err != nil {
		return err
	}
	c.aspect = aspect
	c.projectionMatrix = proj
	return nil
}

// translate moves eye and at by delta. Caller must hold the mutex.
func (c *cameraImpl) translate(delta common.Vector3) error {
	return c.apply(c.eye.Add(delta), c.at.Add(delta), c.up)
}

// rotateAboutUp rotates the forward vector about up and moves at accordingly. Caller must hold the mutex.
func (c *cameraImpl) rotateAboutUp(angleDeg float32) error {
	fPrime := common.Rotation(angleDeg, c.up).MulDirection(c.at.Sub(c.eye))
	return c.apply(c.eye, c.eye.Add(fPrime), c.up)
}

// apply commits a new basis and recomputes the view matrix. The camera is left unchanged if the
// basis is degenerate. Caller must hold the mutex.
func (c *cameraImpl) apply(eye, at, up common.Vector3) error {
	view, err := common.LookAt(eye, at, up)
	if err != nil {
		return err
	}
	c.eye, c.at, c.up = eye, at, up
	c.viewMatrix = view
	return nil
}
