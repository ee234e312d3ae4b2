package camera

import "github.com/Carmen-Shannon/blocky-world/common"

type CameraBuilderOption func(*cameraImpl)

// WithEye sets the camera position.
//
// Parameters:
//   - eye: the eye position in world space
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's eye
func WithEye(eye common.Vector3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.eye = eye
	}
}

// WithAt sets the point the camera looks at.
//
// Parameters:
//   - at: the look-at point in world space
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's look-at point
func WithAt(at common.Vector3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.at = at
	}
}

// WithUp sets the camera's up vector.
//
// Parameters:
//   - up: the up vector
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's up vector
func WithUp(up common.Vector3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = up
	}
}

// WithFov sets the camera's vertical field of view in degrees.
//
// Parameters:
//   - fov: field of view in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNear sets the camera's near clipping plane distance.
//
// Parameters:
//   - near: the near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the camera's far clipping plane distance.
//
// Parameters:
//   - far: the far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}

// WithSpeed sets the distance travelled by one dolly step.
//
// Parameters:
//   - speed: dolly distance per step
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's movement speed
func WithSpeed(speed float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.speed = speed
	}
}

// WithPanAngle sets the rotation applied by one pan step.
//
// Parameters:
//   - degrees: pan angle in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's pan angle
func WithPanAngle(degrees float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.panAngle = degrees
	}
}
