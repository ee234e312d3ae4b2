package scene

import (
	"github.com/Carmen-Shannon/blocky-world/engine/camera"
	"github.com/Carmen-Shannon/blocky-world/engine/light"
)

// SceneStateOption is a functional option for configuring a SceneState.
// Use the With* functions to create options.
type SceneStateOption func(s *sceneStateImpl)

// WithLight sets the scene light. Defaults to light.NewLight().
//
// Parameters:
//   - l: the light
//
// Returns:
//   - SceneStateOption: option function to apply
func WithLight(l light.Light) SceneStateOption {
	return func(s *sceneStateImpl) {
		s.light = l
	}
}

// WithAngle sets the initial global Y rotation in degrees.
//
// Parameters:
//   - degrees: the rotation angle
//
// Returns:
//   - SceneStateOption: option function to apply
func WithAngle(degrees float32) SceneStateOption {
	return func(s *sceneStateImpl) {
		s.angle = degrees
	}
}

// WithLightingEnabled sets the initial lighting flag. Defaults to true.
//
// Parameters:
//   - enabled: whether lighting starts enabled
//
// Returns:
//   - SceneStateOption: option function to apply
func WithLightingEnabled(enabled bool) SceneStateOption {
	return func(s *sceneStateImpl) {
		s.lightingEnabled = enabled
	}
}

// WithNormalsOn sets the initial normal visualization flag. Defaults to false.
//
// Parameters:
//   - on: whether normal visualization starts on
//
// Returns:
//   - SceneStateOption: option function to apply
func WithNormalsOn(on bool) SceneStateOption {
	return func(s *sceneStateImpl) {
		s.normalsOn = on
	}
}

// WithMapBounds sets the cell range drawn each frame. The range is clamped to the map at snapshot time.
//
// Parameters:
//   - b: the half-open row and column range
//
// Returns:
//   - SceneStateOption: option function to apply
func WithMapBounds(b MapBounds) SceneStateOption {
	return func(s *sceneStateImpl) {
		s.bounds = b
	}
}

// WithControllerOptions passes options through to the camera controller, e.g. camera.WithSensitivity.
//
// Parameters:
//   - options: the controller options
//
// Returns:
//   - SceneStateOption: option function to apply
func WithControllerOptions(options ...camera.CameraControllerOption) SceneStateOption {
	return func(s *sceneStateImpl) {
		s.controllerOptions = append(s.controllerOptions, options...)
	}
}
