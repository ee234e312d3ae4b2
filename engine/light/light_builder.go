package light

import "github.com/Carmen-Shannon/blocky-world/common"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the initial world-space position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = common.Vec3(x, y, z)
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = common.Vec3(r, g, b)
	}
}

// WithOrbit is an option builder that sets the orbit circle.
//
// Parameters:
//   - radius: the radius of the circle in the X–Z plane
//   - height: the fixed y coordinate of the orbit
//
// Returns:
//   - LightBuilderOption: a function that applies the orbit option to a lightImpl
func WithOrbit(radius, height float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.orbitRadius = radius
		l.orbitHeight = height
	}
}
