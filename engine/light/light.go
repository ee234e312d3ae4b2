package light

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/chewxy/math32"
)

const (
	// DefaultOrbitRadius is the radius of the light's circle in the X–Z plane.
	DefaultOrbitRadius float32 = 3
	// DefaultOrbitHeight is the fixed height of the orbiting light.
	DefaultOrbitHeight float32 = 2
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	position    common.Vector3
	color       common.Vector3
	orbitRadius float32
	orbitHeight float32
}

// Light defines the interface for the scene's single point light.
//
// The light's position is animated by Orbit once per gated frame and can also be set component-wise from the
// UI sliders; its color is only changed by the UI. The light feeds the shading uniforms; it is not itself
// drawn, the scene draws a small cube at its position as an indicator.
type Light interface {
	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - common.Vector3: position as (x, y, z)
	Position() common.Vector3

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - common.Vector3: color as (r, g, b)
	Color() common.Vector3

	// OrbitRadius returns the radius of the orbit circle.
	OrbitRadius() float32

	// OrbitHeight returns the fixed height of the orbit.
	OrbitHeight() float32

	// Orbit places the light on its circle at phase seconds: (r·cos t, h, r·sin t).
	//
	// Parameters:
	//   - seconds: elapsed time since the clock started, used as the angle in radians
	Orbit(seconds float32)

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetPositionComponent sets one axis of the position.
	//
	// Parameters:
	//   - axis: 0 for x, 1 for y, 2 for z
	//   - v: the new value
	//
	// Returns:
	//   - error: error if axis is out of range
	SetPositionComponent(axis int, v float32) error

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetColorComponent sets one channel of the color.
	//
	// Parameters:
	//   - channel: 0 for red, 1 for green, 2 for blue
	//   - v: the new value
	//
	// Returns:
	//   - error: error if channel is out of range
	SetColorComponent(channel int, v float32) error
}

var _ Light = &lightImpl{}

// NewLight creates a white point light at (0, 2, 2) orbiting with radius 3 at height 2.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:          &sync.Mutex{},
		position:    common.Vec3(0, 2, 2),
		color:       common.Vec3(1, 1, 1),
		orbitRadius: DefaultOrbitRadius,
		orbitHeight: DefaultOrbitHeight,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Position() common.Vector3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) Color() common.Vector3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) OrbitRadius() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.orbitRadius
}

func (l *lightImpl) OrbitHeight() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.orbitHeight
}

func (l *lightImpl) Orbit(seconds float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = common.Vec3(
		l.orbitRadius*math32.Cos(seconds),
		l.orbitHeight,
		l.orbitRadius*math32.Sin(seconds),
	)
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = common.Vec3(x, y, z)
}

func (l *lightImpl) SetPositionComponent(axis int, v float32) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return setComponent(&l.position, axis, v)
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = common.Vec3(r, g, b)
}

func (l *lightImpl) SetColorComponent(channel int, v float32) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return setComponent(&l.color, channel, v)
}

func setComponent(vec *common.Vector3, i int, v float32) error {
	switch i {
	case 0:
		vec.X = v
	case 1:
		vec.Y = v
	case 2:
		vec.Z = v
	default:
		return fmt.Errorf("component index %d out of range [0, 2]", i)
	}
	return nil
}
