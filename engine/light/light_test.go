package light

import (
	"testing"

	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight()

	assert.Equal(t, common.Vec3(0, 2, 2), l.Position())
	assert.Equal(t, common.Vec3(1, 1, 1), l.Color())
	assert.Equal(t, DefaultOrbitRadius, l.OrbitRadius())
	assert.Equal(t, DefaultOrbitHeight, l.OrbitHeight())
}

func TestOrbit(t *testing.T) {
	l := NewLight()

	l.Orbit(0)
	assert.Equal(t, common.Vec3(3, 2, 0), l.Position())

	l.Orbit(math32.Pi / 2)
	p := l.Position()
	assert.InDelta(t, 0, p.X, 1e-5)
	assert.Equal(t, float32(2), p.Y)
	assert.InDelta(t, 3, p.Z, 1e-5)

	// every phase stays on the circle
	for _, s := range []float32{0.3, 1.7, 12.5, 1000} {
		l.Orbit(s)
		p := l.Position()
		assert.InDelta(t, 9, p.X*p.X+p.Z*p.Z, 1e-3)
		assert.Equal(t, float32(2), p.Y)
	}
}

func TestOrbitCustomCircle(t *testing.T) {
	l := NewLight(WithOrbit(5, -1), WithColor(0.5, 0.25, 1))
	l.Orbit(math32.Pi)

	p := l.Position()
	assert.InDelta(t, -5, p.X, 1e-5)
	assert.Equal(t, float32(-1), p.Y)
	assert.Equal(t, common.Vec3(0.5, 0.25, 1), l.Color())
}

func TestSetComponents(t *testing.T) {
	l := NewLight(WithPosition(1, 2, 3))

	assert.NoError(t, l.SetPositionComponent(0, -1))
	assert.NoError(t, l.SetPositionComponent(2, 0.5))
	assert.Equal(t, common.Vec3(-1, 2, 0.5), l.Position())
	assert.Error(t, l.SetPositionComponent(3, 1))

	assert.NoError(t, l.SetColorComponent(1, 0))
	assert.Equal(t, common.Vec3(1, 0, 1), l.Color())
	assert.Error(t, l.SetColorComponent(-1, 1))

	l.SetPosition(4, 5, 6)
	l.SetColor(0, 0, 0)
	assert.Equal(t, common.Vec3(4, 5, 6), l.Position())
	assert.Equal(t, common.Vec3(0, 0, 0), l.Color())
}
