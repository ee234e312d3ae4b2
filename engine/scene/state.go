// Package scene holds the per-process scene context and turns it into draw calls.
//
// SceneState is the single owner of the camera, the light, the render toggles, the global rotation angle and the
// world map. Input handlers and UI controls mutate it; the Composer reads one immutable Snapshot per frame.
package scene

import (
	"sync"

	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/Carmen-Shannon/blocky-world/engine/camera"
	"github.com/Carmen-Shannon/blocky-world/engine/light"
	"github.com/Carmen-Shannon/blocky-world/engine/worldmap"
)

// MapBounds is the half-open cell range of the world map the composer iterates.
type MapBounds struct {
	RowStart, RowEnd int
	ColStart, ColEnd int
}

// DefaultMapBounds iterates the 4×4 corner of the map drawn by the reference scene.
var DefaultMapBounds = MapBounds{RowStart: 0, RowEnd: 4, ColStart: 0, ColEnd: 4}

// clamp restricts the bounds to an n×n grid.
func (b MapBounds) clamp(n int) MapBounds {
	c := func(v int) int { return max(0, min(v, n)) }
	return MapBounds{RowStart: c(b.RowStart), RowEnd: c(b.RowEnd), ColStart: c(b.ColStart), ColEnd: c(b.ColEnd)}
}

// Snapshot is an immutable copy of everything one frame reads.
type Snapshot struct {
	View       common.Matrix4
	Projection common.Matrix4

	// Angle is the global Y rotation in degrees.
	Angle float32

	LightPosition common.Vector3
	LightColor    common.Vector3

	LightingEnabled bool
	NormalsOn       bool

	// Map is shared, not copied; a Map is never mutated after generation.
	Map    *worldmap.Map
	Bounds MapBounds
}

// Status is the UI-visible part of the state, reported back to control clients.
type Status struct {
	LightPosition   [3]float32 `json:"light_position"`
	LightColor      [3]float32 `json:"light_color"`
	Angle           float32    `json:"angle"`
	LightingEnabled bool       `json:"lighting_enabled"`
	NormalsOn       bool       `json:"normals_on"`
}

// sceneStateImpl is the implementation of the SceneState interface.
type sceneStateImpl struct {
	mu *sync.Mutex

	camera     camera.Camera
	controller camera.CameraController
	light      light.Light
	worldMap   *worldmap.Map
	bounds     MapBounds

	angle           float32
	lightingEnabled bool
	normalsOn       bool
	redraw          bool

	controllerOptions []camera.CameraControllerOption
}

// SceneState is the explicit context object shared by the render loop and every input handler.
// All methods are safe for concurrent use.
type SceneState interface {
	// Camera returns the scene camera.
	Camera() camera.Camera

	// Controller returns the key and drag controller bound to the camera.
	Controller() camera.CameraController

	// Light returns the scene's point light.
	Light() light.Light

	// Map returns the world map.
	Map() *worldmap.Map

	// SetMap replaces the world map and requests a redraw.
	SetMap(m *worldmap.Map)

	// Bounds returns the map cell range drawn each frame.
	Bounds() MapBounds

	// Angle returns the global Y rotation in degrees.
	Angle() float32

	// SetAngle sets the global Y rotation in degrees and requests a redraw.
	SetAngle(degrees float32)

	// LightingEnabled reports whether Phong lighting is applied.
	LightingEnabled() bool

	// SetLightingEnabled enables or disables lighting and requests a redraw.
	SetLightingEnabled(enabled bool)

	// ToggleLighting flips the lighting flag and requests a redraw.
	//
	// Returns:
	//   - bool: the new value
	ToggleLighting() bool

	// NormalsOn reports whether normal visualization overrides the sphere and sky selectors.
	NormalsOn() bool

	// SetNormalsOn sets normal visualization and requests a redraw.
	SetNormalsOn(on bool)

	// ToggleNormals flips normal visualization and requests a redraw.
	//
	// Returns:
	//   - bool: the new value
	ToggleNormals() bool

	// RequestRedraw asks the render loop for an immediate frame outside the clock gate.
	RequestRedraw()

	// TakeRedraw reports and clears a pending redraw request.
	TakeRedraw() bool

	// Resize updates the camera aspect for a new surface size. Zero sizes are ignored.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	//
	// Returns:
	//   - error: an error if the camera rejected the aspect
	Resize(width, height int) error

	// HandleKey applies a key press: camera movement keys and the lighting/normal toggles.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	//
	// Returns:
	//   - bool: true if the key was bound
	//   - error: a camera error, in which case the camera is unchanged
	HandleKey(keyCode uint32) (bool, error)

	// BeginDrag starts a look-around drag at the pointer position.
	BeginDrag(x, y int32)

	// Drag rotates the camera by the pointer delta since the previous drag event.
	//
	// Returns:
	//   - error: a camera error, in which case the camera is unchanged
	Drag(x, y int32) error

	// EndDrag ends the current drag.
	EndDrag()

	// ApplyControl applies one slider or button event.
	//
	// Parameters:
	//   - c: the control event
	//
	// Returns:
	//   - error: ErrUnknownControl for an unrecognized id
	ApplyControl(c Control) error

	// Status returns the UI-visible state.
	Status() Status

	// Snapshot copies everything the next frame reads.
	Snapshot() Snapshot
}

var _ SceneState = &sceneStateImpl{}

// NewSceneState creates the scene context around a camera and a generated world map.
// Lighting starts enabled, normal visualization disabled, the angle at 0 and a redraw pending.
//
// Parameters:
//   - cam: the camera; it must already be valid
//   - m: the world map
//   - options: variadic list of SceneStateOption functions
//
// Returns:
//   - SceneState: the new state
func NewSceneState(cam camera.Camera, m *worldmap.Map, options ...SceneStateOption) SceneState {
	s := &sceneStateImpl{
		mu:              &sync.Mutex{},
		camera:          cam,
		worldMap:        m,
		bounds:          DefaultMapBounds,
		lightingEnabled: true,
		redraw:          true,
	}
	for _, option := range options {
		option(s)
	}
	if s.light == nil {
		s.light = light.NewLight()
	}
	s.controller = camera.NewCameraController(cam, s.controllerOptions...)
	return s
}

func (s *sceneStateImpl) Camera() camera.Camera {
	return s.camera
}

func (s *sceneStateImpl) Controller() camera.CameraController {
	return s.controller
}

func (s *sceneStateImpl) Light() light.Light {
	return s.light
}

func (s *sceneStateImpl) Map() *worldmap.Map {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.worldMap
}

func (s *sceneStateImpl) SetMap(m *worldmap.Map) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.worldMap = m
	s.redraw = true
}

func (s *sceneStateImpl) Bounds() MapBounds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

func (s *sceneStateImpl) Angle() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.angle
}

func (s *sceneStateImpl) SetAngle(degrees float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.angle = degrees
	s.redraw = true
}

func (s *sceneStateImpl) LightingEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lightingEnabled
}

func (s *sceneStateImpl) SetLightingEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lightingEnabled = enabled
	s.redraw = true
}

func (s *sceneStateImpl) ToggleLighting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lightingEnabled = !s.lightingEnabled
	s.redraw = true
	return s.lightingEnabled
}

func (s *sceneStateImpl) NormalsOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.normalsOn
}

func (s *sceneStateImpl) SetNormalsOn(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.normalsOn = on
	s.redraw = true
}

func (s *sceneStateImpl) ToggleNormals() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.normalsOn = !s.normalsOn
	s.redraw = true
	return s.normalsOn
}

func (s *sceneStateImpl) RequestRedraw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redraw = true
}

func (s *sceneStateImpl) TakeRedraw() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.redraw
	s.redraw = false
	return pending
}

func (s *sceneStateImpl) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if err := s.camera.SetAspect(float32(width) / float32(height)); err != nil {
		return err
	}
	s.RequestRedraw()
	return nil
}

func (s *sceneStateImpl) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		LightPosition:   s.light.Position().Array(),
		LightColor:      s.light.Color().Array(),
		Angle:           s.angle,
		LightingEnabled: s.lightingEnabled,
		NormalsOn:       s.normalsOn,
	}
}

func (s *sceneStateImpl) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		View:            s.camera.ViewMatrix(),
		Projection:      s.camera.ProjectionMatrix(),
		Angle:           s.angle,
		LightPosition:   s.light.Position(),
		LightColor:      s.light.Color(),
		LightingEnabled: s.lightingEnabled,
		NormalsOn:       s.normalsOn,
		Map:             s.worldMap,
	}
	if s.worldMap != nil {
		snap.Bounds = s.bounds.clamp(s.worldMap.Size())
	}
	return snap
}
