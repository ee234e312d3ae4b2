package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/Carmen-Shannon/blocky-world/engine/clock"
	"github.com/Carmen-Shannon/blocky-world/engine/renderer"
	"github.com/Carmen-Shannon/blocky-world/engine/shape"
)

// Fixed scene dressing.
var (
	mapColor        = [4]float32{1, 1, 1, 1}
	lightCubeColor  = [4]float32{2, 2, 0, 1}
	sphereColor     = [4]float32{1, 0, 0, 1}
	floorColor      = [4]float32{0, 1, 0, 1}
	skyColor        = [4]float32{0, 0, 1, 1}
	sphereTranslate = common.Vec3(-1.5, 0.5, 0)
	yAxis           = common.Vec3(0, 1, 0)
)

const (
	// mapOrigin shifts grid indices so the map sits around the world origin.
	mapOrigin float32 = 4
	// groundLevel is the bottom of the first block of every stack and the height of the floor.
	groundLevel float32 = -0.75
)

// composerImpl is the implementation of the Composer interface.
type composerImpl struct {
	mu *sync.Mutex

	renderer   renderer.Renderer
	batchedMap bool
	sphere     shape.Sphere
	geometry   map[shape.Shape]shape.Geometry
}

// Composer turns a SceneState into one frame of draw calls.
//
// A frame clears color and depth, pushes the camera and global rotation matrices, stacks white textured cubes on
// every occupied map cell inside the bounds, pushes the light uniforms, then draws the light indicator, the
// reference sphere, the floor and the inward-facing sky cube.
type Composer interface {
	// RenderFrame draws one frame of the current state and presents it.
	//
	// Parameters:
	//   - state: the scene context
	//
	// Returns:
	//   - error: a renderer error; the frame is still ended and presented
	RenderFrame(state SceneState) error

	// Tick advances the light orbit to frame.Seconds, clears any pending redraw request and renders.
	//
	// Parameters:
	//   - state: the scene context
	//   - frame: the gated clock frame
	//
	// Returns:
	//   - error: a renderer error
	Tick(state SceneState, frame clock.Frame) error

	// BatchedMap reports whether map blocks are drawn through the positions-only cube.
	BatchedMap() bool

	// SetBatchedMap switches how map blocks are drawn.
	SetBatchedMap(batched bool)
}

var _ Composer = &composerImpl{}

// NewComposer creates a composer drawing through r.
//
// Parameters:
//   - r: the renderer
//   - options: variadic list of ComposerOption functions
//
// Returns:
//   - Composer: the new composer
func NewComposer(r renderer.Renderer, options ...ComposerOption) Composer {
	c := &composerImpl{
		mu:       &sync.Mutex{},
		renderer: r,
		geometry: make(map[shape.Shape]shape.Geometry),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *composerImpl) BatchedMap() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.batchedMap
}

func (c *composerImpl) SetBatchedMap(batched bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batchedMap = batched
}

func (c *composerImpl) Tick(state SceneState, frame clock.Frame) error {
	state.Light().Orbit(frame.Seconds)
	state.TakeRedraw()
	return c.RenderFrame(state)
}

func (c *composerImpl) RenderFrame(state SceneState) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := state.Snapshot()
	if err := c.renderer.BeginFrame(); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	err := c.drawScene(snap)
	c.renderer.EndFrame()
	c.renderer.Present()
	return err
}

func (c *composerImpl) drawScene(s Snapshot) error {
	r := c.renderer
	r.SetMatrix(renderer.SlotProjectionMatrix, s.Projection)
	r.SetMatrix(renderer.SlotViewMatrix, s.View)
	r.SetMatrix(renderer.SlotGlobalRotateMatrix, common.Rotation(s.Angle, yAxis))

	var errs []error
	for _, in := range c.mapInstances(s) {
		if err := c.draw(in); err != nil {
			errs = append(errs, err)
			break
		}
	}

	r.SetVector3(renderer.SlotLightPos, s.LightPosition)
	r.SetVector3(renderer.SlotLightColor, s.LightColor)
	r.SetBool(renderer.SlotLightingEnabled, s.LightingEnabled)

	for _, in := range c.fixedInstances(s) {
		if err := c.draw(in); err != nil {
			errs = append(errs, err)
			break
		}
	}
	return errors.Join(errs...)
}

// mapInstances stacks Height(row, col) unit cubes on every cell inside the bounds.
func (c *composerImpl) mapInstances(s Snapshot) []shape.Instance {
	if s.Map == nil {
		return nil
	}
	cube := shape.Cube{}
	if c.batchedMap {
		cube.Mode = shape.CubeModeBatched
	}

	var out []shape.Instance
	for row := s.Bounds.RowStart; row < s.Bounds.RowEnd; row++ {
		for col := s.Bounds.ColStart; col < s.Bounds.ColEnd; col++ {
			for i := 1; i <= s.Map.Height(row, col); i++ {
				out = append(out, shape.NewInstance(cube,
					withColor(mapColor),
					shape.WithTexture(shape.TextureUnit0),
					shape.Translate(float32(row)-mapOrigin, groundLevel+float32(i-1), float32(col)-mapOrigin),
				))
			}
		}
	}
	return out
}

// fixedInstances returns the light indicator, sphere, floor and sky, in draw order.
func (c *composerImpl) fixedInstances(s Snapshot) []shape.Instance {
	sphereTexture := shape.TextureSolidColor
	skyTexture := shape.TextureUnit1
	if s.NormalsOn {
		sphereTexture = shape.TextureNormals
		skyTexture = shape.TextureNormals
	}
	lp := s.LightPosition

	return []shape.Instance{
		shape.NewInstance(shape.Cube{},
			withColor(lightCubeColor),
			shape.WithTexture(shape.TextureSolidColor),
			shape.Translate(lp.X, lp.Y, lp.Z),
			shape.Scale(0.1, 0.1, 0.1),
			shape.Translate(-0.8, -0.8, -0.8),
		),
		shape.NewInstance(c.sphere,
			withColor(sphereColor),
			shape.WithTexture(sphereTexture),
			shape.Translate(sphereTranslate.X, sphereTranslate.Y, sphereTranslate.Z),
		),
		shape.NewInstance(shape.Cube{},
			withColor(floorColor),
			shape.WithTexture(shape.TextureSolidColor),
			shape.Translate(0, groundLevel, 0),
			shape.Scale(42, 0, 42),
			shape.Translate(-0.5, 0, -0.5),
		),
		shape.NewInstance(shape.Cube{},
			withColor(skyColor),
			shape.WithTexture(skyTexture),
			shape.Scale(-50, -50, -50),
			shape.Translate(-0.5, -0.5, -0.5),
		),
	}
}

func withColor(c [4]float32) shape.InstanceOption {
	return shape.WithColor(c[0], c[1], c[2], c[3])
}

// draw pushes an instance's model matrix, color and selector, then submits its geometry.
func (c *composerImpl) draw(in shape.Instance) error {
	r := c.renderer
	r.SetMatrix(renderer.SlotModelMatrix, in.Model)
	r.SetVector4(renderer.SlotFragColor, in.Color)
	r.SetInt(renderer.SlotWhichTexture, in.Texture.Code())
	return r.Draw(c.geometryFor(in.Shape))
}

// geometryFor expands a shape once and reuses the triangles for every later instance of the same shape value.
func (c *composerImpl) geometryFor(s shape.Shape) shape.Geometry {
	if g, ok := c.geometry[s]; ok {
		return g
	}
	g := s.Geometry()
	c.geometry[s] = g
	return g
}
