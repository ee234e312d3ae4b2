package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/Carmen-Shannon/blocky-world/engine/renderer"
	"github.com/Carmen-Shannon/blocky-world/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/blocky-world/engine/renderer/shader"
	"github.com/Carmen-Shannon/blocky-world/engine/shape"
)

// drawCall is the uniform state a single Draw observed.
type drawCall struct {
	geometry shape.Geometry
	matrices map[renderer.UniformSlot]common.Matrix4
	vec3     map[renderer.UniformSlot]common.Vector3
	color    [4]float32
	texture  int32
	lighting bool
}

// recordingRenderer implements renderer.Renderer by remembering uniform values and copying them into every draw.
type recordingRenderer struct {
	matrices map[renderer.UniformSlot]common.Matrix4
	vec3     map[renderer.UniformSlot]common.Vector3
	color    [4]float32
	texture  int32
	lighting bool

	frames    int
	presented int
	inFrame   bool
	draws     []drawCall
	drawErr   error
	beginErr  error
	maxDraws  int
}

var _ renderer.Renderer = &recordingRenderer{}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{
		matrices: make(map[renderer.UniformSlot]common.Matrix4),
		vec3:     make(map[renderer.UniformSlot]common.Vector3),
	}
}

func (r *recordingRenderer) Shader() shader.Shader                 { return nil }
func (r *recordingRenderer) Pipeline(key string) pipeline.Pipeline { return nil }

func (r *recordingRenderer) BeginFrame() error {
	if r.beginErr != nil {
		return r.beginErr
	}
	r.frames++
	r.inFrame = true
	r.draws = nil
	return nil
}

func (r *recordingRenderer) SetMatrix(slot renderer.UniformSlot, m common.Matrix4)  { r.matrices[slot] = m }
func (r *recordingRenderer) SetVector3(slot renderer.UniformSlot, v common.Vector3) { r.vec3[slot] = v }
func (r *recordingRenderer) SetVector4(slot renderer.UniformSlot, v [4]float32)     { r.color = v }
func (r *recordingRenderer) SetInt(slot renderer.UniformSlot, v int32)              { r.texture = v }
func (r *recordingRenderer) SetBool(slot renderer.UniformSlot, b bool)              { r.lighting = b }

func (r *recordingRenderer) BindTexture(unit int, data common.TextureStagingData) error { return nil }

func (r *recordingRenderer) Draw(geometry shape.Geometry) error {
	if r.drawErr != nil {
		return r.drawErr
	}
	if len(geometry.Vertices) == 0 {
		return nil
	}
	if r.maxDraws > 0 && len(r.draws) >= r.maxDraws {
		return fmt.Errorf("%w: %d", renderer.ErrDrawLimit, r.maxDraws)
	}
	call := drawCall{
		geometry: geometry,
		matrices: make(map[renderer.UniformSlot]common.Matrix4, len(r.matrices)),
		vec3:     make(map[renderer.UniformSlot]common.Vector3, len(r.vec3)),
		color:    r.color,
		texture:  r.texture,
		lighting: r.lighting,
	}
	for k, v := range r.matrices {
		call.matrices[k] = v
	}
	for k, v := range r.vec3 {
		call.vec3[k] = v
	}
	r.draws = append(r.draws, call)
	return nil
}

func (r *recordingRenderer) DrawCount() int           { return len(r.draws) }
func (r *recordingRenderer) EndFrame()                { r.inFrame = false }
func (r *recordingRenderer) Present()                 { r.presented++ }
func (r *recordingRenderer) Resize(width, height int) {}
func (r *recordingRenderer) Release()                 {}
