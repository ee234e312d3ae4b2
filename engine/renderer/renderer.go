package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/Carmen-Shannon/blocky-world/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/blocky-world/engine/renderer/shader"
	"github.com/Carmen-Shannon/blocky-world/engine/shape"
	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultMaxDraws is the per-frame draw capacity of the uniform ring.
const DefaultMaxDraws = 4096

var (
	// ErrDrawLimit is returned by Draw once the frame's uniform ring is full.
	ErrDrawLimit = errors.New("per-frame draw limit reached")

	// ErrNoFrame is returned by Draw outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("no frame in progress")

	// ErrFrameInProgress is returned by BeginFrame and BindTexture while a frame is being recorded.
	ErrFrameInProgress = errors.New("frame already in progress")

	// ErrInvalidTextureUnit is returned by BindTexture for units other than 0 and 1.
	ErrInvalidTextureUnit = errors.New("invalid texture unit")
)

// Surface is the display surface a wgpu backend presents to. window.Window satisfies it.
type Surface interface {
	// SurfaceDescriptor returns the platform-specific descriptor for WebGPU surface creation.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	shader      shader.Shader
	pipelines   map[string]pipeline.Pipeline

	uniforms *uniformState
	layout   ResourceLayout
	ring     []byte
	stride   uint64
	maxDraws int

	frameActive bool
	inFlight    bool
	pendingSize *[2]int
	drawCount   int
	resident    map[string]bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	msaa                 MSAASampleCount
	sampler              common.SamplerStagingData
}

// Renderer defines the interface for the rendering system.
//
// The scene talks to the GPU only through named uniform slots, two texture units and Draw. Every Draw snapshots the
// uniform values set so far, so a draw reads exactly the values set before it no matter how many draws share a frame.
type Renderer interface {
	// Shader returns the validated shader the pipelines were built from.
	Shader() shader.Shader

	// Pipeline retrieves the render pipeline registered under key, or nil.
	Pipeline(key string) pipeline.Pipeline

	// BeginFrame acquires the swapchain texture and begins the render pass, clearing color and depth.
	// Must be paired with EndFrame.
	//
	// Returns:
	//   - error: ErrFrameInProgress, or an error if the swapchain texture could not be acquired
	BeginFrame() error

	// SetMatrix sets a mat4 uniform slot.
	SetMatrix(slot UniformSlot, m common.Matrix4)

	// SetVector3 sets a vec3 uniform slot.
	SetVector3(slot UniformSlot, v common.Vector3)

	// SetVector4 sets a vec4 uniform slot.
	SetVector4(slot UniformSlot, v [4]float32)

	// SetInt sets an i32 uniform slot.
	SetInt(slot UniformSlot, v int32)

	// SetBool sets a boolean uniform slot (stored as u32 0 or 1).
	SetBool(slot UniformSlot, b bool)

	// BindTexture uploads an image to texture unit 0 or 1. Must be called outside a frame.
	//
	// Parameters:
	//   - unit: the texture unit
	//   - data: RGBA pixels and dimensions
	//
	// Returns:
	//   - error: ErrInvalidTextureUnit, ErrFrameInProgress, or an upload error
	BindTexture(unit int, data common.TextureStagingData) error

	// Draw snapshots the current uniforms and records a draw of the geometry. Positions-only geometry is drawn
	// with the flat pipeline, everything else with the lit pipeline. Empty geometry is skipped.
	//
	// Parameters:
	//   - geometry: the triangle list to draw
	//
	// Returns:
	//   - error: ErrNoFrame, ErrDrawLimit, or a backend error
	Draw(geometry shape.Geometry) error

	// DrawCount returns the number of draws recorded in the current (or last) frame.
	DrawCount() int

	// EndFrame uploads the frame's uniform snapshots, ends the render pass and submits.
	EndFrame()

	// Present presents the surface to the display. Must be called once per frame after EndFrame.
	Present()

	// Resize configures the backend for a new surface size. Zero sizes are ignored.
	// A resize that arrives between BeginFrame and Present is held and applied by Present; only the latest size is kept.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// Release frees every GPU resource.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer validates the shader, then creates the backend, the uniform ring, placeholder textures and both
// pipelines. A shader missing any uniform slot, texture unit or vertex attribute is rejected before any GPU resource
// is created.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - surface: the display surface; only its size is used when a backend is supplied with WithBackend
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the ready renderer
//   - error: a validation error wrapping ErrMissingBinding, or a resource creation error
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		maxDraws:    DefaultMaxDraws,
		msaa:        MSAA4x,
		resident:    make(map[string]bool),
	}
	for _, opt := range options {
		opt(r)
	}

	if r.shader == nil {
		s, err := DefaultShader()
		if err != nil {
			return nil, err
		}
		r.shader = s
	}
	if err := ValidateShader(r.shader); err != nil {
		return nil, err
	}

	r.pipelines = newPipelines(r.shader)
	if err := checkPipelines(r.pipelines); err != nil {
		return nil, err
	}

	block, _ := r.shader.UniformBlock(UniformBlockName)
	r.uniforms = newUniformState(block)
	r.stride = r.uniforms.stride()
	r.ring = make([]byte, r.stride*uint64(r.maxDraws))
	r.layout = resourceLayout(r.shader, block, r.stride, r.maxDraws)
	r.layout.Sampler = r.sampler

	if r.backend == nil {
		switch backendType {
		case BackendTypeWGPU:
			fallthrough
		default:
			r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa)
		}
	}
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(surface.Width(), surface.Height())

	if err := r.backend.InitResources(r.shader, r.layout); err != nil {
		return nil, fmt.Errorf("failed to create renderer resources: %w", err)
	}
	placeholder := common.SolidTexture(255, 255, 255, 255)
	for unit := range textureSlots {
		if err := r.backend.SetTexture(unit, placeholder); err != nil {
			return nil, fmt.Errorf("failed to bind placeholder texture %d: %w", unit, err)
		}
	}
	for _, key := range []string{PipelineLit, PipelineFlat} {
		if err := r.backend.RegisterRenderPipeline(r.pipelines[key]); err != nil {
			return nil, fmt.Errorf("failed to register pipeline %s: %w", key, err)
		}
	}
	return r, nil
}

// checkPipelines verifies entry points and that each vertex input packs exactly like shape.Geometry.Bytes.
func checkPipelines(pipelines map[string]pipeline.Pipeline) error {
	strides := map[string]uint64{
		PipelineLit:  shape.VertexStride,
		PipelineFlat: shape.PositionStride,
	}
	var errs []error
	for key, p := range pipelines {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		in, _ := p.VertexInput()
		if in.Layout.ArrayStride != strides[key] {
			errs = append(errs, fmt.Errorf("pipeline %s: vertex input %s has stride %d, geometry packs %d", key, in.Name, in.Layout.ArrayStride, strides[key]))
		}
	}
	return errors.Join(errs...)
}

func resourceLayout(s shader.Shader, block shader.UniformBlock, stride uint64, maxDraws int) ResourceLayout {
	layout := ResourceLayout{
		Group:          block.Group,
		UniformBinding: block.Binding,
		BindingSize:    block.Size,
		RingSize:       stride * uint64(maxDraws),
	}
	for unit, slot := range textureSlots {
		layout.TextureBindings[unit], _ = s.BindGroupFromVarName(block.Group, string(slot))
	}
	layout.SamplerBinding, _ = s.BindGroupFromVarName(block.Group, samplerVarName)
	return layout
}

func (r *renderer) Shader() shader.Shader {
	return r.shader
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	return r.pipelines[key]
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frameActive {
		return ErrFrameInProgress
	}
	if err := r.backend.BeginFrame(); err != nil {
		return err
	}
	r.frameActive = true
	r.inFlight = true
	r.drawCount = 0
	return nil
}

func (r *renderer) SetMatrix(slot UniformSlot, m common.Matrix4) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uniforms.setFloats(slot, m[:])
}

func (r *renderer) SetVector3(slot UniformSlot, v common.Vector3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := v.Array()
	r.uniforms.setFloats(slot, a[:])
}

func (r *renderer) SetVector4(slot UniformSlot, v [4]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uniforms.setFloats(slot, v[:])
}

func (r *renderer) SetInt(slot UniformSlot, v int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uniforms.setUint32(slot, uint32(v))
}

func (r *renderer) SetBool(slot UniformSlot, b bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var v uint32
	if b {
		v = 1
	}
	r.uniforms.setUint32(slot, v)
}

func (r *renderer) BindTexture(unit int, data common.TextureStagingData) error {
	if unit < 0 || unit >= len(textureSlots) {
		return fmt.Errorf("%w: %d", ErrInvalidTextureUnit, unit)
	}
	if data.Empty() {
		return fmt.Errorf("texture unit %d: empty image", unit)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frameActive {
		return ErrFrameInProgress
	}
	return r.backend.SetTexture(unit, data)
}

func (r *renderer) Draw(geometry shape.Geometry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.frameActive {
		return ErrNoFrame
	}
	if len(geometry.Vertices) == 0 {
		return nil
	}
	if r.drawCount >= r.maxDraws {
		return fmt.Errorf("%w: %d", ErrDrawLimit, r.maxDraws)
	}

	offset := uint64(r.drawCount) * r.stride
	r.uniforms.snapshot(r.ring[offset : offset+r.stride])

	cmd := DrawCommand{
		Pipeline:      r.pipelines[PipelineLit],
		GeometryKey:   geometry.Key,
		VertexCount:   uint32(len(geometry.Vertices)),
		UniformOffset: uint32(offset),
	}
	if geometry.PositionsOnly {
		cmd.Pipeline = r.pipelines[PipelineFlat]
	}
	if geometry.Key == "" || !r.resident[geometry.Key] {
		cmd.Vertices = geometry.Bytes()
	}
	if err := r.backend.Draw(cmd); err != nil {
		return err
	}
	if geometry.Key != "" {
		r.resident[geometry.Key] = true
	}
	r.drawCount++
	return nil
}

func (r *renderer) DrawCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drawCount
}

func (r *renderer) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.frameActive {
		return
	}
	if r.drawCount > 0 {
		r.backend.WriteUniforms(r.ring[:uint64(r.drawCount)*r.stride])
	}
	r.backend.EndFrame()
	r.frameActive = false
}

func (r *renderer) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backend.Present()
	r.inFlight = false
	if r.pendingSize != nil {
		size := *r.pendingSize
		r.pendingSize = nil
		r.backend.ConfigureSurface(size[0], size[1])
	}
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// The surface texture and depth targets stay acquired from BeginFrame until Present.
	if r.inFlight {
		r.pendingSize = &[2]int{width, height}
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
	r.resident = make(map[string]bool)
}
