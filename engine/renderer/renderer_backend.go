package renderer

import (
	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/Carmen-Shannon/blocky-world/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/blocky-world/engine/renderer/shader"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// ResourceLayout locates the resources shared by every draw inside the shader's bind group.
type ResourceLayout struct {
	// Group is the bind group index holding the uniform block, the textures and the sampler.
	Group int

	// UniformBinding is the binding of the uniform block.
	UniformBinding int

	// TextureBindings maps texture unit 0 and 1 to their bindings.
	TextureBindings [2]int

	// SamplerBinding is the binding of the shared sampler.
	SamplerBinding int

	// Sampler configures the shared sampler; zero fields fall back to linear filtering and repeat addressing.
	Sampler common.SamplerStagingData

	// BindingSize is the byte size of one uniform snapshot as seen by the shader.
	BindingSize uint64

	// RingSize is the byte size of the whole per-frame uniform ring.
	RingSize uint64
}

// DrawCommand is one non-indexed draw recorded into the current frame.
type DrawCommand struct {
	// Pipeline is the registered render pipeline to draw with.
	Pipeline pipeline.Pipeline

	// GeometryKey names a resident vertex buffer; empty means Vertices are uploaded for this draw only.
	GeometryKey string

	// Vertices is the packed vertex data. It is only read when the key has no resident buffer yet.
	Vertices []byte

	// VertexCount is the number of vertices to draw.
	VertexCount uint32

	// UniformOffset is the dynamic offset of this draw's snapshot inside the uniform ring.
	UniformOffset uint32
}

// RendererBackend is the GPU-facing half of the Renderer. The Renderer owns uniform packing, slot validation and draw
// accounting; the backend owns devices, buffers, textures and command encoding.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain, MSAA and depth targets for a surface size.
	ConfigureSurface(width, height int)

	// SetPresentMode selects the present mode used by the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// InitResources creates the uniform ring, the shared sampler and the bind group layout described by layout.
	//
	// Parameters:
	//   - s: the shader the layout was reflected from
	//   - layout: the binding locations and buffer sizes
	//
	// Returns:
	//   - error: an error if any GPU resource could not be created
	InitResources(s shader.Shader, layout ResourceLayout) error

	// SetTexture uploads pixels to a texture unit, replacing the previous texture.
	//
	// Parameters:
	//   - unit: the texture unit (0 or 1)
	//   - data: RGBA pixels and dimensions
	//
	// Returns:
	//   - error: an error if the texture or bind group could not be created
	SetTexture(unit int, data common.TextureStagingData) error

	// RegisterRenderPipeline creates the GPU pipeline for p using the layout from InitResources.
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// BeginFrame acquires the swapchain texture and begins the render pass with clear color and depth.
	BeginFrame() error

	// Draw records one draw into the current render pass.
	Draw(cmd DrawCommand) error

	// WriteUniforms uploads the frame's uniform snapshots to the start of the ring.
	WriteUniforms(data []byte)

	// EndFrame ends the render pass and submits the frame's commands.
	EndFrame()

	// Present presents the surface and releases the swapchain texture.
	Present()

	// Release frees every GPU resource held by the backend.
	Release()
}
