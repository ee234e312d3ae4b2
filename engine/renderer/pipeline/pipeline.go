package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/blocky-world/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It pairs one vertex and one fragment entry point of a shader module with the fixed-function state used to build
// the GPU render pipeline.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	shader           shader.Shader
	vertexEntryPoint string
	fragmentEntry    string
	vertexInput      string

	// renderPipeline is nil until a backend registers the pipeline
	renderPipeline *wgpu.RenderPipeline

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline defines the interface for a GPU render pipeline. It holds all configuration state required for pipeline
// creation including the shader entry points, the vertex input struct and the depth, blend, cull and topology settings.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader returns the shader module both entry points live in.
	Shader() shader.Shader

	// VertexEntryPoint returns the name of the @vertex function.
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	FragmentEntryPoint() string

	// VertexInput returns the reflected vertex input struct that feeds the vertex entry point.
	//
	// Returns:
	//   - shader.VertexInput: the packed buffer layout
	//   - bool: false if the shader declares no such struct
	VertexInput() (shader.VertexInput, bool)

	// Validate checks that the configured entry points and vertex input exist in the shader.
	//
	// Returns:
	//   - error: an error naming the first missing piece
	Validate() error

	// Pipeline returns the underlying render pipeline, or nil if the pipeline has not been registered.
	Pipeline() *wgpu.RenderPipeline

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	DepthWriteEnabled() bool

	// BlendEnabled returns whether blending is enabled for this pipeline.
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state configured for this pipeline.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state, only applied when blending is enabled
	BlendState() *wgpu.BlendState

	// SetRenderPipeline stores the GPU pipeline created by a backend.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render pipeline description over a shader module. Unless overridden, the first vertex and
// fragment entry points are used, the vertex input is "VertexInput", depth testing and writing are on, culling is off
// and blending is off.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - s: the shader module holding both stages
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, s shader.Shader, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		shader:            s,
		vertexInput:       "VertexInput",
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		blendEnabled:      false,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	if s != nil {
		if entries := s.EntryPoints(shader.StageVertex); len(entries) > 0 {
			p.vertexEntryPoint = entries[0]
		}
		if entries := s.EntryPoints(shader.StageFragment); len(entries) > 0 {
			p.fragmentEntry = entries[0]
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) VertexEntryPoint() string {
	return p.vertexEntryPoint
}

func (p *pipeline) FragmentEntryPoint() string {
	return p.fragmentEntry
}

func (p *pipeline) VertexInput() (shader.VertexInput, bool) {
	if p.shader == nil {
		return shader.VertexInput{}, false
	}
	return p.shader.VertexInput(p.vertexInput)
}

func (p *pipeline) Validate() error {
	if p.shader == nil {
		return fmt.Errorf("pipeline %s: no shader", p.pipelineKey)
	}
	if !p.shader.HasEntryPoint(shader.StageVertex, p.vertexEntryPoint) {
		return fmt.Errorf("pipeline %s: shader %s has no @vertex fn %q", p.pipelineKey, p.shader.Key(), p.vertexEntryPoint)
	}
	if !p.shader.HasEntryPoint(shader.StageFragment, p.fragmentEntry) {
		return fmt.Errorf("pipeline %s: shader %s has no @fragment fn %q", p.pipelineKey, p.shader.Key(), p.fragmentEntry)
	}
	if _, ok := p.shader.VertexInput(p.vertexInput); !ok {
		return fmt.Errorf("pipeline %s: shader %s has no vertex input struct %q", p.pipelineKey, p.shader.Key(), p.vertexInput)
	}
	return nil
}

func (p *pipeline) Pipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}
