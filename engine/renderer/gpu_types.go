package renderer

import (
	_ "embed"

	"github.com/Carmen-Shannon/blocky-world/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/blocky-world/engine/renderer/shader"
	"github.com/Carmen-Shannon/blocky-world/engine/shape"
)

// GPUUniformsSource is the WGSL Uniforms struct. Its member names are the uniform slot names.
//
//go:embed assets/uniforms.wgsl
var GPUUniformsSource string

// blockySource holds both pipelines' entry points: vs_main/fs_main for lit geometry and vs_fast/fs_flat for
// positions-only geometry.
//
//go:embed assets/blocky.wgsl
var blockySource string

const (
	// PipelineLit draws interleaved position/uv/normal geometry through the texture selector and Phong lighting.
	PipelineLit = "blocky/lit"

	// PipelineFlat draws positions-only geometry in the solid base color.
	PipelineFlat = "blocky/flat"
)

// DefaultShader builds the built-in shader with the uniform block and both vertex input structs included.
//
// Returns:
//   - shader.Shader: the reflected shader
//   - error: error if the embedded source fails to pre-process
func DefaultShader() (shader.Shader, error) {
	return shader.NewShader("blocky", blockySource,
		shader.WithInclude("uniforms", GPUUniformsSource),
		shader.WithInclude("vertex", shape.GPUVertexSource),
		shader.WithInclude("position", shape.GPUPositionSource),
	)
}

// newPipelines describes the lit and flat pipelines over one shader module.
func newPipelines(s shader.Shader) map[string]pipeline.Pipeline {
	return map[string]pipeline.Pipeline{
		PipelineLit: pipeline.NewPipeline(PipelineLit, s,
			pipeline.WithEntryPoints("vs_main", "fs_main"),
			pipeline.WithVertexInput("VertexInput"),
		),
		PipelineFlat: pipeline.NewPipeline(PipelineFlat, s,
			pipeline.WithEntryPoints("vs_fast", "fs_flat"),
			pipeline.WithVertexInput("PositionInput"),
		),
	}
}
