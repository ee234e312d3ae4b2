package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUniforms = `struct Uniforms {
    u_ModelMatrix: mat4x4<f32>,
    u_GlobalRotateMatrix: mat4x4<f32>,
    u_ViewMatrix: mat4x4<f32>,
    u_ProjectionMatrix: mat4x4<f32>,
    u_FragColor: vec4<f32>,
    u_lightPos: vec3<f32>,
    u_lightingEnabled: u32,
    u_lightColor: vec3<f32>,
    u_whichTexture: i32,
}`

const testVertex = `struct VertexInput {
    @location(0) a_Position: vec3<f32>,
    @location(1) a_UV: vec2<f32>,
    @location(2) a_Normal: vec3<f32>,
}`

const testSource = `//@blocky:include uniforms
//@blocky:include vertex

@group(0) @binding(0) var<uniform> uniforms: Uniforms;
@group(0) @binding(1) var u_Sampler0: texture_2d<f32>;
@group(0) @binding(2) var u_Sampler1: texture_2d<f32>;
@group(0) @binding(3) var u_Sampler: sampler;

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = uniforms.u_ProjectionMatrix * vec4<f32>(in.a_Position, 1.0);
    out.uv = in.a_UV;
    return out;
}

/* @vertex fn vs_commented(in: VertexInput) -> VertexOutput { } */

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(u_Sampler0, u_Sampler, in.uv) * uniforms.u_FragColor;
}
`

func newTestShader(t *testing.T) Shader {
	t.Helper()
	s, err := NewShader("test", testSource,
		WithInclude("uniforms", testUniforms),
		WithInclude("vertex", testVertex),
	)
	require.NoError(t, err)
	return s
}

func TestUniformBlockOffsets(t *testing.T) {
	s := newTestShader(t)

	block, ok := s.UniformBlock("uniforms")
	require.True(t, ok)
	assert.Equal(t, "Uniforms", block.TypeName)
	assert.Equal(t, 0, block.Group)
	assert.Equal(t, 0, block.Binding)
	assert.Equal(t, uint64(304), block.Size)

	tests := []struct {
		name   string
		offset uint64
		size   uint64
	}{
		{"u_ModelMatrix", 0, 64},
		{"u_GlobalRotateMatrix", 64, 64},
		{"u_ViewMatrix", 128, 64},
		{"u_ProjectionMatrix", 192, 64},
		{"u_FragColor", 256, 16},
		{"u_lightPos", 272, 12},
		{"u_lightingEnabled", 284, 4},
		{"u_lightColor", 288, 12},
		{"u_whichTexture", 300, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := block.Field(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.offset, f.Offset)
			assert.Equal(t, tt.size, f.Size)
		})
	}

	_, ok = block.Field("u_missing")
	assert.False(t, ok)
}

func TestBindGroupLayout(t *testing.T) {
	s := newTestShader(t)

	desc := s.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 4)

	uniform := desc.Entries[0]
	assert.Equal(t, uint32(0), uniform.Binding)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, uniform.Buffer.Type)
	assert.Equal(t, uint64(304), uniform.Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, uniform.Visibility)

	for _, e := range desc.Entries[1:3] {
		assert.Equal(t, wgpu.TextureSampleTypeFloat, e.Texture.SampleType)
		assert.Equal(t, wgpu.TextureViewDimension2D, e.Texture.ViewDimension)
	}
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, desc.Entries[3].Sampler.Type)

	assert.Equal(t, "u_Sampler1", s.BindGroupVarName(0, 2))
	assert.Equal(t, "", s.BindGroupVarName(1, 0))
	binding, ok := s.BindGroupFromVarName(0, "u_Sampler")
	assert.True(t, ok)
	assert.Equal(t, 3, binding)
	_, ok = s.BindGroupFromVarName(0, "u_Sampler2")
	assert.False(t, ok)
}

func TestVertexInputLayout(t *testing.T) {
	s := newTestShader(t)

	in, ok := s.VertexInput("VertexInput")
	require.True(t, ok)
	assert.Equal(t, uint64(32), in.Layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, in.Layout.StepMode)
	require.Len(t, in.Layout.Attributes, 3)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, in.Layout.Attributes[0].Format)
	assert.Equal(t, uint64(12), in.Layout.Attributes[1].Offset)
	assert.Equal(t, uint64(20), in.Layout.Attributes[2].Offset)

	for name, want := range map[string]int{"a_Position": 0, "a_UV": 1, "a_Normal": 2} {
		loc, ok := s.Attribute(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, loc, name)
	}
	_, ok = s.Attribute("a_Color")
	assert.False(t, ok)

	_, ok = s.VertexInput("VertexOutput")
	assert.False(t, ok, "structs with @builtin members are outputs")
}

func TestEntryPointsIgnoreComments(t *testing.T) {
	s := newTestShader(t)

	assert.Equal(t, []string{"vs_main"}, s.EntryPoints(StageVertex))
	assert.Equal(t, []string{"fs_main"}, s.EntryPoints(StageFragment))
	assert.True(t, s.HasEntryPoint(StageVertex, "vs_main"))
	assert.False(t, s.HasEntryPoint(StageVertex, "vs_commented"))
	assert.False(t, s.HasEntryPoint(StageFragment, "vs_main"))
}

func TestIncludesAreExpanded(t *testing.T) {
	s := newTestShader(t)

	assert.Equal(t, []string{"uniforms", "vertex"}, s.Included())
	assert.Contains(t, s.Source(), "u_whichTexture: i32")
	assert.NotContains(t, s.Source(), "@blocky:include")
	require.NotNil(t, s.Module())
	assert.Equal(t, "test", s.Module().Label)
	assert.Equal(t, s.Source(), s.Module().WGSLDescriptor.Code)
}

func TestNewShaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		opts   []ShaderBuilderOption
	}{
		{
			name:   "unknown include",
			source: "//@blocky:include missing\n@vertex fn v() {}\n@fragment fn f() {}",
		},
		{
			name:   "repeated include",
			source: "//@blocky:include a\n//@blocky:include a\n@vertex fn v() {}\n@fragment fn f() {}",
			opts:   []ShaderBuilderOption{WithInclude("a", "")},
		},
		{
			name:   "include without name",
			source: "//@blocky:include\n@vertex fn v() {}\n@fragment fn f() {}",
		},
		{
			name:   "unknown directive",
			source: "//@blocky:define X\n@vertex fn v() {}\n@fragment fn f() {}",
		},
		{
			name:   "no vertex entry",
			source: "@fragment fn f() {}",
		},
		{
			name:   "no fragment entry",
			source: "@vertex fn v() {}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShader("broken", tt.source, tt.opts...)
			assert.Error(t, err)
		})
	}
}

func TestStructLayouts(t *testing.T) {
	source := `
struct Light {
    position: vec3<f32>,
    intensity: f32,
    color: vec3<f32>,
}
struct Scene {
    light: Light,
    ambient: f32,
}
struct Palette {
    colors: array<vec4<f32>, 3>,
    count: u32,
}
@group(0) @binding(0) var<uniform> scene: Scene;
@group(1) @binding(0) var<uniform> palette: Palette;
@vertex fn v() -> @builtin(position) vec4<f32> { return vec4<f32>(); }
@fragment fn f() -> @location(0) vec4<f32> { return vec4<f32>(); }
`
	s, err := NewShader("layouts", source)
	require.NoError(t, err)

	scene, ok := s.UniformBlock("scene")
	require.True(t, ok)
	assert.Equal(t, uint64(48), scene.Size)
	ambient, _ := scene.Field("ambient")
	assert.Equal(t, uint64(32), ambient.Offset)

	palette, ok := s.UniformBlock("palette")
	require.True(t, ok)
	assert.Equal(t, 1, palette.Group)
	assert.Equal(t, uint64(64), palette.Size)
	count, _ := palette.Field("count")
	assert.Equal(t, uint64(48), count.Offset)

	assert.Len(t, s.UniformBlocks(), 2)
	assert.Len(t, s.BindGroupLayoutDescriptors(), 2)
}

func TestStripComments(t *testing.T) {
	in := "a // line\nb /* block /* nested */ still */ c\n"
	assert.Equal(t, "a \nb  c\n", stripComments(in))
}
