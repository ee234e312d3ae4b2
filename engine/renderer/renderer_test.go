package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/Carmen-Shannon/blocky-world/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/blocky-world/engine/renderer/shader"
	"github.com/Carmen-Shannon/blocky-world/engine/shape"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	width, height int
}

func (s fakeSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (s fakeSurface) Width() int                                 { return s.width }
func (s fakeSurface) Height() int                                { return s.height }

// fakeBackend records every call instead of touching a GPU.
type fakeBackend struct {
	sizes       [][2]int
	presentMode *PresentMode
	layout      ResourceLayout
	textures    map[int]common.TextureStagingData
	registered  []string
	draws       []DrawCommand
	uniforms    []byte
	begun       int
	ended       int
	presented   int
	released    bool
	drawErr     error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{textures: make(map[int]common.TextureStagingData)}
}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.sizes = append(f.sizes, [2]int{width, height})
}

func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.presentMode = &mode }

func (f *fakeBackend) InitResources(_ shader.Shader, layout ResourceLayout) error {
	f.layout = layout
	return nil
}

func (f *fakeBackend) SetTexture(unit int, data common.TextureStagingData) error {
	f.textures[unit] = data
	return nil
}

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	f.registered = append(f.registered, p.PipelineKey())
	return nil
}

func (f *fakeBackend) BeginFrame() error {
	f.begun++
	return nil
}

func (f *fakeBackend) Draw(cmd DrawCommand) error {
	if f.drawErr != nil {
		return f.drawErr
	}
	f.draws = append(f.draws, cmd)
	return nil
}

func (f *fakeBackend) WriteUniforms(data []byte) {
	f.uniforms = append([]byte(nil), data...)
}

func (f *fakeBackend) EndFrame() { f.ended++ }
func (f *fakeBackend) Present()  { f.presented++ }
func (f *fakeBackend) Release()  { f.released = true }

func newTestRenderer(t *testing.T, options ...RendererBuilderOption) (Renderer, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	r, err := NewRenderer(BackendTypeWGPU, fakeSurface{800, 600}, append([]RendererBuilderOption{WithBackend(backend)}, options...)...)
	require.NoError(t, err)
	return r, backend
}

// snapshotFloat reads a float32 uniform member from the n-th draw's snapshot.
func snapshotFloat(t *testing.T, r Renderer, data []byte, draw int, slot UniformSlot, component int) float32 {
	t.Helper()
	block, ok := r.Shader().UniformBlock(UniformBlockName)
	require.True(t, ok)
	f, ok := block.Field(string(slot))
	require.True(t, ok)
	off := uint64(draw)*alignUp(block.Size, uniformAlignment) + f.Offset + uint64(component)*4
	return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
}

func snapshotUint(t *testing.T, r Renderer, data []byte, draw int, slot UniformSlot) uint32 {
	t.Helper()
	block, _ := r.Shader().UniformBlock(UniformBlockName)
	f, ok := block.Field(string(slot))
	require.True(t, ok)
	off := uint64(draw)*alignUp(block.Size, uniformAlignment) + f.Offset
	return binary.LittleEndian.Uint32(data[off:])
}

func TestDefaultShaderIsComplete(t *testing.T) {
	s, err := DefaultShader()
	require.NoError(t, err)
	require.NoError(t, ValidateShader(s))

	assert.ElementsMatch(t, []string{"uniforms", "vertex", "position"}, s.Included())
	assert.Equal(t, []string{"vs_main", "vs_fast"}, s.EntryPoints(shader.StageVertex))
	assert.Equal(t, []string{"fs_main", "fs_flat"}, s.EntryPoints(shader.StageFragment))

	lit, ok := s.VertexInput("VertexInput")
	require.True(t, ok)
	assert.Equal(t, uint64(shape.VertexStride), lit.Layout.ArrayStride)
	flat, ok := s.VertexInput("PositionInput")
	require.True(t, ok)
	assert.Equal(t, uint64(shape.PositionStride), flat.Layout.ArrayStride)
}

func TestValidateShaderReportsEveryMissingSlot(t *testing.T) {
	source := `
struct Uniforms {
    u_ModelMatrix: mat4x4<f32>,
    u_GlobalRotateMatrix: mat4x4<f32>,
    u_ViewMatrix: mat4x4<f32>,
    u_ProjectionMatrix: mat4x4<f32>,
    u_FragColor: vec4<f32>,
    u_lightPos: vec3<f32>,
    u_lightingEnabled: u32,
    u_whichTexture: f32,
}
struct VertexInput {
    @location(0) a_Position: vec3<f32>,
    @location(1) a_UV: vec2<f32>,
}
@group(0) @binding(0) var<uniform> uniforms: Uniforms;
@group(0) @binding(1) var u_Sampler0: texture_2d<f32>;
@group(0) @binding(3) var u_Sampler: sampler;
@vertex fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> { return vec4<f32>(in.a_Position, 1.0); }
@fragment fn fs_main() -> @location(0) vec4<f32> { return uniforms.u_FragColor; }
`
	s, err := shader.NewShader("incomplete", source)
	require.NoError(t, err)

	err = ValidateShader(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingBinding))
	for _, name := range []string{"u_lightColor", "u_whichTexture has type f32", "u_Sampler1", "a_Normal"} {
		assert.Contains(t, err.Error(), name)
	}
	for _, name := range []string{"u_ModelMatrix", "u_Sampler0", "a_UV"} {
		assert.NotContains(t, err.Error(), name)
	}
}

func TestValidateShaderWithoutUniformBlock(t *testing.T) {
	s, err := shader.NewShader("bare", "@vertex fn v() -> @builtin(position) vec4<f32> { return vec4<f32>(); }\n@fragment fn f() {}")
	require.NoError(t, err)

	err = ValidateShader(s)
	require.ErrorIs(t, err, ErrMissingBinding)
	lines := strings.Split(err.Error(), "\n")
	// block + 9 members + 2 textures + sampler + 3 attributes
	assert.Len(t, lines, 16)

	assert.ErrorIs(t, ValidateShader(nil), ErrMissingBinding)
}

func TestNewRendererRejectsIncompleteShader(t *testing.T) {
	s, err := shader.NewShader("bare", "@vertex fn v() -> @builtin(position) vec4<f32> { return vec4<f32>(); }\n@fragment fn f() {}")
	require.NoError(t, err)
	backend := newFakeBackend()

	r, err := NewRenderer(BackendTypeWGPU, fakeSurface{1, 1}, WithBackend(backend), WithShader(s))
	assert.Nil(t, r)
	assert.ErrorIs(t, err, ErrMissingBinding)
	assert.Empty(t, backend.sizes, "no GPU work before validation passes")
	assert.Empty(t, backend.registered)
}

func TestNewRendererInitializesBackend(t *testing.T) {
	r, backend := newTestRenderer(t, WithPresentMode(PresentModeVSync), WithMaxDraws(8))

	assert.Equal(t, [][2]int{{800, 600}}, backend.sizes)
	require.NotNil(t, backend.presentMode)
	assert.Equal(t, PresentModeVSync, *backend.presentMode)

	assert.Equal(t, ResourceLayout{
		Group:           0,
		UniformBinding:  0,
		TextureBindings: [2]int{1, 2},
		SamplerBinding:  3,
		BindingSize:     304,
		RingSize:        512 * 8,
	}, backend.layout)

	white := common.SolidTexture(255, 255, 255, 255)
	assert.Equal(t, white, backend.textures[0])
	assert.Equal(t, white, backend.textures[1])
	assert.Equal(t, []string{PipelineLit, PipelineFlat}, backend.registered)

	lit := r.Pipeline(PipelineLit)
	require.NotNil(t, lit)
	assert.Equal(t, "vs_main", lit.VertexEntryPoint())
	assert.Equal(t, "fs_main", lit.FragmentEntryPoint())
	flat := r.Pipeline(PipelineFlat)
	require.NotNil(t, flat)
	assert.Equal(t, "vs_fast", flat.VertexEntryPoint())
	assert.Equal(t, "fs_flat", flat.FragmentEntryPoint())
	assert.Nil(t, r.Pipeline("missing"))
}

func TestDrawSnapshotsUniforms(t *testing.T) {
	r, backend := newTestRenderer(t)
	cube := shape.Cube{}.Geometry()

	require.NoError(t, r.BeginFrame())
	r.SetVector4(SlotFragColor, [4]float32{1, 0, 0, 1})
	r.SetMatrix(SlotModelMatrix, common.Translation(1, 2, 3))
	r.SetInt(SlotWhichTexture, int32(shape.TextureNormals))
	r.SetBool(SlotLightingEnabled, true)
	require.NoError(t, r.Draw(cube))

	r.SetVector4(SlotFragColor, [4]float32{0, 1, 0, 1})
	r.SetInt(SlotWhichTexture, int32(shape.TextureUnit1))
	r.SetBool(SlotLightingEnabled, false)
	r.SetVector3(SlotLightPos, common.Vec3(0, 2, 2))
	require.NoError(t, r.Draw(cube))
	r.EndFrame()

	assert.Equal(t, 2, r.DrawCount())
	require.Len(t, backend.uniforms, 2*512)
	require.Len(t, backend.draws, 2)
	assert.Equal(t, uint32(0), backend.draws[0].UniformOffset)
	assert.Equal(t, uint32(512), backend.draws[1].UniformOffset)

	assert.Equal(t, float32(1), snapshotFloat(t, r, backend.uniforms, 0, SlotFragColor, 0))
	assert.Equal(t, float32(0), snapshotFloat(t, r, backend.uniforms, 0, SlotFragColor, 1))
	assert.Equal(t, float32(0), snapshotFloat(t, r, backend.uniforms, 1, SlotFragColor, 0))
	assert.Equal(t, float32(1), snapshotFloat(t, r, backend.uniforms, 1, SlotFragColor, 1))

	// The model matrix set before the first draw carries over to the second.
	for draw := 0; draw < 2; draw++ {
		assert.Equal(t, float32(1), snapshotFloat(t, r, backend.uniforms, draw, SlotModelMatrix, 12))
		assert.Equal(t, float32(2), snapshotFloat(t, r, backend.uniforms, draw, SlotModelMatrix, 13))
		assert.Equal(t, float32(3), snapshotFloat(t, r, backend.uniforms, draw, SlotModelMatrix, 14))
	}

	assert.Equal(t, int32(-3), int32(snapshotUint(t, r, backend.uniforms, 0, SlotWhichTexture)))
	assert.Equal(t, int32(1), int32(snapshotUint(t, r, backend.uniforms, 1, SlotWhichTexture)))
	assert.Equal(t, uint32(1), snapshotUint(t, r, backend.uniforms, 0, SlotLightingEnabled))
	assert.Equal(t, uint32(0), snapshotUint(t, r, backend.uniforms, 1, SlotLightingEnabled))
	assert.Equal(t, float32(0), snapshotFloat(t, r, backend.uniforms, 0, SlotLightPos, 1))
	assert.Equal(t, float32(2), snapshotFloat(t, r, backend.uniforms, 1, SlotLightPos, 1))
}

func TestMatricesStartAsIdentity(t *testing.T) {
	r, backend := newTestRenderer(t)

	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.Draw(shape.Cube{}.Geometry()))
	r.EndFrame()

	identity := common.Identity4()
	for _, slot := range []UniformSlot{SlotModelMatrix, SlotGlobalRotateMatrix, SlotViewMatrix, SlotProjectionMatrix} {
		for i := range identity {
			assert.Equal(t, identity[i], snapshotFloat(t, r, backend.uniforms, 0, slot, i), "%s[%d]", slot, i)
		}
	}
}

func TestDrawSelectsPipelineAndUploadsResidentGeometryOnce(t *testing.T) {
	r, backend := newTestRenderer(t)
	cube := shape.Cube{}.Geometry()
	batched := shape.Cube{Mode: shape.CubeModeBatched}.Geometry()
	line := shape.Line{From: [2]float32{0, 0}, To: [2]float32{0.5, 0.5}, Width: 5}.Geometry()

	for frame := 0; frame < 2; frame++ {
		require.NoError(t, r.BeginFrame())
		require.NoError(t, r.Draw(cube))
		require.NoError(t, r.Draw(batched))
		require.NoError(t, r.Draw(line))
		r.EndFrame()
		r.Present()
	}

	require.Len(t, backend.draws, 6)
	assert.Equal(t, PipelineLit, backend.draws[0].Pipeline.PipelineKey())
	assert.Equal(t, PipelineFlat, backend.draws[1].Pipeline.PipelineKey())
	assert.Equal(t, PipelineFlat, backend.draws[2].Pipeline.PipelineKey())

	assert.Len(t, backend.draws[0].Vertices, 36*shape.VertexStride)
	assert.Len(t, backend.draws[1].Vertices, 36*shape.PositionStride)
	assert.Equal(t, uint32(36), backend.draws[0].VertexCount)

	// Keyed geometry is resident after the first frame, keyless geometry is uploaded every draw.
	assert.Nil(t, backend.draws[3].Vertices)
	assert.Nil(t, backend.draws[4].Vertices)
	assert.NotEmpty(t, backend.draws[5].Vertices)
	assert.Equal(t, "", backend.draws[5].GeometryKey)

	assert.Equal(t, 2, backend.begun)
	assert.Equal(t, 2, backend.ended)
	assert.Equal(t, 2, backend.presented)
}

func TestFailedDrawIsNotCounted(t *testing.T) {
	r, backend := newTestRenderer(t)
	backend.drawErr = errors.New("lost device")

	require.NoError(t, r.BeginFrame())
	assert.Error(t, r.Draw(shape.Cube{}.Geometry()))
	backend.drawErr = nil
	require.NoError(t, r.Draw(shape.Cube{}.Geometry()))
	r.EndFrame()

	require.Len(t, backend.draws, 1)
	assert.NotNil(t, backend.draws[0].Vertices, "a failed upload must be retried")
	assert.Equal(t, 1, r.DrawCount())
}

func TestFrameErrors(t *testing.T) {
	r, backend := newTestRenderer(t, WithMaxDraws(2))
	cube := shape.Cube{}.Geometry()

	assert.ErrorIs(t, r.Draw(cube), ErrNoFrame)

	require.NoError(t, r.BeginFrame())
	assert.ErrorIs(t, r.BeginFrame(), ErrFrameInProgress)
	assert.ErrorIs(t, r.BindTexture(0, common.SolidTexture(1, 2, 3, 4)), ErrFrameInProgress)

	require.NoError(t, r.Draw(shape.Geometry{}), "empty geometry is skipped")
	require.NoError(t, r.Draw(cube))
	require.NoError(t, r.Draw(cube))
	assert.ErrorIs(t, r.Draw(cube), ErrDrawLimit)
	assert.Equal(t, 2, r.DrawCount())
	r.EndFrame()
	r.EndFrame()
	assert.Equal(t, 1, backend.ended, "EndFrame outside a frame is a no-op")
}

func TestBindTexture(t *testing.T) {
	r, backend := newTestRenderer(t)

	assert.ErrorIs(t, r.BindTexture(2, common.SolidTexture(0, 0, 0, 255)), ErrInvalidTextureUnit)
	assert.ErrorIs(t, r.BindTexture(-1, common.SolidTexture(0, 0, 0, 255)), ErrInvalidTextureUnit)
	assert.Error(t, r.BindTexture(0, common.TextureStagingData{}))

	sky := common.TextureStagingData{Pixels: make([]byte, 2*2*4), Width: 2, Height: 2}
	require.NoError(t, r.BindTexture(1, sky))
	assert.Equal(t, sky, backend.textures[1])
	assert.Equal(t, common.SolidTexture(255, 255, 255, 255), backend.textures[0])
}

func TestResizeAndRelease(t *testing.T) {
	r, backend := newTestRenderer(t)

	r.Resize(0, 600)
	r.Resize(1024, 0)
	r.Resize(1024, 768)
	assert.Equal(t, [][2]int{{800, 600}, {1024, 768}}, backend.sizes)

	r.Release()
	assert.True(t, backend.released)
}

func TestResizeDuringFrameWaitsForPresent(t *testing.T) {
	r, backend := newTestRenderer(t)

	require.NoError(t, r.BeginFrame())
	r.Resize(320, 200)
	r.Resize(640, 400)
	assert.Equal(t, [][2]int{{800, 600}}, backend.sizes, "the surface is not reconfigured while its texture is acquired")

	r.EndFrame()
	r.Resize(1024, 768)
	assert.Equal(t, [][2]int{{800, 600}}, backend.sizes)

	r.Present()
	assert.Equal(t, [][2]int{{800, 600}, {1024, 768}}, backend.sizes)

	r.Present()
	r.Resize(500, 500)
	assert.Equal(t, [][2]int{{800, 600}, {1024, 768}, {500, 500}}, backend.sizes)
}
