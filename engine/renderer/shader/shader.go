package shader

import (
	"fmt"
	"os"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	// StageVertex is the vertex stage.
	StageVertex Stage = iota

	// StageFragment is the fragment stage.
	StageFragment
)

// shader is the implementation of the Shader interface.
// It holds all of the reflected data required for pipeline creation and uniform packing.
type shader struct {
	key    string
	source string
	module *wgpu.ShaderModuleDescriptor

	entryPoints                map[Stage][]string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	uniformBlocks              map[string]UniformBlock
	vertexInputs               map[string]VertexInput

	includes map[string]string
	pp       PreProcessor
}

// Shader defines the interface for a loaded and reflected WGSL module holding both the vertex and fragment
// stages. It exposes the bind group layouts, the byte layout of every uniform struct, and the vertex input
// structs so the renderer can pack uniforms and vertices without hard-coded offsets.
type Shader interface {
	// Key retrieves the unique identifier for this shader.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source code with includes expanded
	Source() string

	// Module returns the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// EntryPoints lists the entry points of a stage in source order.
	//
	// Parameters:
	//   - stage: the pipeline stage
	//
	// Returns:
	//   - []string: the entry point names
	EntryPoints(stage Stage) []string

	// HasEntryPoint reports whether the stage declares the named entry point.
	HasEntryPoint(stage Stage, name string) bool

	// BindGroupLayoutDescriptor retrieves the layout descriptor for a bind group.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors keyed by group index.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name bound at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// BindGroupFromVarName retrieves the binding index of a variable within a group.
	//
	// Parameters:
	//   - group: the bind group index
	//   - varName: the variable name within the group
	//
	// Returns:
	//   - int: the binding index, or -1 if not found
	//   - bool: true if the variable name was found
	BindGroupFromVarName(group int, varName string) (int, bool)

	// UniformBlock retrieves the reflected layout of a var<uniform> variable.
	//
	// Parameters:
	//   - varName: the variable name
	//
	// Returns:
	//   - UniformBlock: the struct layout with member offsets
	//   - bool: false if no uniform variable has that name
	UniformBlock(varName string) (UniformBlock, bool)

	// UniformBlocks retrieves every reflected uniform block keyed by variable name.
	UniformBlocks() map[string]UniformBlock

	// VertexInput retrieves a vertex input struct by name.
	//
	// Parameters:
	//   - structName: the WGSL struct name
	//
	// Returns:
	//   - VertexInput: the packed layout and member locations
	//   - bool: false if no vertex input struct has that name
	VertexInput(structName string) (VertexInput, bool)

	// Attribute searches every vertex input struct for a member.
	//
	// Parameters:
	//   - name: the member name, e.g. "a_Position"
	//
	// Returns:
	//   - int: the member's @location
	//   - bool: false if no vertex input declares the member
	Attribute(name string) (int, bool)

	// Included returns the snippet names spliced in by the pre-processor.
	Included() []string
}

var _ Shader = &shader{}

// NewShader pre-processes and reflects WGSL source. The source must declare at least one vertex and one
// fragment entry point. Every bind group entry is visible to both stages.
//
// Parameters:
//   - key: a unique identifier for the shader, used as the module label
//   - source: the raw WGSL source
//   - options: functional options, e.g. include snippets
//
// Returns:
//   - Shader: the reflected shader
//   - error: error if pre-processing fails or an entry point is missing
func NewShader(key, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:      key,
		includes: make(map[string]string),
	}
	for _, option := range options {
		option(s)
	}
	s.pp = NewPreProcessor(s.includes)
	if err := s.parseSource(source); err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	return s, nil
}

// NewShaderFromPath reads WGSL source from disk and calls NewShader.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - path: the file path of the WGSL source
//   - options: functional options, e.g. include snippets
//
// Returns:
//   - Shader: the reflected shader
//   - error: error if the file cannot be read or the source is invalid
func NewShaderFromPath(key, path string, options ...ShaderBuilderOption) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to read source file %q: %w", key, path, err)
	}
	return NewShader(key, string(data), options...)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) EntryPoints(stage Stage) []string {
	return s.entryPoints[stage]
}

func (s *shader) HasEntryPoint(stage Stage, name string) bool {
	return slices.Contains(s.entryPoints[stage], name)
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) BindGroupFromVarName(group int, varName string) (int, bool) {
	for binding, name := range s.bindingVarNames[group] {
		if name == varName {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) UniformBlock(varName string) (UniformBlock, bool) {
	b, ok := s.uniformBlocks[varName]
	return b, ok
}

func (s *shader) UniformBlocks() map[string]UniformBlock {
	return s.uniformBlocks
}

func (s *shader) VertexInput(structName string) (VertexInput, bool) {
	in, ok := s.vertexInputs[structName]
	return in, ok
}

func (s *shader) Attribute(name string) (int, bool) {
	for _, in := range s.vertexInputs {
		if loc, ok := in.Locations[name]; ok {
			return loc, true
		}
	}
	return -1, false
}

func (s *shader) Included() []string {
	return s.pp.Included()
}

// parseSource expands includes, builds the module descriptor and reflects entry points, bind groups,
// uniform blocks and vertex inputs.
func (s *shader) parseSource(raw string) error {
	source, err := s.pp.Process(raw)
	if err != nil {
		return err
	}
	s.source = source
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}

	cleaned := stripComments(source)
	s.entryPoints = map[Stage][]string{
		StageVertex:   parseEntryPoints(cleaned, StageVertex),
		StageFragment: parseEntryPoints(cleaned, StageFragment),
	}
	if len(s.entryPoints[StageVertex]) == 0 {
		return fmt.Errorf("no @vertex entry point")
	}
	if len(s.entryPoints[StageFragment]) == 0 {
		return fmt.Errorf("no @fragment entry point")
	}

	structs := parseStructBlocks(cleaned)
	sizes, members := computeStructLayouts(structs)
	decls := parseBindingDecls(cleaned)

	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(decls, sizes, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
	s.uniformBlocks = parseUniformBlocks(decls, sizes, members)
	s.vertexInputs = parseVertexInputs(structs)
	return nil
}
