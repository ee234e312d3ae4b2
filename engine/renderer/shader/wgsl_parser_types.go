package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo holds the wgpu vertex format and its byte size for offset calculation
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// wgslTypeLayout holds the byte size and alignment for a WGSL type per the WGSL specification.
// Used to compute MinBindingSize for buffer bindings and uniform field offsets.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}

// UniformField is one member of a uniform struct with its byte placement inside the buffer.
type UniformField struct {
	// Name is the WGSL member name.
	Name string

	// Type is the WGSL type name, e.g. "mat4x4<f32>".
	Type string

	// Offset is the byte offset of the member from the start of the struct.
	Offset uint64

	// Size is the byte size of the member.
	Size uint64
}

// UniformBlock is the reflected layout of a var<uniform> binding.
type UniformBlock struct {
	// VarName is the name of the bound variable.
	VarName string

	// TypeName is the WGSL struct type of the variable.
	TypeName string

	// Group and Binding locate the variable.
	Group, Binding int

	// Size is the struct size rounded up to its alignment.
	Size uint64

	// Fields lists the struct members in declaration order.
	Fields []UniformField
}

// Field looks up a member by name.
//
// Parameters:
//   - name: the WGSL member name
//
// Returns:
//   - UniformField: the member
//   - bool: false if the struct has no such member
func (b UniformBlock) Field(name string) (UniformField, bool) {
	for _, f := range b.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return UniformField{}, false
}

// VertexInput is a reflected vertex input struct.
type VertexInput struct {
	// Name is the WGSL struct name.
	Name string

	// Layout is the packed buffer layout of the struct.
	Layout wgpu.VertexBufferLayout

	// Locations maps each member name to its @location.
	Locations map[string]int
}
