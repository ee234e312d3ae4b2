package renderer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/blocky-world/engine/renderer/shader"
)

// ErrMissingBinding is wrapped by every shader validation failure.
var ErrMissingBinding = errors.New("missing shader binding")

// UniformBlockName is the WGSL variable holding every scalar, vector and matrix uniform slot.
const UniformBlockName = "uniforms"

// samplerVarName is the filtering sampler shared by both texture units.
const samplerVarName = "u_Sampler"

// UniformSlot names a value the scene writes before each draw.
type UniformSlot string

const (
	SlotModelMatrix        UniformSlot = "u_ModelMatrix"
	SlotGlobalRotateMatrix UniformSlot = "u_GlobalRotateMatrix"
	SlotViewMatrix         UniformSlot = "u_ViewMatrix"
	SlotProjectionMatrix   UniformSlot = "u_ProjectionMatrix"
	SlotFragColor          UniformSlot = "u_FragColor"
	SlotLightingEnabled    UniformSlot = "u_lightingEnabled"
	SlotSampler0           UniformSlot = "u_Sampler0"
	SlotSampler1           UniformSlot = "u_Sampler1"
	SlotWhichTexture       UniformSlot = "u_whichTexture"
	SlotLightPos           UniformSlot = "u_lightPos"
	SlotLightColor         UniformSlot = "u_lightColor"
)

// AttributeSlot names a per-vertex input.
type AttributeSlot string

const (
	AttributePosition AttributeSlot = "a_Position"
	AttributeUV       AttributeSlot = "a_UV"
	AttributeNormal   AttributeSlot = "a_Normal"
)

// uniformSlotTypes lists the accepted WGSL spellings of each uniform block member.
var uniformSlotTypes = map[UniformSlot][]string{
	SlotModelMatrix:        {"mat4x4<f32>", "mat4x4f"},
	SlotGlobalRotateMatrix: {"mat4x4<f32>", "mat4x4f"},
	SlotViewMatrix:         {"mat4x4<f32>", "mat4x4f"},
	SlotProjectionMatrix:   {"mat4x4<f32>", "mat4x4f"},
	SlotFragColor:          {"vec4<f32>", "vec4f"},
	SlotLightingEnabled:    {"u32"},
	SlotWhichTexture:       {"i32"},
	SlotLightPos:           {"vec3<f32>", "vec3f"},
	SlotLightColor:         {"vec3<f32>", "vec3f"},
}

// uniformSlotOrder fixes the order missing slots are reported in.
var uniformSlotOrder = []UniformSlot{
	SlotModelMatrix,
	SlotGlobalRotateMatrix,
	SlotViewMatrix,
	SlotProjectionMatrix,
	SlotFragColor,
	SlotLightingEnabled,
	SlotWhichTexture,
	SlotLightPos,
	SlotLightColor,
}

// textureSlots maps a texture unit to its sampled texture variable.
var textureSlots = [2]UniformSlot{SlotSampler0, SlotSampler1}

// Attributes lists every vertex attribute the lit pipeline reads.
var Attributes = []AttributeSlot{AttributePosition, AttributeUV, AttributeNormal}

// ValidateShader checks that a shader exposes every uniform slot, both texture units, the shared sampler and every
// vertex attribute. All missing or mistyped slots are reported together.
//
// Parameters:
//   - s: the reflected shader
//
// Returns:
//   - error: nil, or every failure joined, each wrapping ErrMissingBinding
func ValidateShader(s shader.Shader) error {
	if s == nil {
		return fmt.Errorf("%w: no shader", ErrMissingBinding)
	}

	var errs []error
	block, ok := s.UniformBlock(UniformBlockName)
	if !ok {
		errs = append(errs, fmt.Errorf("%w: uniform block %q", ErrMissingBinding, UniformBlockName))
	}
	for _, slot := range uniformSlotOrder {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: uniform %s", ErrMissingBinding, slot))
			continue
		}
		field, found := block.Field(string(slot))
		switch {
		case !found:
			errs = append(errs, fmt.Errorf("%w: uniform %s", ErrMissingBinding, slot))
		case !slices.Contains(uniformSlotTypes[slot], field.Type):
			errs = append(errs, fmt.Errorf("%w: uniform %s has type %s, want %s", ErrMissingBinding, slot, field.Type, uniformSlotTypes[slot][0]))
		}
	}

	group := block.Group
	for _, slot := range textureSlots {
		if _, found := s.BindGroupFromVarName(group, string(slot)); !found {
			errs = append(errs, fmt.Errorf("%w: texture %s in group %d", ErrMissingBinding, slot, group))
		}
	}
	if _, found := s.BindGroupFromVarName(group, samplerVarName); !found {
		errs = append(errs, fmt.Errorf("%w: sampler %s in group %d", ErrMissingBinding, samplerVarName, group))
	}

	for _, attr := range Attributes {
		if _, found := s.Attribute(string(attr)); !found {
			errs = append(errs, fmt.Errorf("%w: attribute %s", ErrMissingBinding, attr))
		}
	}
	return errors.Join(errs...)
}
