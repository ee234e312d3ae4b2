package shape

// TextureSelector chooses how the fragment stage computes a base color.
// The set is closed: ParseTextureSelector folds every unknown code into TextureFallback.
type TextureSelector int32

const (
	// TextureNormals visualizes the transformed normal as (n + 1) / 2.
	TextureNormals TextureSelector = -3
	// TextureSolidColor uses the instance color.
	TextureSolidColor TextureSelector = -2
	// TextureUVDebug shows the texture coordinate as (u, v, 1, 1).
	TextureUVDebug TextureSelector = -1
	// TextureUnit0 samples texture unit 0.
	TextureUnit0 TextureSelector = 0
	// TextureUnit1 samples texture unit 1.
	TextureUnit1 TextureSelector = 1
	// TextureFallback shades with FallbackColor.
	TextureFallback TextureSelector = 2
)

// FallbackColor is the base color produced by TextureFallback.
var FallbackColor = [4]float32{1, 0.2, 0.2, 1}

// ParseTextureSelector maps a raw selector code onto the closed set.
//
// Parameters:
//   - code: the raw integer code
//
// Returns:
//   - TextureSelector: the matching selector, or TextureFallback for unknown codes
func ParseTextureSelector(code int32) TextureSelector {
	switch s := TextureSelector(code); s {
	case TextureNormals, TextureSolidColor, TextureUVDebug, TextureUnit0, TextureUnit1:
		return s
	default:
		return TextureFallback
	}
}

// Code returns the integer written to the shader's selector uniform.
func (t TextureSelector) Code() int32 {
	return int32(ParseTextureSelector(int32(t)))
}

// Unit returns the texture unit sampled by t.
//
// Returns:
//   - int: the unit index
//   - bool: false if t does not sample a texture
func (t TextureSelector) Unit() (int, bool) {
	switch t {
	case TextureUnit0:
		return 0, true
	case TextureUnit1:
		return 1, true
	default:
		return 0, false
	}
}

func (t TextureSelector) String() string {
	switch ParseTextureSelector(int32(t)) {
	case TextureNormals:
		return "normals"
	case TextureSolidColor:
		return "solid"
	case TextureUVDebug:
		return "uv"
	case TextureUnit0:
		return "texture0"
	case TextureUnit1:
		return "texture1"
	default:
		return "fallback"
	}
}
