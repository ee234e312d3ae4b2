package shape

import "github.com/Carmen-Shannon/blocky-world/common"

// InstanceOption is a functional option for configuring an Instance.
type InstanceOption func(*Instance)

// WithModel replaces the model matrix.
//
// Parameters:
//   - m: the object-to-world transform
//
// Returns:
//   - InstanceOption: a function that sets the model matrix
func WithModel(m common.Matrix4) InstanceOption {
	return func(in *Instance) {
		in.Model = m
	}
}

// WithColor sets the base color.
//
// Parameters:
//   - r, g, b, a: normalized color channels
//
// Returns:
//   - InstanceOption: a function that sets the color
func WithColor(r, g, b, a float32) InstanceOption {
	return func(in *Instance) {
		in.Color = [4]float32{r, g, b, a}
	}
}

// WithTexture sets the texture selector.
//
// Parameters:
//   - t: the selector
//
// Returns:
//   - InstanceOption: a function that sets the texture selector
func WithTexture(t TextureSelector) InstanceOption {
	return func(in *Instance) {
		in.Texture = t
	}
}

// Translate post-multiplies a translation onto the model matrix.
func Translate(x, y, z float32) InstanceOption {
	return func(in *Instance) {
		in.Model = in.Model.Translate(x, y, z)
	}
}

// Scale post-multiplies a scale onto the model matrix.
func Scale(x, y, z float32) InstanceOption {
	return func(in *Instance) {
		in.Model = in.Model.Scale(x, y, z)
	}
}

// Rotate post-multiplies a rotation in degrees about axis onto the model matrix.
func Rotate(angleDeg float32, axis common.Vector3) InstanceOption {
	return func(in *Instance) {
		in.Model = in.Model.Rotate(angleDeg, axis)
	}
}
