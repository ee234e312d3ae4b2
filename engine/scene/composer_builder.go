package scene

import "github.com/Carmen-Shannon/blocky-world/engine/shape"

// ComposerOption is a functional option for configuring a Composer.
type ComposerOption func(c *composerImpl)

// WithBatchedMap draws map blocks through the positions-only cube: one small upload per block shape and no
// texturing or lighting.
//
// Parameters:
//   - batched: true to use shape.CubeModeBatched for the map
//
// Returns:
//   - ComposerOption: option function to apply
func WithBatchedMap(batched bool) ComposerOption {
	return func(c *composerImpl) {
		c.batchedMap = batched
	}
}

// WithSphere sets the tessellation of the reference sphere. Defaults to shape.Sphere{} (10 stacks, 20 slices).
func WithSphere(s shape.Sphere) ComposerOption {
	return func(c *composerImpl) {
		c.sphere = s
	}
}
