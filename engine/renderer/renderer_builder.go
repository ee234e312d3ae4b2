package renderer

import (
	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/Carmen-Shannon/blocky-world/engine/renderer/shader"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithShader replaces the built-in shader. The shader is validated before any GPU resource is created.
//
// Parameters:
//   - s: the reflected shader
//
// Returns:
//   - RendererBuilderOption: a function that applies the shader option to a renderer
func WithShader(s shader.Shader) RendererBuilderOption {
	return func(r *renderer) {
		r.shader = s
	}
}

// WithBackend supplies an already constructed backend instead of creating one for the surface.
//
// Parameters:
//   - b: the backend to drive
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(b RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = b
	}
}

// WithMaxDraws sets how many draws fit in one frame's uniform ring. Defaults to DefaultMaxDraws.
//
// Parameters:
//   - n: the per-frame draw capacity, values below 1 are ignored
//
// Returns:
//   - RendererBuilderOption: a function that applies the capacity option to a renderer
func WithMaxDraws(n int) RendererBuilderOption {
	return func(r *renderer) {
		if n > 0 {
			r.maxDraws = n
		}
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.msaa = count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithSampler configures the sampler shared by both texture units.
//
// Parameters:
//   - data: the sampler configuration, zero fields fall back to linear filtering and repeat addressing
//
// Returns:
//   - RendererBuilderOption: a function that applies the sampler option to a renderer
func WithSampler(data common.SamplerStagingData) RendererBuilderOption {
	return func(r *renderer) {
		r.sampler = data
	}
}
