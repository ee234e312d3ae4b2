package engine

import (
	"github.com/Carmen-Shannon/blocky-world/engine/clock"
	"github.com/Carmen-Shannon/blocky-world/engine/control"
	"github.com/Carmen-Shannon/blocky-world/engine/profiler"
	"github.com/Carmen-Shannon/blocky-world/engine/renderer"
	"github.com/Carmen-Shannon/blocky-world/engine/scene"
	"github.com/Carmen-Shannon/blocky-world/engine/texture"
	"github.com/Carmen-Shannon/blocky-world/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
type EngineBuilderOption func(*engine)

// WithWindow sets the window the engine presents to and takes input from.
//
// Parameters:
//   - w: an open Window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer frames are recorded with. Required.
//
// Parameters:
//   - r: a renderer created over the engine's window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithSceneState sets the scene the engine renders. Required.
//
// Parameters:
//   - s: the scene state
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSceneState(s scene.SceneState) EngineBuilderOption {
	return func(e *engine) {
		e.state = s
	}
}

// WithComposer replaces the default composer, e.g. to enable the batched map.
func WithComposer(c scene.Composer) EngineBuilderOption {
	return func(e *engine) {
		e.composer = c
	}
}

// WithPainter replaces the default paint canvas.
func WithPainter(p scene.Painter) EngineBuilderOption {
	return func(e *engine) {
		e.painter = p
	}
}

// WithClock replaces the default one second frame gate.
func WithClock(c clock.Clock) EngineBuilderOption {
	return func(e *engine) {
		e.clock = c
	}
}

// WithTextureLoader replaces the default texture loader.
func WithTextureLoader(l texture.Loader) EngineBuilderOption {
	return func(e *engine) {
		e.loader = l
	}
}

// WithTexture queues an image for a texture unit when Run starts. Units without an image keep their
// placeholder.
//
// Parameters:
//   - unit: the texture unit, 0 or 1
//   - path: the image file
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTexture(unit int, path string) EngineBuilderOption {
	return func(e *engine) {
		if path != "" {
			e.textures[unit] = path
		}
	}
}

// WithTextureWatch sets whether texture files are reloaded when they change on disk.
func WithTextureWatch(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.watchTextures = enabled
	}
}

// WithControlServer serves the browser control panel for the scene while the engine runs.
//
// Parameters:
//   - s: the control server
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithControlServer(s control.Server) EngineBuilderOption {
	return func(e *engine) {
		e.control = s
	}
}

// WithProfiler reports frame timings through p. Without it nothing is measured.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithRefreshRate sets how many display ticks per second the render loop receives.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - hz: ticks per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRefreshRate(hz float64) EngineBuilderOption {
	return func(e *engine) {
		e.refreshPeriod = refreshPeriod(hz)
	}
}

// WithMode sets the mode the engine starts in. Defaults to ModeScene.
func WithMode(m Mode) EngineBuilderOption {
	return func(e *engine) {
		e.mode = m
	}
}
