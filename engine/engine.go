// Package engine runs the window, the render loop and the optional control server around one scene.
package engine

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/Carmen-Shannon/blocky-world/engine/clock"
	"github.com/Carmen-Shannon/blocky-world/engine/control"
	"github.com/Carmen-Shannon/blocky-world/engine/profiler"
	"github.com/Carmen-Shannon/blocky-world/engine/renderer"
	"github.com/Carmen-Shannon/blocky-world/engine/scene"
	"github.com/Carmen-Shannon/blocky-world/engine/texture"
	"github.com/Carmen-Shannon/blocky-world/engine/window"
)

// Mode selects what the render loop draws.
type Mode int

const (
	// ModeScene draws the 3D block world.
	ModeScene Mode = iota

	// ModePaint draws the 2D paint canvas.
	ModePaint
)

func (m Mode) String() string {
	switch m {
	case ModeScene:
		return "scene"
	case ModePaint:
		return "paint"
	default:
		return "unknown"
	}
}

// DefaultRefreshRate is the display refresh the render loop ticks at unless WithRefreshRate is given.
const DefaultRefreshRate = 60.0

// engine implements the Engine interface.
// The window thread delivers input, the render goroutine owns every renderer call.
type engine struct {
	mu *sync.Mutex
	wg sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	window   window.Window
	renderer renderer.Renderer
	state    scene.SceneState
	composer scene.Composer
	painter  scene.Painter
	clock    clock.Clock
	loader   texture.Loader
	control  control.Server
	profiler profiler.Profiler

	mode          Mode
	refreshPeriod time.Duration
	textures      map[int]string
	watchTextures bool
}

// Engine is the main entry point. It drives the scene from the display refresh and routes input to it.
type Engine interface {
	// Window returns the window the engine presents to, or nil.
	Window() window.Window

	// Renderer returns the renderer all frames are recorded with.
	Renderer() renderer.Renderer

	// State returns the scene the engine renders.
	State() scene.SceneState

	// Painter returns the 2D paint canvas shown in ModePaint.
	Painter() scene.Painter

	// Clock returns the frame gate.
	Clock() clock.Clock

	// Mode returns what the render loop currently draws.
	Mode() Mode

	// SetMode switches between the scene and the paint canvas and requests a redraw.
	//
	// Parameters:
	//   - m: the new mode
	SetMode(m Mode)

	// Run starts the render goroutine, texture loading and the control server, then runs the window loop.
	// It blocks until the window closes or Quit is called, and stops the texture loader and releases the renderer
	// and window on return.
	// Must be called on the goroutine that created the window.
	Run()

	// Quit signals all engine goroutines to stop. Safe to call multiple times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates an Engine around a renderer and a scene. Anything not supplied through options
// (composer, painter, clock, texture loader) is created with defaults.
// Panics if no renderer or scene state is given.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:            &sync.Mutex{},
		quitChannel:   make(chan struct{}),
		refreshPeriod: refreshPeriod(DefaultRefreshRate),
		textures:      make(map[int]string),
	}
	for _, opt := range options {
		opt(e)
	}

	if e.renderer == nil {
		panic("engine requires a renderer, see WithRenderer")
	}
	if e.state == nil {
		panic("engine requires a scene state, see WithSceneState")
	}
	if e.composer == nil {
		e.composer = scene.NewComposer(e.renderer)
	}
	if e.painter == nil {
		e.painter = scene.NewPainter()
	}
	if e.clock == nil {
		e.clock = clock.NewClock()
	}
	if e.loader == nil {
		e.loader = texture.NewLoader()
	}

	if e.window != nil {
		e.bindWindow()
	}
	return e
}

func refreshPeriod(hz float64) time.Duration {
	if hz <= 0 {
		hz = DefaultRefreshRate
	}
	return time.Duration(float64(time.Second) / hz)
}

// bindWindow routes window events to the scene or the painter depending on the mode.
func (e *engine) bindWindow() {
	e.window.SetResizeCallback(e.handleResize)
	e.window.SetKeyDownCallback(e.handleKey)
	e.window.SetMouseDownCallback(e.handleMouseDown)
	e.window.SetMouseUpCallback(e.handleMouseUp)
	e.window.SetMouseMoveCallback(e.handleMouseMove)
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) State() scene.SceneState {
	return e.state
}

func (e *engine) Painter() scene.Painter {
	return e.painter
}

func (e *engine) Clock() clock.Clock {
	return e.clock
}

func (e *engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

func (e *engine) SetMode(m Mode) {
	e.mu.Lock()
	changed := e.mode != m
	e.mode = m
	e.mu.Unlock()
	if changed {
		e.painter.EndStroke()
		e.state.EndDrag()
		e.state.RequestRedraw()
	}
}

func (e *engine) Run() {
	if e.window == nil {
		panic("engine.Run requires a window, see WithWindow")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e.start(ctx)
	e.window.ProcessMessages()

	e.signalQuit()
	cancel()
	e.wg.Wait()

	e.loader.Close()
	e.renderer.Release()
	if err := e.window.Close(); err != nil {
		log.Printf("[Engine] Failed to close window: %v", err)
	}
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel and asks the window loop to stop.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

// start queues the configured textures and launches the render, control and quit goroutines.
func (e *engine) start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	for unit, path := range e.textures {
		if err := e.loader.Load(unit, path); err != nil {
			log.Printf("[Engine] Texture unit %d keeps its placeholder: %v", unit, err)
		}
	}
	if e.watchTextures && len(e.textures) > 0 {
		if err := e.loader.Watch(ctx); err != nil {
			log.Printf("[Engine] Texture reloading disabled: %v", err)
		}
	}

	e.wg.Add(2)
	go e.handleRender(ctx)
	go e.handleQuit(cancel)

	if e.control != nil {
		e.wg.Add(1)
		go e.handleControl(ctx)
	}
}

// handleRender runs the clock over a display-rate ticker until ctx is done.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender(ctx context.Context) {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] Render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	ticker := time.NewTicker(e.refreshPeriod)
	defer ticker.Stop()

	if err := e.clock.Run(ctx, ticker.C, e.onFrame, e.onSkip); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[Engine] Render loop stopped: %v", err)
	}
}

// handleControl serves the control panel until ctx is done. A failing listener does not stop the engine.
func (e *engine) handleControl(ctx context.Context) {
	defer e.wg.Done()
	if err := e.control.ListenAndServe(ctx); err != nil {
		log.Printf("[Engine] Control server stopped: %v", err)
	}
}

// handleQuit blocks until the quit channel is closed, then cancels the engine context.
func (e *engine) handleQuit(cancel context.CancelFunc) {
	defer e.wg.Done()
	<-e.quitChannel
	cancel()
}

// onFrame runs on ticks that pass the clock gate. The scene advances its animation and is always redrawn.
func (e *engine) onFrame(f clock.Frame) {
	e.bindTextures()

	started := time.Now()
	var err error
	if e.Mode() == ModePaint {
		err = e.renderPaint()
	} else {
		err = e.composer.Tick(e.state, f)
	}
	e.finishFrame(started, err)
}

// onSkip runs on gated-out ticks. The frame is redrawn only if input requested it; the animation does not advance.
func (e *engine) onSkip() {
	e.bindTextures()

	if !e.state.TakeRedraw() {
		return
	}
	started := time.Now()
	var err error
	if e.Mode() == ModePaint {
		err = e.painter.Render(e.renderer)
	} else {
		err = e.composer.RenderFrame(e.state)
	}
	e.finishFrame(started, err)
}

// renderPaint redraws the canvas on a gated tick only when something changed.
func (e *engine) renderPaint() error {
	if !e.state.TakeRedraw() {
		return nil
	}
	return e.painter.Render(e.renderer)
}

func (e *engine) finishFrame(started time.Time, err error) {
	if err != nil {
		log.Printf("[Engine] Frame failed: %v", err)
		return
	}
	if e.profiler != nil {
		e.profiler.Tick(time.Since(started))
	}
}

// bindTextures uploads every finished texture load. It runs between frames on the render goroutine.
func (e *engine) bindTextures() {
	for {
		select {
		case result := <-e.loader.Results():
			if result.Err != nil {
				log.Printf("[Engine] Texture unit %d keeps its current image: %v", result.Unit, result.Err)
				continue
			}
			if err := e.renderer.BindTexture(result.Unit, result.Data); err != nil {
				log.Printf("[Engine] Failed to bind %s to texture unit %d: %v", result.Path, result.Unit, err)
				continue
			}
			log.Printf("[Engine] Bound %s to texture unit %d (%dx%d)", result.Path, result.Unit, result.Data.Width, result.Data.Height)
			e.state.RequestRedraw()
		default:
			return
		}
	}
}

// handleResize reconfigures the surface and the camera aspect. A minimized window reports 0x0 and is ignored.
func (e *engine) handleResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.renderer.Resize(width, height)
	if err := e.state.Resize(width, height); err != nil {
		log.Printf("[Engine] Resize to %dx%d rejected: %v", width, height, err)
	}
}

func (e *engine) handleKey(keyCode uint32) {
	if keyCode == common.KeyP {
		if e.Mode() == ModePaint {
			e.SetMode(ModeScene)
		} else {
			e.SetMode(ModePaint)
		}
		return
	}

	if e.Mode() == ModePaint {
		if e.painter.HandleKey(keyCode) {
			e.state.RequestRedraw()
		}
		return
	}
	if _, err := e.state.HandleKey(keyCode); err != nil {
		log.Printf("[Engine] Key %d rejected: %v", keyCode, err)
	}
}

func (e *engine) handleMouseDown(button window.MouseButton, x, y int32) {
	if button != window.MouseLeft {
		return
	}
	if e.Mode() == ModePaint {
		e.paintAt(x, y)
		return
	}
	e.state.BeginDrag(x, y)
}

func (e *engine) handleMouseUp(button window.MouseButton, _, _ int32) {
	if button != window.MouseLeft {
		return
	}
	if e.Mode() == ModePaint {
		e.painter.EndStroke()
		return
	}
	e.state.EndDrag()
}

func (e *engine) handleMouseMove(x, y int32, leftDown bool) {
	if !leftDown {
		return
	}
	if e.Mode() == ModePaint {
		e.paintAt(x, y)
		return
	}
	if err := e.state.Drag(x, y); err != nil {
		log.Printf("[Engine] Drag rejected: %v", err)
	}
}

func (e *engine) paintAt(x, y int32) {
	if err := e.painter.Click(float32(x), float32(y), e.window.Width(), e.window.Height()); err != nil {
		return
	}
	e.state.RequestRedraw()
}
