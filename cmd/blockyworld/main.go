// Command blockyworld opens the block world scene in a window.
//
// Usage:
//
//	blockyworld [-config blocky.toml] [-paint] [-control 127.0.0.1:8090] [-profile]
//
// W/S/A/D/Q/E move the camera, dragging with the left button looks around, L toggles lighting,
// N toggles normal visualization and P switches to the paint canvas (1/2/3 brushes, C clears, F fills gaps).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/Carmen-Shannon/blocky-world/config"
	"github.com/Carmen-Shannon/blocky-world/engine"
	"github.com/Carmen-Shannon/blocky-world/engine/camera"
	"github.com/Carmen-Shannon/blocky-world/engine/clock"
	"github.com/Carmen-Shannon/blocky-world/engine/control"
	"github.com/Carmen-Shannon/blocky-world/engine/light"
	"github.com/Carmen-Shannon/blocky-world/engine/profiler"
	"github.com/Carmen-Shannon/blocky-world/engine/renderer"
	"github.com/Carmen-Shannon/blocky-world/engine/scene"
	"github.com/Carmen-Shannon/blocky-world/engine/texture"
	"github.com/Carmen-Shannon/blocky-world/engine/window"
	"github.com/Carmen-Shannon/blocky-world/engine/worldmap"
	"github.com/cogentcore/webgpu/wgpu"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Settings file (.toml, .yaml or .yml).")
		paint       = flag.Bool("paint", false, "Start on the paint canvas.")
		controlAddr = flag.String("control", "", "Serve the browser control panel on this address.")
		profile     = flag.Bool("profile", false, "Log frame timings.")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Printf("[Engine] %v", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg = cfg.Clone()
	if *paint {
		cfg.Paint.StartInPaintMode = true
	}
	if *controlAddr != "" {
		cfg.Control.Enabled = true
		cfg.Control.Addr = *controlAddr
	}
	if *profile {
		cfg.Profiler.Enabled = true
	}

	run(cfg)
}

func run(cfg *config.Config) {
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithResizable(cfg.Window.Resizable),
	)

	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win, rendererOptions(cfg)...)
	if err != nil {
		panic(fmt.Sprintf("failed to create renderer: %v", err))
	}

	cam, err := camera.NewCamera(
		camera.WithFov(cfg.Camera.Fov),
		camera.WithNear(cfg.Camera.Near),
		camera.WithFar(cfg.Camera.Far),
		camera.WithSpeed(cfg.Camera.Speed),
		camera.WithPanAngle(cfg.Camera.PanAngle),
		camera.WithAspect(float32(win.Width())/float32(max(win.Height(), 1))),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to create camera: %v", err))
	}

	mapOptions := []worldmap.GeneratorOption{worldmap.WithSize(cfg.Scene.MapSize)}
	if cfg.Scene.Seed != 0 {
		mapOptions = append(mapOptions, worldmap.WithSeed(cfg.Scene.Seed))
	}
	m, err := worldmap.NewGenerator(mapOptions...).Generate()
	if err != nil {
		panic(fmt.Sprintf("failed to generate world map: %v", err))
	}

	lp, lc := cfg.Light.Position, cfg.Light.Color
	state := scene.NewSceneState(cam, m,
		scene.WithLight(light.NewLight(
			light.WithPosition(lp[0], lp[1], lp[2]),
			light.WithColor(lc[0], lc[1], lc[2]),
			light.WithOrbit(cfg.Light.OrbitRadius, cfg.Light.OrbitHeight),
		)),
		scene.WithAngle(cfg.Scene.Angle),
		scene.WithLightingEnabled(cfg.Scene.Lighting),
		scene.WithNormalsOn(cfg.Scene.Normals),
		scene.WithMapBounds(scene.MapBounds{
			RowStart: cfg.Scene.Bounds.RowStart,
			RowEnd:   cfg.Scene.Bounds.RowEnd,
			ColStart: cfg.Scene.Bounds.ColStart,
			ColEnd:   cfg.Scene.Bounds.ColEnd,
		}),
		scene.WithControllerOptions(camera.WithSensitivity(cfg.Camera.Sensitivity)),
	)

	pc := cfg.Paint.Color
	options := []engine.EngineBuilderOption{
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithSceneState(state),
		engine.WithComposer(scene.NewComposer(r, scene.WithBatchedMap(cfg.Scene.BatchedMap))),
		engine.WithPainter(scene.NewPainter(
			scene.WithBrush(brush(cfg.Paint.Brush)),
			scene.WithBrushColor(pc[0], pc[1], pc[2], pc[3]),
			scene.WithBrushSize(cfg.Paint.Size),
			scene.WithSegments(cfg.Paint.Segments),
			scene.WithFillGap(cfg.Paint.FillGap),
		)),
		engine.WithClock(clock.NewClock(clock.WithMinFrameInterval(cfg.FrameInterval()))),
		engine.WithTextureLoader(texture.NewLoader(
			texture.WithMaxDimension(cfg.Textures.MaxDimension),
			texture.WithFlip(cfg.Textures.Flip),
		)),
		engine.WithTextureWatch(cfg.Textures.Watch),
		engine.WithRefreshRate(cfg.Renderer.RefreshRate),
	}
	for unit, path := range cfg.TexturePaths() {
		options = append(options, engine.WithTexture(unit, path))
	}
	if cfg.Paint.StartInPaintMode {
		options = append(options, engine.WithMode(engine.ModePaint))
	}
	if cfg.Control.Enabled {
		options = append(options, engine.WithControlServer(control.NewServer(state,
			control.WithAddr(cfg.Control.Addr),
			control.WithAllowedOrigins(cfg.Control.AllowedOrigins...),
		)))
	}
	if cfg.Profiler.Enabled {
		options = append(options, engine.WithProfiler(profiler.NewProfiler(
			profiler.WithInterval(cfg.ProfilerInterval()),
		)))
	}

	engine.NewEngine(options...).Run()
}

func rendererOptions(cfg *config.Config) []renderer.RendererBuilderOption {
	presentMode := renderer.PresentModeVSync
	if cfg.Renderer.PresentMode == "uncapped" {
		presentMode = renderer.PresentModeUncapped
	}
	msaa := renderer.MSAA4x
	if cfg.Renderer.MSAA == 1 {
		msaa = renderer.MSAAOff
	}
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
		renderer.WithMaxDraws(cfg.Renderer.MaxDraws),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.SoftwareRenderer),
		renderer.WithSampler(sampler(cfg.Renderer.Filter, cfg.Renderer.AddressMode)),
	}
}

func sampler(filter, addressMode string) common.SamplerStagingData {
	mode := wgpu.AddressModeRepeat
	switch addressMode {
	case "clamp":
		mode = wgpu.AddressModeClampToEdge
	case "mirror":
		mode = wgpu.AddressModeMirrorRepeat
	}
	s := common.SamplerStagingData{
		AddressModeU: mode,
		AddressModeV: mode,
		AddressModeW: mode,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeLinear,
	}
	if filter == "nearest" {
		s.MagFilter = wgpu.FilterModeNearest
		s.MinFilter = wgpu.FilterModeNearest
		s.MipmapFilter = wgpu.MipmapFilterModeNearest
	}
	return s
}

func brush(name string) scene.BrushType {
	switch name {
	case "triangle":
		return scene.BrushTriangle
	case "circle":
		return scene.BrushCircle
	default:
		return scene.BrushPoint
	}
}
