// Package config loads the blocky-world settings file.
//
// A file only needs the keys it changes: it is decoded on top of Default, so omitted keys keep their
// default values. The format is chosen by extension, .toml or .yaml / .yml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned by Load for files that are neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Accepted enumerated values.
var (
	PresentModes = []string{"vsync", "uncapped"}
	MSAACounts   = []int{1, 4}
	Filters      = []string{"linear", "nearest"}
	AddressModes = []string{"repeat", "clamp", "mirror"}
	Brushes      = []string{"point", "triangle", "circle"}
)

// Config holds every user-tunable setting.
type Config struct {
	Window   WindowConfig   `toml:"window" yaml:"window"`
	Renderer RendererConfig `toml:"renderer" yaml:"renderer"`
	Scene    SceneConfig    `toml:"scene" yaml:"scene"`
	Light    LightConfig    `toml:"light" yaml:"light"`
	Camera   CameraConfig   `toml:"camera" yaml:"camera"`
	Textures TextureConfig  `toml:"textures" yaml:"textures"`
	Paint    PaintConfig    `toml:"paint" yaml:"paint"`
	Control  ControlConfig  `toml:"control" yaml:"control"`
	Profiler ProfilerConfig `toml:"profiler" yaml:"profiler"`
}

// WindowConfig describes the application window.
type WindowConfig struct {
	Title     string `toml:"title" yaml:"title"`
	Width     int    `toml:"width" yaml:"width"`
	Height    int    `toml:"height" yaml:"height"`
	Resizable bool   `toml:"resizable" yaml:"resizable"`
}

// RendererConfig describes the GPU surface and sampling.
type RendererConfig struct {
	PresentMode      string  `toml:"present_mode" yaml:"present_mode"`
	MSAA             int     `toml:"msaa" yaml:"msaa"`
	MaxDraws         int     `toml:"max_draws" yaml:"max_draws"`
	SoftwareRenderer bool    `toml:"software_renderer" yaml:"software_renderer"`
	RefreshRate      float64 `toml:"refresh_rate" yaml:"refresh_rate"`
	Filter           string  `toml:"filter" yaml:"filter"`
	AddressMode      string  `toml:"address_mode" yaml:"address_mode"`
}

// BoundsConfig is the half-open cell range of the map that is drawn.
type BoundsConfig struct {
	RowStart int `toml:"row_start" yaml:"row_start"`
	RowEnd   int `toml:"row_end" yaml:"row_end"`
	ColStart int `toml:"col_start" yaml:"col_start"`
	ColEnd   int `toml:"col_end" yaml:"col_end"`
}

// SceneConfig describes the world and its render toggles. A Seed of 0 seeds the map from the wall clock.
type SceneConfig struct {
	MapSize       int          `toml:"map_size" yaml:"map_size"`
	Seed          uint64       `toml:"seed" yaml:"seed"`
	Bounds        BoundsConfig `toml:"bounds" yaml:"bounds"`
	Angle         float32      `toml:"angle" yaml:"angle"`
	Lighting      bool         `toml:"lighting" yaml:"lighting"`
	Normals       bool         `toml:"normals" yaml:"normals"`
	BatchedMap    bool         `toml:"batched_map" yaml:"batched_map"`
	FrameInterval string       `toml:"frame_interval" yaml:"frame_interval"`
}

// LightConfig describes the point light and its orbit.
type LightConfig struct {
	Position    [3]float32 `toml:"position" yaml:"position"`
	Color       [3]float32 `toml:"color" yaml:"color"`
	OrbitRadius float32    `toml:"orbit_radius" yaml:"orbit_radius"`
	OrbitHeight float32    `toml:"orbit_height" yaml:"orbit_height"`
}

// CameraConfig describes the camera and its input mapping.
type CameraConfig struct {
	Fov         float32 `toml:"fov" yaml:"fov"`
	Near        float32 `toml:"near" yaml:"near"`
	Far         float32 `toml:"far" yaml:"far"`
	Speed       float32 `toml:"speed" yaml:"speed"`
	PanAngle    float32 `toml:"pan_angle" yaml:"pan_angle"`
	Sensitivity float32 `toml:"sensitivity" yaml:"sensitivity"`
}

// TextureConfig names the images bound to the two texture units.
type TextureConfig struct {
	Unit0        string `toml:"unit0" yaml:"unit0"`
	Unit1        string `toml:"unit1" yaml:"unit1"`
	Watch        bool   `toml:"watch" yaml:"watch"`
	MaxDimension int    `toml:"max_dimension" yaml:"max_dimension"`
	Flip         bool   `toml:"flip" yaml:"flip"`
}

// PaintConfig describes the 2D paint canvas.
type PaintConfig struct {
	StartInPaintMode bool       `toml:"start_in_paint_mode" yaml:"start_in_paint_mode"`
	Brush            string     `toml:"brush" yaml:"brush"`
	Color            [4]float32 `toml:"color" yaml:"color"`
	Size             float32    `toml:"size" yaml:"size"`
	Segments         int        `toml:"segments" yaml:"segments"`
	FillGap          bool       `toml:"fill_gap" yaml:"fill_gap"`
}

// ControlConfig describes the browser control server.
type ControlConfig struct {
	Enabled        bool     `toml:"enabled" yaml:"enabled"`
	Addr           string   `toml:"addr" yaml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins" yaml:"allowed_origins"`
}

// ProfilerConfig describes frame time reporting.
type ProfilerConfig struct {
	Enabled  bool   `toml:"enabled" yaml:"enabled"`
	Interval string `toml:"interval" yaml:"interval"`
}

// Default returns the settings of the reference scene.
//
// Returns:
//   - *Config: a new config holding the defaults
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "blocky-world",
			Width:     800,
			Height:    600,
			Resizable: true,
		},
		Renderer: RendererConfig{
			PresentMode: "vsync",
			MSAA:        4,
			MaxDraws:    4096,
			RefreshRate: 60,
			Filter:      "linear",
			AddressMode: "repeat",
		},
		Scene: SceneConfig{
			MapSize:       8,
			Bounds:        BoundsConfig{RowStart: 0, RowEnd: 4, ColStart: 0, ColEnd: 4},
			Lighting:      true,
			FrameInterval: "1s",
		},
		Light: LightConfig{
			Position:    [3]float32{0, 2, 2},
			Color:       [3]float32{1, 1, 1},
			OrbitRadius: 3,
			OrbitHeight: 2,
		},
		Camera: CameraConfig{
			Fov:         60,
			Near:        0.1,
			Far:         1000,
			Speed:       0.2,
			PanAngle:    5,
			Sensitivity: 0.5,
		},
		Textures: TextureConfig{
			MaxDimension: 2048,
			Flip:         true,
		},
		Paint: PaintConfig{
			Brush:    "point",
			Color:    [4]float32{1, 1, 1, 1},
			Size:     5,
			Segments: 10,
		},
		Control: ControlConfig{
			Addr: "127.0.0.1:8090",
		},
		Profiler: ProfilerConfig{
			Interval: "1s",
		},
	}
}

// Load reads a TOML or YAML file over the defaults and validates the result. A leading ~ in path and in the
// texture paths is expanded to the home directory.
//
// Parameters:
//   - path: the settings file
//
// Returns:
//   - *Config: the loaded settings
//   - error: ErrUnsupportedFormat, a read or decode error, or every validation failure joined
func Load(path string) (*Config, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path %s: %w", path, err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(filepath.Ext(expanded), data)
}

// Parse decodes settings in the format named by ext (".toml", ".yaml" or ".yml") over the defaults.
//
// Parameters:
//   - ext: the file extension selecting the format
//   - data: the encoded settings
//
// Returns:
//   - *Config: the decoded settings
//   - error: ErrUnsupportedFormat, a decode error, or every validation failure joined
func Parse(ext string, data []byte) (*Config, error) {
	c := Default()
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("failed to decode TOML config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("failed to decode YAML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err := c.expandPaths(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Textures.Unit0, &c.Textures.Unit1} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("failed to expand texture path %s: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Clone returns a deep copy, so the copy's slices can be changed without affecting c.
//
// Returns:
//   - *Config: the copy
func (c *Config) Clone() *Config {
	out := &Config{}
	if err := copier.CopyWithOption(out, c, copier.Option{DeepCopy: true}); err != nil {
		panic(fmt.Sprintf("failed to clone config: %v", err))
	}
	return out
}

// Validate reports every invalid setting.
//
// Returns:
//   - error: nil, or one error per invalid field joined with errors.Join
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)

	check(slices.Contains(PresentModes, c.Renderer.PresentMode), "renderer.present_mode must be one of %v, got %q", PresentModes, c.Renderer.PresentMode)
	check(slices.Contains(MSAACounts, c.Renderer.MSAA), "renderer.msaa must be one of %v, got %d", MSAACounts, c.Renderer.MSAA)
	check(c.Renderer.MaxDraws > 0, "renderer.max_draws must be positive, got %d", c.Renderer.MaxDraws)
	check(c.Renderer.RefreshRate > 0, "renderer.refresh_rate must be positive, got %g", c.Renderer.RefreshRate)
	check(slices.Contains(Filters, c.Renderer.Filter), "renderer.filter must be one of %v, got %q", Filters, c.Renderer.Filter)
	check(slices.Contains(AddressModes, c.Renderer.AddressMode), "renderer.address_mode must be one of %v, got %q", AddressModes, c.Renderer.AddressMode)

	check(c.Scene.MapSize >= 1, "scene.map_size must be at least 1, got %d", c.Scene.MapSize)
	b := c.Scene.Bounds
	check(b.RowStart >= 0 && b.RowStart <= b.RowEnd, "scene.bounds rows must satisfy 0 <= row_start <= row_end, got [%d, %d)", b.RowStart, b.RowEnd)
	check(b.ColStart >= 0 && b.ColStart <= b.ColEnd, "scene.bounds columns must satisfy 0 <= col_start <= col_end, got [%d, %d)", b.ColStart, b.ColEnd)
	if d, err := time.ParseDuration(c.Scene.FrameInterval); err != nil {
		errs = append(errs, fmt.Errorf("scene.frame_interval: %w", err))
	} else {
		check(d >= 0, "scene.frame_interval must not be negative, got %s", d)
	}

	check(c.Light.OrbitRadius >= 0, "light.orbit_radius must not be negative, got %g", c.Light.OrbitRadius)

	check(c.Camera.Fov > 0 && c.Camera.Fov < 180, "camera.fov must be in (0, 180), got %g", c.Camera.Fov)
	check(c.Camera.Near > 0 && c.Camera.Near < c.Camera.Far, "camera clip planes must satisfy 0 < near < far, got %g and %g", c.Camera.Near, c.Camera.Far)
	check(c.Camera.Sensitivity > 0, "camera.sensitivity must be positive, got %g", c.Camera.Sensitivity)

	check(c.Textures.MaxDimension >= 0, "textures.max_dimension must not be negative, got %d", c.Textures.MaxDimension)

	check(slices.Contains(Brushes, c.Paint.Brush), "paint.brush must be one of %v, got %q", Brushes, c.Paint.Brush)
	check(c.Paint.Size > 0, "paint.size must be positive, got %g", c.Paint.Size)
	check(c.Paint.Segments >= 3, "paint.segments must be at least 3, got %d", c.Paint.Segments)

	check(!c.Control.Enabled || c.Control.Addr != "", "control.addr is required when the control server is enabled")
	if d, err := time.ParseDuration(c.Profiler.Interval); err != nil {
		errs = append(errs, fmt.Errorf("profiler.interval: %w", err))
	} else {
		check(d > 0, "profiler.interval must be positive, got %s", d)
	}

	return errors.Join(errs...)
}

// FrameInterval returns the scene's minimum time between animated frames.
func (c *Config) FrameInterval() time.Duration {
	d, _ := time.ParseDuration(c.Scene.FrameInterval)
	return d
}

// ProfilerInterval returns how often frame stats are reported.
func (c *Config) ProfilerInterval() time.Duration {
	d, _ := time.ParseDuration(c.Profiler.Interval)
	return d
}

// TexturePaths returns the configured image per texture unit, leaving out empty units.
func (c *Config) TexturePaths() map[int]string {
	out := make(map[int]string, 2)
	if c.Textures.Unit0 != "" {
		out[0] = c.Textures.Unit0
	}
	if c.Textures.Unit1 != "" {
		out[1] = c.Textures.Unit1
	}
	return out
}
