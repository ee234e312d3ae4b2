package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, time.Second, c.FrameInterval())
	assert.Equal(t, time.Second, c.ProfilerInterval())
	assert.Empty(t, c.TexturePaths())
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "blocky.toml", `
[window]
title = "paint"
width = 400

[scene]
seed = 42
frame_interval = "250ms"

[scene.bounds]
row_end = 8
col_end = 8

[light]
color = [1.0, 0.5, 0.25]

[control]
enabled = true
allowed_origins = ["http://localhost:3000"]
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "paint", c.Window.Title)
	assert.Equal(t, 400, c.Window.Width)
	assert.Equal(t, 600, c.Window.Height, "omitted keys keep their defaults")
	assert.Equal(t, uint64(42), c.Scene.Seed)
	assert.Equal(t, 250*time.Millisecond, c.FrameInterval())
	assert.Equal(t, BoundsConfig{RowEnd: 8, ColEnd: 8}, c.Scene.Bounds)
	assert.True(t, c.Scene.Lighting)
	assert.Equal(t, [3]float32{1, 0.5, 0.25}, c.Light.Color)
	assert.Equal(t, [3]float32{0, 2, 2}, c.Light.Position)
	assert.True(t, c.Control.Enabled)
	assert.Equal(t, "127.0.0.1:8090", c.Control.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, c.Control.AllowedOrigins)
}

func TestLoadYAML(t *testing.T) {
	for _, name := range []string{"blocky.yaml", "blocky.YML"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, `
renderer:
  present_mode: uncapped
  msaa: 1
  filter: nearest
scene:
  lighting: false
  batched_map: true
paint:
  start_in_paint_mode: true
  brush: circle
  segments: 24
textures:
  unit0: dirt.png
`)
			c, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, "uncapped", c.Renderer.PresentMode)
			assert.Equal(t, 1, c.Renderer.MSAA)
			assert.Equal(t, "nearest", c.Renderer.Filter)
			assert.Equal(t, "repeat", c.Renderer.AddressMode)
			assert.False(t, c.Scene.Lighting)
			assert.True(t, c.Scene.BatchedMap)
			assert.True(t, c.Paint.StartInPaintMode)
			assert.Equal(t, "circle", c.Paint.Brush)
			assert.Equal(t, 24, c.Paint.Segments)
			assert.Equal(t, map[int]string{0: "dirt.png"}, c.TexturePaths())
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "blocky.json", `{}`))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(writeFile(t, "broken.toml", `[window`))
	assert.ErrorContains(t, err, "TOML")

	_, err = Load(writeFile(t, "broken.yaml", "window: [unclosed"))
	assert.ErrorContains(t, err, "YAML")
}

func TestValidateReportsEveryField(t *testing.T) {
	_, err := Parse(".toml", []byte(`
[renderer]
present_mode = "fifo"
msaa = 8

[scene]
map_size = 0
frame_interval = "soon"

[scene.bounds]
row_start = 5
row_end = 2

[camera]
near = 10.0
far = 1.0

[paint]
brush = "spray"
`))
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{
		"renderer.present_mode", "renderer.msaa", "scene.map_size", "scene.frame_interval",
		"scene.bounds rows", "camera clip planes", "paint.brush",
	} {
		assert.Contains(t, msg, want)
	}
	assert.Len(t, strings.Split(msg, "\n"), 7)
}

func TestLoadExpandsHome(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skip("no home directory")
	}
	c, err := Parse(".toml", []byte(`
[textures]
unit1 = "~/sky.png"
`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "sky.png"), c.Textures.Unit1)
}

func TestClone(t *testing.T) {
	c := Default()
	c.Control.AllowedOrigins = []string{"http://a"}

	cp := c.Clone()
	assert.Equal(t, c, cp)

	cp.Control.AllowedOrigins[0] = "http://b"
	cp.Window.Title = "copy"
	assert.Equal(t, "http://a", c.Control.AllowedOrigins[0])
	assert.Equal(t, "blocky-world", c.Window.Title)
}
