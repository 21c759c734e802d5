package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "shaders/lighting.vert", c.Shaders.Lighting.Vertex)
	assert.Empty(t, c.Inspector)
}

func TestParseOverlaysDefaults(t *testing.T) {
	c, err := Parse([]byte(`
window:
  width: 800
  title: test
camera:
  fov: 60
inspector: ":8000"
`))
	require.NoError(t, err)
	assert.Equal(t, 800, c.Window.Width)
	assert.Equal(t, 720, c.Window.Height, "unset fields keep defaults")
	assert.Equal(t, "test", c.Window.Title)
	assert.Equal(t, float32(60), c.Camera.Fov)
	assert.Equal(t, float32(0.1), c.Camera.Sensitivity)
	assert.Equal(t, ":8000", c.Inspector)
	assert.Equal(t, "shaders/ui.frag", c.Shaders.UI.Fragment)
}

func TestParseEmpty(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestValidation(t *testing.T) {
	for _, tc := range []struct {
		name string
		yaml string
	}{
		{"zero width", "window: {width: 0}"},
		{"negative height", "window: {height: -1}"},
		{"fov too wide", "camera: {fov: 120}"},
		{"fov too narrow", "camera: {fov: 0.5}"},
		{"pitch", "camera: {pitch: 95}"},
		{"sensitivity", "camera: {sensitivity: 0}"},
		{"move speed", "camera: {move_speed: -1}"},
		{"log level", "log_level: loud"},
		{"unknown field", "colour: red"},
		{"bad yaml", "window: ["},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadAndWrite(t *testing.T) {
	c := Default()
	c.Scene = "scenes/demo.sharpscene"
	c.Camera.Position = [3]float32{1, 2, 3}

	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf))

	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0666))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
