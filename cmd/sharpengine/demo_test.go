package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/sharpscene/assets"
	"github.com/mogaika/sharpscene/config"
	"github.com/mogaika/sharpscene/gfx/gfxtest"
	"github.com/mogaika/sharpscene/render"
	"github.com/mogaika/sharpscene/resources"
	"github.com/mogaika/sharpscene/scene"
)

func TestDemoSceneLayout(t *testing.T) {
	res := resources.NewServices(gfxtest.New(), assets.NewMemory(nil))

	s, err := demoScene(res)
	require.NoError(t, err)

	assert.NotNil(t, s.GetNode("floor"))
	assert.Len(t, scene.ObjectsOfType[*scene.GameObject](s.Root), 1+len(scene.BlockTypes()))

	lights := s.Lights()
	require.Len(t, lights, 2+scene.MaxPointLights)
	assert.Equal(t, "directional", lights[0].KindName())
	for i := 0; i < scene.MaxPointLights; i++ {
		idx, ok := lights[1+i].PointIndex()
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}
	assert.Equal(t, "spot", lights[len(lights)-1].KindName())

	require.Len(t, s.UIElements(), 1)
	assert.Equal(t, "crosshair", s.UIElements()[0].Name)
}

func TestShippedShadersRenderDemo(t *testing.T) {
	dev := gfxtest.New()
	res := resources.NewServices(dev, assets.NewDir(filepath.Join("..", "..", "assets")))
	cfg := config.Default()

	lighting := res.Shaders.Load("lighting", cfg.Shaders.Lighting.Vertex, cfg.Shaders.Lighting.Fragment)
	lamp := res.Shaders.Load("lamp", cfg.Shaders.Lamp.Vertex, cfg.Shaders.Lamp.Fragment)
	ui := res.Shaders.Load("ui", cfg.Shaders.UI.Vertex, cfg.Shaders.UI.Fragment)
	require.True(t, lighting.Valid())
	require.True(t, lamp.Valid())
	require.True(t, ui.Valid())

	for _, name := range []string{
		"model", "view", "projection", "viewPos", "pointLightCount",
		"material.diffuse", "material.shininess",
		"dirLight.direction", "spotLight.outerCutOff",
		scene.PointLightUniform(scene.MaxPointLights-1, "quadratic"),
	} {
		assert.True(t, lighting.Has(name), name)
	}
	assert.True(t, lamp.Has("color"))
	assert.True(t, ui.Has("image"))
	assert.True(t, ui.Has("rotation"))

	s, err := demoScene(res)
	require.NoError(t, err)

	cam := newCamera(cfg.Camera)
	cam.AspectRatio = 16.0 / 9.0
	f := &render.Frame{Number: 1, Camera: cam, Scene: s, Device: dev}

	objects := render.NewObjectRenderer(lighting).Render(f)
	require.NoError(t, objects.Err)
	assert.Greater(t, objects.Drawn, 0)

	lamps := render.NewLampRenderer(lamp, res.Meshes.Primitive(resources.MeshCube)).Render(f)
	require.NoError(t, lamps.Err)
	assert.Equal(t, scene.MaxPointLights, lamps.Drawn)

	overlay := render.NewUIRenderer(ui).Render(f)
	require.NoError(t, overlay.Err)
	assert.Equal(t, 1, overlay.Drawn)
}

func TestNewCameraFromConfig(t *testing.T) {
	c := config.Default().Camera
	c.Pitch = -20
	c.Fov = 60
	c.Sensitivity = 0.3

	cam := newCamera(c)
	assert.Equal(t, float32(-20), cam.Pitch())
	assert.Equal(t, c.Yaw, cam.Yaw())
	assert.Equal(t, float32(60), cam.Fov())
	assert.Equal(t, float32(0.3), cam.Sensitivity)
	assert.Equal(t, c.Position[1], cam.Position[1])
}
