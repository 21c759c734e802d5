package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/sharpscene/r3d"
	"github.com/mogaika/sharpscene/resources"
	"github.com/mogaika/sharpscene/scene"
)

var demoPointLights = [scene.MaxPointLights]mgl32.Vec3{
	{0.7, 0.2, 2.0},
	{2.3, 1.5, -4.0},
	{-4.0, 2.0, -6.0},
	{0.0, 1.0, -3.0},
}

// demoScene builds the scene shown when no scene file is given: a floor,
// one block of every type, the full set of lights and a crosshair.
func demoScene(res *resources.Services) (*scene.Scene, error) {
	s := scene.New("demo")

	s.AddNode(scene.NewPlane(res, "floor", mgl32.Vec3{0, 0, 0}, 20))

	blocks := scene.NewSceneNode("blocks")
	types := scene.BlockTypes()
	for i, b := range types {
		x := float32(2*i - len(types) + 1)
		block, err := scene.NewBlock(res, b, mgl32.Vec3{x, 0.5, 0})
		if err != nil {
			return nil, err
		}
		blocks.AddChild(block)
	}
	s.AddNode(blocks)

	lights := scene.NewSceneNode("lights")
	lights.AddChild(scene.NewDirectionalLight("sun", mgl32.Vec3{-0.2, -1.0, -0.3}))
	for i, pos := range demoPointLights {
		l, err := scene.NewPointLight(fmt.Sprintf("lamp %d", i), i, pos)
		if err != nil {
			return nil, err
		}
		lights.AddChild(l)
	}
	lights.AddChild(scene.NewSpotLight("flashlight", mgl32.Vec3{0, 4, 4}, mgl32.Vec3{0, -1, -1}.Normalize()))
	s.AddNode(lights)

	s.AddUIElement(scene.NewUIElement("crosshair",
		res.Meshes.Primitive(resources.MeshQuad),
		scene.Texture(res, scene.TextureWhite),
		r3d.NewTransform2D(mgl32.Vec2{0, 0}, mgl32.Vec2{0.01, 0.01})))

	return s, nil
}
