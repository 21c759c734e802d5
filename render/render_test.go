package render

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/sharpscene/assets"
	"github.com/mogaika/sharpscene/gfx/gfxtest"
	"github.com/mogaika/sharpscene/r3d"
	"github.com/mogaika/sharpscene/resources"
	"github.com/mogaika/sharpscene/scene"
)

const lightingVertex = `uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;
void main() {}
`

const lightingFragment = `struct Material { sampler2D diffuse; sampler2D specular; vec3 specularColor; float shininess; };
struct DirLight { vec3 direction; vec3 ambient; vec3 diffuse; vec3 specular; };
struct PointLight { vec3 position; vec3 ambient; vec3 diffuse; vec3 specular; float constant; float linear; float quadratic; };
struct SpotLight { vec3 position; vec3 direction; float cutOff; float outerCutOff; vec3 ambient; vec3 diffuse; vec3 specular; float constant; float linear; float quadratic; };
uniform vec3 viewPos;
uniform int pointLightCount;
uniform Material material;
uniform DirLight dirLight;
uniform PointLight pointLights[4];
uniform SpotLight spotLight;
void main() {}
`

const lampSource = `uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;
uniform vec3 color;
void main() {}
`

const uiSource = `uniform vec3 position;
uniform vec3 size;
uniform float rotation;
uniform vec4 color;
uniform sampler2D image;
void main() {}
`

type fixture struct {
	dev    *gfxtest.Device
	res    *resources.Services
	scene  *scene.Scene
	camera *r3d.CameraView
}

func newFixture() *fixture {
	dev := gfxtest.New()
	return &fixture{
		dev:    dev,
		res:    resources.NewServices(dev, assets.NewMemory(nil)),
		scene:  scene.New("test"),
		camera: r3d.NewCameraView(mgl32.Vec3{0, 0, 3}, 16.0/9.0),
	}
}

func (fx *fixture) frame() *Frame {
	return &Frame{Number: 1, Camera: fx.camera, Scene: fx.scene, Device: fx.dev}
}

func (fx *fixture) objectRenderer() *ObjectRenderer {
	return NewObjectRenderer(fx.res.Shaders.LoadSource("lighting", lightingVertex, lightingFragment))
}

func TestObjectRendererCulls(t *testing.T) {
	fx := newFixture()
	visible := scene.NewCube(fx.res, "visible", mgl32.Vec3{0, 0, 0})
	far := scene.NewCube(fx.res, "far", mgl32.Vec3{0, 0, -1000})
	fx.scene.AddNode(visible, far)

	rep := fx.objectRenderer().Render(fx.frame())
	require.False(t, rep.Faulted(), rep.Err)
	assert.Equal(t, 1, rep.Drawn)
	assert.Equal(t, 1, rep.Culled)
	assert.Len(t, rep.Tasks, 3)
	require.Len(t, fx.dev.Draws, 1)

	model, _ := fx.dev.Written("model")
	assert.Equal(t, visible.Transform().ModelMatrix(), model)
}

func TestObjectRendererWithoutCulling(t *testing.T) {
	fx := newFixture()
	fx.scene.AddNode(scene.NewCube(fx.res, "far", mgl32.Vec3{0, 0, -1000}))
	r := fx.objectRenderer()
	r.Cull = false
	rep := r.Render(fx.frame())
	assert.Equal(t, 1, rep.Drawn)
	assert.Equal(t, 0, rep.Culled)
}

func TestObjectRendererCountsUnloadedMeshesAsSkipped(t *testing.T) {
	fx := newFixture()
	cube := scene.NewCube(fx.res, "cube", mgl32.Vec3{})
	broken := scene.NewGameObject("broken", fx.res.Meshes.LoadFile("meshes/missing.glb"),
		scene.DefaultMaterial(), r3d.NewTransform(mgl32.Vec3{1, 0, 0}))
	fx.scene.AddNode(cube, broken)

	rep := fx.objectRenderer().Render(fx.frame())
	require.NoError(t, rep.Err)
	assert.Equal(t, 1, rep.Drawn)
	assert.Equal(t, 1, rep.Skipped)
	assert.Len(t, fx.dev.Draws, 1)
	assert.Contains(t, rep.String(), "1 skipped")
}

func TestLightsWrittenBeforeDraws(t *testing.T) {
	fx := newFixture()
	fx.scene.AddNode(scene.NewCube(fx.res, "first", mgl32.Vec3{}))
	p0, err := scene.NewPointLight("p0", 0, mgl32.Vec3{1, 1, 1})
	require.NoError(t, err)
	p2, err := scene.NewPointLight("p2", 2, mgl32.Vec3{2, 2, 2})
	require.NoError(t, err)
	fx.scene.AddNode(p0, scene.NewCube(fx.res, "second", mgl32.Vec3{1, 0, 0}), p2)
	fx.scene.AddNode(scene.NewSpotLight("spot", mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}))
	fx.scene.AddNode(scene.NewDirectionalLight("sun", mgl32.Vec3{0, -1, 0}))

	rep := fx.objectRenderer().Render(fx.frame())
	require.False(t, rep.Faulted(), rep.Err)
	assert.Equal(t, 2, rep.Drawn)

	firstDraw := -1
	lastLight := -1
	for i, entry := range fx.dev.Log {
		switch {
		case entry == "draw" && firstDraw < 0:
			firstDraw = i
		case strings.HasPrefix(entry, "uniform:pointLights"),
			strings.HasPrefix(entry, "uniform:dirLight"),
			strings.HasPrefix(entry, "uniform:spotLight"):
			lastLight = i
		}
	}
	require.GreaterOrEqual(t, firstDraw, 0)
	assert.Less(t, lastLight, firstDraw)

	pos, ok := fx.dev.Written("pointLights[2].position")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, pos)
	count, _ := fx.dev.Written("pointLightCount")
	assert.Equal(t, int32(2), count)
	viewPos, _ := fx.dev.Written("viewPos")
	assert.Equal(t, mgl32.Vec3{0, 0, 3}, viewPos)
}

func TestDuplicatePointLightIndexSkipped(t *testing.T) {
	fx := newFixture()
	a, _ := scene.NewPointLight("a", 1, mgl32.Vec3{1, 0, 0})
	b, _ := scene.NewPointLight("b", 1, mgl32.Vec3{5, 0, 0})
	fx.scene.AddNode(a, b)

	lights := Lights(fx.scene)
	require.Len(t, lights, 1)
	assert.Same(t, a, lights[0])

	fx.objectRenderer().Render(fx.frame())
	pos, _ := fx.dev.Written("pointLights[1].position")
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, pos)
}

func TestMaterialShaderPrepared(t *testing.T) {
	fx := newFixture()
	alt := fx.res.Shaders.LoadSource("alt", lightingVertex, lightingFragment)
	cube := scene.NewCube(fx.res, "cube", mgl32.Vec3{})
	cube.Material.Shader = alt
	fx.scene.AddNode(scene.NewDirectionalLight("sun", mgl32.Vec3{0, -1, 0}), cube)

	rep := fx.objectRenderer().Render(fx.frame())
	require.False(t, rep.Faulted())
	require.Len(t, fx.dev.Draws, 1)
	assert.Equal(t, alt.Program, fx.dev.Draws[0].Program)

	var altLight bool
	for _, u := range fx.dev.Uniforms {
		if u.Program == alt.Program && u.Name == "dirLight.direction" {
			altLight = true
		}
	}
	assert.True(t, altLight)
}

func TestObjectRendererFaults(t *testing.T) {
	fx := newFixture()
	broken := scene.NewGameObject("broken", nil, scene.DefaultMaterial(), r3d.NewTransform(mgl32.Vec3{}))
	fx.scene.AddNode(broken, scene.NewCube(fx.res, "after", mgl32.Vec3{}))

	rep := fx.objectRenderer().Render(fx.frame())
	assert.True(t, rep.Faulted())
	assert.Contains(t, rep.Err.Error(), "broken")
	assert.Empty(t, fx.dev.Draws, "pass is abandoned at the first failure")
	assert.Contains(t, rep.String(), "faulted")
}

func TestObjectRendererRecoversPanic(t *testing.T) {
	fx := newFixture()
	fx.dev.PanicOnDraw = true
	fx.scene.AddNode(scene.NewCube(fx.res, "cube", mgl32.Vec3{}))

	var rep Report
	assert.NotPanics(t, func() { rep = fx.objectRenderer().Render(fx.frame()) })
	assert.True(t, rep.Faulted())
	assert.Equal(t, "objects", rep.Renderer)

	fx.dev.PanicOnDraw = false
	rep = fx.objectRenderer().Render(fx.frame())
	assert.False(t, rep.Faulted(), "next frame renders normally")
}

func TestLampRenderer(t *testing.T) {
	fx := newFixture()
	p0, _ := scene.NewPointLight("p0", 0, mgl32.Vec3{1, 0, 0})
	p1, _ := scene.NewPointLight("p1", 1, mgl32.Vec3{0, 0, -1000})
	fx.scene.AddNode(p0, p1, scene.NewDirectionalLight("sun", mgl32.Vec3{0, -1, 0}))
	fx.scene.AddNode(scene.NewCube(fx.res, "cube", mgl32.Vec3{}))

	r := NewLampRenderer(fx.res.Shaders.LoadSource("lamp", lampSource, "void main() {}"), fx.res.Meshes.Primitive(resources.MeshCube))
	rep := r.Render(fx.frame())
	require.False(t, rep.Faulted())
	assert.Equal(t, 1, rep.Drawn)
	assert.Equal(t, 1, rep.Culled)
	require.Len(t, fx.dev.Draws, 1)

	model, _ := fx.dev.Written("model")
	expected := mgl32.Translate3D(1, 0, 0).Mul4(mgl32.Scale3D(0.2, 0.2, 0.2))
	assert.True(t, expected.ApproxEqual(model.(mgl32.Mat4)))
}

func TestUIRendererTogglesDepth(t *testing.T) {
	fx := newFixture()
	quad := fx.res.Meshes.Primitive(resources.MeshQuad)
	e := scene.NewUIElement("crosshair", quad, nil, r3d.NewTransform2D(mgl32.Vec2{0.1, 0.2}, mgl32.Vec2{0.05, 0.05}))
	fx.scene.AddUIElement(e, scene.NewUIElement("second", quad, nil, r3d.NewTransform2D(mgl32.Vec2{}, mgl32.Vec2{1, 1})))

	rep := NewUIRenderer(fx.res.Shaders.LoadSource("ui", uiSource, "void main() {}")).Render(fx.frame())
	require.False(t, rep.Faulted())
	assert.Equal(t, 2, rep.Drawn)
	assert.Equal(t, []bool{false, true}, fx.dev.DepthCalls)
	require.Len(t, fx.dev.Draws, 2)
	for _, d := range fx.dev.Draws {
		assert.True(t, d.Indexed)
		assert.Equal(t, int32(6), d.Count)
		assert.Equal(t, quad.VAO, d.VAO)
	}
	assert.Contains(t, fx.dev.WrittenNames(), "rotation")
}

func TestUIRendererRestoresDepthOnPanic(t *testing.T) {
	fx := newFixture()
	fx.dev.PanicOnDraw = true
	fx.scene.AddUIElement(scene.NewUIElement("e", fx.res.Meshes.Primitive(resources.MeshQuad), nil,
		r3d.NewTransform2D(mgl32.Vec2{}, mgl32.Vec2{1, 1})))

	rep := NewUIRenderer(fx.res.Shaders.LoadSource("ui", uiSource, "void main() {}")).Render(fx.frame())
	assert.True(t, rep.Faulted())
	assert.True(t, fx.dev.DepthTest)
}
