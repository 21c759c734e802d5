package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/sharpscene/gfx"
	"github.com/mogaika/sharpscene/logx"
	"github.com/mogaika/sharpscene/r3d"
	"github.com/mogaika/sharpscene/resources"
)

// RenderContext is what a renderer hands to each drawable node.
type RenderContext struct {
	Device gfx.Device
	Shader *resources.Shader
	Camera *r3d.CameraView
}

// Renderable nodes issue their own draw calls. Plain SceneNodes are not
// renderable.
type Renderable interface {
	Render(rc *RenderContext) error
}

// Object matches GameObject and every type embedding it.
type Object interface {
	Node
	Object() *GameObject
}

type Material struct {
	// Shader overrides the pass shader when set.
	Shader        *resources.Shader
	Diffuse       *resources.Texture
	Specular      *resources.Texture
	SpecularColor mgl32.Vec3
	Shininess     float32
}

func DefaultMaterial() Material {
	return Material{SpecularColor: mgl32.Vec3{0.5, 0.5, 0.5}, Shininess: 32}
}

// Apply binds the diffuse and specular maps to texture units 0 and 1 and
// writes the material uniforms. A missing map unbinds its unit.
func (m *Material) Apply(dev gfx.Device, s *resources.Shader) {
	dev.BindTexture(0, textureHandle(m.Diffuse))
	dev.BindTexture(1, textureHandle(m.Specular))
	s.SetInt("material.diffuse", 0)
	s.SetInt("material.specular", 1)
	s.SetVec3("material.specularColor", m.SpecularColor)
	s.SetFloat("material.shininess", m.Shininess)
}

func textureHandle(t *resources.Texture) gfx.Texture {
	if t.Valid() {
		return t.Handle
	}
	return 0
}

// GameObject is a drawable node. Its bounding box follows every transform
// change made through the setters.
type GameObject struct {
	SceneNode

	Mesh     *resources.Mesh
	Material Material

	transform r3d.Transform
	bounds    *r3d.BoundingBox
}

func NewGameObject(name string, mesh *resources.Mesh, material Material, t r3d.Transform) *GameObject {
	g := &GameObject{
		SceneNode: SceneNode{Name: name, id: NewNodeID()},
		Mesh:      mesh,
		Material:  material,
	}
	g.SetTransform(t)
	return g
}

func (g *GameObject) Object() *GameObject { return g }

// Transform returns a copy; change it through SetTransform or the other setters.
func (g *GameObject) Transform() r3d.Transform { return g.transform }

func (g *GameObject) SetTransform(t r3d.Transform) {
	g.transform = t
	box := r3d.CalculateBoundingBox(t)
	g.bounds = &box
}

func (g *GameObject) SetPosition(p mgl32.Vec3) {
	t := g.transform
	t.Position = p
	g.SetTransform(t)
}

func (g *GameObject) SetScale(s mgl32.Vec3) {
	t := g.transform
	t.Scale = s
	g.SetTransform(t)
}

func (g *GameObject) SetRotation(axis mgl32.Vec3, angle float32) {
	g.SetTransform(g.transform.WithRotation(axis, angle))
}

// Bounds is nil until a transform has been set.
func (g *GameObject) Bounds() *r3d.BoundingBox { return g.bounds }

func (g *GameObject) Render(rc *RenderContext) error {
	if g.Mesh == nil {
		return errors.Errorf("object %q has no mesh", g.Name)
	}
	if !g.Mesh.Valid() {
		logx.Logger().Debug("skipping object with unloaded mesh", "object", g.Name, "mesh", g.Mesh.Key)
		return nil
	}
	g.Material.Apply(rc.Device, rc.Shader)
	rc.Shader.SetMat4("model", g.transform.ModelMatrix())
	g.Mesh.Draw(rc.Device)
	return nil
}
