package render

import (
	"github.com/pkg/errors"

	"github.com/mogaika/sharpscene/resources"
	"github.com/mogaika/sharpscene/scene"
)

// UIRenderer draws the scene's UI elements as screen-space quads with the
// depth test disabled.
type UIRenderer struct {
	Shader *resources.Shader
}

func NewUIRenderer(shader *resources.Shader) *UIRenderer {
	return &UIRenderer{Shader: shader}
}

func (r *UIRenderer) Name() string { return "ui" }

func (r *UIRenderer) Render(f *Frame) (rep Report) {
	rep.Renderer = r.Name()
	defer recoverPass(&rep)

	f.Device.SetDepthTest(false)
	defer f.Device.SetDepthTest(true)

	s := r.Shader
	s.Use()
	s.SetInt("image", 0)
	for _, e := range f.Scene.UIElements() {
		task := scene.Task{Node: e}
		if e.Mesh == nil {
			task.Err = errors.Errorf("ui element %q has no mesh", e.Name)
			rep.Tasks = append(rep.Tasks, task)
			break
		}
		if e.Texture.Valid() {
			f.Device.BindTexture(0, e.Texture.Handle)
		}
		s.SetVec3("position", e.Transform.Position.Vec3(0))
		s.SetVec3("size", e.Transform.Scale.Vec3(1))
		s.SetFloat("rotation", e.Transform.Rotation)
		s.SetVec4("color", e.Color)
		e.Mesh.Draw(f.Device)
		rep.Drawn++
		rep.Tasks = append(rep.Tasks, task)
	}
	rep.Err = scene.FirstError(rep.Tasks)
	return rep
}
