package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/sharpscene/r3d"
	"github.com/mogaika/sharpscene/resources"
	"github.com/mogaika/sharpscene/scene"
)

// LampRenderer draws a small unlit marker at every point light.
type LampRenderer struct {
	Shader *resources.Shader
	Marker *resources.Mesh
}

func NewLampRenderer(shader *resources.Shader, marker *resources.Mesh) *LampRenderer {
	return &LampRenderer{Shader: shader, Marker: marker}
}

func (r *LampRenderer) Name() string { return "lamps" }

func (r *LampRenderer) Render(f *Frame) (rep Report) {
	rep.Renderer = r.Name()
	defer recoverPass(&rep)

	s := r.Shader
	s.Use()
	s.SetMat4("view", f.Camera.ViewMatrix())
	s.SetMat4("projection", f.Camera.ProjectionMatrix())

	frustum := f.Camera.FrustumPlanes()
	rep.Tasks = scene.Iterate(f.Scene.Root, func(n scene.Node) error {
		l, ok := n.(*scene.Light)
		if !ok {
			return nil
		}
		if _, ok := l.PointIndex(); !ok {
			return nil
		}
		if b := l.Bounds(); b != nil && !r3d.IsInViewFrustum(frustum, *b) {
			rep.Culled++
			return nil
		}
		t := l.Transform()
		model := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
			Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
		s.SetMat4("model", model)
		s.SetVec3("color", l.Diffuse)
		r.Marker.Draw(f.Device)
		rep.Drawn++
		return nil
	})
	rep.Err = scene.FirstError(rep.Tasks)
	return rep
}
