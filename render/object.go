package render

import (
	"github.com/mogaika/sharpscene/logx"
	"github.com/mogaika/sharpscene/r3d"
	"github.com/mogaika/sharpscene/resources"
	"github.com/mogaika/sharpscene/scene"
)

// ObjectRenderer is the lit 3D pass. Every shader it uses receives the
// camera and all light uniforms before the first object drawn with it.
type ObjectRenderer struct {
	Shader *resources.Shader
	// Cull enables frustum culling against object bounding boxes.
	Cull bool
}

func NewObjectRenderer(shader *resources.Shader) *ObjectRenderer {
	return &ObjectRenderer{Shader: shader, Cull: true}
}

func (r *ObjectRenderer) Name() string { return "objects" }

// Lights returns the scene lights the pass feeds to the shader. A point
// light reusing an index already taken earlier in pre-order is dropped.
func Lights(s *scene.Scene) []*scene.Light {
	var lights []*scene.Light
	var used [scene.MaxPointLights]bool
	for _, l := range s.Lights() {
		if l.Kind == nil {
			continue
		}
		if idx, ok := l.PointIndex(); ok {
			if idx < 0 || idx >= scene.MaxPointLights {
				logx.Logger().Error("point light index out of range", "light", l.Name, "index", idx)
				continue
			}
			if used[idx] {
				logx.Logger().Error("duplicate point light index", "light", l.Name, "index", idx)
				continue
			}
			used[idx] = true
		}
		lights = append(lights, l)
	}
	return lights
}

func (r *ObjectRenderer) Render(f *Frame) (rep Report) {
	rep.Renderer = r.Name()
	defer recoverPass(&rep)

	f.Device.SetDepthTest(true)

	lights := Lights(f.Scene)
	pointLights := 0
	for _, l := range lights {
		if _, ok := l.PointIndex(); ok {
			pointLights++
		}
	}

	view := f.Camera.ViewMatrix()
	projection := f.Camera.ProjectionMatrix()
	prepared := make(map[*resources.Shader]bool)
	use := func(s *resources.Shader) {
		s.Use()
		if prepared[s] {
			return
		}
		prepared[s] = true
		s.SetMat4("view", view)
		s.SetMat4("projection", projection)
		s.SetVec3("viewPos", f.Camera.Position)
		s.SetInt("pointLightCount", int32(pointLights))
		for _, l := range lights {
			l.Apply(s)
		}
	}

	rc := &scene.RenderContext{Device: f.Device, Shader: r.Shader, Camera: f.Camera}
	use(rc.Shader)

	frustum := f.Camera.FrustumPlanes()
	rep.Tasks = scene.Iterate(f.Scene.Root, func(n scene.Node) error {
		if _, ok := n.(*scene.Light); ok {
			return nil
		}
		obj, ok := n.(scene.Object)
		if !ok {
			return nil
		}
		renderable, ok := n.(scene.Renderable)
		if !ok {
			return nil
		}

		g := obj.Object()
		if b := g.Bounds(); r.Cull && b != nil && !r3d.IsInViewFrustum(frustum, *b) {
			rep.Culled++
			logx.Logger().Debug("culled", "object", g.Name)
			return nil
		}

		shader := r.Shader
		if g.Material.Shader != nil {
			shader = g.Material.Shader
		}
		if shader != rc.Shader {
			rc.Shader = shader
			use(shader)
		}

		if err := renderable.Render(rc); err != nil {
			return err
		}
		if g.Mesh.Valid() {
			rep.Drawn++
		} else {
			rep.Skipped++
		}
		return nil
	})
	rep.Err = scene.FirstError(rep.Tasks)
	return rep
}
