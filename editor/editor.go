// Package editor layers scene editing actions over the frame loop through
// its PreRender hook: creating primitives, selecting, deleting and dumping
// nodes.
package editor

import (
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/sharpscene/logx"
	"github.com/mogaika/sharpscene/render"
	"github.com/mogaika/sharpscene/resources"
	"github.com/mogaika/sharpscene/scene"
	"github.com/mogaika/sharpscene/window"
)

// Renderer toggle keys.
var toggleKeys = map[window.Key]string{
	window.KeyF5: "objects",
	window.KeyF6: "lamps",
	window.KeyF7: "ui",
}

type Editor struct {
	// PlaceDistance is how far in front of the camera new objects appear.
	PlaceDistance float32
	// Output receives dumps.
	Output io.Writer

	win   *window.Window
	res   *resources.Services
	names NameGenerator
	block int
}

// Attach hooks a new editor into w.
func Attach(w *window.Window, res *resources.Services) *Editor {
	e := &Editor{
		PlaceDistance: 3,
		Output:        os.Stdout,
		win:           w,
		res:           res,
	}
	scene.Walk(w.Scene.Root, func(n scene.Node) bool {
		e.names.Reserve(n.Base().Name)
		return true
	})
	w.OnPreRender(e.preRender)
	return e
}

func (e *Editor) preRender(f *render.Frame) {
	in := e.win.Input()
	for _, k := range in.Pressed {
		e.handleKey(k)
	}
	for _, c := range in.Clicks {
		if c.Button != window.MouseLeft {
			continue
		}
		width, height := e.win.Host().WindowSize()
		e.Pick(c.X, c.Y, width, height)
	}
}

func (e *Editor) handleKey(k window.Key) {
	switch k {
	case window.KeyN:
		e.CreateCube()
	case window.KeyP:
		e.CreatePlane()
	case window.KeyB:
		if _, err := e.CreateBlock(e.nextBlock()); err != nil {
			logx.Logger().Error("failed to create block", "err", err)
		}
	case window.KeyDelete:
		e.DeleteActive()
	case window.KeyTab:
		e.SelectNext()
	case window.KeyF1:
		e.DumpActive()
	default:
		if name, ok := toggleKeys[k]; ok {
			e.win.Toggle(name)
			logx.Logger().Info("renderer toggled", "renderer", name, "enabled", e.win.Enabled(name))
		}
	}
}

func (e *Editor) nextBlock() scene.BlockType {
	types := scene.BlockTypes()
	b := types[e.block%len(types)]
	e.block++
	return b
}

func (e *Editor) placement() mgl32.Vec3 {
	cam := e.win.Camera
	return cam.Position.Add(cam.Front().Mul(e.PlaceDistance))
}

func (e *Editor) add(obj *scene.GameObject) {
	e.win.Scene.AddNode(obj)
	e.win.Scene.SetActive(obj)
	logx.Logger().Info("object created", "object", obj.Name, "position", obj.Transform().Position)
}

// CreateCube places a new cube in front of the camera and selects it.
func (e *Editor) CreateCube() *scene.GameObject {
	obj := scene.NewCube(e.res, e.names.Name("Cube"), e.placement())
	e.add(obj)
	return obj
}

func (e *Editor) CreatePlane() *scene.GameObject {
	obj := scene.NewPlane(e.res, e.names.Name("Plane"), e.placement(), 1)
	e.add(obj)
	return obj
}

func (e *Editor) CreateBlock(b scene.BlockType) (*scene.GameObject, error) {
	p := e.placement()
	obj, err := scene.NewBlock(e.res, b, mgl32.Vec3{mgl32.Round(p[0], 0), mgl32.Round(p[1], 0), mgl32.Round(p[2], 0)})
	if err != nil {
		return nil, err
	}
	obj.Name = e.names.Name(obj.Name)
	e.add(obj)
	return obj, nil
}

// DeleteActive removes the selected node and clears the selection.
func (e *Editor) DeleteActive() bool {
	s := e.win.Scene
	node := s.Active()
	if node == nil {
		return false
	}
	removed := false
	if ui, ok := node.(*scene.UIElement); ok {
		removed = s.RemoveUIElement(ui)
	} else {
		removed = s.RemoveNode(node)
	}
	s.SetActive(nil)
	logx.Logger().Info("node deleted", "node", node.Base().Name, "removed", removed)
	return removed
}

// SelectNext moves the selection to the next object in pre-order, wrapping.
func (e *Editor) SelectNext() scene.Node {
	s := e.win.Scene
	objects := s.Objects()
	if len(objects) == 0 {
		s.SetActive(nil)
		return nil
	}
	next := 0
	if active := s.Active(); active != nil {
		for i, o := range objects {
			if o.Base() == active.Base() {
				next = (i + 1) % len(objects)
				break
			}
		}
	}
	s.SetActive(objects[next])
	return objects[next]
}

// Pick selects the nearest object whose bounding box the view ray through
// the cursor hits. x, y and the size are in window units. A miss clears the
// selection.
func (e *Editor) Pick(x, y float64, width, height int) scene.Node {
	if width <= 0 || height <= 0 {
		return nil
	}
	ndcX := float32(2*x/float64(width) - 1)
	ndcY := float32(1 - 2*y/float64(height))
	origin, dir := e.win.Camera.Ray(ndcX, ndcY)

	var best scene.Node
	var bestDist float32
	for _, o := range e.win.Scene.Objects() {
		b := o.Object().Bounds()
		if b == nil {
			continue
		}
		if d, ok := b.IntersectRay(origin, dir); ok && (best == nil || d < bestDist) {
			best, bestDist = o, d
		}
	}
	e.win.Scene.SetActive(best)
	return best
}

// DumpActive writes a dump of the selected node to Output.
func (e *Editor) DumpActive() string {
	node := e.win.Scene.Active()
	if node == nil {
		return ""
	}
	dump := Dump(node)
	fmt.Fprintf(e.Output, "%s\n", dump)
	return dump
}
