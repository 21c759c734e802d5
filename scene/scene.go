package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/sharpscene/r3d"
	"github.com/mogaika/sharpscene/resources"
)

// UIElement is a screen-space quad. UI elements live in Scene's own list,
// outside the 3D hierarchy.
type UIElement struct {
	SceneNode

	Transform r3d.Transform2D
	Mesh      *resources.Mesh
	Texture   *resources.Texture
	Color     mgl32.Vec4
}

func NewUIElement(name string, mesh *resources.Mesh, texture *resources.Texture, t r3d.Transform2D) *UIElement {
	return &UIElement{
		SceneNode: SceneNode{Name: name, id: NewNodeID()},
		Transform: t,
		Mesh:      mesh,
		Texture:   texture,
		Color:     mgl32.Vec4{1, 1, 1, 1},
	}
}

// Scene owns the node tree and the UI list. The active element is held by
// id, so removing a node clears the selection implicitly.
type Scene struct {
	Name string
	Root *SceneNode

	ui     []*UIElement
	active NodeID
}

func New(name string) *Scene {
	return &Scene{Name: name, Root: NewSceneNode("root")}
}

// AddNode attaches nodes under the root.
func (s *Scene) AddNode(nodes ...Node) {
	s.Root.AddChild(nodes...)
}

// RemoveNode detaches node from wherever it is in the tree.
func (s *Scene) RemoveNode(node Node) bool {
	if node == nil {
		return false
	}
	removed := false
	Walk(s.Root, func(n Node) bool {
		if removed {
			return false
		}
		if n.Base().RemoveChild(node) {
			removed = true
			return false
		}
		return true
	})
	return removed
}

// Nodes returns the top-level nodes.
func (s *Scene) Nodes() []Node { return s.Root.Children() }

// GetNode returns the first node named name in pre-order over the
// top-level nodes, or nil.
func (s *Scene) GetNode(name string) Node {
	var found Node
	for _, top := range s.Root.children {
		Walk(top, func(n Node) bool {
			if found != nil {
				return false
			}
			if n.Base().Name == name {
				found = n
				return false
			}
			return true
		})
		if found != nil {
			break
		}
	}
	return found
}

// FindByID looks the id up in the tree and the UI list.
func (s *Scene) FindByID(id NodeID) Node {
	if id.IsZero() {
		return nil
	}
	var found Node
	Walk(s.Root, func(n Node) bool {
		if found != nil {
			return false
		}
		if n.Base().id == id {
			found = n
		}
		return found == nil
	})
	if found != nil {
		return found
	}
	for _, e := range s.ui {
		if e.id == id {
			return e
		}
	}
	return nil
}

func (s *Scene) AddUIElement(elements ...*UIElement) {
	s.ui = append(s.ui, elements...)
}

func (s *Scene) RemoveUIElement(e *UIElement) bool {
	for i, el := range s.ui {
		if el == e {
			s.ui = append(s.ui[:i:i], s.ui[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Scene) UIElements() []*UIElement {
	return append([]*UIElement(nil), s.ui...)
}

// SetActive selects node; nil clears the selection.
func (s *Scene) SetActive(node Node) {
	if node == nil {
		s.active = NodeID{}
		return
	}
	s.active = node.Base().ID()
}

// Active returns the selected node, or nil when nothing is selected or the
// selected node is no longer part of the scene.
func (s *Scene) Active() Node {
	return s.FindByID(s.active)
}

// Objects lists every GameObject-based node, lights included, in pre-order.
func (s *Scene) Objects() []Object {
	return ObjectsOfType[Object](s.Root)
}

func (s *Scene) Lights() []*Light {
	return ObjectsOfType[*Light](s.Root)
}
