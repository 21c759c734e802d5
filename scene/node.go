// Package scene holds the node hierarchy the renderers draw: plain nodes,
// game objects, lights and the parallel list of UI elements.
package scene

import (
	"github.com/google/uuid"
)

// NodeID identifies a node for the lifetime of the process and across saves.
type NodeID uuid.UUID

func NewNodeID() NodeID { return NodeID(uuid.New()) }

func ParseNodeID(s string) (NodeID, error) {
	id, err := uuid.Parse(s)
	return NodeID(id), err
}

func (id NodeID) String() string { return uuid.UUID(id).String() }

func (id NodeID) IsZero() bool { return id == NodeID{} }

// Node is anything that can live in the tree. Every node type embeds a
// SceneNode and exposes it through Base.
type Node interface {
	Base() *SceneNode
}

// SceneNode is the plain tree node. Its name is not required to be unique.
// A node owns its children; adding a node as its own descendant is a caller
// error and is not checked.
type SceneNode struct {
	Name string

	id       NodeID
	children []Node
}

func NewSceneNode(name string) *SceneNode {
	return &SceneNode{Name: name, id: NewNodeID()}
}

func (n *SceneNode) Base() *SceneNode { return n }

func (n *SceneNode) ID() NodeID {
	if n.id.IsZero() {
		n.id = NewNodeID()
	}
	return n.id
}

// Children returns a copy of the child list.
func (n *SceneNode) Children() []Node {
	return append([]Node(nil), n.children...)
}

func (n *SceneNode) ChildCount() int { return len(n.children) }

// NewChild creates an empty node, appends it and returns it.
func (n *SceneNode) NewChild(name string) *SceneNode {
	child := NewSceneNode(name)
	n.children = append(n.children, child)
	return child
}

// AddChild appends existing nodes and returns n for chaining.
func (n *SceneNode) AddChild(nodes ...Node) *SceneNode {
	for _, node := range nodes {
		if node != nil {
			n.children = append(n.children, node)
		}
	}
	return n
}

// RemoveChild detaches node by identity. Grandchildren stay attached to the
// removed node. Reports whether node was a direct child.
func (n *SceneNode) RemoveChild(node Node) bool {
	if node == nil {
		return false
	}
	target := node.Base()
	for i, c := range n.children {
		if c.Base() == target {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			return true
		}
	}
	return false
}

// Walk visits root and its descendants in pre-order. Returning false from fn
// skips the children of the current node.
func Walk(root Node, fn func(Node) bool) {
	if root == nil {
		return
	}
	if !fn(root) {
		return
	}
	for _, c := range root.Base().children {
		Walk(c, fn)
	}
}

// ObjectsOfType collects every node under root (root included) that has type
// T, in pre-order. A match does not stop the descent into its children.
// Matching is by dynamic type, so ObjectsOfType[*GameObject] skips a *Light
// even though Light embeds GameObject. Use ObjectsOfType[Object] to get every
// GameObject together with the types embedding it.
func ObjectsOfType[T any](root Node) []T {
	var out []T
	Walk(root, func(n Node) bool {
		if v, ok := n.(T); ok {
			out = append(out, v)
		}
		return true
	})
	return out
}

// Task records one node visited by Iterate.
type Task struct {
	Node Node
	Err  error
}

// Iterate runs action over root and its descendants in pre-order, one Task
// per visited node. It stops after the first failing action.
func Iterate(root Node, action func(Node) error) []Task {
	var tasks []Task
	var failed bool
	Walk(root, func(n Node) bool {
		if failed {
			return false
		}
		err := action(n)
		tasks = append(tasks, Task{Node: n, Err: err})
		failed = err != nil
		return !failed
	})
	return tasks
}

// FirstError returns the first failed task's error.
func FirstError(tasks []Task) error {
	for _, t := range tasks {
		if t.Err != nil {
			return t.Err
		}
	}
	return nil
}
