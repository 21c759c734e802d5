package inspect

import (
	"github.com/mogaika/sharpscene/r3d"
	"github.com/mogaika/sharpscene/render"
	"github.com/mogaika/sharpscene/scene"
)

type BoundsInfo struct {
	Min [3]float32 `json:"min"`
	Max [3]float32 `json:"max"`
}

type NodeInfo struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Mesh     string      `json:"mesh,omitempty"`
	Light    string      `json:"light,omitempty"`
	Position *[3]float32 `json:"position,omitempty"`
	Scale    *[3]float32 `json:"scale,omitempty"`
	Bounds   *BoundsInfo `json:"bounds,omitempty"`
	Children []NodeInfo  `json:"children,omitempty"`
}

type SceneInfo struct {
	Name   string     `json:"name"`
	Active string     `json:"active,omitempty"`
	Nodes  []NodeInfo `json:"nodes"`
	UI     []NodeInfo `json:"ui"`
}

type CameraInfo struct {
	Position [3]float32 `json:"position"`
	Yaw      float32    `json:"yaw"`
	Pitch    float32    `json:"pitch"`
	Fov      float32    `json:"fov"`
}

type ReportInfo struct {
	Renderer string `json:"renderer"`
	Tasks    int    `json:"tasks"`
	Drawn    int    `json:"drawn"`
	Culled   int    `json:"culled"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

type StatsInfo struct {
	Frame   uint64       `json:"frame"`
	DeltaMs float64      `json:"deltaMs"`
	Camera  CameraInfo   `json:"camera"`
	Reports []ReportInfo `json:"reports"`
}

// Snapshot is an immutable copy of one frame's scene and pass results.
type Snapshot struct {
	Scene SceneInfo
	Stats StatsInfo

	nodes map[string]*NodeInfo
}

func (s *Snapshot) Node(id string) (*NodeInfo, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

func nodeType(n scene.Node) string {
	switch n.(type) {
	case *scene.Light:
		return "light"
	case *scene.UIElement:
		return "ui"
	case scene.Object:
		return "object"
	}
	return "node"
}

func vec(v [3]float32) *[3]float32 { return &v }

func describe(n scene.Node, index map[string]*NodeInfo) NodeInfo {
	base := n.Base()
	info := NodeInfo{ID: base.ID().String(), Name: base.Name, Type: nodeType(n)}

	switch v := n.(type) {
	case *scene.UIElement:
		p, s := v.Transform.Position, v.Transform.Scale
		info.Position = vec([3]float32{p[0], p[1], 0})
		info.Scale = vec([3]float32{s[0], s[1], 1})
		if v.Mesh != nil {
			info.Mesh = v.Mesh.Key
		}
	case scene.Object:
		g := v.Object()
		t := g.Transform()
		info.Position = vec(t.Position)
		info.Scale = vec(t.Scale)
		if g.Mesh != nil {
			info.Mesh = g.Mesh.Key
		}
		if b := g.Bounds(); b != nil {
			info.Bounds = &BoundsInfo{Min: b.Min, Max: b.Max}
		}
		if l, ok := n.(*scene.Light); ok {
			info.Light = l.KindName()
		}
	}

	for _, c := range base.Children() {
		info.Children = append(info.Children, describe(c, index))
	}
	stored := info
	index[info.ID] = &stored
	return info
}

func cameraInfo(c *r3d.CameraView) CameraInfo {
	if c == nil {
		return CameraInfo{}
	}
	return CameraInfo{Position: c.Position, Yaw: c.Yaw(), Pitch: c.Pitch(), Fov: c.Fov()}
}

// Capture copies what the inspector serves out of a rendered frame. It must
// run on the render thread.
func Capture(f *render.Frame) *Snapshot {
	snap := &Snapshot{
		Stats: StatsInfo{
			Frame:   f.Number,
			DeltaMs: float64(f.Delta.Microseconds()) / 1000,
			Camera:  cameraInfo(f.Camera),
			Reports: []ReportInfo{},
		},
		nodes: make(map[string]*NodeInfo),
	}
	for _, r := range f.Reports {
		ri := ReportInfo{Renderer: r.Renderer, Tasks: len(r.Tasks), Drawn: r.Drawn, Culled: r.Culled, Skipped: r.Skipped}
		if r.Err != nil {
			ri.Error = r.Err.Error()
		}
		snap.Stats.Reports = append(snap.Stats.Reports, ri)
	}

	s := f.Scene
	if s == nil {
		return snap
	}
	snap.Scene = SceneInfo{Name: s.Name, Nodes: []NodeInfo{}, UI: []NodeInfo{}}
	if active := s.Active(); active != nil {
		snap.Scene.Active = active.Base().ID().String()
	}
	for _, n := range s.Nodes() {
		snap.Scene.Nodes = append(snap.Scene.Nodes, describe(n, snap.nodes))
	}
	for _, e := range s.UIElements() {
		snap.Scene.UI = append(snap.Scene.UI, describe(e, snap.nodes))
	}
	return snap
}
