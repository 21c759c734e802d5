package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/sharpscene/logx"
	"github.com/mogaika/sharpscene/r3d"
	"github.com/mogaika/sharpscene/resources"
)

// Extension of saved scene files.
const Extension = ".sharpscene"

const (
	typeNode   = "node"
	typeObject = "object"
	typeLight  = "light"
)

type sceneFile struct {
	Name   string     `json:"name"`
	Active string     `json:"active,omitempty"`
	Nodes  []nodeFile `json:"nodes"`
	UI     []uiFile   `json:"ui,omitempty"`
}

type transformFile struct {
	Position mgl32.Vec3 `json:"position"`
	Scale    mgl32.Vec3 `json:"scale"`
	Axis     mgl32.Vec3 `json:"axis"`
	Angle    float32    `json:"angle"`
}

type materialFile struct {
	Diffuse       string     `json:"diffuse,omitempty"`
	Specular      string     `json:"specular,omitempty"`
	SpecularColor mgl32.Vec3 `json:"specularColor"`
	Shininess     float32    `json:"shininess"`
}

type lightFile struct {
	Kind        string     `json:"kind"`
	Ambient     mgl32.Vec3 `json:"ambient"`
	Diffuse     mgl32.Vec3 `json:"diffuse"`
	Specular    mgl32.Vec3 `json:"specular"`
	Direction   mgl32.Vec3 `json:"direction,omitempty"`
	Index       int        `json:"index,omitempty"`
	CutOff      float32    `json:"cutOff,omitempty"`
	OuterCutOff float32    `json:"outerCutOff,omitempty"`
	Constant    float32    `json:"constant,omitempty"`
	Linear      float32    `json:"linear,omitempty"`
	Quadratic   float32    `json:"quadratic,omitempty"`
}

type nodeFile struct {
	Type      string         `json:"type"`
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Mesh      string         `json:"mesh,omitempty"`
	Transform *transformFile `json:"transform,omitempty"`
	Material  *materialFile  `json:"material,omitempty"`
	Light     *lightFile     `json:"light,omitempty"`
	Children  []nodeFile     `json:"children,omitempty"`
}

type uiFile struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Mesh     string     `json:"mesh,omitempty"`
	Texture  string     `json:"texture,omitempty"`
	Position mgl32.Vec2 `json:"position"`
	Scale    mgl32.Vec2 `json:"scale"`
	Rotation float32    `json:"rotation"`
	Color    mgl32.Vec4 `json:"color"`
}

func meshKey(m *resources.Mesh) string {
	if m == nil {
		return ""
	}
	return m.Key
}

func textureKey(t *resources.Texture) string {
	if t == nil {
		return ""
	}
	return t.Key
}

func encodeTransform(t r3d.Transform) *transformFile {
	return &transformFile{Position: t.Position, Scale: t.Scale, Axis: t.Axis, Angle: t.Angle}
}

func encodeNode(n Node) nodeFile {
	base := n.Base()
	f := nodeFile{Type: typeNode, ID: base.ID().String(), Name: base.Name}

	switch v := n.(type) {
	case *Light:
		f.Type = typeLight
		f.Transform = encodeTransform(v.transform)
		lf := &lightFile{Kind: v.KindName(), Ambient: v.Ambient, Diffuse: v.Diffuse, Specular: v.Specular}
		switch k := v.Kind.(type) {
		case Directional:
			lf.Direction = k.Direction
		case Point:
			lf.Index = k.Index
			lf.Constant, lf.Linear, lf.Quadratic = k.Constant, k.Linear, k.Quadratic
		case Spot:
			lf.Direction = k.Direction
			lf.CutOff, lf.OuterCutOff = k.CutOff, k.OuterCutOff
			lf.Constant, lf.Linear, lf.Quadratic = k.Constant, k.Linear, k.Quadratic
		}
		f.Light = lf
	case Object:
		g := v.Object()
		f.Type = typeObject
		f.Mesh = meshKey(g.Mesh)
		f.Transform = encodeTransform(g.transform)
		f.Material = &materialFile{
			Diffuse:       textureKey(g.Material.Diffuse),
			Specular:      textureKey(g.Material.Specular),
			SpecularColor: g.Material.SpecularColor,
			Shininess:     g.Material.Shininess,
		}
	}

	for _, c := range base.children {
		f.Children = append(f.Children, encodeNode(c))
	}
	return f
}

// Encode serializes the scene to JSON.
func Encode(s *Scene) ([]byte, error) {
	f := sceneFile{Name: s.Name, Nodes: []nodeFile{}}
	if !s.active.IsZero() && s.Active() != nil {
		f.Active = s.active.String()
	}
	for _, n := range s.Root.children {
		f.Nodes = append(f.Nodes, encodeNode(n))
	}
	for _, e := range s.ui {
		f.UI = append(f.UI, uiFile{
			ID:       e.ID().String(),
			Name:     e.Name,
			Mesh:     meshKey(e.Mesh),
			Texture:  textureKey(e.Texture),
			Position: e.Transform.Position,
			Scale:    e.Transform.Scale,
			Rotation: e.Transform.Rotation,
			Color:    e.Color,
		})
	}
	data, err := json.MarshalIndent(&f, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal scene")
	}
	return data, nil
}

func decodeID(s string) NodeID {
	if id, err := ParseNodeID(s); err == nil {
		return id
	}
	return NewNodeID()
}

func decodeTransform(f *transformFile) r3d.Transform {
	if f == nil {
		return r3d.NewTransform(mgl32.Vec3{})
	}
	return r3d.Transform{Position: f.Position, Scale: f.Scale, Axis: f.Axis, Angle: f.Angle}
}

func decodeLight(f *nodeFile) (*Light, error) {
	lf := f.Light
	if lf == nil {
		return nil, errors.Errorf("light %q has no light data", f.Name)
	}
	var kind LightKind
	switch lf.Kind {
	case "directional":
		kind = Directional{Direction: lf.Direction}
	case "point":
		if lf.Index < 0 || lf.Index >= MaxPointLights {
			return nil, errors.Wrapf(ErrPointLightIndex, "light %q index %d", f.Name, lf.Index)
		}
		kind = Point{Index: lf.Index, Constant: lf.Constant, Linear: lf.Linear, Quadratic: lf.Quadratic}
	case "spot":
		kind = Spot{
			Direction: lf.Direction, CutOff: lf.CutOff, OuterCutOff: lf.OuterCutOff,
			Constant: lf.Constant, Linear: lf.Linear, Quadratic: lf.Quadratic,
		}
	default:
		return nil, errors.Errorf("light %q has unknown kind %q", f.Name, lf.Kind)
	}
	l := newLight(f.Name, mgl32.Vec3{}, kind)
	l.id = decodeID(f.ID)
	l.Ambient, l.Diffuse, l.Specular = lf.Ambient, lf.Diffuse, lf.Specular
	l.SetTransform(decodeTransform(f.Transform))
	return l, nil
}

func decodeNode(f *nodeFile, res *resources.Services) (Node, error) {
	var n Node
	switch f.Type {
	case typeNode, "":
		n = &SceneNode{Name: f.Name, id: decodeID(f.ID)}
	case typeObject:
		m := DefaultMaterial()
		if f.Material != nil {
			m.Diffuse = Texture(res, f.Material.Diffuse)
			m.Specular = Texture(res, f.Material.Specular)
			m.SpecularColor = f.Material.SpecularColor
			m.Shininess = f.Material.Shininess
		}
		g := NewGameObject(f.Name, Mesh(res, f.Mesh), m, decodeTransform(f.Transform))
		g.id = decodeID(f.ID)
		n = g
	case typeLight:
		l, err := decodeLight(f)
		if err != nil {
			return nil, err
		}
		n = l
	default:
		return nil, errors.Errorf("node %q has unknown type %q", f.Name, f.Type)
	}

	for i := range f.Children {
		child, err := decodeNode(&f.Children[i], res)
		if err != nil {
			return nil, err
		}
		n.Base().AddChild(child)
	}
	return n, nil
}

// Decode builds a scene from JSON, loading referenced meshes and textures
// through res.
func Decode(data []byte, res *resources.Services) (*Scene, error) {
	var f sceneFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "unmarshal scene")
	}
	s := New(f.Name)
	for i := range f.Nodes {
		n, err := decodeNode(&f.Nodes[i], res)
		if err != nil {
			return nil, err
		}
		s.AddNode(n)
	}
	for _, uf := range f.UI {
		e := NewUIElement(uf.Name, Mesh(res, uf.Mesh), Texture(res, uf.Texture), r3d.Transform2D{
			Position: uf.Position, Scale: uf.Scale, Rotation: uf.Rotation,
		})
		e.id = decodeID(uf.ID)
		e.Color = uf.Color
		s.AddUIElement(e)
	}
	if f.Active != "" {
		if id, err := ParseNodeID(f.Active); err == nil {
			s.active = id
		}
	}
	return s, nil
}

// Save writes the scene to path, adding the scene extension when path has none.
func Save(s *Scene, path string) (string, error) {
	if filepath.Ext(path) == "" {
		path += Extension
	}
	data, err := Encode(s)
	if err != nil {
		return path, err
	}
	if err := os.WriteFile(path, data, 0666); err != nil {
		return path, errors.Wrapf(err, "write scene %q", path)
	}
	logx.Logger().Info("scene saved", "scene", s.Name, "path", path)
	return path, nil
}

// LoadScene reads a saved scene. Any failure is logged and yields an empty
// scene named after the file.
func LoadScene(path string, res *resources.Services) (s *Scene) {
	name := filepath.Base(path)
	name = name[:len(name)-len(filepath.Ext(name))]
	defer func() {
		if r := recover(); r != nil {
			logx.Logger().Error("scene load panicked, using empty scene", "path", path, "panic", fmt.Sprint(r))
			s = New(name)
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		logx.Logger().Warn("failed to read scene, using empty scene", "path", path, "err", err)
		return New(name)
	}
	s, err = Decode(data, res)
	if err != nil {
		logx.Logger().Warn("failed to decode scene, using empty scene", "path", path, "err", err)
		return New(name)
	}
	logx.Logger().Info("scene loaded", "scene", s.Name, "path", path, "nodes", len(s.Root.children))
	return s
}
