package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/sharpscene/r3d"
	"github.com/mogaika/sharpscene/resources"
)

// MaxPointLights is the size of the pointLights array in the lighting shader.
const MaxPointLights = 4

var ErrPointLightIndex = errors.New("point light index out of range")

// LightKind is one of Directional, Point or Spot.
type LightKind interface {
	kindName() string
	apply(s *resources.Shader, l *Light)
}

type Directional struct {
	Direction mgl32.Vec3
}

type Point struct {
	// Index is the slot in the shader's pointLights array.
	Index     int
	Constant  float32
	Linear    float32
	Quadratic float32
}

// Spot cut-offs are cosines of the cone half-angles.
type Spot struct {
	Direction   mgl32.Vec3
	CutOff      float32
	OuterCutOff float32
	Constant    float32
	Linear      float32
	Quadratic   float32
}

func (Directional) kindName() string { return "directional" }
func (Point) kindName() string       { return "point" }
func (Spot) kindName() string        { return "spot" }

func (k Directional) apply(s *resources.Shader, l *Light) {
	s.SetVec3("dirLight.direction", k.Direction)
	l.applyColors(s, "dirLight.")
}

func (k Point) apply(s *resources.Shader, l *Light) {
	prefix := PointLightUniform(k.Index, "")
	s.SetVec3(prefix+"position", l.transform.Position)
	l.applyColors(s, prefix)
	s.SetFloat(prefix+"constant", k.Constant)
	s.SetFloat(prefix+"linear", k.Linear)
	s.SetFloat(prefix+"quadratic", k.Quadratic)
}

func (k Spot) apply(s *resources.Shader, l *Light) {
	s.SetVec3("spotLight.position", l.transform.Position)
	s.SetVec3("spotLight.direction", k.Direction)
	s.SetFloat("spotLight.cutOff", k.CutOff)
	s.SetFloat("spotLight.outerCutOff", k.OuterCutOff)
	l.applyColors(s, "spotLight.")
	s.SetFloat("spotLight.constant", k.Constant)
	s.SetFloat("spotLight.linear", k.Linear)
	s.SetFloat("spotLight.quadratic", k.Quadratic)
}

// PointLightUniform formats the uniform name of a pointLights array member.
func PointLightUniform(index int, field string) string {
	return fmt.Sprintf("pointLights[%d].%s", index, field)
}

// Light is a GameObject that feeds the lighting shader instead of drawing
// itself in the object pass.
type Light struct {
	GameObject

	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3
	Kind     LightKind
}

var (
	defaultAmbient  = mgl32.Vec3{0.05, 0.05, 0.05}
	defaultDiffuse  = mgl32.Vec3{0.8, 0.8, 0.8}
	defaultSpecular = mgl32.Vec3{1, 1, 1}
	lampScale       = mgl32.Vec3{0.2, 0.2, 0.2}
)

func newLight(name string, position mgl32.Vec3, kind LightKind) *Light {
	l := &Light{
		GameObject: GameObject{SceneNode: SceneNode{Name: name, id: NewNodeID()}},
		Ambient:    defaultAmbient,
		Diffuse:    defaultDiffuse,
		Specular:   defaultSpecular,
		Kind:       kind,
	}
	l.SetTransform(r3d.NewTransform(position).WithScale(lampScale))
	return l
}

func NewDirectionalLight(name string, direction mgl32.Vec3) *Light {
	l := newLight(name, mgl32.Vec3{}, Directional{Direction: direction})
	l.Ambient = mgl32.Vec3{0.2, 0.2, 0.2}
	l.Diffuse = mgl32.Vec3{0.5, 0.5, 0.5}
	return l
}

// NewPointLight fails when index does not fit the shader's light array.
func NewPointLight(name string, index int, position mgl32.Vec3) (*Light, error) {
	if index < 0 || index >= MaxPointLights {
		return nil, errors.Wrapf(ErrPointLightIndex, "index %d, capacity %d", index, MaxPointLights)
	}
	return newLight(name, position, Point{
		Index:     index,
		Constant:  1,
		Linear:    0.09,
		Quadratic: 0.032,
	}), nil
}

func NewSpotLight(name string, position, direction mgl32.Vec3) *Light {
	l := newLight(name, position, Spot{
		Direction:   direction,
		CutOff:      cosDeg(12.5),
		OuterCutOff: cosDeg(15),
		Constant:    1,
		Linear:      0.09,
		Quadratic:   0.032,
	})
	l.Ambient = mgl32.Vec3{}
	return l
}

func cosDeg(deg float32) float32 {
	return float32(math.Cos(float64(mgl32.DegToRad(deg))))
}

func (l *Light) applyColors(s *resources.Shader, prefix string) {
	s.SetVec3(prefix+"ambient", l.Ambient)
	s.SetVec3(prefix+"diffuse", l.Diffuse)
	s.SetVec3(prefix+"specular", l.Specular)
}

// Apply writes this light's uniforms into s.
func (l *Light) Apply(s *resources.Shader) {
	if l.Kind == nil {
		return
	}
	l.Kind.apply(s, l)
}

// PointIndex returns the shader slot of a point light.
func (l *Light) PointIndex() (int, bool) {
	if p, ok := l.Kind.(Point); ok {
		return p.Index, true
	}
	return 0, false
}

func (l *Light) KindName() string {
	if l.Kind == nil {
		return ""
	}
	return l.Kind.kindName()
}

// Render draws nothing: lights only contribute uniforms to the object pass.
func (l *Light) Render(rc *RenderContext) error { return nil }
