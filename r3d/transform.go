package r3d

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is the spatial state of a scene object.
// Rotation is stored as axis + angle (radians); a zero axis or angle means no rotation.
type Transform struct {
	Position mgl32.Vec3
	Scale    mgl32.Vec3
	Axis     mgl32.Vec3
	Angle    float32
}

func NewTransform(position mgl32.Vec3) Transform {
	return Transform{
		Position: position,
		Scale:    mgl32.Vec3{1, 1, 1},
		Axis:     mgl32.Vec3{0, 1, 0},
	}
}

func (t Transform) WithScale(s mgl32.Vec3) Transform {
	t.Scale = s
	return t
}

func (t Transform) WithRotation(axis mgl32.Vec3, angle float32) Transform {
	t.Axis = axis
	t.Angle = angle
	return t
}

func (t Transform) Rotation() mgl32.Mat4 {
	if t.Angle == 0 || t.Axis.Len() == 0 {
		return mgl32.Ident4()
	}
	return mgl32.HomogRotate3D(t.Angle, t.Axis.Normalize())
}

// ModelMatrix scales, then rotates, then translates.
// Recomputed on every call.
func (t Transform) ModelMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.Rotation()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Transform2D is used by screen-space UI elements.
type Transform2D struct {
	Position mgl32.Vec2
	Scale    mgl32.Vec2
	Rotation float32 // radians
}

func NewTransform2D(position, scale mgl32.Vec2) Transform2D {
	return Transform2D{Position: position, Scale: scale}
}

func (t Transform2D) ModelMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), 0).
		Mul4(mgl32.HomogRotate3DZ(t.Rotation)).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), 1))
}
