package r3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	NearPlane = 0.01
	FarPlane  = 100.0

	MaxPitch = 89.0
	MinFov   = 1.0
	MaxFov   = 90.0

	DefaultYaw         = -90.0
	DefaultFov         = 45.0
	DefaultSensitivity = 0.1
)

type Camera interface {
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
}

type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
	Up
	Down
)

// CameraView is a free-fly camera driven by Euler angles.
// Angles are kept in degrees; the basis is rebuilt on every orientation change.
type CameraView struct {
	Position    mgl32.Vec3
	WorldUp     mgl32.Vec3
	AspectRatio float32
	Sensitivity float32

	pitch, yaw, fov float32

	front, right, up mgl32.Vec3

	mouseSeen    bool
	lastX, lastY float64
}

func NewCameraView(position mgl32.Vec3, aspect float32) *CameraView {
	c := &CameraView{
		Position:    position,
		WorldUp:     mgl32.Vec3{0, 1, 0},
		AspectRatio: aspect,
		Sensitivity: DefaultSensitivity,
		yaw:         DefaultYaw,
		fov:         DefaultFov,
	}
	c.updateVectors()
	return c
}

func (c *CameraView) Pitch() float32 { return c.pitch }
func (c *CameraView) Yaw() float32   { return c.yaw }
func (c *CameraView) Fov() float32   { return c.fov }

func (c *CameraView) Front() mgl32.Vec3 { return c.front }
func (c *CameraView) Right() mgl32.Vec3 { return c.right }
func (c *CameraView) Up() mgl32.Vec3    { return c.up }

func (c *CameraView) SetPitch(deg float32) {
	c.pitch = mgl32.Clamp(deg, -MaxPitch, MaxPitch)
	c.updateVectors()
}

func (c *CameraView) SetYaw(deg float32) {
	c.yaw = deg
	c.updateVectors()
}

func (c *CameraView) SetFov(deg float32) {
	c.fov = mgl32.Clamp(deg, MinFov, MaxFov)
}

// Zoom applies a scroll delta: scrolling up narrows the field of view.
func (c *CameraView) Zoom(delta float32) {
	c.SetFov(c.fov - delta)
}

func (c *CameraView) updateVectors() {
	pitch := float64(mgl32.DegToRad(c.pitch))
	yaw := float64(mgl32.DegToRad(c.yaw))
	c.front = mgl32.Vec3{
		float32(math.Cos(pitch) * math.Cos(yaw)),
		float32(math.Sin(pitch)),
		float32(math.Cos(pitch) * math.Sin(yaw)),
	}.Normalize()
	c.right = c.front.Cross(c.WorldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

func (c *CameraView) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.front), c.up)
}

func (c *CameraView) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.fov), c.AspectRatio, NearPlane, FarPlane)
}

func (c *CameraView) FrustumPlanes() Frustum {
	return FrustumFromMatrix(c.ProjectionMatrix().Mul4(c.ViewMatrix()))
}

// UpdateMousePosition turns the camera by the cursor delta since the last call.
// The first call only records the position so the view does not jump.
// Screen Y grows downward, so moving the mouse up raises the pitch.
func (c *CameraView) UpdateMousePosition(x, y float64) {
	if !c.mouseSeen {
		c.mouseSeen = true
		c.lastX, c.lastY = x, y
		return
	}
	dx := float32(x-c.lastX) * c.Sensitivity
	dy := float32(y-c.lastY) * c.Sensitivity
	c.lastX, c.lastY = x, y

	c.yaw += dx
	c.SetPitch(c.pitch - dy)
}

// ResetMouse forgets the last cursor position, e.g. after the cursor was released.
func (c *CameraView) ResetMouse() {
	c.mouseSeen = false
}

func (c *CameraView) Move(dir Direction, distance float32) {
	switch dir {
	case Forward:
		c.Position = c.Position.Add(c.front.Mul(distance))
	case Backward:
		c.Position = c.Position.Sub(c.front.Mul(distance))
	case Left:
		c.Position = c.Position.Sub(c.right.Mul(distance))
	case Right:
		c.Position = c.Position.Add(c.right.Mul(distance))
	case Up:
		c.Position = c.Position.Add(c.WorldUp.Mul(distance))
	case Down:
		c.Position = c.Position.Sub(c.WorldUp.Mul(distance))
	}
}

// Ray returns the world-space ray through normalized device coordinates (x, y in [-1,1]).
func (c *CameraView) Ray(ndcX, ndcY float32) (origin, dir mgl32.Vec3) {
	inv := c.ProjectionMatrix().Mul4(c.ViewMatrix()).Inv()
	near := mgl32.TransformCoordinate(mgl32.Vec3{ndcX, ndcY, -1}, inv)
	far := mgl32.TransformCoordinate(mgl32.Vec3{ndcX, ndcY, 1}, inv)
	return near, far.Sub(near).Normalize()
}
