package r3d

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Plane in Hessian form. A point is inside when dot(Normal, p) + D >= 0.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

func (p Plane) DistanceToPoint(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

type Frustum [6]Plane

// FrustumFromMatrix extracts normalized clip planes from a projection*view matrix
// (Gribb/Hartmann, rows of the column-vector matrix).
func FrustumFromMatrix(m mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)

	var f Frustum
	f[PlaneLeft] = normalizePlane(r3.Add(r0))
	f[PlaneRight] = normalizePlane(r3.Sub(r0))
	f[PlaneBottom] = normalizePlane(r3.Add(r1))
	f[PlaneTop] = normalizePlane(r3.Sub(r1))
	f[PlaneNear] = normalizePlane(r3.Add(r2))
	f[PlaneFar] = normalizePlane(r3.Sub(r2))
	return f
}

func normalizePlane(v mgl32.Vec4) Plane {
	n := v.Vec3()
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v.W() / l}
}

// IsInViewFrustum rejects a box only when both its Min and Max corners lie
// behind the same plane. The other six corners are not tested, so boxes
// straddling a plane edge may be kept.
func IsInViewFrustum(f Frustum, box BoundingBox) bool {
	for _, p := range f {
		if p.DistanceToPoint(box.Min) < 0 && p.DistanceToPoint(box.Max) < 0 {
			return false
		}
	}
	return true
}
