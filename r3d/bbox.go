package r3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BoundingBox is an axis-aligned box in world space.
type BoundingBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// CalculateBoundingBox derives the box as position ± scale/2.
// Rotation is ignored, so the box only fits an unrotated object.
// Negative scale components are taken by magnitude to keep Min <= Max.
func CalculateBoundingBox(t Transform) BoundingBox {
	half := mgl32.Vec3{
		mgl32.Abs(t.Scale.X()) / 2,
		mgl32.Abs(t.Scale.Y()) / 2,
		mgl32.Abs(t.Scale.Z()) / 2,
	}
	return BoundingBox{
		Min: t.Position.Sub(half),
		Max: t.Position.Add(half),
	}
}

func (b BoundingBox) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

func (b BoundingBox) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b BoundingBox) Contains(p mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// IntersectRay returns the distance along dir to the first hit (slab test).
func (b BoundingBox) IntersectRay(origin, dir mgl32.Vec3) (float32, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)
	for i := 0; i < 3; i++ {
		o, d := float64(origin[i]), float64(dir[i])
		lo, hi := float64(b.Min[i]), float64(b.Max[i])
		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return 0, true
	}
	return float32(tmin), true
}
