package resources

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/sharpscene/gfx"
)

type face struct {
	normal, u, v mgl32.Vec3
}

// u x v == normal, so corners wind counter-clockwise seen from outside.
var cubeFaces = [6]face{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
}

var quadCorners = [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

func appendFace(dst []float32, f face, center mgl32.Vec3, uvScale float32) []float32 {
	var corners [4][]float32
	for i, c := range quadCorners {
		p := center.Add(f.u.Mul(c[0] * 0.5)).Add(f.v.Mul(c[1] * 0.5))
		corners[i] = []float32{
			p[0], p[1], p[2],
			f.normal[0], f.normal[1], f.normal[2],
			(c[0] + 1) / 2 * uvScale, (c[1] + 1) / 2 * uvScale,
		}
	}
	for _, i := range [6]int{0, 1, 2, 2, 3, 0} {
		dst = append(dst, corners[i]...)
	}
	return dst
}

// CubeData is a unit cube centered at the origin, 36 non-indexed vertices.
func CubeData() gfx.MeshData {
	vertices := make([]float32, 0, 36*8)
	for _, f := range cubeFaces {
		vertices = appendFace(vertices, f, f.normal.Mul(0.5), 1)
	}
	return gfx.MeshData{Vertices: vertices, Layout: gfx.LayoutPosNormalUV}
}

// PlaneData is a unit square in the XZ plane facing +Y.
func PlaneData() gfx.MeshData {
	return TiledPlaneData(1)
}

// TiledPlaneData repeats the texture `tiles` times along each side.
func TiledPlaneData(tiles float32) gfx.MeshData {
	vertices := appendFace(nil, cubeFaces[2], mgl32.Vec3{}, tiles)
	return gfx.MeshData{Vertices: vertices, Layout: gfx.LayoutPosNormalUV}
}

// QuadData is an indexed unit quad in the XY plane for screen-space drawing.
func QuadData() gfx.MeshData {
	return gfx.MeshData{
		Vertices: []float32{
			0.5, 0.5, 0, 1, 1,
			0.5, -0.5, 0, 1, 0,
			-0.5, -0.5, 0, 0, 0,
			-0.5, 0.5, 0, 0, 1,
		},
		Indices: []uint32{0, 1, 3, 1, 2, 3},
		Layout:  gfx.LayoutPosUV,
	}
}
