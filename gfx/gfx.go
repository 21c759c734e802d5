// Package gfx is the narrow GPU interface the engine draws through.
// All calls must be made from the thread that owns the GPU context.
package gfx

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Program uint32
type Texture uint32
type VertexArray uint32

// Uniforms maps active uniform names to their locations.
type Uniforms map[string]int32

// Image is a decoded RGBA image with the first row at the bottom.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// VertexLayout lists the component count of each interleaved attribute,
// bound to consecutive attribute locations starting at 0.
type VertexLayout []int

var (
	LayoutPosNormalUV = VertexLayout{3, 3, 2}
	LayoutPosUV       = VertexLayout{3, 2}
	LayoutPos         = VertexLayout{3}
)

func (l VertexLayout) Stride() int {
	s := 0
	for _, c := range l {
		s += c
	}
	return s
}

// MeshData is the CPU-side copy of a mesh.
type MeshData struct {
	Vertices []float32
	Indices  []uint32
	Layout   VertexLayout
}

func (m MeshData) VertexCount() int {
	if stride := m.Layout.Stride(); stride != 0 {
		return len(m.Vertices) / stride
	}
	return 0
}

func (m MeshData) Indexed() bool { return len(m.Indices) != 0 }

// DrawCount is the number of elements a draw call for this mesh covers.
func (m MeshData) DrawCount() int {
	if m.Indexed() {
		return len(m.Indices)
	}
	return m.VertexCount()
}

type Device interface {
	// CompileProgram compiles and links a program and enumerates its active uniforms.
	CompileProgram(vertexSource, fragmentSource string) (Program, Uniforms, error)
	UseProgram(p Program)

	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform3f(location int32, v mgl32.Vec3)
	Uniform4f(location int32, v mgl32.Vec4)
	UniformMatrix4(location int32, m mgl32.Mat4)

	UploadTexture(img *Image) (Texture, error)
	BindTexture(unit uint32, t Texture)

	UploadMesh(data MeshData) (VertexArray, error)
	BindVertexArray(v VertexArray)
	DrawArrays(count int32)
	DrawElements(count int32)

	SetDepthTest(enabled bool)
	Clear(color mgl32.Vec4)
	Viewport(width, height int32)
}
