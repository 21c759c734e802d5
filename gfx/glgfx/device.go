// Package glgfx implements gfx.Device on top of OpenGL 4.3 core.
// A context must be current on the calling thread.
package glgfx

import (
	"runtime"
	"unsafe"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/sharpscene/gfx"
	"github.com/mogaika/sharpscene/logx"
)

type glMesh struct {
	vao, vbo, ebo uint32
}

type Device struct {
	programs map[gfx.Program]*program
	textures []uint32
	meshes   map[gfx.VertexArray]glMesh
}

// New loads the GL entry points for the current context.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize OpenGL")
	}
	logx.Logger().Info("opengl initialized", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return &Device{
		programs: make(map[gfx.Program]*program),
		meshes:   make(map[gfx.VertexArray]glMesh),
	}, nil
}

// Destroy releases every object the device created.
func (d *Device) Destroy() {
	for _, p := range d.programs {
		p.delete()
	}
	d.programs = map[gfx.Program]*program{}
	if len(d.textures) != 0 {
		gl.DeleteTextures(int32(len(d.textures)), &d.textures[0])
		d.textures = nil
	}
	for _, m := range d.meshes {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		if m.ebo != 0 {
			gl.DeleteBuffers(1, &m.ebo)
		}
	}
	d.meshes = map[gfx.VertexArray]glMesh{}
}

func (d *Device) Uniform1i(location int32, v int32)   { gl.Uniform1i(location, v) }
func (d *Device) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (d *Device) Uniform3f(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

func (d *Device) Uniform4f(location int32, v mgl32.Vec4) {
	gl.Uniform4f(location, v[0], v[1], v[2], v[3])
}

func (d *Device) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (d *Device) UploadTexture(img *gfx.Image) (gfx.Texture, error) {
	if img == nil || img.Width <= 0 || img.Height <= 0 || len(img.Pix) < img.Width*img.Height*4 {
		return 0, errors.New("invalid image")
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(img.Width), int32(img.Height),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	runtime.KeepAlive(img.Pix)

	d.textures = append(d.textures, id)
	return gfx.Texture(id), nil
}

func (d *Device) BindTexture(unit uint32, t gfx.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (d *Device) UploadMesh(data gfx.MeshData) (gfx.VertexArray, error) {
	stride := data.Layout.Stride()
	if stride == 0 || len(data.Vertices) == 0 {
		return 0, errors.New("empty mesh")
	}
	if len(data.Vertices)%stride != 0 {
		return 0, errors.Errorf("vertex buffer length %d is not a multiple of stride %d", len(data.Vertices), stride)
	}

	var m glMesh
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data.Vertices)*4, gl.Ptr(data.Vertices), gl.STATIC_DRAW)

	if data.Indexed() {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, gl.Ptr(data.Indices), gl.STATIC_DRAW)
	}

	offset := 0
	for i, components := range data.Layout {
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointer(uint32(i), int32(components), gl.FLOAT, false, int32(stride*4), gl.PtrOffset(offset*4))
		offset += components
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	d.meshes[gfx.VertexArray(m.vao)] = m
	return gfx.VertexArray(m.vao), nil
}

func (d *Device) BindVertexArray(v gfx.VertexArray) {
	gl.BindVertexArray(uint32(v))
}

func (d *Device) DrawArrays(count int32) {
	gl.DrawArrays(gl.TRIANGLES, 0, count)
}

func (d *Device) DrawElements(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, unsafe.Pointer(nil))
}

func (d *Device) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (d *Device) Clear(color mgl32.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.ClearDepth(1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

var _ gfx.Device = (*Device)(nil)
