// Package gfxtest provides a recording gfx.Device for tests.
package gfxtest

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/sharpscene/gfx"
)

type UniformWrite struct {
	Program gfx.Program
	Name    string
	Value   interface{}
}

type Draw struct {
	Program gfx.Program
	VAO     gfx.VertexArray
	Count   int32
	Indexed bool
}

// Device records every call. Uniform tables are derived from the GLSL
// declarations of the compiled sources, including struct arrays.
type Device struct {
	mu sync.Mutex

	// CompileErr, when set, makes every CompileProgram call fail.
	CompileErr error
	// PanicOnDraw simulates a driver fault inside a draw call.
	PanicOnDraw bool

	Compiles       int
	TextureUploads int
	MeshUploads    int

	Program    gfx.Program
	VAO        gfx.VertexArray
	Textures   map[uint32]gfx.Texture
	DepthTest  bool
	DepthCalls []bool
	Clears     int

	Uniforms []UniformWrite
	Draws    []Draw
	// Log is the ordered sequence of "uniform:<name>" and "draw" events.
	Log []string

	next  uint32
	names map[gfx.Program]map[int32]string
}

func New() *Device {
	return &Device{
		DepthTest: true,
		Textures:  make(map[uint32]gfx.Texture),
		names:     make(map[gfx.Program]map[int32]string),
	}
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) CompileProgram(vertexSource, fragmentSource string) (gfx.Program, gfx.Uniforms, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.Compiles++
	if d.CompileErr != nil {
		return 0, nil, d.CompileErr
	}

	p := gfx.Program(d.handle())
	uniforms := make(gfx.Uniforms)
	names := make(map[int32]string)
	loc := int32(0)
	for _, name := range ParseUniforms(vertexSource + "\n" + fragmentSource) {
		if _, dup := uniforms[name]; dup {
			continue
		}
		uniforms[name] = loc
		names[loc] = name
		loc++
	}
	d.names[p] = names
	return p, uniforms, nil
}

func (d *Device) UseProgram(p gfx.Program) {
	d.mu.Lock()
	d.Program = p
	d.mu.Unlock()
}

func (d *Device) record(location int32, v interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	name := d.names[d.Program][location]
	d.Uniforms = append(d.Uniforms, UniformWrite{Program: d.Program, Name: name, Value: v})
	d.Log = append(d.Log, "uniform:"+name)
}

func (d *Device) Uniform1i(location int32, v int32)            { d.record(location, v) }
func (d *Device) Uniform1f(location int32, v float32)          { d.record(location, v) }
func (d *Device) Uniform3f(location int32, v mgl32.Vec3)       { d.record(location, v) }
func (d *Device) Uniform4f(location int32, v mgl32.Vec4)       { d.record(location, v) }
func (d *Device) UniformMatrix4(location int32, m mgl32.Mat4) { d.record(location, m) }

func (d *Device) UploadTexture(img *gfx.Image) (gfx.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.TextureUploads++
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return 0, errors.New("invalid image")
	}
	return gfx.Texture(d.handle()), nil
}

func (d *Device) BindTexture(unit uint32, t gfx.Texture) {
	d.mu.Lock()
	d.Textures[unit] = t
	d.mu.Unlock()
}

func (d *Device) UploadMesh(data gfx.MeshData) (gfx.VertexArray, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.MeshUploads++
	if data.Layout.Stride() == 0 || len(data.Vertices) == 0 {
		return 0, errors.New("empty mesh")
	}
	return gfx.VertexArray(d.handle()), nil
}

func (d *Device) BindVertexArray(v gfx.VertexArray) {
	d.mu.Lock()
	d.VAO = v
	d.mu.Unlock()
}

func (d *Device) draw(count int32, indexed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.PanicOnDraw {
		panic("gfxtest: draw fault")
	}
	d.Draws = append(d.Draws, Draw{Program: d.Program, VAO: d.VAO, Count: count, Indexed: indexed})
	d.Log = append(d.Log, "draw")
}

func (d *Device) DrawArrays(count int32)   { d.draw(count, false) }
func (d *Device) DrawElements(count int32) { d.draw(count, true) }

func (d *Device) SetDepthTest(enabled bool) {
	d.mu.Lock()
	d.DepthTest = enabled
	d.DepthCalls = append(d.DepthCalls, enabled)
	d.mu.Unlock()
}

func (d *Device) Clear(color mgl32.Vec4) {
	d.mu.Lock()
	d.Clears++
	d.mu.Unlock()
}

func (d *Device) Viewport(width, height int32) {}

// Written returns the last value written to the named uniform.
func (d *Device) Written(name string) (interface{}, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.Uniforms) - 1; i >= 0; i-- {
		if d.Uniforms[i].Name == name {
			return d.Uniforms[i].Value, true
		}
	}
	return nil, false
}

// WrittenNames returns the names of all uniform writes, in order.
func (d *Device) WrittenNames() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]string, len(d.Uniforms))
	for i, u := range d.Uniforms {
		names[i] = u.Name
	}
	return names
}

// Reset drops recorded writes and draws but keeps counters and programs.
func (d *Device) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Uniforms = nil
	d.Draws = nil
	d.Log = nil
	d.DepthCalls = nil
}

var (
	structRe  = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	fieldRe   = regexp.MustCompile(`(\w+)\s+(\w+)\s*;`)
	uniformRe = regexp.MustCompile(`uniform\s+(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)
)

// ParseUniforms lists the uniform names a GL driver would report for src,
// expanding struct members and array elements.
func ParseUniforms(src string) []string {
	structs := make(map[string][]string)
	for _, m := range structRe.FindAllStringSubmatch(src, -1) {
		for _, f := range fieldRe.FindAllStringSubmatch(m[2], -1) {
			structs[m[1]] = append(structs[m[1]], f[2])
		}
	}

	var names []string
	for _, m := range uniformRe.FindAllStringSubmatch(src, -1) {
		typ, name, size := m[1], m[2], m[3]
		fields, isStruct := structs[typ]

		var bases []string
		if size == "" {
			bases = []string{name}
		} else {
			n, _ := strconv.Atoi(size)
			for i := 0; i < n; i++ {
				bases = append(bases, name+"["+strconv.Itoa(i)+"]")
			}
		}

		for _, base := range bases {
			if isStruct {
				for _, f := range fields {
					names = append(names, base+"."+f)
				}
			} else {
				names = append(names, base)
			}
		}
		if size != "" && !isStruct {
			names = append(names, name)
		}
	}
	return names
}

var _ gfx.Device = (*Device)(nil)
