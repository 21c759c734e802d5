package glgfx

import (
	"strings"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/pkg/errors"

	"github.com/mogaika/sharpscene/gfx"
	"github.com/mogaika/sharpscene/logx"
)

type program struct {
	id                           uint32
	vertexShader, fragmentShader uint32
}

func (p *program) delete() {
	gl.DetachShader(p.id, p.vertexShader)
	gl.DetachShader(p.id, p.fragmentShader)
	gl.DeleteProgram(p.id)
	gl.DeleteShader(p.vertexShader)
	gl.DeleteShader(p.fragmentShader)
}

func (d *Device) CompileProgram(vertexSource, fragmentSource string) (gfx.Program, gfx.Uniforms, error) {
	p := &program{}

	vs, err := compileShader(gl.VERTEX_SHADER, vertexSource)
	if err != nil {
		return 0, nil, errors.Wrap(err, "vertex shader")
	}
	p.vertexShader = vs

	fs, err := compileShader(gl.FRAGMENT_SHADER, fragmentSource)
	if err != nil {
		gl.DeleteShader(p.vertexShader)
		return 0, nil, errors.Wrap(err, "fragment shader")
	}
	p.fragmentShader = fs

	p.id = gl.CreateProgram()
	gl.AttachShader(p.id, p.vertexShader)
	gl.AttachShader(p.id, p.fragmentShader)
	gl.LinkProgram(p.id)

	var isLinked int32
	gl.GetProgramiv(p.id, gl.LINK_STATUS, &isLinked)
	if isLinked == gl.FALSE {
		var logSize int32
		gl.GetProgramiv(p.id, gl.INFO_LOG_LENGTH, &logSize)
		buf := make([]uint8, logSize+1)
		gl.GetProgramInfoLog(p.id, int32(len(buf)), &logSize, &buf[0])
		errString := string(buf[:logSize])
		logx.Logger().Warn("failed to link program", "log", errString)

		p.delete()
		return 0, nil, errors.Errorf("failed to link program: %q", errString)
	}

	d.programs[gfx.Program(p.id)] = p
	return gfx.Program(p.id), activeUniforms(p.id), nil
}

// activeUniforms lists every active uniform. Arrays of basic types are reported
// by GL as "name[0]" and are registered under "name" as well.
func activeUniforms(id uint32) gfx.Uniforms {
	var count, maxLen int32
	gl.GetProgramiv(id, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(id, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)

	uniforms := make(gfx.Uniforms, count)
	if count == 0 {
		return uniforms
	}
	buf := make([]uint8, maxLen+1)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(id, uint32(i), int32(len(buf)), &length, &size, &xtype, &buf[0])
		name := string(buf[:length])
		loc := gl.GetUniformLocation(id, gl.Str(name+"\x00"))
		if loc < 0 {
			continue
		}
		uniforms[name] = loc
		if strings.HasSuffix(name, "[0]") {
			uniforms[strings.TrimSuffix(name, "[0]")] = loc
		}
	}
	return uniforms
}

func compileShader(xtype uint32, text string) (shader uint32, err error) {
	glShaderSource := func(handle uint32, source string) {
		csource, free := gl.Strs(source + "\x00")
		defer free()

		gl.ShaderSource(handle, 1, csource, nil)
	}

	shader = gl.CreateShader(xtype)
	glShaderSource(shader, text)
	gl.CompileShader(shader)

	var success int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &success)
	if success == gl.FALSE {
		var logSize int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logSize)
		buf := make([]uint8, logSize+1)
		gl.GetShaderInfoLog(shader, int32(len(buf)), &logSize, &buf[0])
		errString := string(buf[:logSize])
		logx.Logger().Warn("failed to compile shader", "log", errString)

		gl.DeleteShader(shader)
		return 0, errors.Errorf("failed to compile shader: %q", errString)
	}
	return shader, nil
}

func (d *Device) UseProgram(p gfx.Program) {
	gl.UseProgram(uint32(p))
}
