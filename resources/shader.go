package resources

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/sharpscene/assets"
	"github.com/mogaika/sharpscene/gfx"
	"github.com/mogaika/sharpscene/logx"
	"github.com/mogaika/sharpscene/shaderlang"
)

// Shader is a linked GPU program and its uniform table.
// A shader that failed to build keeps a zero program and an empty table;
// every setter on it is a logged no-op.
type Shader struct {
	Key     string
	Program gfx.Program

	dev      gfx.Device
	uniforms gfx.Uniforms
}

func (s *Shader) Valid() bool { return s.Program != 0 }

func (s *Shader) Use() {
	if !s.Valid() {
		logx.Logger().Debug("use of invalid shader", "shader", s.Key)
		return
	}
	s.dev.UseProgram(s.Program)
}

func (s *Shader) Has(name string) bool {
	_, ok := s.uniforms[name]
	return ok
}

// UniformNames lists the active uniforms, sorted.
func (s *Shader) UniformNames() []string {
	names := make([]string, 0, len(s.uniforms))
	for name := range s.uniforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Shader) location(name string) (int32, bool) {
	loc, ok := s.uniforms[name]
	if !ok {
		logx.Logger().Debug("uniform not found", "shader", s.Key, "uniform", name)
	}
	return loc, ok
}

func (s *Shader) SetInt(name string, v int32) {
	if loc, ok := s.location(name); ok {
		s.dev.Uniform1i(loc, v)
	}
}

func (s *Shader) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	s.SetInt(name, i)
}

func (s *Shader) SetFloat(name string, v float32) {
	if loc, ok := s.location(name); ok {
		s.dev.Uniform1f(loc, v)
	}
}

func (s *Shader) SetVec3(name string, v mgl32.Vec3) {
	if loc, ok := s.location(name); ok {
		s.dev.Uniform3f(loc, v)
	}
}

func (s *Shader) SetVec4(name string, v mgl32.Vec4) {
	if loc, ok := s.location(name); ok {
		s.dev.Uniform4f(loc, v)
	}
}

func (s *Shader) SetMat4(name string, m mgl32.Mat4) {
	if loc, ok := s.location(name); ok {
		s.dev.UniformMatrix4(loc, m)
	}
}

type ShaderService struct {
	dev   gfx.Device
	src   assets.Source
	cache *Cache[*Shader]
}

func NewShaderService(dev gfx.Device, src assets.Source) *ShaderService {
	fallback := func(key string) *Shader {
		return &Shader{Key: key, dev: dev, uniforms: gfx.Uniforms{}}
	}
	return &ShaderService{dev: dev, src: src, cache: NewCache(fallback)}
}

// Load returns the shader cached under key, building it from the given
// files on first use. Paths passed for an already cached key are ignored.
func (ss *ShaderService) Load(key, vertexPath, fragmentPath string) *Shader {
	return ss.cache.GetOrLoad(key, func() *Shader {
		return ss.build(key, vertexPath, fragmentPath)
	})
}

// LoadSource is Load for in-memory sources; includes resolve against the asset root.
func (ss *ShaderService) LoadSource(key, vertexSource, fragmentSource string) *Shader {
	return ss.cache.GetOrLoad(key, func() *Shader {
		s := &Shader{Key: key, dev: ss.dev, uniforms: gfx.Uniforms{}}
		vs, err := shaderlang.Expand(vertexSource, "", ss.src)
		if err != nil {
			logx.Logger().Warn("failed to preprocess vertex shader", "shader", key, "err", err)
			return s
		}
		fs, err := shaderlang.Expand(fragmentSource, "", ss.src)
		if err != nil {
			logx.Logger().Warn("failed to preprocess fragment shader", "shader", key, "err", err)
			return s
		}
		ss.compile(s, vs, fs)
		return s
	})
}

func (ss *ShaderService) Get(key string) (*Shader, bool) {
	return ss.cache.Get(key)
}

func (ss *ShaderService) Keys() []string { return ss.cache.Keys() }

func (ss *ShaderService) build(key, vertexPath, fragmentPath string) *Shader {
	s := &Shader{Key: key, dev: ss.dev, uniforms: gfx.Uniforms{}}

	vs, err := shaderlang.Preprocess(vertexPath, ss.src)
	if err != nil {
		logx.Logger().Warn("failed to load vertex shader", "shader", key, "path", vertexPath, "err", err)
		return s
	}
	fs, err := shaderlang.Preprocess(fragmentPath, ss.src)
	if err != nil {
		logx.Logger().Warn("failed to load fragment shader", "shader", key, "path", fragmentPath, "err", err)
		return s
	}
	ss.compile(s, vs, fs)
	return s
}

func (ss *ShaderService) compile(s *Shader, vs, fs string) {
	program, uniforms, err := ss.dev.CompileProgram(vs, fs)
	if err != nil {
		logx.Logger().Warn("failed to build shader", "shader", s.Key, "err", err)
		return
	}
	s.Program = program
	s.uniforms = uniforms
	logx.Logger().Info("shader loaded", "shader", s.Key, "uniforms", len(uniforms))
}
