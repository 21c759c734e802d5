package resources

import (
	"github.com/mogaika/sharpscene/assets"
	"github.com/mogaika/sharpscene/gfx"
	"github.com/mogaika/sharpscene/logx"
)

// Mesh keeps the CPU-side data next to the vertex array it was uploaded to.
type Mesh struct {
	Key  string
	Data gfx.MeshData
	VAO  gfx.VertexArray
}

func (m *Mesh) Valid() bool { return m != nil && m.VAO != 0 }

// Draw binds the vertex array and issues one draw call covering the mesh.
func (m *Mesh) Draw(dev gfx.Device) {
	dev.BindVertexArray(m.VAO)
	if m.Data.Indexed() {
		dev.DrawElements(int32(len(m.Data.Indices)))
	} else {
		dev.DrawArrays(int32(m.Data.VertexCount()))
	}
}

const (
	MeshCube  = "primitive:cube"
	MeshPlane = "primitive:plane"
	MeshQuad  = "primitive:quad"
)

type MeshService struct {
	dev   gfx.Device
	src   assets.Source
	cache *Cache[*Mesh]
}

func NewMeshService(dev gfx.Device, src assets.Source) *MeshService {
	return &MeshService{dev: dev, src: src, cache: NewCache(func(key string) *Mesh { return &Mesh{Key: key} })}
}

// Load uploads data under key once. Later calls return the cached mesh and
// ignore data.
func (ms *MeshService) Load(key string, data gfx.MeshData) *Mesh {
	return ms.cache.GetOrLoad(key, func() *Mesh {
		return ms.upload(key, data)
	})
}

// LoadFunc is Load with lazily produced data.
func (ms *MeshService) LoadFunc(key string, data func() (gfx.MeshData, error)) *Mesh {
	return ms.cache.GetOrLoad(key, func() *Mesh {
		d, err := data()
		if err != nil {
			logx.Logger().Warn("failed to load mesh", "mesh", key, "err", err)
			return &Mesh{Key: key}
		}
		return ms.upload(key, d)
	})
}

// Primitive returns one of the built-in meshes (MeshCube, MeshPlane, MeshQuad).
func (ms *MeshService) Primitive(key string) *Mesh {
	switch key {
	case MeshCube:
		return ms.Load(key, CubeData())
	case MeshPlane:
		return ms.Load(key, PlaneData())
	case MeshQuad:
		return ms.Load(key, QuadData())
	}
	logx.Logger().Warn("unknown primitive", "mesh", key)
	return ms.cache.GetOrLoad(key, func() *Mesh { return &Mesh{Key: key} })
}

// LoadFile imports the first primitive of the glTF or GLB file at path.
func (ms *MeshService) LoadFile(path string) *Mesh {
	key := assets.Clean(path)
	return ms.LoadFunc(key, func() (gfx.MeshData, error) {
		data, err := ms.src.ReadFile(key)
		if err != nil {
			return gfx.MeshData{}, err
		}
		return DecodeGLTF(data)
	})
}

func (ms *MeshService) Get(key string) (*Mesh, bool) {
	return ms.cache.Get(key)
}

func (ms *MeshService) Keys() []string { return ms.cache.Keys() }

func (ms *MeshService) upload(key string, data gfx.MeshData) *Mesh {
	m := &Mesh{Key: key, Data: data}
	vao, err := ms.dev.UploadMesh(data)
	if err != nil {
		logx.Logger().Warn("failed to upload mesh", "mesh", key, "err", err)
		return m
	}
	m.VAO = vao
	logx.Logger().Info("mesh loaded", "mesh", key, "vertices", data.VertexCount(), "indices", len(data.Indices))
	return m
}
