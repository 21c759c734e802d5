package resources

import (
	"github.com/mogaika/sharpscene/assets"
	"github.com/mogaika/sharpscene/gfx"
)

// Services bundles the resource caches of one engine instance.
type Services struct {
	Device   gfx.Device
	Shaders  *ShaderService
	Textures *TextureService
	Meshes   *MeshService
}

func NewServices(dev gfx.Device, src assets.Source) *Services {
	return &Services{
		Device:   dev,
		Shaders:  NewShaderService(dev, src),
		Textures: NewTextureService(dev, src),
		Meshes:   NewMeshService(dev, src),
	}
}
