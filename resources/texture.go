package resources

import (
	"github.com/mogaika/sharpscene/assets"
	"github.com/mogaika/sharpscene/gfx"
	"github.com/mogaika/sharpscene/logx"
)

type Texture struct {
	Key    string
	Handle gfx.Texture
	Width  int
	Height int
}

// Valid is false for the placeholder returned when a texture failed to load.
func (t *Texture) Valid() bool { return t != nil && t.Handle != 0 }

type TextureService struct {
	dev   gfx.Device
	src   assets.Source
	cache *Cache[*Texture]
}

func NewTextureService(dev gfx.Device, src assets.Source) *TextureService {
	return &TextureService{dev: dev, src: src, cache: NewCache(func(key string) *Texture { return &Texture{Key: key} })}
}

// Load decodes and uploads the image at path once; the path is the cache key.
func (ts *TextureService) Load(path string) *Texture {
	key := assets.Clean(path)
	return ts.cache.GetOrLoad(key, func() *Texture {
		t := &Texture{Key: key}

		data, err := ts.src.ReadFile(key)
		if err != nil {
			logx.Logger().Warn("texture not found", "texture", key, "err", err)
			return t
		}
		img, err := DecodeImage(data)
		if err != nil {
			logx.Logger().Warn("failed to decode texture", "texture", key, "err", err)
			return t
		}
		return ts.upload(t, img)
	})
}

// LoadImage caches an already decoded image under key.
func (ts *TextureService) LoadImage(key string, img *gfx.Image) *Texture {
	return ts.cache.GetOrLoad(key, func() *Texture {
		return ts.upload(&Texture{Key: key}, img)
	})
}

func (ts *TextureService) upload(t *Texture, img *gfx.Image) *Texture {
	handle, err := ts.dev.UploadTexture(img)
	if err != nil {
		logx.Logger().Warn("failed to upload texture", "texture", t.Key, "err", err)
		return t
	}
	t.Handle = handle
	t.Width, t.Height = img.Width, img.Height
	logx.Logger().Info("texture loaded", "texture", t.Key, "width", t.Width, "height", t.Height)
	return t
}

func (ts *TextureService) Get(key string) (*Texture, bool) {
	return ts.cache.Get(assets.Clean(key))
}

func (ts *TextureService) Keys() []string { return ts.cache.Keys() }

// Solid returns a cached 1x1 texture of the given color.
func (ts *TextureService) Solid(key string, r, g, b, a byte) *Texture {
	return ts.LoadImage(key, &gfx.Image{Width: 1, Height: 1, Pix: []byte{r, g, b, a}})
}
