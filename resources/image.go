package resources

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/mogaika/sharpscene/gfx"
)

// DecodeImage decodes any registered image format into RGBA rows ordered
// bottom to top, the layout GL expects for texture uploads.
func DecodeImage(data []byte) (*gfx.Image, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}

	b := src.Bounds()
	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}

	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, errors.Errorf("empty %s image", format)
	}

	row := w * 4
	pix := make([]byte, row*h)
	for y := 0; y < h; y++ {
		copy(pix[(h-1-y)*row:(h-y)*row], rgba.Pix[y*rgba.Stride:y*rgba.Stride+row])
	}
	return &gfx.Image{Width: w, Height: h, Pix: pix}, nil
}
