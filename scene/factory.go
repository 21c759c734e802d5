package scene

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/sharpscene/r3d"
	"github.com/mogaika/sharpscene/resources"
)

// Built-in solid textures, resolvable by key from saved scenes.
const (
	TextureWhite = "solid:white"
	TextureBlack = "solid:black"
	TextureGray  = "solid:gray"
)

// Texture resolves a texture key: solid:* keys produce 1x1 textures,
// anything else is an asset path.
func Texture(res *resources.Services, key string) *resources.Texture {
	switch key {
	case "":
		return nil
	case TextureWhite:
		return res.Textures.Solid(key, 255, 255, 255, 255)
	case TextureBlack:
		return res.Textures.Solid(key, 0, 0, 0, 255)
	case TextureGray:
		return res.Textures.Solid(key, 128, 128, 128, 255)
	}
	if name, ok := strings.CutPrefix(key, "solid:"); ok {
		if b, err := ParseBlockType(name); err == nil {
			c := blockColors[b]
			return res.Textures.Solid(key, c[0], c[1], c[2], 255)
		}
	}
	return res.Textures.Load(key)
}

// Mesh resolves a mesh key: primitive:* keys are built in, anything else is
// a glTF asset path.
func Mesh(res *resources.Services, key string) *resources.Mesh {
	if key == "" {
		return nil
	}
	if strings.HasPrefix(key, "primitive:") {
		return res.Meshes.Primitive(key)
	}
	return res.Meshes.LoadFile(key)
}

func defaultMaterial(res *resources.Services) Material {
	m := DefaultMaterial()
	m.Diffuse = Texture(res, TextureWhite)
	m.Specular = Texture(res, TextureGray)
	return m
}

func NewCube(res *resources.Services, name string, position mgl32.Vec3) *GameObject {
	return NewGameObject(name, Mesh(res, resources.MeshCube), defaultMaterial(res), r3d.NewTransform(position))
}

// NewPlane creates a size x size floor plane facing +Y.
func NewPlane(res *resources.Services, name string, position mgl32.Vec3, size float32) *GameObject {
	t := r3d.NewTransform(position).WithScale(mgl32.Vec3{size, 1, size})
	return NewGameObject(name, Mesh(res, resources.MeshPlane), defaultMaterial(res), t)
}

type BlockType int

const (
	BlockGrass BlockType = iota
	BlockDirt
	BlockStone
	BlockSand
	BlockWood
	blockTypeCount
)

var ErrInvalidBlockType = errors.New("invalid block type")

var blockNames = [blockTypeCount]string{"grass", "dirt", "stone", "sand", "wood"}

// blockColors tint blocks whose texture file is missing.
var blockColors = [blockTypeCount][3]byte{
	{86, 160, 60},
	{121, 85, 58},
	{128, 128, 128},
	{219, 200, 150},
	{150, 110, 60},
}

// BlockTypes lists every valid block type.
func BlockTypes() []BlockType {
	types := make([]BlockType, blockTypeCount)
	for i := range types {
		types[i] = BlockType(i)
	}
	return types
}

func (b BlockType) String() string {
	if b < 0 || b >= blockTypeCount {
		return "invalid"
	}
	return blockNames[b]
}

func ParseBlockType(s string) (BlockType, error) {
	for i, name := range blockNames {
		if strings.EqualFold(s, name) {
			return BlockType(i), nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidBlockType, "%q", s)
}

// BlockTexture is the diffuse map path of a block type.
func BlockTexture(b BlockType) string {
	return "textures/blocks/" + b.String() + ".png"
}

// NewBlock creates a unit cube textured as the given block type. Without a
// texture file the block gets a solid color of its type.
func NewBlock(res *resources.Services, b BlockType, position mgl32.Vec3) (*GameObject, error) {
	if b < 0 || b >= blockTypeCount {
		return nil, errors.Wrapf(ErrInvalidBlockType, "%d", int(b))
	}
	m := DefaultMaterial()
	m.Diffuse = Texture(res, BlockTexture(b))
	if !m.Diffuse.Valid() {
		m.Diffuse = Texture(res, "solid:"+b.String())
	}
	m.Specular = Texture(res, TextureBlack)
	m.Shininess = 8
	return NewGameObject(b.String()+" block", Mesh(res, resources.MeshCube), m, r3d.NewTransform(position)), nil
}
