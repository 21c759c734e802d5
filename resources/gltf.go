package resources

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/sharpscene/gfx"
)

// DecodeGLTF reads the first primitive of the first mesh of a glTF (with
// embedded buffers) or GLB document into interleaved pos/normal/uv data.
// Missing normals or texture coordinates are filled with zeros.
func DecodeGLTF(data []byte) (gfx.MeshData, error) {
	var doc gltf.Document
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return gfx.MeshData{}, errors.Wrap(err, "decode gltf")
	}
	return meshFromDocument(&doc)
}

func meshFromDocument(doc *gltf.Document) (gfx.MeshData, error) {
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return gfx.MeshData{}, errors.New("gltf document has no mesh primitives")
	}
	prim := doc.Meshes[0].Primitives[0]

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return gfx.MeshData{}, errors.New("gltf primitive has no POSITION attribute")
	}
	acr, err := accessor(doc, posIdx)
	if err != nil {
		return gfx.MeshData{}, errors.Wrap(err, "positions")
	}
	positions, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return gfx.MeshData{}, errors.Wrap(err, "read positions")
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if acr, err = accessor(doc, idx); err != nil {
			return gfx.MeshData{}, errors.Wrap(err, "normals")
		}
		if normals, err = modeler.ReadNormal(doc, acr, nil); err != nil {
			return gfx.MeshData{}, errors.Wrap(err, "read normals")
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if acr, err = accessor(doc, idx); err != nil {
			return gfx.MeshData{}, errors.Wrap(err, "texture coordinates")
		}
		if uvs, err = modeler.ReadTextureCoord(doc, acr, nil); err != nil {
			return gfx.MeshData{}, errors.Wrap(err, "read texture coordinates")
		}
	}

	vertices := make([]float32, 0, len(positions)*gfx.LayoutPosNormalUV.Stride())
	for i, p := range positions {
		var n [3]float32
		var uv [2]float32
		if i < len(normals) {
			n = normals[i]
		}
		if i < len(uvs) {
			uv = uvs[i]
		}
		vertices = append(vertices, p[0], p[1], p[2], n[0], n[1], n[2], uv[0], uv[1])
	}

	md := gfx.MeshData{Vertices: vertices, Layout: gfx.LayoutPosNormalUV}
	if prim.Indices != nil {
		if acr, err = accessor(doc, *prim.Indices); err != nil {
			return gfx.MeshData{}, errors.Wrap(err, "indices")
		}
		if md.Indices, err = modeler.ReadIndices(doc, acr, nil); err != nil {
			return gfx.MeshData{}, errors.Wrap(err, "read indices")
		}
	}
	return md, nil
}

// accessor resolves idx and rejects references the modeler readers would
// index out of range.
func accessor(doc *gltf.Document, idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(doc.Accessors) {
		return nil, errors.Errorf("accessor %d out of range (%d accessors)", idx, len(doc.Accessors))
	}
	acr := doc.Accessors[idx]
	if acr == nil {
		return nil, errors.Errorf("accessor %d is null", idx)
	}
	if acr.BufferView == nil {
		if acr.Sparse == nil {
			return nil, errors.Errorf("accessor %d has no buffer view", idx)
		}
		return acr, nil
	}
	bv := *acr.BufferView
	if int(bv) >= len(doc.BufferViews) || doc.BufferViews[bv] == nil {
		return nil, errors.Errorf("accessor %d references missing buffer view %d", idx, bv)
	}
	if acr.ByteOffset > doc.BufferViews[bv].ByteLength {
		return nil, errors.Errorf("accessor %d offset %d past buffer view end", idx, acr.ByteOffset)
	}
	return acr, nil
}
