// Package export encodes artifacts to portable files and writes them to a
// store: PNG for images, Wavefront OBJ (plus material and texture) for
// meshes, JSON for blueprints.
package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/disintegration/imaging"

	"assetforge/internal/artifact"
)

// File is one encoded output. Suffix is appended to the export base name.
type File struct {
	Suffix      string `json:"suffix"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// Encode renders a to one or more files; the first is the primary one.
// base is the file name stem other files may reference.
func Encode(a artifact.Artifact, base string) ([]File, error) {
	switch v := a.(type) {
	case *artifact.Image:
		data, err := encodePNG(v)
		if err != nil {
			return nil, err
		}
		return []File{{Suffix: ".png", ContentType: "image/png", Data: data}}, nil
	case *artifact.Mesh:
		return encodeMesh(v, base)
	case *artifact.Blueprint:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode blueprint: %w", err)
		}
		return []File{{Suffix: ".json", ContentType: "application/json", Data: data}}, nil
	case nil:
		return nil, fmt.Errorf("encode: nil artifact")
	default:
		return nil, fmt.Errorf("encode: unsupported artifact %s", a.Kind())
	}
}

func encodePNG(img *artifact.Image) ([]byte, error) {
	if img == nil || img.Pix == nil {
		return nil, fmt.Errorf("encode png: empty image")
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img.Pix, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeMesh(m *artifact.Mesh, base string) ([]File, error) {
	textured := m.Texture != nil && m.Texture.Pix != nil
	withUV := len(m.UVs) == len(m.Vertices)

	var obj bytes.Buffer
	w := bufio.NewWriter(&obj)
	fmt.Fprintf(w, "# %d vertices, %d triangles\n", len(m.Vertices), len(m.Triangles))
	if textured {
		fmt.Fprintf(w, "mtllib %s.mtl\nusemtl skin\n", base)
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(w, "v %s %s %s\n", num(v.X), num(v.Y), num(v.Z))
	}
	if withUV {
		for _, uv := range m.UVs {
			fmt.Fprintf(w, "vt %s %s\n", num(uv[0]), num(uv[1]))
		}
	}
	for i, tri := range m.Triangles {
		for _, idx := range tri {
			if idx < 0 || idx >= len(m.Vertices) {
				return nil, fmt.Errorf("encode obj: triangle %d references vertex %d of %d", i, idx, len(m.Vertices))
			}
		}
		if withUV {
			fmt.Fprintf(w, "f %d/%d %d/%d %d/%d\n", tri[0]+1, tri[0]+1, tri[1]+1, tri[1]+1, tri[2]+1, tri[2]+1)
		} else {
			fmt.Fprintf(w, "f %d %d %d\n", tri[0]+1, tri[1]+1, tri[2]+1)
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}

	files := []File{{Suffix: ".obj", ContentType: "model/obj", Data: obj.Bytes()}}
	if textured {
		tex, err := encodePNG(m.Texture)
		if err != nil {
			return nil, err
		}
		mtl := fmt.Sprintf("newmtl skin\nKd 1 1 1\nmap_Kd %s_texture.png\n", base)
		files = append(files,
			File{Suffix: ".mtl", ContentType: "model/mtl", Data: []byte(mtl)},
			File{Suffix: "_texture.png", ContentType: "image/png", Data: tex},
		)
	}
	return files, nil
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 5, 64)
}
