package export

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetforge/internal/artifact"
	artifactrepo "assetforge/internal/gateway/repository/artifact"
	"assetforge/internal/param"
	"assetforge/internal/raster"
)

func texturedTriangle() *artifact.Mesh {
	return &artifact.Mesh{
		Vertices:  []artifact.Vec3{{}, {X: 1}, {Y: 1}},
		UVs:       [][2]float64{{0, 0}, {1, 0}, {0, 1}},
		Triangles: [][3]int{{0, 1, 2}},
		Texture:   &artifact.Image{Pix: raster.New(4, 4, raster.Gray(200))},
	}
}

func TestEncodeImageIsPNG(t *testing.T) {
	files, err := Encode(&artifact.Image{Pix: raster.New(8, 6, raster.Gray(10))}, "x")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, ".png", files[0].Suffix)

	img, err := png.Decode(bytes.NewReader(files[0].Data))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())
}

func TestEncodeMeshWritesObjMaterialAndTexture(t *testing.T) {
	files, err := Encode(texturedTriangle(), "abc")
	require.NoError(t, err)
	require.Len(t, files, 3)

	obj := string(files[0].Data)
	assert.Contains(t, obj, "mtllib abc.mtl")
	assert.Equal(t, 3, strings.Count(obj, "\nv "))
	assert.Contains(t, obj, "f 1/1 2/2 3/3")
	assert.Contains(t, string(files[1].Data), "map_Kd abc_texture.png")
	assert.Equal(t, "_texture.png", files[2].Suffix)
}

func TestEncodeMeshRejectsBadIndices(t *testing.T) {
	m := &artifact.Mesh{Vertices: []artifact.Vec3{{}}, Triangles: [][3]int{{0, 1, 2}}}
	_, err := Encode(m, "bad")
	assert.Error(t, err)
}

func TestEncodeBlueprintIsJSON(t *testing.T) {
	bp := &artifact.Blueprint{
		Ground: &artifact.Ground{Texture: artifact.Ref{Generator: "texture.cobblestone", Config: param.Raw{"size": 512}}, Model: "plane"},
		Placements: []artifact.Placement{{
			Group:    "houses",
			Ref:      artifact.Ref{Generator: "mesh.fachwerk_house"},
			Artifact: texturedTriangle(),
		}},
	}
	files, err := Encode(bp, "bp")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(files[0].Data, &decoded))
	assert.Contains(t, decoded, "ground")
	require.Len(t, decoded["placements"], 1)

	// Embedded artifacts stay out of the JSON; the ref is enough to rebuild them.
	placement := decoded["placements"].([]any)[0].(map[string]any)
	assert.ElementsMatch(t, []string{"group", "ref", "transform"}, keysOf(placement))
	assert.Equal(t, "mesh.fachwerk_house", placement["ref"].(map[string]any)["generator"])
}

func keysOf(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestExporterWritesUnderGeneratorNamespace(t *testing.T) {
	store := artifactrepo.NewMemoryStore()
	ex, err := New(store, 4)
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := ex.Export(ctx, "mesh.fachwerk_house:deadbeef", texturedTriangle())
	require.NoError(t, err)
	assert.Equal(t, "mesh.fachwerk_house", ref.Namespace)
	assert.Equal(t, "deadbeef.obj", ref.Path)
	assert.Equal(t, []string{"deadbeef.obj", "deadbeef.mtl", "deadbeef_texture.png"}, ref.Files)

	listed, err := ex.List(ctx, "mesh.fachwerk_house")
	require.NoError(t, err)
	assert.Equal(t, []string{"deadbeef.mtl", "deadbeef.obj", "deadbeef_texture.png"}, listed)

	data, err := ex.Open(ctx, ref.Namespace, ref.Path)
	require.NoError(t, err)
	assert.Equal(t, ref.Size, len(data))

	// Encodings are cached by key, so a second export reuses the bytes.
	first, err := ex.Encode("mesh.fachwerk_house:deadbeef", nil)
	require.NoError(t, err)
	assert.Len(t, first, 3)
}

func TestExporterRejectsMalformedKey(t *testing.T) {
	ex, err := New(artifactrepo.NewMemoryStore(), 0)
	require.NoError(t, err)
	_, err = ex.Export(context.Background(), "no-digest", &artifact.Image{Pix: raster.New(1, 1, raster.Gray(0))})
	assert.Error(t, err)
}

func TestSplitKey(t *testing.T) {
	id, digest := SplitKey("texture.cobblestone:0123")
	assert.Equal(t, "texture.cobblestone", id)
	assert.Equal(t, "0123", digest)
}
