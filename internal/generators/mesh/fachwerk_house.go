package mesh

import (
	"context"
	"fmt"
	"math"

	"assetforge/internal/artifact"
	"assetforge/internal/generator"
	"assetforge/internal/param"
	"assetforge/internal/raster"
)

const (
	bayWidth  = 1.5
	rowHeight = 1.2
)

var fachwerkHouseDescriptor = generator.Descriptor{
	ID:          "mesh.fachwerk_house",
	Category:    Category,
	Description: "Procedural German Fachwerk house with plaster infill and wooden beams.",
	Version:     "1.0",
	Fields: param.Fields{
		"floors":     param.Int(2).Range(1, 4),
		"width":      param.Float(6).Range(3, 12),
		"depth":      param.Float(4).Range(3, 10),
		"beam_thick": param.Float(0.2).Range(0.05, 0.5),
		"diagonals":  param.Bool(true),
		"roof_pitch": param.Float(45).Range(25, 60),
	},
}

// FachwerkHouse builds a timber frame box with a gable roof and skins it
// with a blend of the plaster and wood textures requested from the pipeline.
type FachwerkHouse struct{}

func (FachwerkHouse) Generate(ctx context.Context, req *generator.Request) (artifact.Artifact, error) {
	cfg := req.Config
	cols := max(int(cfg.Float("width")/bayWidth), 2)
	rows := cfg.Int("floors") * 2
	depth := cfg.Float("depth")
	thick := cfg.Float("beam_thick")
	w, h := float64(cols)*bayWidth, float64(rows)*rowHeight

	b := newBuilder()
	frontWall(b, cols, rows, thick, cfg.Bool("diagonals"), 0)
	frontWall(b, cols, rows, thick, cfg.Bool("diagonals"), depth)
	for j := 0; j <= rows; j++ {
		y := float64(j) * rowHeight
		b.beam(artifact.Vec3{X: 0, Y: y, Z: 0}, artifact.Vec3{X: 0, Y: y, Z: depth}, thick)
		b.beam(artifact.Vec3{X: w, Y: y, Z: 0}, artifact.Vec3{X: w, Y: y, Z: depth}, thick)
	}
	roof(b, w, h, depth, cfg.Float("roof_pitch"))

	// Textures come from the pipeline so they are shared between houses.
	plaster, err := nestedImage(ctx, req, "texture.plaster_wall", param.Raw{
		"size": 512,
		"tone": generator.Choice(req.Rand, "neutral", "warm"),
	})
	if err != nil {
		return nil, err
	}
	wood, err := nestedImage(ctx, req, "texture.wood_planks", param.Raw{
		"size":        512,
		"tint":        "dark",
		"grain_noise": 0.4,
	})
	if err != nil {
		return nil, err
	}

	m := b.mesh()
	m.Texture = &artifact.Image{Pix: raster.Blend(plaster.Pix, wood.Pix, 0.25)}
	return m, nil
}

// frontWall lays posts, rails and (optionally) alternating braces in the
// plane z = z.
func frontWall(b *builder, cols, rows int, thick float64, diagonals bool, z float64) {
	w, h := float64(cols)*bayWidth, float64(rows)*rowHeight
	at := func(i, j int) artifact.Vec3 {
		return artifact.Vec3{X: float64(i) * bayWidth, Y: float64(j) * rowHeight, Z: z}
	}
	for i := 0; i <= cols; i++ {
		b.beam(at(i, 0), at(i, rows), thick)
	}
	for j := 0; j <= rows; j++ {
		b.beam(at(0, j), at(cols, j), thick)
	}
	if diagonals {
		for i := 0; i < cols; i++ {
			for j := 0; j < rows; j++ {
				if (i+j)%2 == 0 {
					b.beam(at(i, j), at(i+1, j+1), thick)
				} else {
					b.beam(at(i+1, j), at(i, j+1), thick)
				}
			}
		}
	}
	// infill panel
	b.quad(artifact.Vec3{Z: z}, artifact.Vec3{X: w, Z: z}, artifact.Vec3{X: w, Y: h, Z: z}, artifact.Vec3{Y: h, Z: z})
}

func roof(b *builder, w, h, depth, pitch float64) {
	ridge := h + (w/2)*math.Tan(pitch*math.Pi/180)
	l0, r0 := artifact.Vec3{X: 0, Y: h, Z: 0}, artifact.Vec3{X: w, Y: h, Z: 0}
	l1, r1 := artifact.Vec3{X: 0, Y: h, Z: depth}, artifact.Vec3{X: w, Y: h, Z: depth}
	t0, t1 := artifact.Vec3{X: w / 2, Y: ridge, Z: 0}, artifact.Vec3{X: w / 2, Y: ridge, Z: depth}
	b.quad(l0, t0, t1, l1)
	b.quad(t0, r0, r1, t1)
	b.tri(l0, r0, t0)
	b.tri(r1, l1, t1)
}

func nestedImage(ctx context.Context, req *generator.Request, id string, raw param.Raw) (*artifact.Image, error) {
	a, err := req.Pipeline.Generate(ctx, id, raw)
	if err != nil {
		return nil, err
	}
	img, ok := a.(*artifact.Image)
	if !ok || img.Pix == nil {
		return nil, fmt.Errorf("%s: %s did not produce an image", req.ID, id)
	}
	return img, nil
}
