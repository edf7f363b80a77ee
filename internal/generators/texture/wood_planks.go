package texture

import (
	"context"

	"assetforge/internal/artifact"
	"assetforge/internal/generator"
	"assetforge/internal/param"
	"assetforge/internal/raster"
)

var woodPlanksDescriptor = generator.Descriptor{
	ID:          "texture.wood_planks",
	Category:    Category,
	Description: "Procedural wooden plank texture, weathered medieval style.",
	Version:     "1.0",
	Fields: param.Fields{
		"size":        param.Int(512).Range(128, 2048),
		"plank_count": param.Int(8).Range(2, 32),
		"grain_noise": param.Float(0.3).Range(0, 1),
		"tint":        param.Enum("oak", "oak", "dark", "grey"),
	},
}

var woodTints = map[string][3]float64{
	"oak":  {1.0, 0.9, 0.8},
	"dark": {0.7, 0.6, 0.5},
	"grey": {0.6, 0.6, 0.6},
}

// WoodPlanks draws vertical planks with horizontal grain and dark seams.
type WoodPlanks struct{}

func (WoodPlanks) Generate(ctx context.Context, req *generator.Request) (artifact.Artifact, error) {
	rng := req.Rand
	size, planks := req.Config.Int("size"), req.Config.Int("plank_count")
	tint := woodTints[req.Config.Enum("tint")]
	grain := int(100 + 200*req.Config.Float("grain_noise"))

	img := raster.New(size, size, raster.RGB(90, 70, 50))
	plankW := size / planks
	for i := 0; i < planks; i++ {
		x0 := i * plankW
		base := float64(generator.Between(rng, 70, 100))
		col := raster.RGB(int(base*tint[0]), int(base*tint[1]), int(base*tint[2]))
		raster.FillRect(img, x0, 0, x0+plankW, size, col)

		for g := 0; g < grain; g++ {
			y := generator.Between(rng, 0, size-1)
			off := generator.Between(rng, -3, 3)
			raster.Line(img, x0+off, y, x0+plankW-off, y, raster.RGB(60, 45, 30), 1)
		}
		raster.Line(img, x0, 0, x0, size, raster.RGB(40, 25, 15), 2)
	}

	return &artifact.Image{Pix: raster.Blur(img, 0.6)}, nil
}
