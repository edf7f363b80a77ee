package texture

import (
	"context"

	"assetforge/internal/artifact"
	"assetforge/internal/generator"
	"assetforge/internal/param"
	"assetforge/internal/raster"
)

var plasterWallDescriptor = generator.Descriptor{
	ID:          "texture.plaster_wall",
	Category:    Category,
	Description: "Plaster or whitewashed wall texture with subtle roughness and stains.",
	Version:     "1.0",
	Fields: param.Fields{
		"size":      param.Int(512).Range(128, 2048),
		"roughness": param.Float(0.25).Range(0, 1),
		"stains":    param.Int(40).Range(0, 200),
		"tone":      param.Enum("neutral", "neutral", "warm", "cold"),
	},
}

var plasterTones = map[string][3]int{
	"neutral": {210, 205, 200},
	"warm":    {215, 210, 190},
	"cold":    {190, 195, 210},
}

// PlasterWall speckles a toned base with noise and round stains.
type PlasterWall struct{}

func (PlasterWall) Generate(ctx context.Context, req *generator.Request) (artifact.Artifact, error) {
	rng := req.Rand
	size := req.Config.Int("size")
	tone := plasterTones[req.Config.Enum("tone")]

	img := raster.New(size, size, raster.RGB(tone[0], tone[1], tone[2]))

	specks := int(float64(size*size) * req.Config.Float("roughness") * 0.3)
	for i := 0; i < specks; i++ {
		x, y := generator.Between(rng, 0, size-1), generator.Between(rng, 0, size-1)
		raster.Set(img, x, y, raster.Gray(generator.Between(rng, 180, 230)))
	}

	for i := 0; i < req.Config.Int("stains"); i++ {
		x, y := generator.Between(rng, 0, size-1), generator.Between(rng, 0, size-1)
		r := generator.Between(rng, 10, 40)
		c := generator.Between(rng, 120, 180)
		raster.FillEllipse(img, x-r, y-r, x+r, y+r, raster.Gray(c))
	}

	return &artifact.Image{Pix: raster.Blur(img, 1.2)}, nil
}
