package texture

import (
	"context"

	"assetforge/internal/artifact"
	"assetforge/internal/generator"
	"assetforge/internal/param"
	"assetforge/internal/raster"
)

var cobblestoneDescriptor = generator.Descriptor{
	ID:          "texture.cobblestone",
	Category:    Category,
	Description: "Procedural seamless cobblestone pattern.",
	Version:     "1.0",
	Fields: param.Fields{
		"size":  param.Int(512).Range(128, 2048),
		"cell":  param.Int(20).Range(4, 128),
		"style": param.Enum("regular", "regular", "cracked", "dark"),
	},
}

// Cobblestone lays jittered grey stones on a wrapping grid, then optionally
// cracks or darkens them.
type Cobblestone struct{}

func (Cobblestone) Generate(ctx context.Context, req *generator.Request) (artifact.Artifact, error) {
	rng := req.Rand
	size, cell := req.Config.Int("size"), req.Config.Int("cell")
	style := req.Config.Enum("style")

	img := raster.New(size, size, raster.Gray(130))
	for y := 0; y < size; y += cell {
		for x := 0; x < size; x += cell {
			dx := wrap(x+generator.Between(rng, -2, 2), size)
			dy := wrap(y+generator.Between(rng, -2, 2), size)
			w := cell + generator.Between(rng, -2, 2)
			h := cell + generator.Between(rng, -2, 2)
			g := generator.Between(rng, 110, 170)
			raster.FillRect(img, dx, dy, dx+w, dy+h, raster.Gray(g))
		}
	}

	switch style {
	case "cracked":
		for i := 0; i < 800; i++ {
			x1 := generator.Between(rng, 0, size-1)
			y1 := generator.Between(rng, 0, size-1)
			x2 := wrap(x1+generator.Between(rng, -3, 3), size)
			y2 := wrap(y1+generator.Between(rng, -3, 3), size)
			raster.Line(img, x1, y1, x2, y2, raster.Gray(60), 1)
		}
	case "dark":
		raster.Multiply(img, 0.8)
	}

	return &artifact.Image{Pix: raster.Blur(img, 0.8)}, nil
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
