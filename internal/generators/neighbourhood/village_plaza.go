// Package neighbourhood contains the blueprint generators that compose
// other artifacts into a scene.
package neighbourhood

import (
	"context"
	"fmt"
	"image/color"
	"math"

	"assetforge/internal/artifact"
	"assetforge/internal/generator"
	"assetforge/internal/param"
)

const (
	Category = "neighbourhood"

	GroupHouses   = "houses"
	GroupTrees    = "trees"
	GroupFountain = "fountain"

	houseGenerator = "mesh.fachwerk_house"
)

var (
	treeGreen    = color.NRGBA{R: 0, G: 255, B: 0, A: 255}
	fountainBlue = color.NRGBA{R: 0, G: 127, B: 255, A: 255}
)

var villagePlazaDescriptor = generator.Descriptor{
	ID:          "neighbourhood.village_plaza",
	Category:    Category,
	Description: "Compact medieval plaza with cobblestone floor and Fachwerk houses.",
	Version:     "1.0",
	Fields: param.Fields{
		"seed":        param.Int(42).Range(0, 999999),
		"houses":      param.Int(4).Range(1, 12),
		"radius":      param.Float(10).Range(5, 20),
		"tree_count":  param.Int(6).Range(0, 20),
		"house_style": param.Enum("classic", "classic", "diagonal", "plain"),
	},
}

// Entries lists the generators of this package for registry discovery.
func Entries() []generator.Entry {
	return []generator.Entry{
		{Descriptor: villagePlazaDescriptor, Factory: func() generator.Generator { return VillagePlaza{} }},
	}
}

// VillagePlaza rings houses around a central fountain and scatters trees
// across a cobblestone ground.
type VillagePlaza struct{}

func (VillagePlaza) Generate(ctx context.Context, req *generator.Request) (artifact.Artifact, error) {
	cfg := req.Config
	rng := req.Rand
	houses := cfg.Int("houses")
	radius := cfg.Float("radius")
	diagonals := cfg.Enum("house_style") != "plain"

	bp := &artifact.Blueprint{
		Ground: &artifact.Ground{
			Texture:      artifact.Ref{Generator: "texture.cobblestone", Config: param.Raw{"size": 512}},
			Model:        "plane",
			Scale:        artifact.Vec3{X: 30, Y: 1, Z: 30},
			TextureScale: [2]float64{10, 10},
		},
	}

	for i := 0; i < houses; i++ {
		angle := float64(i) / float64(houses) * 2 * math.Pi
		r := radius * generator.Uniform(rng, 0.9, 1.1)
		ref := artifact.Ref{
			Generator: houseGenerator,
			Config: param.Raw{
				"floors":     generator.Choice(rng, 1, 2, 3),
				"width":      generator.Uniform(rng, 5, 8),
				"depth":      generator.Uniform(rng, 3, 5),
				"beam_thick": generator.Uniform(rng, 0.15, 0.25),
				"diagonals":  diagonals,
				"roof_pitch": generator.Uniform(rng, 40, 50),
			},
		}
		// Houses face the fountain, give or take a few degrees.
		yaw := 270 - angle*180/math.Pi + generator.Uniform(rng, -10, 10)

		house, err := req.Pipeline.Generate(ctx, ref.Generator, ref.Config)
		if err != nil {
			return nil, fmt.Errorf("%s: house %d: %w", req.ID, i, err)
		}
		bp.Placements = append(bp.Placements, artifact.Placement{
			Group:    GroupHouses,
			Ref:      ref,
			Artifact: house,
			Transform: artifact.Transform{
				Position: artifact.Vec3{X: r * math.Cos(angle), Z: r * math.Sin(angle)},
				Rotation: artifact.Vec3{Y: yaw},
				Scale:    artifact.Uniform(1),
			},
		})
	}

	for i := 0; i < cfg.Int("tree_count"); i++ {
		x, z := generator.Uniform(rng, -12, 12), generator.Uniform(rng, -12, 12)
		bp.Placeholders = append(bp.Placeholders, artifact.Placeholder{
			Group:     GroupTrees,
			Generator: "mesh.tree",
			Primitive: "cone",
			Color:     treeGreen,
			Transform: artifact.Transform{
				Position: artifact.Vec3{X: x, Z: z},
				Scale:    artifact.Uniform(generator.Uniform(rng, 0.8, 1.4)),
			},
		})
	}

	bp.Placeholders = append(bp.Placeholders, artifact.Placeholder{
		Group:     GroupFountain,
		Generator: "mesh.fountain",
		Primitive: "cylinder",
		Color:     fountainBlue,
		Transform: artifact.Transform{Scale: artifact.Vec3{X: 2, Y: 1, Z: 2}},
	})
	return bp, nil
}
