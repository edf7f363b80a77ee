// Package texture contains the image generators.
package texture

import "assetforge/internal/generator"

const Category = "texture"

// Entries lists the generators of this package for registry discovery.
func Entries() []generator.Entry {
	return []generator.Entry{
		{Descriptor: cobblestoneDescriptor, Factory: func() generator.Generator { return Cobblestone{} }},
		{Descriptor: plasterWallDescriptor, Factory: func() generator.Generator { return PlasterWall{} }},
		{Descriptor: woodPlanksDescriptor, Factory: func() generator.Generator { return WoodPlanks{} }},
	}
}
