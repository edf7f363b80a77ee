// Package mesh contains the geometry generators.
package mesh

import "assetforge/internal/generator"

const Category = "mesh"

// Entries lists the generators of this package for registry discovery.
func Entries() []generator.Entry {
	return []generator.Entry{
		{Descriptor: fachwerkHouseDescriptor, Factory: func() generator.Generator { return FachwerkHouse{} }},
	}
}
