// Package generators bundles the builtin generator packages as registry
// discovery sources.
package generators

import (
	"assetforge/internal/generators/mesh"
	"assetforge/internal/generators/neighbourhood"
	"assetforge/internal/generators/texture"
	"assetforge/internal/registry"
)

// Builtin returns one source per builtin generator package.
func Builtin() []registry.Source {
	return []registry.Source{
		{Name: "builtin/texture", Load: texture.Entries},
		{Name: "builtin/mesh", Load: mesh.Entries},
		{Name: "builtin/neighbourhood", Load: neighbourhood.Entries},
	}
}
