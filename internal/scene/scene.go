// Package scene is the boundary to the rendering layer: the composer hands it
// nodes and receives opaque handles back.
package scene

import (
	"image/color"

	"assetforge/internal/artifact"
)

// Handle is an opaque reference to a realised node. Dispose must be safe to
// call more than once.
type Handle interface {
	ID() string
	Dispose()
}

// Node describes one element to realise. Exactly one of Mesh or Model is
// expected; Texture and Color are optional.
type Node struct {
	Name         string
	Group        string
	Model        string // primitive name when Mesh is nil
	Mesh         *artifact.Mesh
	Texture      *artifact.Image
	Color        *color.NRGBA
	TextureScale [2]float64
	Transform    artifact.Transform
}

// Scene realises nodes. Implementations must be safe for concurrent use.
type Scene interface {
	// Root creates a detached root node.
	Root(name string) (Handle, error)
	// Attach realises n as a child of parent.
	Attach(parent Handle, n Node) (Handle, error)
}
