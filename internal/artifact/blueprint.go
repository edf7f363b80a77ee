package artifact

import (
	"image/color"

	"assetforge/internal/param"
)

// Ref points at an artifact by generator id and raw config. The composer
// resolves refs through the artifact pipeline.
type Ref struct {
	Generator string    `json:"generator"`
	Config    param.Raw `json:"config,omitempty"`
}

// Transform places an element relative to its assembly root.
// Rotation is Euler degrees.
type Transform struct {
	Position Vec3 `json:"position"`
	Rotation Vec3 `json:"rotation"`
	Scale    Vec3 `json:"scale"`
}

// Ground is the backdrop every blueprint is laid out on.
type Ground struct {
	Texture      Ref        `json:"texture"`
	Model        string     `json:"model"` // primitive name, e.g. "plane"
	Scale        Vec3       `json:"scale"`
	TextureScale [2]float64 `json:"texture_scale"`
}

// Placement is a positioned sub-artifact. Artifact is set when the producing
// generator already resolved it; otherwise Ref is resolved at assembly time.
type Placement struct {
	Group     string    `json:"group"` // e.g. "houses"
	Ref       Ref       `json:"ref"`
	Artifact  Artifact  `json:"-"`
	Transform Transform `json:"transform"`
}

// Placeholder stands in for an element that no generator backs yet.
// Generator is tried first when registered; Primitive is the fallback.
type Placeholder struct {
	Group     string      `json:"group"`
	Generator string      `json:"generator,omitempty"`
	Primitive string      `json:"primitive"`
	Color     color.NRGBA `json:"color"`
	Transform Transform   `json:"transform"`
}

// Blueprint is an engine-agnostic description of a composed scene.
// It is never mutated after the generator returns it.
type Blueprint struct {
	Ground       *Ground       `json:"ground,omitempty"`
	Placements   []Placement   `json:"placements"`
	Placeholders []Placeholder `json:"placeholders"`
}

func (*Blueprint) Kind() Kind { return KindBlueprint }

// Group returns the placements belonging to one group, in blueprint order.
func (b *Blueprint) Group(name string) []Placement {
	if b == nil {
		return nil
	}
	var out []Placement
	for _, p := range b.Placements {
		if p.Group == name {
			out = append(out, p)
		}
	}
	return out
}

// Elements is the number of nodes the blueprint realises to, ground included.
func (b *Blueprint) Elements() int {
	if b == nil {
		return 0
	}
	n := len(b.Placements) + len(b.Placeholders)
	if b.Ground != nil {
		n++
	}
	return n
}
