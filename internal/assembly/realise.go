package assembly

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"slices"
	"strings"

	"assetforge/internal/artifact"
	artifactcache "assetforge/internal/cache/artifact"
	"assetforge/internal/registry"
	"assetforge/internal/scene"
)

var placementBrown = color.NRGBA{R: 165, G: 42, B: 42, A: 255}

// maxNesting bounds blueprint-in-blueprint depth for chains of distinct
// blueprints that never bottom out.
const maxNesting = 32

// builder accumulates the handles of one realisation so a failure part way
// through can release them.
type builder struct {
	c        *Composer
	id       string
	children []scene.Handle
	// visiting holds the blueprints on the current nesting path.
	visiting []*artifact.Blueprint
	path     []string
}

func (c *Composer) realise(ctx context.Context, key, assemblyID string, bp *artifact.Blueprint) (*Instance, error) {
	root, err := c.scene.Root("assembly_" + assemblyID)
	if err != nil {
		return nil, fmt.Errorf("assembly %s: root: %w", assemblyID, err)
	}
	b := &builder{c: c, id: assemblyID, path: []string{assemblyID}}
	if err := b.blueprint(ctx, root, bp); err != nil {
		dispose(root, b.children)
		return nil, err
	}
	return &Instance{
		Key:        key,
		AssemblyID: assemblyID,
		Root:       root,
		Children:   b.children,
		Blueprint:  bp,
	}, nil
}

func (b *builder) blueprint(ctx context.Context, parent scene.Handle, bp *artifact.Blueprint) error {
	if slices.Contains(b.visiting, bp) {
		return fmt.Errorf("assembly %s: blueprint contains itself: %w", b.id,
			&nestingError{path: slices.Clone(b.path)})
	}
	if len(b.visiting) >= maxNesting {
		return fmt.Errorf("assembly %s: blueprints nested deeper than %d (%s): %w",
			b.id, maxNesting, strings.Join(b.path, " -> "), ErrInvalidBlueprintReference)
	}
	b.visiting = append(b.visiting, bp)
	defer func() { b.visiting = b.visiting[:len(b.visiting)-1] }()

	if g := bp.Ground; g != nil {
		a, err := b.resolve(ctx, g.Texture)
		if err != nil {
			return fmt.Errorf("assembly %s: ground: %w", b.id, err)
		}
		tex, ok := a.(*artifact.Image)
		if !ok {
			return fmt.Errorf("assembly %s: ground texture %s is a %s: %w", b.id, g.Texture.Generator, a.Kind(), ErrInvalidBlueprintReference)
		}
		if err := b.attach(parent, scene.Node{
			Name:         "ground",
			Model:        g.Model,
			Texture:      tex,
			TextureScale: g.TextureScale,
			Transform:    artifact.Transform{Scale: g.Scale},
		}); err != nil {
			return err
		}
	}

	for i, p := range bp.Placements {
		a := p.Artifact
		if a == nil {
			var err error
			if a, err = b.resolve(ctx, p.Ref); err != nil {
				return fmt.Errorf("assembly %s: placement %d (%s): %w", b.id, i, p.Group, err)
			}
		}
		if err := b.artifact(ctx, parent, p.Group, a, p.Transform); err != nil {
			return err
		}
	}

	for _, ph := range bp.Placeholders {
		if err := b.placeholder(ctx, parent, ph); err != nil {
			return err
		}
	}
	return nil
}

// artifact attaches one resolved artifact. Nested blueprints get their own
// group node carrying the transform.
func (b *builder) artifact(ctx context.Context, parent scene.Handle, group string, a artifact.Artifact, tf artifact.Transform) error {
	switch v := a.(type) {
	case *artifact.Mesh:
		return b.attach(parent, scene.Node{Name: group, Group: group, Mesh: v, Texture: v.Texture, Transform: tf})
	case *artifact.Image:
		return b.attach(parent, scene.Node{Name: group, Group: group, Model: "quad", Texture: v, Transform: tf})
	case *artifact.Blueprint:
		h, err := b.c.scene.Attach(parent, scene.Node{Name: group, Group: group, Transform: tf})
		if err != nil {
			return fmt.Errorf("assembly %s: attach %s: %w", b.id, group, err)
		}
		b.children = append(b.children, h)
		b.path = append(b.path, group)
		defer func() { b.path = b.path[:len(b.path)-1] }()
		return b.blueprint(ctx, h, v)
	default:
		c := placementBrown
		return b.attach(parent, scene.Node{Name: group, Group: group, Model: "cube", Color: &c, Transform: tf})
	}
}

// placeholder uses the named generator when one is registered and falls back
// to the primitive otherwise.
func (b *builder) placeholder(ctx context.Context, parent scene.Handle, ph artifact.Placeholder) error {
	if ph.Generator != "" && b.c.catalog != nil && b.c.catalog.Has(ph.Generator) {
		a, err := b.c.pipeline.Generate(ctx, ph.Generator, nil)
		if err != nil {
			return fmt.Errorf("assembly %s: placeholder %s: %w", b.id, ph.Generator, err)
		}
		return b.artifact(ctx, parent, ph.Group, a, ph.Transform)
	}
	model := ph.Primitive
	if model == "" {
		model = "cube"
	}
	c := ph.Color
	return b.attach(parent, scene.Node{Name: ph.Group, Group: ph.Group, Model: model, Color: &c, Transform: ph.Transform})
}

func (b *builder) resolve(ctx context.Context, ref artifact.Ref) (artifact.Artifact, error) {
	if ref.Generator == "" {
		return nil, fmt.Errorf("empty generator reference: %w", ErrInvalidBlueprintReference)
	}
	a, err := b.c.pipeline.Generate(ctx, ref.Generator, ref.Config)
	if errors.Is(err, registry.ErrUnknownGenerator) {
		return nil, fmt.Errorf("%s: %w (%w)", ref.Generator, ErrInvalidBlueprintReference, err)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (b *builder) attach(parent scene.Handle, n scene.Node) error {
	h, err := b.c.scene.Attach(parent, n)
	if err != nil {
		return fmt.Errorf("assembly %s: attach %s: %w", b.id, n.Name, err)
	}
	b.children = append(b.children, h)
	return nil
}

// nestingError reports a blueprint that is realised inside itself. It is both
// an invalid reference and a generation cycle.
type nestingError struct {
	path []string
}

func (e *nestingError) Error() string {
	return fmt.Sprintf("%v via %s", artifactcache.ErrCyclicGeneration, strings.Join(e.path, " -> "))
}

func (e *nestingError) Unwrap() []error {
	return []error{ErrInvalidBlueprintReference, artifactcache.ErrCyclicGeneration}
}
