package generators_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetforge/internal/artifact"
	artifactcache "assetforge/internal/cache/artifact"
	"assetforge/internal/generators"
	"assetforge/internal/generators/neighbourhood"
	"assetforge/internal/param"
	"assetforge/internal/registry"
)

func newPipeline(t *testing.T) (*registry.Registry, *artifactcache.Cache) {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.Discover(generators.Builtin()...))
	return reg, artifactcache.New(reg)
}

func TestBuiltinDiscovery(t *testing.T) {
	reg, _ := newPipeline(t)
	ids := make([]string, 0)
	for _, d := range reg.List("") {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{
		"mesh.fachwerk_house",
		"neighbourhood.village_plaza",
		"texture.cobblestone",
		"texture.plaster_wall",
		"texture.wood_planks",
	}, ids)

	require.NoError(t, reg.Discover(generators.Builtin()...))
	assert.Len(t, reg.List(""), 5)
	assert.Len(t, reg.List("texture"), 3)
}

func TestCobblestoneScenario(t *testing.T) {
	_, cache := newPipeline(t)
	ctx := context.Background()
	raw := param.Raw{"size": 512, "cell": 20, "style": "cracked"}

	first, err := cache.Generate(ctx, "texture.cobblestone", raw)
	require.NoError(t, err)
	second, err := cache.Generate(ctx, "texture.cobblestone", raw)
	require.NoError(t, err)
	require.Same(t, first, second)

	img := first.(*artifact.Image)
	assert.Equal(t, 512, img.Width())
	assert.Equal(t, 512, img.Height())
	assert.EqualValues(t, 1, cache.Metrics().Generations)

	glow, err := cache.Key("texture.cobblestone", param.Raw{"size": 512, "cell": 20, "style": "glow"})
	require.NoError(t, err)
	regular, err := cache.Key("texture.cobblestone", param.Raw{"size": 512, "cell": 20, "style": "regular"})
	require.NoError(t, err)
	assert.Equal(t, regular, glow)
}

func TestFachwerkHouseSharesTextures(t *testing.T) {
	_, cache := newPipeline(t)
	ctx := context.Background()

	a, err := cache.Generate(ctx, "mesh.fachwerk_house", param.Raw{"floors": 1, "width": 4.5})
	require.NoError(t, err)
	m, ok := a.(*artifact.Mesh)
	require.True(t, ok)
	require.NotEmpty(t, m.Triangles)
	require.NotNil(t, m.Texture)
	assert.Equal(t, 512, m.Texture.Width())
	for _, tri := range m.Triangles {
		for _, i := range tri {
			require.Less(t, i, len(m.Vertices))
		}
	}
	assert.Len(t, m.UVs, len(m.Vertices))

	lo, hi := m.Bounds()
	assert.InDelta(t, 0, lo.Y, 0.5)
	assert.Greater(t, hi.Y, 2.4)

	before := cache.Len()
	_, err = cache.Generate(ctx, "mesh.fachwerk_house", param.Raw{"floors": 2, "width": 4.5})
	require.NoError(t, err)
	// One new mesh; the wood texture is reused and the plaster tone is one of two.
	assert.LessOrEqual(t, cache.Len()-before, 2)
}

func TestVillagePlazaScenario(t *testing.T) {
	_, cache := newPipeline(t)
	ctx := context.Background()

	a, err := cache.Generate(ctx, "neighbourhood.village_plaza", param.Raw{"houses": 4, "seed": 42})
	require.NoError(t, err)
	bp, ok := a.(*artifact.Blueprint)
	require.True(t, ok)

	houses := bp.Group(neighbourhood.GroupHouses)
	require.Len(t, houses, 4)
	for _, h := range houses {
		require.NotNil(t, h.Artifact)
		assert.Equal(t, "mesh.fachwerk_house", h.Ref.Generator)
		key, err := cache.Key(h.Ref.Generator, h.Ref.Config)
		require.NoError(t, err)
		stored, ok := cache.Get(key)
		require.True(t, ok)
		assert.Same(t, stored, h.Artifact)
	}
	require.NotNil(t, bp.Ground)
	assert.Equal(t, "texture.cobblestone", bp.Ground.Texture.Generator)
	assert.Len(t, bp.Placeholders, 6+1)

	again, err := cache.Generate(ctx, "neighbourhood.village_plaza", param.Raw{"seed": 42, "houses": 4})
	require.NoError(t, err)
	assert.Same(t, a, again)
}

func TestVillagePlazaIsDeterministicAcrossCaches(t *testing.T) {
	ctx := context.Background()
	raw := param.Raw{"houses": 3, "tree_count": 2, "seed": 7}

	_, c1 := newPipeline(t)
	_, c2 := newPipeline(t)
	a, err := c1.Generate(ctx, "neighbourhood.village_plaza", raw)
	require.NoError(t, err)
	b, err := c2.Generate(ctx, "neighbourhood.village_plaza", raw)
	require.NoError(t, err)

	pa, pb := a.(*artifact.Blueprint), b.(*artifact.Blueprint)
	require.Len(t, pb.Placements, len(pa.Placements))
	for i := range pa.Placements {
		assert.Equal(t, pa.Placements[i].Transform, pb.Placements[i].Transform)
		assert.Equal(t, pa.Placements[i].Ref, pb.Placements[i].Ref)
	}
	assert.Equal(t, pa.Placeholders, pb.Placeholders)
	assert.Equal(t, c1.Keys(), c2.Keys())
}
