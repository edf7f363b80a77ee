// Package forge is the boundary of the asset pipeline: it wires the
// registry, the artifact cache, the composer and the exporter together and
// exposes the operations callers use.
package forge

import (
	"context"
	"fmt"

	"assetforge/internal/artifact"
	"assetforge/internal/assembly"
	artifactcache "assetforge/internal/cache/artifact"
	"assetforge/internal/export"
	"assetforge/internal/generator"
	"assetforge/internal/param"
	"assetforge/internal/registry"
	"assetforge/internal/scene"
)

// Options configures a Service. Zero values select the in-memory scene and
// no exporter.
type Options struct {
	Sources  []registry.Source
	Scene    scene.Scene
	Exporter *export.Exporter
}

type Service struct {
	sources   []registry.Source
	registry  *registry.Registry
	artifacts *artifactcache.Cache
	composer  *assembly.Composer
	exporter  *export.Exporter
}

type Metrics struct {
	Artifacts  artifactcache.MetricsSnapshot `json:"artifacts"`
	Assemblies assembly.MetricsSnapshot      `json:"assemblies"`
}

func New(opts Options) *Service {
	sc := opts.Scene
	if sc == nil {
		sc = scene.NewGraph()
	}
	reg := registry.New()
	cache := artifactcache.New(reg)
	return &Service{
		sources:   opts.Sources,
		registry:  reg,
		artifacts: cache,
		composer:  assembly.New(cache, reg, sc),
		exporter:  opts.Exporter,
	}
}

// Init discovers the configured generator sources. It is safe to call again.
func (s *Service) Init() error {
	if err := s.registry.Discover(s.sources...); err != nil {
		return fmt.Errorf("forge init: %w", err)
	}
	return nil
}

// Clear unloads every assembly, empties the artifact cache and forgets the
// registered generators. Init must run again before the next request.
func (s *Service) Clear() {
	s.ClearCaches()
	s.registry.Clear()
}

// ClearCaches unloads every assembly and empties the artifact cache.
func (s *Service) ClearCaches() {
	s.composer.Clear()
	s.artifacts.Clear()
	if s.exporter != nil {
		s.exporter.Forget()
	}
}

func (s *Service) Registry() *registry.Registry { return s.registry }

func (s *Service) Artifacts() *artifactcache.Cache { return s.artifacts }

func (s *Service) Composer() *assembly.Composer { return s.composer }

func (s *Service) ListGenerators(category string) []generator.Descriptor {
	return s.registry.List(category)
}

func (s *Service) GetTemplate(id string) (generator.Template, error) {
	entry, err := s.registry.Resolve(id)
	if err != nil {
		return generator.Template{}, err
	}
	return entry.Descriptor.Template(), nil
}

// GenerateArtifact returns the cached or freshly generated artifact. A nil
// raw config selects every default.
func (s *Service) GenerateArtifact(ctx context.Context, id string, raw param.Raw) (artifact.Artifact, error) {
	return s.artifacts.Generate(ctx, id, raw)
}

func (s *Service) BuildAssembly(ctx context.Context, bp *artifact.Blueprint, assemblyID string, raw param.Raw) (*assembly.Instance, error) {
	return s.composer.Build(ctx, bp, assemblyID, raw)
}

// Assemble generates the blueprint of a blueprint generator and builds it.
// The assembly key uses the validated config, so raw configs that validate
// alike share one instance, and a hit never touches the generator.
func (s *Service) Assemble(ctx context.Context, id string, raw param.Raw) (*assembly.Instance, error) {
	entry, err := s.registry.Resolve(id)
	if err != nil {
		return nil, err
	}
	normalized := entry.Descriptor.Fields.Validate(raw).Raw()
	return s.composer.Assemble(ctx, entry.Descriptor.ID, normalized, func(ctx context.Context) (*artifact.Blueprint, error) {
		a, err := s.artifacts.Generate(ctx, id, raw)
		if err != nil {
			return nil, err
		}
		bp, ok := a.(*artifact.Blueprint)
		if !ok {
			return nil, fmt.Errorf("%s produced a %s, not a blueprint", id, a.Kind())
		}
		return bp, nil
	})
}

func (s *Service) UnloadAssembly(inst *assembly.Instance) {
	s.composer.Unload(inst)
}

// Assembly returns a live instance by its assembly key.
func (s *Service) Assembly(key string) (*assembly.Instance, bool) {
	return s.composer.Lookup(key)
}

// Export generates (or reuses) an artifact and writes its encoding to the
// configured store.
func (s *Service) Export(ctx context.Context, id string, raw param.Raw) (export.Ref, error) {
	if s.exporter == nil {
		return export.Ref{}, fmt.Errorf("export: no store configured")
	}
	a, key, err := s.generateKeyed(ctx, id, raw)
	if err != nil {
		return export.Ref{}, err
	}
	return s.exporter.Export(ctx, key, a)
}

// ReadExport reads a previously exported file back from the store.
func (s *Service) ReadExport(ctx context.Context, namespace, path string) ([]byte, error) {
	if s.exporter == nil {
		return nil, fmt.Errorf("export: no store configured")
	}
	return s.exporter.Open(ctx, namespace, path)
}

// ListExports lists the exported files of one generator.
func (s *Service) ListExports(ctx context.Context, namespace string) ([]string, error) {
	if s.exporter == nil {
		return nil, fmt.Errorf("export: no store configured")
	}
	return s.exporter.List(ctx, namespace)
}

// Encoded returns the encoded files of an artifact without storing them.
func (s *Service) Encoded(ctx context.Context, id string, raw param.Raw) (string, []export.File, error) {
	a, key, err := s.generateKeyed(ctx, id, raw)
	if err != nil {
		return "", nil, err
	}
	if s.exporter != nil {
		files, err := s.exporter.Encode(key, a)
		return key, files, err
	}
	_, digest := export.SplitKey(key)
	files, err := export.Encode(a, digest)
	return key, files, err
}

func (s *Service) Metrics() Metrics {
	return Metrics{
		Artifacts:  s.artifacts.Metrics(),
		Assemblies: s.composer.Metrics(),
	}
}

func (s *Service) generateKeyed(ctx context.Context, id string, raw param.Raw) (artifact.Artifact, string, error) {
	a, err := s.artifacts.Generate(ctx, id, raw)
	if err != nil {
		return nil, "", err
	}
	key, err := s.artifacts.Key(id, raw)
	if err != nil {
		return nil, "", err
	}
	return a, key, nil
}
