// Package generator defines the contract between the pipeline and the
// procedural generators it dispatches to.
package generator

import (
	"context"
	"math/rand/v2"

	"assetforge/internal/artifact"
	"assetforge/internal/param"
)

// Descriptor identifies one generator variant. The ID is part of every cache
// key derived for it and must stay stable; Version is informational only.
type Descriptor struct {
	ID          string       `json:"id"`       // e.g. "texture.cobblestone"
	Category    string       `json:"category"` // grouping label, never used for dispatch
	Description string       `json:"description"`
	Version     string       `json:"version"`
	Fields      param.Fields `json:"-"`
}

// Template is the introspection view of a descriptor: the default config
// plus field metadata.
type Template struct {
	ID      string                     `json:"id"`
	Version string                     `json:"version"`
	Config  param.Config               `json:"config"`
	Meta    map[string]param.FieldMeta `json:"meta"`
}

// Template builds the descriptor's template. It has no side effects.
func (d Descriptor) Template() Template {
	return Template{
		ID:      d.ID,
		Version: d.Version,
		Config:  d.Fields.Validate(nil),
		Meta:    d.Fields.Meta(),
	}
}

// Requester issues nested generation requests on behalf of a generator.
// The context must be the one handed to Generate so that the request chain
// is tracked.
type Requester interface {
	Generate(ctx context.Context, id string, raw param.Raw) (artifact.Artifact, error)
}

// Request is everything one Generate call may depend on.
type Request struct {
	ID       string
	Key      string
	Config   param.Config
	Seed     uint64
	Rand     *rand.Rand
	Pipeline Requester
}

// NewRequest seeds a request from a validated config.
func NewRequest(id string, cfg param.Config, pipeline Requester) *Request {
	seed := param.Seed(cfg)
	return &Request{
		ID:       id,
		Key:      param.Key(id, cfg),
		Config:   cfg,
		Seed:     seed,
		Rand:     NewRand(seed),
		Pipeline: pipeline,
	}
}

// NewRand returns the deterministic source used for a given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generator produces one artifact from a validated config. Implementations
// must be a pure function of req.Config and req.Rand, apart from nested
// requests made through req.Pipeline.
type Generator interface {
	Generate(ctx context.Context, req *Request) (artifact.Artifact, error)
}

// Func adapts a plain function to Generator.
type Func func(ctx context.Context, req *Request) (artifact.Artifact, error)

func (f Func) Generate(ctx context.Context, req *Request) (artifact.Artifact, error) {
	return f(ctx, req)
}

// Factory constructs a fresh generator for one call.
type Factory func() Generator

// Entry pairs a descriptor with its factory, as registered.
type Entry struct {
	Descriptor Descriptor
	Factory    Factory
}
