package artifact

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrCyclicGeneration is returned when a generator, directly or through other
// generators, requests a key that is already being computed on its own chain.
var ErrCyclicGeneration = errors.New("cyclic generation")

// CycleError carries the request chain that closed the cycle.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", ErrCyclicGeneration.Error(), strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCyclicGeneration }

type ctxKeyChain struct{}

// chain is the list of keys in progress on one request chain, outermost first.
type chain []string

func chainFrom(ctx context.Context) chain {
	if ctx == nil {
		return nil
	}
	c, _ := ctx.Value(ctxKeyChain{}).(chain)
	return c
}

func (c chain) has(key string) bool {
	return slices.Contains(c, key)
}

func (c chain) push(key string) chain {
	out := make(chain, len(c), len(c)+1)
	copy(out, c)
	return append(out, key)
}

func withChain(ctx context.Context, c chain) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKeyChain{}, c)
}

// Chain returns the keys currently in progress on ctx's request chain.
func Chain(ctx context.Context) []string {
	return slices.Clone(chainFrom(ctx))
}
