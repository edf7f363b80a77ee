package export

import (
	"context"
	"fmt"
	"log"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"assetforge/internal/artifact"
	artifactrepo "assetforge/internal/gateway/repository/artifact"
)

const DefaultEncodedEntries = 256

// Ref describes an exported artifact: where its primary file landed and
// which companion files were written next to it.
type Ref struct {
	Key         string   `json:"key"`
	Namespace   string   `json:"namespace"`
	Path        string   `json:"path"`
	ContentType string   `json:"content_type"`
	Size        int      `json:"size"`
	URL         string   `json:"url,omitempty"`
	Files       []string `json:"files"`
}

// Exporter writes encoded artifacts to a store under
// <generator id>/<digest><suffix>. Encodings are kept in a bounded LRU
// keyed by cache key, since artifacts never change once cached.
type Exporter struct {
	store   artifactrepo.Store
	encoded *lru.Cache[string, []File]
}

func New(store artifactrepo.Store, entries int) (*Exporter, error) {
	if store == nil {
		return nil, fmt.Errorf("export: store is nil")
	}
	if entries <= 0 {
		entries = DefaultEncodedEntries
	}
	cache, err := lru.New[string, []File](entries)
	if err != nil {
		return nil, err
	}
	return &Exporter{store: store, encoded: cache}, nil
}

// Store returns the underlying sink.
func (e *Exporter) Store() artifactrepo.Store {
	return e.store
}

// Encode returns the files for a under its cache key, encoding on first use.
func (e *Exporter) Encode(key string, a artifact.Artifact) ([]File, error) {
	if files, ok := e.encoded.Get(key); ok {
		return files, nil
	}
	_, digest := SplitKey(key)
	files, err := Encode(a, digest)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", key, err)
	}
	e.encoded.Add(key, files)
	return files, nil
}

// Export encodes a and writes every file to the store.
func (e *Exporter) Export(ctx context.Context, key string, a artifact.Artifact) (Ref, error) {
	namespace, digest := SplitKey(key)
	if namespace == "" || digest == "" {
		return Ref{}, fmt.Errorf("export: malformed cache key %q", key)
	}
	files, err := e.Encode(key, a)
	if err != nil {
		return Ref{}, err
	}

	ref := Ref{Key: key, Namespace: namespace}
	for i, f := range files {
		path := digest + f.Suffix
		if err := e.store.Put(ctx, namespace, path, f.Data); err != nil {
			return Ref{}, fmt.Errorf("export %s: put %s: %w", key, path, err)
		}
		ref.Files = append(ref.Files, path)
		if i == 0 {
			ref.Path, ref.ContentType, ref.Size = path, f.ContentType, len(f.Data)
		}
	}
	url, err := e.store.GetURL(ctx, namespace, ref.Path)
	if err != nil {
		log.Printf("export: no url for %s/%s: %v", namespace, ref.Path, err)
	}
	ref.URL = url
	log.Printf("export: wrote %s/%s (%d files, %d bytes)", namespace, ref.Path, len(files), ref.Size)
	return ref, nil
}

// Open reads an exported file back from the store.
func (e *Exporter) Open(ctx context.Context, namespace, path string) ([]byte, error) {
	return e.store.Get(ctx, namespace, path)
}

// List returns the exported paths of one generator.
func (e *Exporter) List(ctx context.Context, namespace string) ([]string, error) {
	return e.store.List(ctx, namespace)
}

// Forget drops cached encodings.
func (e *Exporter) Forget() {
	e.encoded.Purge()
}

// SplitKey splits "{id}:{digest}" at the last colon.
func SplitKey(key string) (id, digest string) {
	i := strings.LastIndex(key, ":")
	if i < 0 {
		return "", ""
	}
	return key[:i], key[i+1:]
}
