// Package artifact holds the sinks exported artifacts are written to. Objects
// are addressed by a namespace (the generator id) and a path inside it.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store persists encoded artifacts.
type Store interface {
	Put(ctx context.Context, namespace, path string, content []byte) error
	Get(ctx context.Context, namespace, path string) ([]byte, error)
	// GetURL returns a link to the object, or "" when the sink has none.
	GetURL(ctx context.Context, namespace, path string) (string, error)
	List(ctx context.Context, namespace string) ([]string, error)
}

var ErrNotFound = errors.New("exported artifact not found")

func normalize(namespace, path string) (string, string, error) {
	namespace = strings.TrimSpace(namespace)
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if namespace == "" {
		return "", "", fmt.Errorf("namespace is required")
	}
	if path == "" {
		return "", "", fmt.Errorf("path is required")
	}
	return namespace, path, nil
}

func objectKey(namespace, path string) string {
	return namespace + "/" + path
}
