package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"assetforge/internal/safeio"
)

// DirStore writes exports below a local directory as <namespace>/<path>.
type DirStore struct {
	fs *safeio.SafeFS
}

func NewDirStore(root string) (*DirStore, error) {
	fsys, err := safeio.NewSafeFS(root)
	if err != nil {
		return nil, fmt.Errorf("dir store: %w", err)
	}
	return &DirStore{fs: fsys}, nil
}

// Root returns the absolute export directory.
func (s *DirStore) Root() string {
	return s.fs.Root()
}

func (s *DirStore) Put(_ context.Context, namespace, path string, content []byte) error {
	rel, err := s.pathFor(namespace, path)
	if err != nil {
		return err
	}
	return s.fs.SafeWriteFile(rel, content)
}

func (s *DirStore) Get(_ context.Context, namespace, path string) ([]byte, error) {
	rel, err := s.pathFor(namespace, path)
	if err != nil {
		return nil, err
	}
	data, err := s.fs.SafeReadFile(rel)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *DirStore) List(_ context.Context, namespace string) ([]string, error) {
	if s == nil || s.fs == nil {
		return nil, fmt.Errorf("store is nil")
	}
	namespace = strings.TrimSpace(namespace)
	if namespace == "" || strings.Contains(namespace, "..") {
		return nil, fmt.Errorf("invalid namespace: %q", namespace)
	}
	return s.fs.SafeListFiles(namespace)
}

func (s *DirStore) GetURL(_ context.Context, _, _ string) (string, error) {
	return "", nil
}

func (s *DirStore) pathFor(namespace, path string) (string, error) {
	if s == nil || s.fs == nil {
		return "", fmt.Errorf("store is nil")
	}
	namespace, path, err := normalize(namespace, path)
	if err != nil {
		return "", err
	}
	if strings.Contains(namespace, "..") || strings.Contains(path, "..") {
		return "", fmt.Errorf("invalid path: %s/%s", namespace, path)
	}
	return objectKey(namespace, path), nil
}
