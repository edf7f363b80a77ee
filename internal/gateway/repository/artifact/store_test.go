package artifact

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"
)

type fakeOriginStore struct {
	mu sync.Mutex

	data map[string][]byte
	urls map[string]string

	getCalls  int
	putCalls  int
	listCalls int
	urlCalls  int

	failPut bool
}

func newFakeOriginStore() *fakeOriginStore {
	return &fakeOriginStore{
		data: map[string][]byte{},
		urls: map[string]string{},
	}
}

func (s *fakeOriginStore) Put(_ context.Context, namespace, path string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putCalls++
	if s.failPut {
		return fmt.Errorf("put failed")
	}
	s.data[namespace+"/"+path] = append([]byte(nil), content...)
	return nil
}

func (s *fakeOriginStore) Get(_ context.Context, namespace, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	raw, ok := s.data[namespace+"/"+path]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (s *fakeOriginStore) GetURL(_ context.Context, namespace, path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urlCalls++
	return s.urls[namespace+"/"+path], nil
}

func (s *fakeOriginStore) List(_ context.Context, namespace string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	out := make([]string, 0, 8)
	prefix := namespace + "/"
	for k := range s.data {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, k[len(prefix):])
		}
	}
	return out, nil
}

func TestCachedStoreReadThroughAndMetrics(t *testing.T) {
	origin := newFakeOriginStore()
	origin.data["texture.cobblestone/abc.png"] = []byte("png")
	store := NewCachedStore(origin, CacheConfig{
		BlobTTL: time.Minute, BlobMaxEntries: 8,
		ListTTL: time.Minute, ListMaxEntries: 8,
		URLTTL: time.Minute, URLMaxEntries: 8,
	})

	for i := 0; i < 2; i++ {
		got, err := store.Get(context.Background(), "texture.cobblestone", "abc.png")
		if err != nil {
			t.Fatalf("get %d failed: %v", i, err)
		}
		if string(got) != "png" {
			t.Fatalf("unexpected content: %q", got)
		}
	}
	if origin.getCalls != 1 {
		t.Fatalf("expected one origin get call, got %d", origin.getCalls)
	}
	m := store.Metrics()
	if m.BlobHits != 1 || m.BlobMisses != 1 || m.OriginReads != 1 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}

func TestCachedStoreWriteThrough(t *testing.T) {
	origin := newFakeOriginStore()
	store := NewCachedStore(origin, DefaultCacheConfig())
	ctx := context.Background()

	if _, err := store.List(ctx, "mesh.fachwerk_house"); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if err := store.Put(ctx, "mesh.fachwerk_house", "a.obj", []byte("v 0 0 0")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	got, err := store.Get(ctx, "mesh.fachwerk_house", "a.obj")
	if err != nil || string(got) != "v 0 0 0" {
		t.Fatalf("get after put: %q %v", got, err)
	}
	if origin.getCalls != 0 {
		t.Fatalf("expected put to populate the cache, origin saw %d gets", origin.getCalls)
	}
	list, err := store.List(ctx, "mesh.fachwerk_house")
	if err != nil || !reflect.DeepEqual(list, []string{"a.obj"}) {
		t.Fatalf("list after put should be refreshed: %v %v", list, err)
	}

	origin.failPut = true
	if err := store.Put(ctx, "mesh.fachwerk_house", "b.obj", []byte("bad")); err == nil {
		t.Fatalf("expected put error")
	}
	if _, err := store.Get(ctx, "mesh.fachwerk_house", "b.obj"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected miss for failed write, got %v", err)
	}
}

func TestCachedStoreEvictsLeastRecent(t *testing.T) {
	origin := newFakeOriginStore()
	origin.data["ns/a"] = []byte("A")
	origin.data["ns/b"] = []byte("B")
	store := NewCachedStore(origin, CacheConfig{BlobTTL: time.Minute, BlobMaxEntries: 1})
	ctx := context.Background()

	for _, p := range []string{"a", "b", "a"} {
		if _, err := store.Get(ctx, "ns", p); err != nil {
			t.Fatalf("get %s failed: %v", p, err)
		}
	}
	if origin.getCalls != 3 {
		t.Fatalf("expected 3 origin get calls with LRU eviction, got %d", origin.getCalls)
	}
}

func TestCachedStoreURL(t *testing.T) {
	origin := newFakeOriginStore()
	origin.urls["ns/p1"] = "https://example/p1"
	store := NewCachedStore(origin, DefaultCacheConfig())

	for i := 0; i < 2; i++ {
		u, err := store.GetURL(context.Background(), "ns", "p1")
		if err != nil || u != "https://example/p1" {
			t.Fatalf("url %d: %q %v", i, u, err)
		}
	}
	if origin.urlCalls != 1 {
		t.Fatalf("expected one origin url call, got %d", origin.urlCalls)
	}
}

func TestMemoryAndDirStores(t *testing.T) {
	dir, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("dir store: %v", err)
	}
	stores := map[string]Store{"memory": NewMemoryStore(), "dir": dir}
	ctx := context.Background()

	for name, s := range stores {
		if err := s.Put(ctx, "texture.wood_planks", "d1.png", []byte("one")); err != nil {
			t.Fatalf("%s put: %v", name, err)
		}
		if err := s.Put(ctx, "texture.wood_planks", "/d0.png", []byte("zero")); err != nil {
			t.Fatalf("%s put: %v", name, err)
		}
		got, err := s.Get(ctx, "texture.wood_planks", "d1.png")
		if err != nil || string(got) != "one" {
			t.Fatalf("%s get: %q %v", name, got, err)
		}
		if _, err := s.Get(ctx, "texture.wood_planks", "missing.png"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s missing: %v", name, err)
		}
		list, err := s.List(ctx, "texture.wood_planks")
		if err != nil || !reflect.DeepEqual(list, []string{"d0.png", "d1.png"}) {
			t.Fatalf("%s list: %v %v", name, list, err)
		}
		if err := s.Put(ctx, "", "x.png", nil); err == nil {
			t.Fatalf("%s: expected error for empty namespace", name)
		}
	}

	if err := dir.Put(ctx, "..", "escape.png", []byte("x")); err == nil {
		t.Fatalf("dir: expected traversal to be rejected")
	}
}
