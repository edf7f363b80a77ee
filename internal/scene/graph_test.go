package scene

import (
	"errors"
	"testing"

	"assetforge/internal/artifact"
)

func TestGraphAttachAndDispose(t *testing.T) {
	g := NewGraph()
	root, err := g.Root("plaza")
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	child, err := g.Attach(root, Node{Name: "tree", Model: "cone", Transform: artifact.Transform{Scale: artifact.Uniform(1)}})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if g.Live() != 2 {
		t.Fatalf("expected 2 live nodes, got %d", g.Live())
	}
	if got := g.Children(root.ID()); len(got) != 1 || got[0] != child.ID() {
		t.Fatalf("children: %v", got)
	}
	if n, ok := g.Node(child.ID()); !ok || n.Model != "cone" {
		t.Fatalf("node lookup: %+v %v", n, ok)
	}

	child.Dispose()
	child.Dispose()
	root.Dispose()
	if g.Live() != 0 {
		t.Fatalf("expected no live nodes, got %d", g.Live())
	}
	if _, err := g.Attach(root, Node{Name: "late"}); !errors.Is(err, ErrDisposed) {
		t.Fatalf("attach to disposed root: %v", err)
	}
}

func TestGraphRejectsForeignParent(t *testing.T) {
	a, b := NewGraph(), NewGraph()
	root, _ := a.Root("a")
	if _, err := b.Attach(root, Node{Name: "x"}); err == nil {
		t.Fatalf("expected error for foreign parent")
	}
}
