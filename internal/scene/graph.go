package scene

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var ErrDisposed = errors.New("scene: node disposed")

// Graph is an in-memory Scene. It records realised nodes so that callers
// can inspect what an assembly produced and verify disposal.
type Graph struct {
	mu    sync.Mutex
	nodes map[string]*graphNode
}

type graphNode struct {
	graph    *Graph
	id       string
	parent   string
	node     Node
	disposed bool
}

func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*graphNode)}
}

func (g *Graph) Root(name string) (Handle, error) {
	return g.add("", Node{Name: name}), nil
}

func (g *Graph) Attach(parent Handle, n Node) (Handle, error) {
	p, ok := parent.(*graphNode)
	if !ok || p.graph != g {
		return nil, fmt.Errorf("scene: parent %v does not belong to this graph", parent)
	}
	g.mu.Lock()
	disposed := p.disposed
	g.mu.Unlock()
	if disposed {
		return nil, fmt.Errorf("attach to %s: %w", p.id, ErrDisposed)
	}
	return g.add(p.id, n), nil
}

func (g *Graph) add(parent string, n Node) *graphNode {
	gn := &graphNode{graph: g, id: uuid.NewString(), parent: parent, node: n}
	g.mu.Lock()
	g.nodes[gn.id] = gn
	g.mu.Unlock()
	return gn
}

// Live returns the number of nodes not yet disposed.
func (g *Graph) Live() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, gn := range g.nodes {
		if !gn.disposed {
			n++
		}
	}
	return n
}

// Node returns the description of a live node.
func (g *Graph) Node(id string) (Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	gn, ok := g.nodes[id]
	if !ok || gn.disposed {
		return Node{}, false
	}
	return gn.node, true
}

// Children returns the ids of the live children of id, sorted.
func (g *Graph) Children(id string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []string
	for _, gn := range g.nodes {
		if gn.parent == id && !gn.disposed {
			out = append(out, gn.id)
		}
	}
	sort.Strings(out)
	return out
}

func (n *graphNode) ID() string { return n.id }

// Dispose marks the node gone and drops it from the graph. Further calls are
// no-ops.
func (n *graphNode) Dispose() {
	g := n.graph
	g.mu.Lock()
	defer g.mu.Unlock()
	if n.disposed {
		return
	}
	n.disposed = true
	delete(g.nodes, n.id)
}
