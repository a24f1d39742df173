package graph

import (
	"fmt"
	"sort"
	"sync"
)

// Graph is an undirected weighted graph over opaque string node IDs.
// It is built once by New and read-only afterwards; all accessors take the
// read lock, so a Graph may be shared across goroutines.
type Graph struct {
	mu    sync.RWMutex
	nodes []string                      // sorted node IDs for deterministic iteration
	adj   map[string]map[string]float64 // adj[u][v] = cost of edge u↔v
}

// New builds a Graph from the declared node set and edge list.
//
// Validation (in order, fail fast):
//  1. Every edge endpoint must be a declared node (ErrUnknownNode).
//  2. Every edge cost must be non-negative (ErrNegativeCost).
//
// Duplicate node IDs collapse to one node. Parallel edges between the same
// pair keep the cheapest cost, which is the only one a shortest-path or
// path-cost query could ever use.
func New(nodes []string, edges []Edge) (*Graph, error) {
	g := &Graph{
		adj: make(map[string]map[string]float64, len(nodes)),
	}

	// 1) Register all declared nodes.
	for _, id := range nodes {
		if _, ok := g.adj[id]; ok {
			continue // duplicate declaration
		}
		g.adj[id] = make(map[string]float64)
		g.nodes = append(g.nodes, id)
	}
	sort.Strings(g.nodes)

	// 2) Register edges symmetrically, validating endpoints and costs.
	for _, e := range edges {
		if _, ok := g.adj[e.Origin]; !ok {
			return nil, fmt.Errorf("%w: edge origin %q", ErrUnknownNode, e.Origin)
		}
		if _, ok := g.adj[e.Target]; !ok {
			return nil, fmt.Errorf("%w: edge target %q", ErrUnknownNode, e.Target)
		}
		if e.Cost < 0 {
			return nil, fmt.Errorf("%w: edge %s↔%s cost=%v", ErrNegativeCost, e.Origin, e.Target, e.Cost)
		}
		if cur, ok := g.adj[e.Origin][e.Target]; !ok || e.Cost < cur {
			g.adj[e.Origin][e.Target] = e.Cost
			g.adj[e.Target][e.Origin] = e.Cost
		}
	}

	return g, nil
}

// Nodes returns all node IDs in sorted order. The returned slice is a copy.
func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]string, len(g.nodes))
	copy(out, g.nodes)

	return out
}

// HasNode reports whether id is a declared node.
func (g *Graph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.adj[id]

	return ok
}

// neighbor is one adjacency entry: the node on the far side and the edge cost.
type neighbor struct {
	id   string
	cost float64
}

// neighbors returns the adjacency of id as a slice sorted by neighbor ID,
// so every traversal over the graph is deterministic.
// Caller must hold at least the read lock.
func (g *Graph) neighbors(id string) []neighbor {
	row := g.adj[id]
	out := make([]neighbor, 0, len(row))
	for v, c := range row {
		out = append(out, neighbor{id: v, cost: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })

	return out
}

// EdgeCost returns the cost of the edge between u and v.
// It returns ErrMissingEdge when the pair is not adjacent, a malformed-input
// signal distinct from ErrNoPath.
func (g *Graph) EdgeCost(u, v string) (float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.adj[u]; !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, u)
	}
	if _, ok := g.adj[v]; !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, v)
	}
	c, ok := g.adj[u][v]
	if !ok {
		return 0, fmt.Errorf("%w: %s↔%s", ErrMissingEdge, u, v)
	}

	return c, nil
}

// PathCost sums the edge costs along consecutive pairs of the given node
// sequence. A sequence shorter than two nodes costs zero. Any consecutive
// pair without an edge fails with ErrMissingEdge.
func (g *Graph) PathCost(path []string) (float64, error) {
	if len(path) < 2 {
		return 0, nil
	}

	var total float64
	for i := 0; i+1 < len(path); i++ {
		c, err := g.EdgeCost(path[i], path[i+1])
		if err != nil {
			return 0, err
		}
		total += c
	}

	return total, nil
}
