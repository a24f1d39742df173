// Package graph core types and sentinel errors.
//
// The types here are deliberately small: an Edge value for construction, a
// Distances result for Dijkstra queries, and the sentinel errors every
// operation returns. Callers MUST branch on errors with errors.Is; sentinels
// are wrapped with %w to attach context (node IDs, edge endpoints).
package graph

import "errors"

// Eps is the tolerance used when comparing floating-point path costs.
// Two distances closer than Eps are considered equal-cost ties.
const Eps = 1e-9

// Sentinel errors returned by graph operations.
var (
	// ErrUnknownNode indicates an edge endpoint or query node that is not
	// part of the graph's declared node set.
	ErrUnknownNode = errors.New("graph: unknown node")

	// ErrNegativeCost indicates an edge with negative cost; Dijkstra requires
	// non-negative weights, so construction fails fast.
	ErrNegativeCost = errors.New("graph: negative edge cost")

	// ErrNoPath indicates that no path exists between the queried nodes.
	// This is an infeasibility condition, not malformed input.
	ErrNoPath = errors.New("graph: no path between nodes")

	// ErrMissingEdge indicates that an explicit node sequence references a
	// pair of consecutive nodes with no edge between them. This signals
	// malformed input and is distinct from ErrNoPath.
	ErrMissingEdge = errors.New("graph: edge not present")
)

// Edge describes one undirected weighted edge for graph construction.
// Origin↔Target are traversable in both directions at the same Cost.
type Edge struct {
	// Origin is one endpoint of the edge.
	Origin string

	// Target is the other endpoint of the edge.
	Target string

	// Cost is the non-negative traversal cost, identical in both directions.
	Cost float64
}

// Distances is the result of a single-source Dijkstra run.
type Distances struct {
	// Dist maps every node ID to its minimum distance from the source.
	// Unreachable nodes hold math.Inf(1).
	Dist map[string]float64

	// Preds maps a node ID to the sorted set of predecessors that achieve
	// the node's best distance (within Eps). The source has no entry.
	// A node with k predecessors lies on at least k distinct shortest paths.
	Preds map[string][]string
}
