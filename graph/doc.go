// Package graph provides the weighted undirected graph primitive used by the
// haulplan route planner: Dijkstra single-source shortest distances with
// full equal-cost predecessor tracking, reconstruction of one or of all
// minimum-cost paths between two nodes, and explicit path costing.
//
// Overview:
//
//   - Graph is built once from a node set and an edge list and is read-only
//     afterwards. Access is guarded by an RWMutex, so concurrent readers
//     (e.g. parallel backbone planners) are safe.
//   - ShortestDistances runs Dijkstra with a min-heap under the
//     "lazy decrease-key" strategy: shorter rediscoveries push duplicate heap
//     entries, stale entries are skipped on pop.
//   - Unlike a textbook single-predecessor Dijkstra, relaxation records the
//     full set of predecessors that achieve a node's best known distance
//     (within Eps), so that every tied shortest path can be reconstructed.
//   - AllShortestPaths walks the predecessor multimap backwards from the
//     target, deduplicates identical node sequences by value, and returns
//     every distinct minimum-cost path in deterministic (lexicographic) order.
//
// Complexity:
//
//   - ShortestDistances: O((V + E) log V) time, O(V + E) space.
//   - AllShortestPaths: output-sensitive; the number of tied paths can grow
//     exponentially with graph size, and all of them are returned.
//
// Error handling (sentinel errors, branch with errors.Is):
//
//   - ErrUnknownNode: an edge or query references a node that was never declared.
//   - ErrNegativeCost: an edge with negative cost was supplied.
//   - ErrNoPath: source and target are not connected ("no solution").
//   - ErrMissingEdge: an explicit path steps across a non-existent edge
//     (malformed input, deliberately distinct from ErrNoPath).
package graph
