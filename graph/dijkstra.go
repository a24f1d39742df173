package graph

import (
	"container/heap"
	"fmt"
	"math"
	"sort"
)

// ShortestDistances computes single-source shortest distances from source to
// every node using Dijkstra with a min-heap priority queue.
//
// In addition to distances it records, per node, the FULL set of predecessors
// achieving the node's best known distance (within Eps), not just one.
// This multimap is what makes AllShortestPaths able to enumerate every tied
// minimum-cost path. Unreachable nodes keep distance +Inf and no predecessor.
//
// Complexity: O((V + E) log V) time, O(V + E) space
// ("lazy decrease-key": duplicates are pushed and stale entries skipped).
func (g *Graph) ShortestDistances(source string) (Distances, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	// 1) Validate the source node.
	if _, ok := g.adj[source]; !ok {
		return Distances{}, fmt.Errorf("%w: source %q", ErrUnknownNode, source)
	}

	// 2) Initialize dist[v] = +Inf for all v, dist[source] = 0.
	dist := make(map[string]float64, len(g.nodes))
	preds := make(map[string][]string, len(g.nodes))
	for _, v := range g.nodes {
		dist[v] = math.Inf(1)
	}
	dist[source] = 0

	// 3) Seed the frontier with the source at distance 0.
	pq := make(nodePQ, 0, len(g.nodes))
	heap.Init(&pq)
	heap.Push(&pq, &nodeItem{id: source, dist: 0})

	visited := make(map[string]bool, len(g.nodes))

	// 4) Main loop: settle nodes in increasing distance order.
	for pq.Len() > 0 {
		item := heap.Pop(&pq).(*nodeItem)
		u := item.id
		if visited[u] {
			continue // stale heap entry from lazy decrease-key
		}
		visited[u] = true

		// 5) Relax every edge out of u.
		for _, nb := range g.neighbors(u) {
			candidate := dist[u] + nb.cost
			switch {
			case candidate < dist[nb.id]-Eps:
				// Strictly shorter: replace the predecessor set entirely.
				dist[nb.id] = candidate
				preds[nb.id] = []string{u}
				heap.Push(&pq, &nodeItem{id: nb.id, dist: candidate})
			case candidate <= dist[nb.id]+Eps:
				// Equal-cost tie: u is another shortest-path predecessor.
				preds[nb.id] = appendUnique(preds[nb.id], u)
			}
		}
	}

	// 6) Sort each predecessor set for deterministic reconstruction order.
	for _, ps := range preds {
		sort.Strings(ps)
	}

	return Distances{Dist: dist, Preds: preds}, nil
}

// appendUnique appends id to set unless it is already present.
// Predecessor sets are tiny (typically 1-3 entries), so a linear scan wins
// over a map.
func appendUnique(set []string, id string) []string {
	for _, s := range set {
		if s == id {
			return set
		}
	}

	return append(set, id)
}

// nodeItem is one frontier entry: a node and its tentative distance.
type nodeItem struct {
	id   string
	dist float64
}

// nodePQ is a min-heap of *nodeItem ordered by distance ascending, with the
// node ID as tiebreak so heap behavior is deterministic across runs.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}

	return pq[i].id < pq[j].id
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
