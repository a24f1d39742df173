package routing

import (
	"fmt"
	"math"
	"sort"

	"github.com/haulplan/haulplan/graph"
	"github.com/haulplan/haulplan/knapsack"
)

// generateCandidates enumerates every reinsertion option for off-backbone
// stock: for each node holding positive stock that is not on the backbone,
// and for each backbone anchor position, a there-and-back variant and (when
// a next anchor exists) a bridge variant.
//
// One Dijkstra run per off-path node suffices: the graph is undirected, so
// distances and paths from the node reach every anchor at once.
//
// Nodes with no path to an anchor are silently omitted (disconnected stock
// is not an error; the DP decides whether demand is still satisfiable).
// A bridge whose incremental cost is negative beyond Epsilon violates the
// backbone's global-shortest contract and fails with ErrInternal.
func generateCandidates(g *graph.Graph, backbone []string, inv knapsack.Inventory, eps float64) ([]DetourCandidate, error) {
	onBackbone := make(map[string]bool, len(backbone))
	for _, n := range backbone {
		onBackbone[n] = true
	}

	// Deterministic candidate order: nodes sorted, then anchor index,
	// then there-and-back before bridge.
	nodes := make([]string, 0, len(inv))
	for node := range inv {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	var candidates []DetourCandidate
	for _, node := range nodes {
		if onBackbone[node] || !hasPositiveStock(inv[node]) {
			continue
		}

		d, err := g.ShortestDistances(node)
		if err != nil {
			return nil, err
		}

		for i, anchor := range backbone {
			out := d.Dist[anchor]
			if math.IsInf(out, 1) {
				continue // anchor unreachable from this node
			}
			outbound := d.PathTo(node, anchor)
			reverseSeq(outbound) // anchor→node

			// There-and-back: out along the shortest path and back again.
			back := d.PathTo(node, anchor)
			candidates = append(candidates, DetourCandidate{
				Node:        node,
				Anchor:      anchor,
				AnchorIndex: i,
				Rejoin:      anchor,
				RejoinIndex: i,
				Outbound:    outbound,
				Return:      back,
				Cost:        2 * out,
				Stock:       copyStock(inv[node]),
			})

			// Bridge: continue to the next backbone node instead of
			// returning, charged only the increment over the replaced
			// backbone segment.
			if i+1 >= len(backbone) {
				continue
			}
			next := backbone[i+1]
			ret := d.Dist[next]
			if math.IsInf(ret, 1) {
				continue
			}
			segCost, err := g.EdgeCost(anchor, next)
			if err != nil {
				return nil, err
			}
			increment := out + ret - segCost
			if increment < -eps {
				return nil, fmt.Errorf("%w: bridge %s→%s→%s costs %v less than backbone segment",
					ErrInternal, anchor, node, next, -increment)
			}
			if increment < 0 {
				increment = 0 // sub-eps float noise
			}
			candidates = append(candidates, DetourCandidate{
				Node:        node,
				Anchor:      anchor,
				AnchorIndex: i,
				Rejoin:      next,
				RejoinIndex: i + 1,
				Outbound:    cloneSeq(outbound),
				Return:      d.PathTo(node, next),
				Cost:        increment,
				Stock:       copyStock(inv[node]),
			})
		}
	}

	return candidates, nil
}

// hasPositiveStock reports whether any product count at the node is positive.
func hasPositiveStock(stock map[string]int) bool {
	for _, amount := range stock {
		if amount > 0 {
			return true
		}
	}

	return false
}

func copyStock(stock map[string]int) map[string]int {
	out := make(map[string]int, len(stock))
	for product, amount := range stock {
		out[product] = amount
	}

	return out
}

func cloneSeq(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)

	return out
}

func reverseSeq(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
