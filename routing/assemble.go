package routing

import (
	"fmt"
	"sort"
	"strings"
)

// buildFinalRoute splices the backbone and the chosen detours into one
// explicit, literally walkable node sequence.
//
// The backbone is walked node by node (skipping immediate duplicates); at
// each position, every detour anchored there is appended in full (outbound
// segment out to the stock node, then return segment back to the rejoin
// node), ordered by (rejoin position, node ID) so that
// there-and-back excursions come before bridges and the output is stable.
// Selections carry at most one bridge per anchor (segment exclusivity in
// the DP), so every appended segment starts where the previous one ended.
func buildFinalRoute(backbone []string, selections []DetourSelection) []string {
	byAnchor := make(map[int][]DetourSelection)
	for _, sel := range selections {
		byAnchor[sel.Candidate.AnchorIndex] = append(byAnchor[sel.Candidate.AnchorIndex], sel)
	}
	for _, group := range byAnchor {
		sort.Slice(group, func(i, j int) bool {
			a, b := group[i].Candidate, group[j].Candidate
			if a.RejoinIndex != b.RejoinIndex {
				return a.RejoinIndex < b.RejoinIndex
			}

			return a.Node < b.Node
		})
	}

	var route []string
	push := func(node string) {
		if len(route) == 0 || route[len(route)-1] != node {
			route = append(route, node)
		}
	}

	for i, node := range backbone {
		push(node)
		for _, sel := range byAnchor[i] {
			// Outbound starts at the anchor, Return starts at the stock
			// node; both heads are already the last node pushed.
			for _, step := range sel.Candidate.Outbound[1:] {
				push(step)
			}
			for _, step := range sel.Candidate.Return[1:] {
				push(step)
			}
		}
	}

	return route
}

// assemblePlan materializes one (backbone, detour combo) pair into a
// RoutePlan and re-validates it: summed pickups must equal the target
// counts exactly, and the combo's summed candidate costs must equal the
// DP-reported minimum within eps. Either mismatch is ErrInternal.
func assemblePlan(
	backbone []string,
	backboneCost float64,
	basePicked map[string]map[string]int,
	selections []DetourSelection,
	detourCost float64,
	verifiedCost float64,
	targets map[string]int,
	eps float64,
) (RoutePlan, error) {
	// 1) Merge backbone pickups and detour pickups per node.
	goods := make(map[string]map[string]int, len(basePicked)+len(selections))
	for node, stock := range basePicked {
		goods[node] = make(map[string]int, len(stock))
		for product, amount := range stock {
			goods[node][product] = amount
		}
	}
	var comboCost float64
	for _, sel := range selections {
		comboCost += sel.Candidate.Cost
		node := sel.Candidate.Node
		if goods[node] == nil {
			goods[node] = make(map[string]int, len(sel.Picked))
		}
		for product, amount := range sel.Picked {
			if amount > 0 {
				goods[node][product] += amount
			}
		}
	}

	// 2) Re-validate pickups against the targets, product by product.
	totals := make(map[string]int, len(targets))
	for _, stock := range goods {
		for product, amount := range stock {
			totals[product] += amount
		}
	}
	for product, required := range targets {
		if totals[product] != required {
			return RoutePlan{}, fmt.Errorf("%w: planned %d units of %s, target %d",
				ErrInternal, totals[product], product, required)
		}
	}

	// 3) Re-validate the combo cost against the DP's reported minimum.
	if diff := comboCost - detourCost; diff < -eps || diff > eps {
		return RoutePlan{}, fmt.Errorf("%w: combo costs %v, DP reported %v",
			ErrInternal, comboCost, detourCost)
	}

	return RoutePlan{
		Backbone:           backbone,
		BackboneCost:       backboneCost,
		Detours:            selections,
		DetourCost:         detourCost,
		TotalCost:          backboneCost + detourCost,
		FinalRoute:         buildFinalRoute(backbone, selections),
		GoodsPicked:        goods,
		VerifiedDetourCost: verifiedCost,
	}, nil
}

// dedupeAndRank collapses plans identical in (final route, goods-picked
// distribution), keeps only plans at the global minimum total cost (within
// eps), and sorts by stringified route then detour cost for stable output.
func dedupeAndRank(plans []RoutePlan, eps float64) []RoutePlan {
	if len(plans) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(plans))
	uniq := plans[:0]
	for _, p := range plans {
		key := strings.Join(p.FinalRoute, "\x00") + "\x01" + encodeGoods(p.GoodsPicked)
		if seen[key] {
			continue
		}
		seen[key] = true
		uniq = append(uniq, p)
	}

	minCost := uniq[0].TotalCost
	for _, p := range uniq[1:] {
		if p.TotalCost < minCost {
			minCost = p.TotalCost
		}
	}
	ranked := uniq[:0]
	for _, p := range uniq {
		if p.TotalCost <= minCost+eps {
			ranked = append(ranked, p)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		ri := strings.Join(ranked[i].FinalRoute, "\x00")
		rj := strings.Join(ranked[j].FinalRoute, "\x00")
		if ri != rj {
			return ri < rj
		}

		return ranked[i].DetourCost < ranked[j].DetourCost
	})

	return ranked
}

// encodeGoods canonically encodes a goods-picked distribution for dedup.
func encodeGoods(goods map[string]map[string]int) string {
	nodes := make([]string, 0, len(goods))
	for node := range goods {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	var b strings.Builder
	for _, node := range nodes {
		stock := goods[node]
		products := make([]string, 0, len(stock))
		for product, amount := range stock {
			if amount > 0 {
				products = append(products, product)
			}
		}
		sort.Strings(products)
		if len(products) == 0 {
			continue
		}
		b.WriteString(node)
		b.WriteByte('=')
		for _, product := range products {
			fmt.Fprintf(&b, "%s:%d,", product, stock[product])
		}
		b.WriteByte(';')
	}

	return b.String()
}
