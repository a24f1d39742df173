package routing

import "github.com/haulplan/haulplan/knapsack"

// collectOnPath walks the backbone in node order and greedily claims stock
// for every product still in demand. The greed is irrevocable and
// order-dependent by contract: a node visited earlier takes stock before a
// later node is even considered, regardless of what that does to detour
// costs downstream.
//
// Products are scanned in the canonical order so the result never depends
// on map iteration order. Inventory is read-only; remaining is a fresh map.
func collectOnPath(path []string, inv knapsack.Inventory, targets map[string]int, order []string) (map[string]map[string]int, map[string]int) {
	picked := make(map[string]map[string]int)
	remaining := make(map[string]int, len(targets))
	for _, product := range order {
		remaining[product] = targets[product]
	}

	for _, node := range path {
		stock := inv[node]
		if stock == nil {
			continue
		}
		for _, product := range order {
			need := remaining[product]
			if need <= 0 {
				continue
			}
			available := stock[product]
			if available <= 0 {
				continue
			}
			// Whole units only, capped by what is still needed.
			take := available
			if take > need {
				take = need
			}
			if picked[node] == nil {
				picked[node] = make(map[string]int)
			}
			picked[node][product] += take
			remaining[product] -= take
		}
	}

	return picked, remaining
}

// demandMet reports whether every product's remaining demand is zero.
func demandMet(remaining map[string]int) bool {
	for _, amount := range remaining {
		if amount > 0 {
			return false
		}
	}

	return true
}

// demandVector projects a remaining-demand map onto the canonical product
// order, clamping negatives to zero. DP states are keyed off this fixed
// vector, never off map iteration order.
func demandVector(remaining map[string]int, order []string) []int {
	vec := make([]int, len(order))
	for i, product := range order {
		if n := remaining[product]; n > 0 {
			vec[i] = n
		}
	}

	return vec
}
