package routing

import (
	"fmt"
	"math"
)

// verifyDetourCost independently certifies the DP's reported minimum detour
// cost with an exhaustive depth-first branch-and-bound over the same
// candidate list.
//
// The search explores, per candidate in index order, the binary choice of
// entering its node or not, never entering the same node twice and never
// replacing the same backbone segment with two bridges. When a candidate is
// entered the maximum useful amount of every product is taken:
// the detour cost depends only on which candidates are entered, so the
// per-product maximum dominates every partial take and the subset search is
// exhaustive over achievable costs.
//
// Pruning (both bounds are admissible, they never change the result):
//   - a branch is abandoned once its accumulated cost meets or exceeds the
//     best cost found so far;
//   - a branch is abandoned when even the entire remaining candidate suffix
//     cannot supply the unmet demand.
//
// A certified minimum differing from the DP's answer beyond eps is a fatal
// internal-consistency failure: the two algorithms must agree.
func verifyDetourCost(cands []DetourCandidate, target []int, order []string, dpCost, eps float64) (float64, error) {
	v := &verifier{
		cands:     cands,
		target:    target,
		order:     order,
		eps:       eps,
		best:      math.Inf(1),
		satisfied: make([]int, len(target)),
		usedNode:  make(map[string]bool, len(cands)),
		usedSeg:   make(map[int]bool, len(cands)),
	}
	v.buildSuffixSupply()
	v.search(0, 0)

	if math.IsInf(v.best, 1) {
		return 0, fmt.Errorf("%w: verifier found no combination although the DP reported cost %v", ErrInternal, dpCost)
	}
	if diff := v.best - dpCost; diff < -eps || diff > eps {
		return 0, fmt.Errorf("%w: verifier minimum %v disagrees with DP minimum %v", ErrInternal, v.best, dpCost)
	}

	return v.best, nil
}

// verifier carries the mutable DFS state for one verification run.
type verifier struct {
	cands  []DetourCandidate
	target []int
	order  []string
	eps    float64

	// suffix[i][d] is the total stock of product d over candidates i..end,
	// counting duplicate nodes more than once. An overestimate, hence an
	// admissible feasibility bound.
	suffix [][]int

	satisfied []int
	usedNode  map[string]bool
	usedSeg   map[int]bool // backbone segments consumed by entered bridges
	best      float64
}

func (v *verifier) buildSuffixSupply() {
	n := len(v.cands)
	v.suffix = make([][]int, n+1)
	v.suffix[n] = make([]int, len(v.order))
	for i := n - 1; i >= 0; i-- {
		row := make([]int, len(v.order))
		for d, product := range v.order {
			row[d] = v.suffix[i+1][d] + v.cands[i].Stock[product]
		}
		v.suffix[i] = row
	}
}

// search explores candidate i with the given accumulated cost.
func (v *verifier) search(i int, cost float64) {
	// 1) Bound: nothing below the incumbent can come out of this branch.
	if cost >= v.best-v.eps {
		return
	}

	// 2) Goal: demand fully covered.
	if v.demandMet() {
		v.best = cost

		return
	}

	// 3) Exhausted candidates without meeting demand.
	if i == len(v.cands) {
		return
	}

	// 4) Feasibility bound: the remaining suffix cannot supply the deficit.
	for d := range v.target {
		if v.satisfied[d]+v.suffix[i][d] < v.target[d] {
			return
		}
	}

	cand := &v.cands[i]

	// 5) Enter the node taking the maximum useful amount of every product,
	//    unless the node or (for a bridge) its anchor segment is already
	//    used. Taking first tightens the incumbent early.
	if !v.usedNode[cand.Node] && !(cand.Bridge() && v.usedSeg[cand.AnchorIndex]) {
		taken := make([]int, len(v.order))
		useful := false
		for d, product := range v.order {
			take := cand.Stock[product]
			if deficit := v.target[d] - v.satisfied[d]; take > deficit {
				take = deficit
			}
			if take > 0 {
				taken[d] = take
				v.satisfied[d] += take
				useful = true
			}
		}
		if useful {
			v.usedNode[cand.Node] = true
			if cand.Bridge() {
				v.usedSeg[cand.AnchorIndex] = true
			}
			v.search(i+1, cost+cand.Cost)
			if cand.Bridge() {
				v.usedSeg[cand.AnchorIndex] = false
			}
			v.usedNode[cand.Node] = false
		}
		for d, take := range taken {
			v.satisfied[d] -= take
		}
	}

	// 6) Skip the candidate.
	v.search(i+1, cost)
}

func (v *verifier) demandMet() bool {
	for d := range v.target {
		if v.satisfied[d] < v.target[d] {
			return false
		}
	}

	return true
}
