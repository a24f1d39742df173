package knapsack

import (
	"math"
	"sort"
)

// AggregateInventory sums per-product stock across all nodes, yielding the
// global availability bound for each product.
func AggregateInventory(inv Inventory) map[string]int {
	totals := make(map[string]int)
	for _, stock := range inv {
		for product, amount := range stock {
			totals[product] += amount
		}
	}

	return totals
}

// Solve finds the profit-maximising integer product mix.
//
// Enumeration is nested by product in canonical (sorted name) order; each
// product's count runs from 0 up to its aggregate availability, tightened by
// any ratio rule whose denominator count is already fixed. Partial weight
// and unit totals are maintained incrementally, and a branch is cut as soon
// as either exceeds its capacity; both grow monotonically with the count,
// so no larger count in the same dimension can recover.
//
// Ties on profit resolve to the first-encountered combination; this order is
// unspecified and must not be relied upon.
//
// Returns ErrInfeasible when no combination satisfies all constraints
// (possible with a negative capacity, or a rule set no counts can satisfy).
func Solve(catalog Catalog, inv Inventory, cons Constraints) (Result, error) {
	// 1) Canonical product order: sorted names. DP/demand vectors downstream
	//    rely on this same ordering, never on map iteration order.
	order := make([]string, 0, len(catalog))
	for name := range catalog {
		order = append(order, name)
	}
	sort.Strings(order)

	// 2) Global availability bounds.
	totals := AggregateInventory(inv)

	s := &solver{
		catalog: catalog,
		cons:    cons,
		order:   order,
		bounds:  make([]int, len(order)),
		counts:  make([]int, len(order)),
		index:   make(map[string]int, len(order)),
	}
	for i, name := range order {
		s.bounds[i] = totals[name]
		s.index[name] = i
	}

	// 3) Exhaustive pruned enumeration.
	s.enumerate(0, 0, 0, 0)

	if !s.found {
		return Result{}, ErrInfeasible
	}

	// 4) Materialize the best combination into an immutable Result.
	counts := make(map[string]int, len(order))
	for i, name := range order {
		counts[name] = s.best[i]
	}

	return Result{
		Counts:     counts,
		Profit:     s.bestProfit,
		Weight:     s.bestWeight,
		TotalUnits: s.bestUnits,
	}, nil
}

// solver carries the mutable enumeration state for one Solve call.
type solver struct {
	catalog Catalog
	cons    Constraints
	order   []string       // canonical product order
	bounds  []int          // aggregate availability per product
	counts  []int          // current partial combination
	index   map[string]int // product name → position in order

	found      bool
	best       []int
	bestProfit float64
	bestWeight float64
	bestUnits  int
}

// enumerate recursively fixes the count of product depth given the partial
// weight/unit/profit accumulated so far.
func (s *solver) enumerate(depth int, weight, profit float64, units int) {
	if depth == len(s.order) {
		// Leaf: re-check the full rule set (covers rules the per-depth bound
		// capping cannot express) and accept on strictly higher profit.
		if !s.ratiosSatisfied() {
			return
		}
		if !s.found || profit > s.bestProfit {
			s.found = true
			s.best = append(s.best[:0], s.counts...)
			s.bestProfit = profit
			s.bestWeight = weight
			s.bestUnits = units
		}

		return
	}

	p := s.catalog[s.order[depth]]
	limit := s.cap(depth)

	for c := 0; c <= limit; c++ {
		newWeight := weight + float64(c)*p.WeightPerUnit
		newUnits := units + c
		// Weight and units are monotone in c: once either capacity is
		// exceeded, every larger c is infeasible too.
		if float64(newUnits) > s.cons.UnitCapacity+eps || newWeight > s.cons.WeightCapacity+eps {
			break
		}
		s.counts[depth] = c
		s.enumerate(depth+1, newWeight, profit+float64(c)*p.ProfitPerUnit, newUnits)
	}
	s.counts[depth] = 0
}

// cap returns the iteration bound for product depth: its availability,
// tightened by every ratio rule whose numerator is this product and whose
// denominator count is already fixed at a shallower depth.
func (s *solver) cap(depth int) int {
	limit := s.bounds[depth]
	name := s.order[depth]
	for _, rule := range s.cons.Ratios {
		if rule.Numerator != name {
			continue
		}
		di, ok := s.index[rule.Denominator]
		if !ok || di >= depth {
			continue // denominator not fixed yet; leaf re-check covers it
		}
		allowed := int(math.Floor(rule.Factor*float64(s.counts[di]) + eps))
		if allowed < limit {
			limit = allowed
		}
	}

	return limit
}

// ratiosSatisfied checks the complete rule set against the current counts.
// A rule whose denominator count is zero forces the numerator count to zero.
func (s *solver) ratiosSatisfied() bool {
	for _, rule := range s.cons.Ratios {
		num := s.countOf(rule.Numerator)
		denom := s.countOf(rule.Denominator)
		if denom == 0 {
			if num > 0 {
				return false
			}
			continue
		}
		if float64(num) > rule.Factor*float64(denom)+eps {
			return false
		}
	}

	return true
}

// countOf returns the current count of a product, 0 for unknown names
// (a rule may reference a product absent from the catalog).
func (s *solver) countOf(name string) int {
	if i, ok := s.index[name]; ok {
		return s.counts[i]
	}

	return 0
}
