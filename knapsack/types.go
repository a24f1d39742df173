// Package knapsack input/output types and sentinel errors.
package knapsack

import "errors"

// eps is the tolerance for floating-point capacity and ratio comparisons.
const eps = 1e-9

// ErrInfeasible indicates that no integer product mix satisfies the given
// constraints. This is a property of the instance, not an engine defect.
var ErrInfeasible = errors.New("knapsack: no feasible product mix")

// Product holds the per-unit economics of one product.
type Product struct {
	// ProfitPerUnit is the revenue earned per unit, non-negative.
	ProfitPerUnit float64

	// WeightPerUnit is the weight contributed per unit, non-negative.
	WeightPerUnit float64
}

// Catalog maps product names to their per-unit economics.
type Catalog map[string]Product

// Inventory maps node ID → product name → non-negative unit count.
type Inventory map[string]map[string]int

// RatioRule bounds one product count relative to another:
// units(Numerator) ≤ Factor × units(Denominator).
// When the denominator count is zero the numerator count is forced to zero.
type RatioRule struct {
	Numerator   string
	Denominator string
	Factor      float64
}

// Constraints gathers every restriction on the product mix.
type Constraints struct {
	// WeightCapacity is the maximum total weight of the mix.
	WeightCapacity float64

	// UnitCapacity is the maximum total number of units in the mix.
	UnitCapacity float64

	// Ratios holds zero or more inter-product ratio rules.
	Ratios []RatioRule
}

// Result is the immutable outcome of Solve: the chosen counts and their
// aggregate profit, weight and unit total. It is produced once per run and
// consumed read-only by the route planner.
type Result struct {
	// Counts maps every catalog product to its chosen unit count.
	Counts map[string]int

	// Profit is the total profit of the mix (travel costs not included).
	Profit float64

	// Weight is the total weight of the mix.
	Weight float64

	// TotalUnits is the total number of units across all products.
	TotalUnits int
}
