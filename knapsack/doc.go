// Package knapsack determines the profit-maximising integer product mix
// subject to capacity and ratio constraints, phase one of the haulplan
// pipeline.
//
// Overview:
//
//   - AggregateInventory sums per-product stock across every node of the map
//     to produce the global upper bound for each product.
//   - Solve enumerates every integer combination of per-product unit counts
//     from zero up to that bound, nested by product in canonical (sorted)
//     order, and keeps the combination with maximum profit.
//
// The enumeration is an exact branch-and-bound, not a heuristic: partial
// weight and unit totals grow monotonically with every count, so as soon as
// a partial total exceeds its capacity the remaining counts in that
// dimension are skipped entirely. Ratio rules of the form
// units(numerator) ≤ factor × units(denominator) additionally cap the
// iteration bound of a numerator product whose denominator count is already
// fixed, and are re-checked in full before a combination is accepted, which
// also covers rule sets the bound-capping cannot express (cyclic or
// forward-referencing rules).
//
// Tie-break on equal profit is first-encountered in enumeration order.
// There is no canonical tie-break; callers must not rely on which of several
// equally profitable mixes is returned.
//
// Complexity: worst case is the product of all availability bounds
// (exponential in the number of products); pruning keeps realistic instances
// tractable.
//
// Errors: Solve returns ErrInfeasible when no combination (including the
// all-zero mix) satisfies every constraint.
package knapsack
