// Package routing core types, sentinel errors and functional options.
package routing

import "errors"

// Sentinel errors returned by Plan.
var (
	// ErrNoRoute indicates that no path exists between the start and end
	// nodes. An infeasibility of the instance.
	ErrNoRoute = errors.New("routing: no path between start and end")

	// ErrUnsatisfiable indicates that the remaining demand cannot be filled
	// by any combination of detours on any backbone. An infeasibility of
	// the instance.
	ErrUnsatisfiable = errors.New("routing: remaining demand unsatisfiable by detours")

	// ErrInternal indicates an internal-consistency violation: one of the
	// engine's cross-checks failed. This is a logic defect and aborts the
	// run rather than returning a plausible but unverified answer.
	ErrInternal = errors.New("routing: internal consistency violation")
)

// DetourCandidate is one reinsertion option for an off-backbone node:
// leave the backbone at Anchor, visit Node, rejoin at Rejoin. The same
// physical node may appear in many candidates with different anchors or
// rejoin strategies; each is priced independently. Candidates are
// backbone-relative and immutable once generated.
type DetourCandidate struct {
	// Node is the off-backbone node holding stock.
	Node string

	// Anchor is the backbone node where the detour departs;
	// AnchorIndex is its position in the backbone sequence.
	Anchor      string
	AnchorIndex int

	// Rejoin is the backbone node where the detour returns: equal to Anchor
	// for a there-and-back detour, the next backbone node for a bridge.
	Rejoin      string
	RejoinIndex int

	// Outbound is the full shortest path Anchor→Node.
	// Return is the full shortest path Node→Rejoin.
	Outbound []string
	Return   []string

	// Cost is the incremental cost of taking this detour: outbound plus
	// return for a there-and-back, minus the replaced backbone segment for
	// a bridge. Never negative.
	Cost float64

	// Stock is a snapshot of the node's available units per product.
	Stock map[string]int
}

// Bridge reports whether the candidate rejoins at the next backbone node
// instead of returning to its anchor. A bridge replaces the backbone
// segment at AnchorIndex, so at most one bridge per segment can appear in
// a selection.
func (c *DetourCandidate) Bridge() bool {
	return c.RejoinIndex != c.AnchorIndex
}

// DetourSelection pairs a chosen candidate with the exact per-product
// quantities picked there (at most its stock, at most the demand that was
// remaining when it was selected).
type DetourSelection struct {
	Candidate DetourCandidate
	Picked    map[string]int
}

// RoutePlan is one globally optimal tour. Invariant: GoodsPicked summed over
// all nodes equals the target product counts exactly.
type RoutePlan struct {
	// Backbone is the globally shortest start→end path this plan follows,
	// and BackboneCost its cost.
	Backbone     []string
	BackboneCost float64

	// Detours are the selected excursions, DetourCost their summed
	// incremental cost.
	Detours    []DetourSelection
	DetourCost float64

	// TotalCost = BackboneCost + DetourCost.
	TotalCost float64

	// FinalRoute is the assembled, literally walkable node sequence
	// including every detour excursion.
	FinalRoute []string

	// GoodsPicked maps node → product → units collected there, merging
	// backbone pickups and detour pickups.
	GoodsPicked map[string]map[string]int

	// VerifiedDetourCost is the minimum detour cost certified by the
	// independent brute-force verifier. Always equals DetourCost within
	// Epsilon for an emitted plan.
	VerifiedDetourCost float64
}

// Options configures Plan.
//
// Epsilon is the tolerance for floating-point cost comparisons (ties and
// consistency checks). MaxCombos is a safety valve capping the number of
// cost-tied selections kept per DP state; 0 means unbounded. Parallel plans
// independent backbones concurrently; output order and content are
// unchanged.
type Options struct {
	Epsilon   float64
	MaxCombos int
	Parallel  bool
}

// Option is a functional option for configuring Plan.
type Option func(*Options)

// DefaultOptions returns the planner defaults: Epsilon 1e-9, unbounded tie
// enumeration, serial execution.
func DefaultOptions() Options {
	return Options{
		Epsilon:   1e-9,
		MaxCombos: 0,
		Parallel:  false,
	}
}

// WithEpsilon overrides the cost-comparison tolerance.
// Must be positive; invalid values panic at configuration time.
func WithEpsilon(eps float64) Option {
	return func(o *Options) {
		if eps <= 0 {
			panic("routing: Epsilon must be positive")
		}
		o.Epsilon = eps
	}
}

// WithMaxCombos caps the number of cost-tied detour combinations retained
// per DP state. The default 0 keeps every tie; a positive cap trades
// completeness of the tie set for bounded memory.
// Negative values panic at configuration time.
func WithMaxCombos(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic("routing: MaxCombos must be non-negative")
		}
		o.MaxCombos = n
	}
}

// WithParallel plans independent backbone paths concurrently. Results are
// merged in backbone order, so the output is identical to serial execution.
func WithParallel() Option {
	return func(o *Options) {
		o.Parallel = true
	}
}
