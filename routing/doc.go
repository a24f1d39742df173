// Package routing plans the minimum-cost pickup tour, phase two of the
// haulplan pipeline. Given a graph, per-node inventory and the target
// product counts fixed by the knapsack phase, Plan produces every globally
// cost-optimal RoutePlan from a start node to an end node.
//
// Pipeline (one pass per globally shortest backbone path):
//
//  1. Backbone selection: ALL minimum-cost start→end paths are considered,
//     not just one; ties are enumerated, never broken.
//  2. Greedy on-path collection: walking the backbone in node order, each
//     node claims stock up to the remaining demand. This greed is
//     irrevocable and order-dependent by contract: an earlier node takes
//     stock even when a different split would make later detours cheaper.
//  3. If the backbone alone fills demand, the plan is final at detour cost 0.
//  4. Detour candidates: for every off-path node with stock and every
//     backbone anchor, a "there-and-back" variant (out and back along the
//     shortest path) and a "bridge" variant (out, then on to the next
//     backbone node, charged only the increment over the replaced backbone
//     segment). A bridge increment below zero would mean the backbone was
//     not shortest; that is an internal-consistency violation, not a
//     shortcut to accept.
//  5. Detour selection: a multi-dimensional subset-sum DP over the
//     candidates finds the minimum-cost set of pickups that exactly fills
//     the remaining demand. Per DP state the full SET of cost-tied
//     selections is retained (within Epsilon), so every globally optimal
//     combination is discovered. A node is visited at most once per
//     solution no matter how many candidate anchors reference it, and at
//     most one bridge replaces any backbone segment, so the assembled
//     route is always walkable.
//  6. Verification: an independent branch-and-bound DFS over the same
//     candidates certifies the DP's minimum. Disagreement aborts the run:
//     a plausible-looking wrong answer is worse than no answer.
//  7. Assembly: backbone and detour segments are spliced into one literally
//     walkable node sequence, pickups and costs are re-validated, and plans
//     from all backbones are deduplicated, filtered to the global minimum
//     total cost and sorted deterministically.
//
// The planner is a pure function: it holds no process-wide state, never
// mutates its inputs, and is deterministic for fixed input. Worst-case cost
// is exponential in products and candidates; the pruning bounds are
// correctness-preserving, so results never depend on them.
//
// Error taxonomy (branch with errors.Is):
//
//   - ErrNoRoute: start and end are disconnected (infeasible instance).
//   - ErrUnsatisfiable: no detour combination can fill the remaining demand
//     on any backbone (infeasible instance).
//   - ErrInternal: the engine's own invariants broke (negative bridge
//     increment, verifier beating the DP, assembly mismatch). A logic
//     defect, not a data problem.
package routing
