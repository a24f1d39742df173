package routing

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// pick records one DP transition: candidate index plus the per-product units
// taken there (canonical product order).
type pick struct {
	cand int
	take []int
}

// combo is one complete selection: a sequence of picks, one per visited
// node, in node-layer order.
type combo []pick

// dpEntry is the value stored per DP state: the minimum cost to reach it and
// EVERY distinct selection achieving that cost (within Epsilon).
type dpEntry struct {
	cost   float64
	combos []combo
	seen   map[string]bool // canonical combo encodings, for tie dedup
}

// selectDetours runs the multi-dimensional subset-sum DP.
//
// A state pairs the vector of per-product units already satisfied (bounded
// above by the remaining demand) with the set of backbone segments consumed
// by bridges so far. All candidates of one physical node form a single DP
// layer: a state either skips the node entirely or takes exactly one
// non-empty pickup combination through exactly one of its candidates, so no
// selection ever visits a node twice. A bridge additionally records its
// anchor segment in the state, so no selection replaces the same backbone
// segment twice; the assembled route stays literally walkable.
//
// Everything a later layer can conflict with is part of the state: later
// layers use other nodes, and segment usage is encoded in the key. Keeping
// only the cheapest (tied) entries per state therefore never discards a
// selection a later candidate would have needed.
//
// Returns the minimum total detour cost over every segment assignment that
// fills the demand, with all cost-tied selections, or ErrUnsatisfiable when
// no such state is reachable.
func selectDetours(cands []DetourCandidate, target []int, order []string, eps float64, maxCombos int) (float64, []combo, error) {
	if allZero(target) {
		return 0, []combo{{}}, nil
	}

	dp := map[string]*dpEntry{
		stateKey(make([]int, len(target)), nil): {cost: 0, combos: []combo{{}}, seen: map[string]bool{"": true}},
	}

	units := make([]int, len(target)) // scratch decode buffer

	for _, layer := range groupByNode(cands) {
		type variant struct {
			ci      int
			options [][]int
		}
		variants := make([]variant, 0, len(layer))
		for _, ci := range layer {
			if options := pickOptions(&cands[ci], target, order); len(options) > 0 {
				variants = append(variants, variant{ci: ci, options: options})
			}
		}
		if len(variants) == 0 {
			continue
		}

		// Snapshot the entries reachable WITHOUT this node; transitions read
		// only the snapshot, so an in-layer improvement can never discard a
		// pre-layer entry before it has been extended, and no selection ever
		// uses two candidates of the same node.
		snapshot := make(map[string]*dpEntry, len(dp))
		keys := make([]string, 0, len(dp))
		for key, entry := range dp {
			snapshot[key] = entry
			keys = append(keys, key)
		}
		sort.Strings(keys) // fixed transition order keeps capped tie sets deterministic

		for _, key := range keys {
			from := snapshot[key]
			segments := decodeState(key, units)
			for _, va := range variants {
				cand := &cands[va.ci]
				if cand.Bridge() && containsSegment(segments, cand.AnchorIndex) {
					continue // segment already replaced by an earlier bridge
				}
				for _, option := range va.options {
					next, ok := advance(units, option, target)
					if !ok {
						continue
					}
					nextSegments := segments
					if cand.Bridge() {
						nextSegments = addSegment(segments, cand.AnchorIndex)
					}
					newCost := from.cost + cand.Cost
					extended := extendCombos(from.combos, cands, va.ci, option)
					if len(extended) == 0 {
						continue
					}
					merge(dp, stateKey(next, nextSegments), newCost, extended, eps, maxCombos)
				}
			}
		}
	}

	// Every segment assignment that fills the demand competes on equal
	// terms; pool the cheapest ones across states.
	prefix := stateKey(target, nil)
	finalKeys := make([]string, 0, len(dp))
	for key := range dp {
		if strings.HasPrefix(key, prefix) {
			finalKeys = append(finalKeys, key)
		}
	}
	if len(finalKeys) == 0 {
		return 0, nil, fmt.Errorf("%w: %d candidates cannot fill demand", ErrUnsatisfiable, len(cands))
	}
	sort.Strings(finalKeys)

	best := math.Inf(1)
	for _, key := range finalKeys {
		if dp[key].cost < best {
			best = dp[key].cost
		}
	}
	var combos []combo
	seen := make(map[string]bool)
	for _, key := range finalKeys {
		entry := dp[key]
		if entry.cost > best+eps {
			continue
		}
		for _, c := range entry.combos {
			if maxCombos > 0 && len(combos) >= maxCombos {
				return best, combos, nil
			}
			enc := encodeCombo(c)
			if seen[enc] {
				continue
			}
			seen[enc] = true
			combos = append(combos, c)
		}
	}

	return best, combos, nil
}

// groupByNode partitions candidate indices by physical node, preserving the
// generator's deterministic order within and across groups.
func groupByNode(cands []DetourCandidate) [][]int {
	index := make(map[string]int, len(cands))
	var groups [][]int
	for ci := range cands {
		gi, ok := index[cands[ci].Node]
		if !ok {
			gi = len(groups)
			index[cands[ci].Node] = gi
			groups = append(groups, nil)
		}
		groups[gi] = append(groups[gi], ci)
	}

	return groups
}

// advance adds option to the units vector, rejecting any dimension that
// would overshoot the target. Demand must be filled exactly, so overshooting
// states are dead ends and never created.
func advance(units, option, target []int) ([]int, bool) {
	next := make([]int, len(units))
	for d := range units {
		next[d] = units[d] + option[d]
		if next[d] > target[d] {
			return nil, false
		}
	}

	return next, true
}

// extendCombos appends (ci, option) to every source combo whose node set
// does not already include the candidate's node. Sources come from the
// pre-layer snapshot, but an in-layer tie can have appended a combo through
// this very node to a shared entry; the filter keeps those out.
func extendCombos(src []combo, cands []DetourCandidate, ci int, option []int) []combo {
	node := cands[ci].Node
	out := make([]combo, 0, len(src))
	for _, c := range src {
		if comboVisits(c, cands, node) {
			continue
		}
		ext := make(combo, len(c), len(c)+1)
		copy(ext, c)
		ext = append(ext, pick{cand: ci, take: option})
		out = append(out, ext)
	}

	return out
}

// comboVisits reports whether the combo already picks up at the given node.
func comboVisits(c combo, cands []DetourCandidate, node string) bool {
	for _, p := range c {
		if cands[p.cand].Node == node {
			return true
		}
	}

	return false
}

// merge folds newly reached combos into the DP entry for state key:
// strictly cheaper replaces, cost-tied (within eps) accumulates with
// value-level deduplication, costlier is dropped. maxCombos > 0 caps the
// retained tie set.
func merge(dp map[string]*dpEntry, key string, cost float64, combos []combo, eps float64, maxCombos int) {
	entry, ok := dp[key]
	if !ok || cost < entry.cost-eps {
		entry = &dpEntry{cost: cost, seen: make(map[string]bool, len(combos))}
		dp[key] = entry
	} else if cost > entry.cost+eps {
		return
	}
	for _, c := range combos {
		if maxCombos > 0 && len(entry.combos) >= maxCombos {
			return
		}
		enc := encodeCombo(c)
		if entry.seen[enc] {
			continue
		}
		entry.seen[enc] = true
		entry.combos = append(entry.combos, c)
	}
}

// pickOptions enumerates every non-empty whole-unit pickup vector available
// at the candidate: per product at most its stock and at most the overall
// demand. Enumeration nests by product in canonical order with counts
// ascending, so the option order is fixed.
func pickOptions(cand *DetourCandidate, target []int, order []string) [][]int {
	limits := make([]int, len(order))
	useful := false
	for i, product := range order {
		l := cand.Stock[product]
		if l > target[i] {
			l = target[i]
		}
		limits[i] = l
		if l > 0 {
			useful = true
		}
	}
	if !useful {
		return nil
	}

	var (
		options [][]int
		current = make([]int, len(order))
		walk    func(i int)
	)
	walk = func(i int) {
		if i == len(order) {
			if allZero(current) {
				return
			}
			opt := make([]int, len(current))
			copy(opt, current)
			options = append(options, opt)

			return
		}
		for take := 0; take <= limits[i]; take++ {
			current[i] = take
			walk(i + 1)
		}
		current[i] = 0
	}
	walk(0)

	return options
}

// stateKey encodes a DP state as a compact string map key: the satisfied
// units joined by commas, then '|', then the sorted bridge segments joined
// by dots.
func stateKey(units, segments []int) string {
	var b strings.Builder
	for i, v := range units {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	b.WriteByte('|')
	for i, s := range segments {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(s))
	}

	return b.String()
}

// decodeState parses a stateKey, filling the units vector and returning the
// segment set.
func decodeState(key string, units []int) []int {
	unitsPart, segPart, _ := strings.Cut(key, "|")
	parts := strings.Split(unitsPart, ",")
	for i := range units {
		units[i], _ = strconv.Atoi(parts[i])
	}
	if segPart == "" {
		return nil
	}
	segParts := strings.Split(segPart, ".")
	segments := make([]int, len(segParts))
	for i, p := range segParts {
		segments[i], _ = strconv.Atoi(p)
	}

	return segments
}

// containsSegment reports whether the sorted segment set includes s.
func containsSegment(segments []int, s int) bool {
	for _, have := range segments {
		if have == s {
			return true
		}
	}

	return false
}

// addSegment returns a fresh sorted copy of segments with s inserted.
func addSegment(segments []int, s int) []int {
	out := make([]int, 0, len(segments)+1)
	out = append(out, segments...)
	out = append(out, s)
	sort.Ints(out)

	return out
}

// encodeCombo canonically encodes a selection for value-level deduplication.
func encodeCombo(c combo) string {
	var b strings.Builder
	for _, p := range c {
		b.WriteString(strconv.Itoa(p.cand))
		b.WriteByte(':')
		for i, v := range p.take {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(v))
		}
		b.WriteByte(';')
	}

	return b.String()
}

// allZero reports whether every vector entry is zero.
func allZero(vec []int) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}

	return true
}
