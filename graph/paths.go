package graph

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ShortestPath returns the minimum cost and one explicit node sequence from
// source to target. When several shortest paths tie, the walk prefers the
// lexicographically smallest predecessor at every step, backtracking where
// needed. ErrNoPath is returned when target is unreachable from source.
func (g *Graph) ShortestPath(source, target string) (float64, []string, error) {
	d, err := g.ShortestDistances(source)
	if err != nil {
		return 0, nil, err
	}
	if _, ok := d.Dist[target]; !ok {
		return 0, nil, fmt.Errorf("%w: target %q", ErrUnknownNode, target)
	}
	cost := d.Dist[target]
	if math.IsInf(cost, 1) {
		return 0, nil, fmt.Errorf("%w: %s → %s", ErrNoPath, source, target)
	}

	return cost, d.PathTo(source, target), nil
}

// PathTo reconstructs one minimum-cost path from the run's source to target
// by walking the predecessor map backwards, preferring the smallest
// predecessor at every step. Predecessors already on the walk are skipped:
// a zero-cost edge makes two equal-cost nodes record each other as
// predecessors, and an unguarded walk would oscillate between them forever.
// Returns nil when no predecessor chain reaches source.
func (d Distances) PathTo(source, target string) []string {
	current := []string{target}
	onStack := map[string]bool{target: true}

	var walk func(node string) bool
	walk = func(node string) bool {
		if node == source {
			return true
		}
		for _, prev := range d.Preds[node] {
			if onStack[prev] {
				continue
			}
			current = append(current, prev)
			onStack[prev] = true
			if walk(prev) {
				return true
			}
			onStack[prev] = false
			current = current[:len(current)-1]
		}

		return false
	}
	if !walk(target) {
		return nil
	}
	reverse(current)

	return current
}

// AllShortestPaths returns the minimum source→target cost together with EVERY
// distinct node sequence achieving it. No tiebreak is applied; downstream
// consumers must consider all of them. Paths are value-deduplicated and
// returned in lexicographic order for stable output.
// ErrNoPath is returned when target is unreachable.
func (g *Graph) AllShortestPaths(source, target string) (float64, [][]string, error) {
	d, err := g.ShortestDistances(source)
	if err != nil {
		return 0, nil, err
	}
	if _, ok := d.Dist[target]; !ok {
		return 0, nil, fmt.Errorf("%w: target %q", ErrUnknownNode, target)
	}
	cost := d.Dist[target]
	if math.IsInf(cost, 1) {
		return 0, nil, fmt.Errorf("%w: %s → %s", ErrNoPath, source, target)
	}

	// Backward DFS over the predecessor multimap. Every branch of the
	// multimap yields one shortest path; the onStack guard stops zero-cost
	// tie cycles (a shortest path never repeats a node).
	var (
		paths   [][]string
		current = []string{target}
		onStack = map[string]bool{target: true}
		walk    func(node string)
	)
	walk = func(node string) {
		if node == source {
			p := make([]string, len(current))
			copy(p, current)
			reverse(p)
			paths = append(paths, p)

			return
		}
		for _, prev := range d.Preds[node] {
			if onStack[prev] {
				continue
			}
			current = append(current, prev)
			onStack[prev] = true
			walk(prev)
			onStack[prev] = false
			current = current[:len(current)-1]
		}
	}
	walk(target)

	// Deduplicate by value and sort for deterministic output.
	seen := make(map[string]bool, len(paths))
	uniq := paths[:0]
	for _, p := range paths {
		key := strings.Join(p, "\x00")
		if seen[key] {
			continue
		}
		seen[key] = true
		uniq = append(uniq, p)
	}
	sort.Slice(uniq, func(i, j int) bool {
		return strings.Join(uniq[i], "\x00") < strings.Join(uniq[j], "\x00")
	})

	return cost, uniq, nil
}

// reverse flips a node sequence in place.
func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
