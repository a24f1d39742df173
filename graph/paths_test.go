package graph_test

import (
	"errors"
	"testing"

	"github.com/haulplan/haulplan/graph"
)

func TestShortestPath_Triangle(t *testing.T) {
	g := mustTriangle(t)
	cost, path, err := g.ShortestPath("A", "C")
	if err != nil {
		t.Fatal(err)
	}
	if cost != 3 {
		t.Errorf("cost = %v; want 3", cost)
	}
	assertPath(t, path, "A", "B", "C")
}

func TestShortestPath_SourceEqualsTarget(t *testing.T) {
	g := mustTriangle(t)
	cost, path, err := g.ShortestPath("A", "A")
	if err != nil {
		t.Fatal(err)
	}
	if cost != 0 {
		t.Errorf("cost = %v; want 0", cost)
	}
	assertPath(t, path, "A")
}

func TestShortestPath_NoPath(t *testing.T) {
	g, err := graph.New([]string{"A", "B", "X"}, []graph.Edge{{Origin: "A", Target: "B", Cost: 1}})
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = g.ShortestPath("A", "X")
	if !errors.Is(err, graph.ErrNoPath) {
		t.Fatalf("expected ErrNoPath, got %v", err)
	}
}

func TestShortestPath_UndirectedSymmetry(t *testing.T) {
	// Undirected graphs must cost the same in both directions.
	g := mustDiamond(t)
	for _, pair := range [][2]string{{"A", "D"}, {"A", "C"}, {"B", "C"}} {
		fwd, _, err := g.ShortestPath(pair[0], pair[1])
		if err != nil {
			t.Fatal(err)
		}
		rev, _, err := g.ShortestPath(pair[1], pair[0])
		if err != nil {
			t.Fatal(err)
		}
		if fwd != rev {
			t.Errorf("cost %s→%s = %v but %s→%s = %v", pair[0], pair[1], fwd, pair[1], pair[0], rev)
		}
	}
}

func TestShortestPath_ZeroCostTieCycle(t *testing.T) {
	// A and B tie at distance 1 from Z and record each other as
	// predecessors through the free A—B edge. The backward walk must skip
	// predecessors already on the path instead of oscillating between them.
	g := mustFreeEdgeTriangle(t)
	cost, path, err := g.ShortestPath("Z", "A")
	if err != nil {
		t.Fatal(err)
	}
	if cost != 1 {
		t.Errorf("cost = %v; want 1", cost)
	}
	if len(path) < 2 || path[0] != "Z" || path[len(path)-1] != "A" {
		t.Fatalf("path = %v; want Z ... A", path)
	}
	walked, err := g.PathCost(path)
	if err != nil {
		t.Fatalf("returned path %v not walkable: %v", path, err)
	}
	if walked != cost {
		t.Errorf("path %v costs %v; want %v", path, walked, cost)
	}
}

func TestAllShortestPaths_ZeroCostTie(t *testing.T) {
	// The free A—B edge yields a second shortest path Z,B,A at the same
	// cost as the direct Z,A.
	g := mustFreeEdgeTriangle(t)
	cost, paths, err := g.AllShortestPaths("Z", "A")
	if err != nil {
		t.Fatal(err)
	}
	if cost != 1 {
		t.Errorf("cost = %v; want 1", cost)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d tied paths, want 2: %v", len(paths), paths)
	}
	assertPath(t, paths[0], "Z", "A")
	assertPath(t, paths[1], "Z", "B", "A")
}

func TestAllShortestPaths_Diamond(t *testing.T) {
	g := mustDiamond(t)
	cost, paths, err := g.AllShortestPaths("A", "D")
	if err != nil {
		t.Fatal(err)
	}
	if cost != 2 {
		t.Errorf("cost = %v; want 2", cost)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d tied paths, want 2: %v", len(paths), paths)
	}
	// Lexicographic output order: A,B,D before A,C,D.
	assertPath(t, paths[0], "A", "B", "D")
	assertPath(t, paths[1], "A", "C", "D")
}

func TestAllShortestPaths_EveryPathHasMinimumCost(t *testing.T) {
	// Grid-ish graph with many ties: every returned path must cost the minimum.
	g, err := graph.New(
		[]string{"A", "B", "C", "D", "E", "F"},
		[]graph.Edge{
			{Origin: "A", Target: "B", Cost: 1},
			{Origin: "A", Target: "C", Cost: 1},
			{Origin: "B", Target: "D", Cost: 1},
			{Origin: "C", Target: "D", Cost: 1},
			{Origin: "D", Target: "E", Cost: 1},
			{Origin: "D", Target: "F", Cost: 2},
			{Origin: "E", Target: "F", Cost: 1},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	minCost, paths, err := g.AllShortestPaths("A", "F")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("expected at least one shortest path")
	}
	for _, p := range paths {
		c, err := g.PathCost(p)
		if err != nil {
			t.Fatalf("returned path %v not walkable: %v", p, err)
		}
		if diff := c - minCost; diff > graph.Eps || diff < -graph.Eps {
			t.Errorf("path %v costs %v; want minimum %v", p, c, minCost)
		}
	}
	// Cross-check the minimum against an exhaustive simple-path search.
	if brute := bruteForceMin(t, g, "A", "F"); brute != minCost {
		t.Errorf("reported minimum %v; exhaustive search found %v", minCost, brute)
	}
}

func TestAllShortestPaths_SingleWhenUnique(t *testing.T) {
	g := mustTriangle(t)
	cost, paths, err := g.AllShortestPaths("A", "C")
	if err != nil {
		t.Fatal(err)
	}
	if cost != 3 || len(paths) != 1 {
		t.Fatalf("got (%v, %v); want single path of cost 3", cost, paths)
	}
	assertPath(t, paths[0], "A", "B", "C")
}

// bruteForceMin enumerates every simple path source→target by DFS and
// returns the cheapest cost found. Only viable on tiny test graphs.
func bruteForceMin(t *testing.T, g *graph.Graph, source, target string) float64 {
	t.Helper()
	best := -1.0
	visited := map[string]bool{source: true}
	var walk func(node string, cost float64)
	walk = func(node string, cost float64) {
		if node == target {
			if best < 0 || cost < best {
				best = cost
			}

			return
		}
		for _, next := range g.Nodes() {
			if visited[next] {
				continue
			}
			c, err := g.EdgeCost(node, next)
			if err != nil {
				continue
			}
			visited[next] = true
			walk(next, cost+c)
			visited[next] = false
		}
	}
	walk(source, 0)
	if best < 0 {
		t.Fatalf("brute force found no %s→%s path", source, target)
	}

	return best
}

func assertPath(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("path = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("path = %v; want %v", got, want)
		}
	}
}
