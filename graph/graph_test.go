// Package graph_test validates graph construction, edge costing, Dijkstra
// distances with multi-predecessor tracking, and shortest-path enumeration.
package graph_test

import (
	"errors"
	"math"
	"testing"

	"github.com/haulplan/haulplan/graph"
)

// ------------------------------------------------------------------------
// 1. Construction and validation.
// ------------------------------------------------------------------------

func TestNew_UnknownEndpoint(t *testing.T) {
	// An edge referencing an undeclared node must fail with ErrUnknownNode.
	_, err := graph.New([]string{"A"}, []graph.Edge{{Origin: "A", Target: "X", Cost: 1}})
	if !errors.Is(err, graph.ErrUnknownNode) {
		t.Fatalf("expected ErrUnknownNode, got %v", err)
	}
}

func TestNew_NegativeCost(t *testing.T) {
	_, err := graph.New([]string{"A", "B"}, []graph.Edge{{Origin: "A", Target: "B", Cost: -1}})
	if !errors.Is(err, graph.ErrNegativeCost) {
		t.Fatalf("expected ErrNegativeCost, got %v", err)
	}
}

func TestNew_ParallelEdgesKeepCheapest(t *testing.T) {
	g, err := graph.New(
		[]string{"A", "B"},
		[]graph.Edge{
			{Origin: "A", Target: "B", Cost: 5},
			{Origin: "B", Target: "A", Cost: 2},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	c, err := g.EdgeCost("A", "B")
	if err != nil {
		t.Fatal(err)
	}
	if c != 2 {
		t.Errorf("EdgeCost(A,B) = %v; want 2 (cheapest parallel edge)", c)
	}
}

// ------------------------------------------------------------------------
// 2. Edge and path costing.
// ------------------------------------------------------------------------

func TestPathCost_Simple(t *testing.T) {
	g := mustTriangle(t)
	cost, err := g.PathCost([]string{"A", "B", "C"})
	if err != nil {
		t.Fatal(err)
	}
	if cost != 3 {
		t.Errorf("PathCost(A,B,C) = %v; want 3", cost)
	}
}

func TestPathCost_TrivialSequences(t *testing.T) {
	g := mustTriangle(t)
	for _, path := range [][]string{nil, {"A"}} {
		cost, err := g.PathCost(path)
		if err != nil || cost != 0 {
			t.Errorf("PathCost(%v) = (%v, %v); want (0, nil)", path, cost, err)
		}
	}
}

func TestPathCost_MissingEdge(t *testing.T) {
	// A and C are connected via B but share no direct edge in this graph.
	g, err := graph.New(
		[]string{"A", "B", "C"},
		[]graph.Edge{{Origin: "A", Target: "B", Cost: 1}, {Origin: "B", Target: "C", Cost: 2}},
	)
	if err != nil {
		t.Fatal(err)
	}
	_, err = g.PathCost([]string{"A", "C"})
	if !errors.Is(err, graph.ErrMissingEdge) {
		t.Fatalf("expected ErrMissingEdge, got %v", err)
	}
	// ErrMissingEdge must stay distinguishable from ErrNoPath.
	if errors.Is(err, graph.ErrNoPath) {
		t.Fatalf("ErrMissingEdge must not match ErrNoPath")
	}
}

// ------------------------------------------------------------------------
// 3. Dijkstra distances and predecessor multimap.
// ------------------------------------------------------------------------

func TestShortestDistances_Triangle(t *testing.T) {
	g := mustTriangle(t)
	d, err := g.ShortestDistances("A")
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Dist["C"]; got != 3 {
		t.Errorf("dist[C] = %v; want 3 via A→B→C", got)
	}
	if got := d.Dist["B"]; got != 1 {
		t.Errorf("dist[B] = %v; want 1", got)
	}
}

func TestShortestDistances_UnknownSource(t *testing.T) {
	g := mustTriangle(t)
	_, err := g.ShortestDistances("Z")
	if !errors.Is(err, graph.ErrUnknownNode) {
		t.Fatalf("expected ErrUnknownNode, got %v", err)
	}
}

func TestShortestDistances_Unreachable(t *testing.T) {
	g, err := graph.New([]string{"A", "B", "X"}, []graph.Edge{{Origin: "A", Target: "B", Cost: 1}})
	if err != nil {
		t.Fatal(err)
	}
	d, err := g.ShortestDistances("A")
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(d.Dist["X"], 1) {
		t.Errorf("dist[X] = %v; want +Inf", d.Dist["X"])
	}
	if len(d.Preds["X"]) != 0 {
		t.Errorf("unreachable node must have no predecessors, got %v", d.Preds["X"])
	}
}

func TestShortestDistances_TiedPredecessors(t *testing.T) {
	// Diamond: A→D costs 2 via both B and C, so D must record both.
	g := mustDiamond(t)
	d, err := g.ShortestDistances("A")
	if err != nil {
		t.Fatal(err)
	}
	preds := d.Preds["D"]
	if len(preds) != 2 || preds[0] != "B" || preds[1] != "C" {
		t.Errorf("Preds[D] = %v; want [B C]", preds)
	}
}

// mustTriangle builds A—B(1), B—C(2), A—C(5).
func mustTriangle(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.New(
		[]string{"A", "B", "C"},
		[]graph.Edge{
			{Origin: "A", Target: "B", Cost: 1},
			{Origin: "B", Target: "C", Cost: 2},
			{Origin: "A", Target: "C", Cost: 5},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	return g
}

// mustFreeEdgeTriangle builds Z—A(1), Z—B(1), A—B(0): the free edge makes
// A and B mutual equal-cost predecessors from Z.
func mustFreeEdgeTriangle(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.New(
		[]string{"A", "B", "Z"},
		[]graph.Edge{
			{Origin: "Z", Target: "A", Cost: 1},
			{Origin: "Z", Target: "B", Cost: 1},
			{Origin: "A", Target: "B", Cost: 0},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	return g
}

// mustDiamond builds A—B(1), A—C(1), B—D(1), C—D(1): two tied A→D paths.
func mustDiamond(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.New(
		[]string{"A", "B", "C", "D"},
		[]graph.Edge{
			{Origin: "A", Target: "B", Cost: 1},
			{Origin: "A", Target: "C", Cost: 1},
			{Origin: "B", Target: "D", Cost: 1},
			{Origin: "C", Target: "D", Cost: 1},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	return g
}
