package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulplan/haulplan/config"
	"github.com/haulplan/haulplan/graph"
	"github.com/haulplan/haulplan/knapsack"
	"github.com/haulplan/haulplan/report"
	"github.com/haulplan/haulplan/routing"
)

func sampleResult() knapsack.Result {
	return knapsack.Result{
		Counts:     map[string]int{"gemstones": 2, "copper": 3},
		Profit:     27,
		Weight:     7,
		TotalUnits: 5,
	}
}

func samplePlan() routing.RoutePlan {
	return routing.RoutePlan{
		Backbone:     []string{"A", "B", "D"},
		BackboneCost: 2,
		Detours: []routing.DetourSelection{
			{
				Candidate: routing.DetourCandidate{
					Node:        "C",
					Anchor:      "D",
					AnchorIndex: 2,
					Rejoin:      "D",
					RejoinIndex: 2,
					Outbound:    []string{"D", "C"},
					Return:      []string{"C", "D"},
					Cost:        2,
					Stock:       map[string]int{"gemstones": 2},
				},
				Picked: map[string]int{"gemstones": 2},
			},
		},
		DetourCost:         2,
		TotalCost:          4,
		FinalRoute:         []string{"A", "B", "D", "C", "D"},
		GoodsPicked:        map[string]map[string]int{"B": {"copper": 3}, "C": {"gemstones": 2}},
		VerifiedDetourCost: 2,
	}
}

func TestWrite_SinglePlan(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, sampleResult(), []routing.RoutePlan{samplePlan()}))
	out := buf.String()

	assert.Contains(t, out, "Target mix: copper: 3, gemstones: 2")
	assert.Contains(t, out, "Total profit (without travel costs): 27.00")
	assert.Contains(t, out, "Base path: A -> B -> D (cost 2.00)")
	assert.Contains(t, out, "D detour to C (path D -> C, cost 2.00) goods [gemstones: 2]")
	assert.Contains(t, out, "brute-force search confirmed detour cost 2.00 (best possible 2.00)")
	assert.Contains(t, out, "Final route: A -> B -> D -> C -> D")
	assert.Contains(t, out, "Total travel cost: 4.00")
	assert.Contains(t, out, "Net profit (profit - travel cost): 23.00")
	assert.Contains(t, out, "  B: copper: 3")
	assert.Contains(t, out, "  C: gemstones: 2")

	// One plan prints without the tie banner.
	assert.NotContains(t, out, "cost-tied")
	assert.NotContains(t, out, "--- Plan")
}

func TestWrite_NoDetours(t *testing.T) {
	plan := samplePlan()
	plan.Detours = nil
	plan.DetourCost = 0
	plan.TotalCost = plan.BackboneCost
	plan.FinalRoute = plan.Backbone
	plan.VerifiedDetourCost = 0

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, sampleResult(), []routing.RoutePlan{plan}))

	assert.Contains(t, buf.String(), "No detours required.")
}

func TestWrite_TiedPlansAreNumbered(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, sampleResult(), []routing.RoutePlan{samplePlan(), samplePlan()}))
	out := buf.String()

	assert.Contains(t, out, "2 cost-tied optimal plans found.")
	assert.Contains(t, out, "--- Plan 1 ---")
	assert.Contains(t, out, "--- Plan 2 ---")
}

func TestWrite_Deterministic(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, report.Write(&first, sampleResult(), []routing.RoutePlan{samplePlan()}))
	require.NoError(t, report.Write(&second, sampleResult(), []routing.RoutePlan{samplePlan()}))

	assert.Equal(t, first.String(), second.String())
}

func sampleInstance() *config.Instance {
	return &config.Instance{
		Nodes: []string{"A", "B", "C", "D"},
		Edges: []graph.Edge{
			{Origin: "A", Target: "B", Cost: 1},
			{Origin: "B", Target: "C", Cost: 2},
			{Origin: "B", Target: "D", Cost: 1},
			{Origin: "C", Target: "D", Cost: 2},
		},
		Catalog: knapsack.Catalog{
			"gemstones": {ProfitPerUnit: 10, WeightPerUnit: 2},
			"copper":    {ProfitPerUnit: 3, WeightPerUnit: 1},
		},
		Inventory: knapsack.Inventory{
			"B": {"copper": 3},
			"C": {"gemstones": 2},
		},
		Constraints: knapsack.Constraints{
			WeightCapacity: 10,
			UnitCapacity:   6,
			Ratios: []knapsack.RatioRule{
				{Numerator: "copper", Denominator: "gemstones", Factor: 2},
			},
		},
		Start: "A",
		End:   "D",
	}
}

func TestWriteHTML_EmbedsPlanData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteHTML(&buf, sampleInstance(), sampleResult(), samplePlan()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `"final_route":["A","B","D","C","D"]`)
	assert.Contains(t, out, `"total_cost":4`)
	assert.Contains(t, out, `"in_route":true`)
	assert.Contains(t, out, `"target_counts":{"copper":3,"gemstones":2}`)
	assert.Contains(t, out, "copper &le; 2 &times; gemstones")
	assert.Contains(t, out, "cdn.jsdelivr.net/npm/d3@7")
}

func TestWriteHTML_MarksOnlyRouteEdges(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteHTML(&buf, sampleInstance(), sampleResult(), samplePlan()))
	out := buf.String()

	// A-B, B-D and C-D lie on the final route, B-C does not.
	assert.Equal(t, 3, strings.Count(out, `"in_route":true`))
	assert.Equal(t, 1, strings.Count(out, `"in_route":false`))
}
