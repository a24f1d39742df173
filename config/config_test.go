package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/haulplan/haulplan/config"
	"github.com/haulplan/haulplan/knapsack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FullInstance(t *testing.T) {
	inst, err := config.Load(filepath.Join("testdata", "instance.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C", "D"}, inst.Nodes)
	require.Len(t, inst.Edges, 4)
	assert.Equal(t, "A", inst.Edges[0].Origin)
	assert.Equal(t, "B", inst.Edges[0].Target)
	assert.InDelta(t, 1.0, inst.Edges[0].Cost, 1e-9)

	assert.Equal(t, knapsack.Product{ProfitPerUnit: 10, WeightPerUnit: 2}, inst.Catalog["gemstones"])
	assert.Equal(t, 2, inst.Inventory["C"]["gemstones"])
	assert.Equal(t, 3, inst.Inventory["B"]["copper"])

	assert.InDelta(t, 10.0, inst.Constraints.WeightCapacity, 1e-9)
	assert.InDelta(t, 6.0, inst.Constraints.UnitCapacity, 1e-9)
	// Legacy shorthand folds in ahead of the generalized rules.
	require.Len(t, inst.Constraints.Ratios, 2)
	assert.Equal(t, knapsack.RatioRule{Numerator: "copper", Denominator: "gemstones", Factor: 2}, inst.Constraints.Ratios[0])
	assert.Equal(t, knapsack.RatioRule{Numerator: "copper", Denominator: "gemstones", Factor: 1.5}, inst.Constraints.Ratios[1])

	assert.Equal(t, "A", inst.Start)
	assert.Equal(t, "D", inst.End)
}

func TestLoad_BuildGraph(t *testing.T) {
	inst, err := config.Load(filepath.Join("testdata", "instance.yaml"))
	require.NoError(t, err)

	g, err := inst.BuildGraph()
	require.NoError(t, err)
	cost, path, err := g.ShortestPath("A", "D")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, cost, 1e-9)
	assert.Equal(t, []string{"A", "B", "D"}, path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join("testdata", "nope.yaml"))
	assert.ErrorIs(t, err, config.ErrBadInstance)
}

func TestLoad_RejectsMalformedInstances(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{
			name: "no nodes",
			yaml: "graph:\n  edges: []\nproducts:\n  x: {profit_per_unit: 1, weight_per_unit: 1}\n",
		},
		{
			name: "edge not a triple",
			yaml: "graph:\n  nodes: [A]\n  edges:\n    - [A, B]\nproducts:\n  x: {profit_per_unit: 1, weight_per_unit: 1}\n",
		},
		{
			name: "product missing economics",
			yaml: "graph:\n  nodes: [A]\n  edges: []\nproducts:\n  x: {profit_per_unit: 1}\n",
		},
		{
			name: "negative inventory",
			yaml: "graph:\n  nodes: [A]\n  edges: []\nproducts:\n  x: {profit_per_unit: 1, weight_per_unit: 1}\ninventory:\n  A: {x: -1}\nconstraints:\n  warehouse_capacity_tons: 1\n  truck_capacity_units: 1\nrouting:\n  start_node: A\n  end_node: A\n",
		},
		{
			name: "missing capacities",
			yaml: "graph:\n  nodes: [A]\n  edges: []\nproducts:\n  x: {profit_per_unit: 1, weight_per_unit: 1}\nrouting:\n  start_node: A\n  end_node: A\n",
		},
		{
			name: "missing endpoints",
			yaml: "graph:\n  nodes: [A]\n  edges: []\nproducts:\n  x: {profit_per_unit: 1, weight_per_unit: 1}\nconstraints:\n  warehouse_capacity_tons: 1\n  truck_capacity_units: 1\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.yaml), 0o600))

			_, err := config.Load(path)
			assert.ErrorIs(t, err, config.ErrBadInstance)
		})
	}
}
