package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/haulplan/haulplan/graph"
	"github.com/haulplan/haulplan/knapsack"
)

// ErrBadInstance indicates a structurally invalid problem instance
// (missing keys, wrong types, malformed edges). Distinct from engine
// infeasibility: the file is wrong, not the problem hard.
var ErrBadInstance = errors.New("config: invalid problem instance")

// Instance is one fully parsed problem instance, ready to feed the engine.
type Instance struct {
	Nodes       []string
	Edges       []graph.Edge
	Catalog     knapsack.Catalog
	Inventory   knapsack.Inventory
	Constraints knapsack.Constraints
	Start       string
	End         string
}

// Load reads and validates a YAML problem instance from path.
func Load(path string) (*Instance, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadInstance, err)
	}

	return fromViper(v)
}

// fromViper converts the raw key tree into a typed Instance.
func fromViper(v *viper.Viper) (*Instance, error) {
	inst := &Instance{
		Catalog:   make(knapsack.Catalog),
		Inventory: make(knapsack.Inventory),
	}

	// graph.nodes
	inst.Nodes = v.GetStringSlice("graph.nodes")
	if len(inst.Nodes) == 0 {
		return nil, fmt.Errorf("%w: graph.nodes is empty", ErrBadInstance)
	}

	// graph.edges: list of [origin, target, cost] triples.
	rawEdges, ok := v.Get("graph.edges").([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: graph.edges must be a list", ErrBadInstance)
	}
	for i, raw := range rawEdges {
		triple, ok := raw.([]interface{})
		if !ok || len(triple) != 3 {
			return nil, fmt.Errorf("%w: graph.edges[%d] must be [origin, target, cost]", ErrBadInstance, i)
		}
		origin, ok1 := triple[0].(string)
		target, ok2 := triple[1].(string)
		cost, ok3 := toFloat(triple[2])
		if !ok1 || !ok2 || !ok3 {
			return nil, fmt.Errorf("%w: graph.edges[%d] has malformed fields", ErrBadInstance, i)
		}
		inst.Edges = append(inst.Edges, graph.Edge{Origin: origin, Target: target, Cost: cost})
	}

	// products
	products := v.GetStringMap("products")
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: products is empty", ErrBadInstance)
	}
	for name, raw := range products {
		props, ok := asStringMap(raw)
		if !ok {
			return nil, fmt.Errorf("%w: products.%s must be a mapping", ErrBadInstance, name)
		}
		profit, ok1 := toFloat(props["profit_per_unit"])
		weight, ok2 := toFloat(props["weight_per_unit"])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%w: products.%s needs numeric profit_per_unit and weight_per_unit", ErrBadInstance, name)
		}
		if profit < 0 || weight < 0 {
			return nil, fmt.Errorf("%w: products.%s has negative economics", ErrBadInstance, name)
		}
		inst.Catalog[strings.ToLower(name)] = knapsack.Product{ProfitPerUnit: profit, WeightPerUnit: weight}
	}

	// inventory. Viper lowercases map keys, so node IDs are restored to
	// their declared spelling by case-insensitive match against graph.nodes.
	for node, raw := range v.GetStringMap("inventory") {
		canonical, ok := canonicalNode(inst.Nodes, node)
		if !ok {
			return nil, fmt.Errorf("%w: inventory references unknown node %q", ErrBadInstance, node)
		}
		stockRaw, ok := asStringMap(raw)
		if !ok {
			return nil, fmt.Errorf("%w: inventory.%s must be a mapping", ErrBadInstance, node)
		}
		stock := make(map[string]int, len(stockRaw))
		for product, amountRaw := range stockRaw {
			amount, ok := toInt(amountRaw)
			if !ok || amount < 0 {
				return nil, fmt.Errorf("%w: inventory.%s.%s must be a non-negative integer", ErrBadInstance, node, product)
			}
			stock[strings.ToLower(product)] = amount
		}
		inst.Inventory[canonical] = stock
	}

	// constraints
	if !v.IsSet("constraints.warehouse_capacity_tons") || !v.IsSet("constraints.truck_capacity_units") {
		return nil, fmt.Errorf("%w: constraints need warehouse_capacity_tons and truck_capacity_units", ErrBadInstance)
	}
	inst.Constraints.WeightCapacity = v.GetFloat64("constraints.warehouse_capacity_tons")
	inst.Constraints.UnitCapacity = v.GetFloat64("constraints.truck_capacity_units")

	// Legacy shorthand first, then the generalized rule list.
	if v.IsSet("constraints.copper_to_gemstone_ratio") {
		inst.Constraints.Ratios = append(inst.Constraints.Ratios, knapsack.RatioRule{
			Numerator:   "copper",
			Denominator: "gemstones",
			Factor:      v.GetFloat64("constraints.copper_to_gemstone_ratio"),
		})
	}
	if rawRules, ok := v.Get("constraints.ratio_constraints").([]interface{}); ok {
		for i, raw := range rawRules {
			rule, ok := asStringMap(raw)
			if !ok {
				return nil, fmt.Errorf("%w: constraints.ratio_constraints[%d] must be a mapping", ErrBadInstance, i)
			}
			num, ok1 := rule["numerator"].(string)
			denom, ok2 := rule["denominator"].(string)
			factor, ok3 := toFloat(rule["factor"])
			if !ok1 || !ok2 || !ok3 {
				return nil, fmt.Errorf("%w: constraints.ratio_constraints[%d] needs numerator, denominator, factor", ErrBadInstance, i)
			}
			inst.Constraints.Ratios = append(inst.Constraints.Ratios, knapsack.RatioRule{
				Numerator:   strings.ToLower(num),
				Denominator: strings.ToLower(denom),
				Factor:      factor,
			})
		}
	}

	// routing endpoints
	inst.Start = v.GetString("routing.start_node")
	inst.End = v.GetString("routing.end_node")
	if inst.Start == "" || inst.End == "" {
		return nil, fmt.Errorf("%w: routing needs start_node and end_node", ErrBadInstance)
	}

	return inst, nil
}

// BuildGraph constructs the engine graph from the instance topology.
func (inst *Instance) BuildGraph() (*graph.Graph, error) {
	return graph.New(inst.Nodes, inst.Edges)
}

// canonicalNode resolves a (possibly lowercased) inventory key back to a
// declared node ID.
func canonicalNode(nodes []string, key string) (string, bool) {
	for _, id := range nodes {
		if strings.EqualFold(id, key) {
			return id, true
		}
	}

	return "", false
}

// asStringMap normalizes viper's nested map values, which may surface as
// map[string]interface{} or map[interface{}]interface{} depending on the
// YAML shape.
func asStringMap(raw interface{}) (map[string]interface{}, bool) {
	switch m := raw.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = val
		}

		return out, true
	default:
		return nil, false
	}
}

// toFloat accepts the numeric types YAML decoding can produce.
func toFloat(raw interface{}) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// toInt accepts integral YAML values only.
func toInt(raw interface{}) (int, bool) {
	switch n := raw.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	default:
		return 0, false
	}
}
