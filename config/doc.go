// Package config loads and validates YAML problem instances for the
// haulplan engine. The engine itself consumes only parsed structured data;
// this package is the single place where files, keys and type coercion
// live.
//
// Instance layout (YAML):
//
//	graph:
//	  nodes: [A, B, C, D]
//	  edges:
//	    - [A, B, 1.0]        # origin, target, cost
//	products:
//	  gemstones: {profit_per_unit: 10, weight_per_unit: 2}
//	inventory:
//	  C: {gemstones: 2}
//	constraints:
//	  warehouse_capacity_tons: 10
//	  truck_capacity_units: 5
//	  copper_to_gemstone_ratio: 2      # legacy shorthand rule
//	  ratio_constraints:
//	    - {numerator: copper, denominator: gemstones, factor: 2}
//	routing:
//	  start_node: A
//	  end_node: D
//
// The legacy copper_to_gemstone_ratio key is kept for older instances and is
// folded into the generalized rule list as copper ≤ factor × gemstones.
//
// Key handling: the underlying loader treats keys case-insensitively, so
// product names are normalized to lowercase throughout, and inventory node
// keys are restored to the spelling declared in graph.nodes.
//
// Malformed instances fail with ErrBadInstance (wrapped with the offending
// key), which callers can tell apart from engine infeasibility.
package config
