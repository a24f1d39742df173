package routing

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/haulplan/haulplan/graph"
	"github.com/haulplan/haulplan/knapsack"
)

// Plan computes every globally cost-optimal pickup tour from start to end
// that collects exactly the target product counts.
//
// All globally shortest backbones are planned (serially by default, see
// WithParallel), their plans pooled, deduplicated, filtered to the global
// minimum total cost and deterministically sorted. Running Plan twice on
// identical input yields an identical plan list.
//
// Errors: ErrNoRoute when start and end are disconnected; ErrUnsatisfiable
// when no backbone admits a detour combination filling the demand;
// ErrInternal (wrapped with context) when a consistency cross-check fails.
// Graph validation errors (unknown node, missing edge) pass through.
func Plan(g *graph.Graph, inv knapsack.Inventory, targets map[string]int, start, end string, opts ...Option) ([]RoutePlan, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 1) Canonical product order: demand vectors, DP states and pickup maps
	//    all index off this ordering, never off map iteration.
	order := make([]string, 0, len(targets))
	for product := range targets {
		order = append(order, product)
	}
	sort.Strings(order)

	// 2) Every globally shortest backbone path.
	backboneCost, backbones, err := g.AllShortestPaths(start, end)
	if err != nil {
		if errors.Is(err, graph.ErrNoPath) {
			return nil, fmt.Errorf("%w: %s → %s", ErrNoRoute, start, end)
		}

		return nil, err
	}

	// 3) Plan each backbone independently.
	perBackbone := make([][]RoutePlan, len(backbones))
	unsatisfiable := make([]bool, len(backbones))

	planOne := func(i int) error {
		plans, err := planBackbone(g, backbones[i], backboneCost, inv, targets, order, cfg)
		if err != nil {
			if errors.Is(err, ErrUnsatisfiable) {
				unsatisfiable[i] = true

				return nil
			}

			return err
		}
		perBackbone[i] = plans

		return nil
	}

	if cfg.Parallel {
		var eg errgroup.Group
		for i := range backbones {
			i := i
			eg.Go(func() error { return planOne(i) })
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range backbones {
			if err := planOne(i); err != nil {
				return nil, err
			}
		}
	}

	// 4) Pool plans in backbone order; fail only when EVERY backbone was
	//    unsatisfiable.
	var pooled []RoutePlan
	for _, plans := range perBackbone {
		pooled = append(pooled, plans...)
	}
	if len(pooled) == 0 {
		return nil, fmt.Errorf("%w: none of %d shortest backbones can collect the targets",
			ErrUnsatisfiable, len(backbones))
	}

	// 5) Global dedup, minimum-cost filter, deterministic ranking.
	return dedupeAndRank(pooled, cfg.Epsilon), nil
}

// planBackbone runs steps 2–7 of the pipeline for one fixed backbone.
func planBackbone(
	g *graph.Graph,
	backbone []string,
	backboneCost float64,
	inv knapsack.Inventory,
	targets map[string]int,
	order []string,
	cfg Options,
) ([]RoutePlan, error) {
	// Greedy, irrevocable on-path collection.
	basePicked, remaining := collectOnPath(backbone, inv, targets, order)

	// Demand met on the backbone alone: the plan is final at detour cost 0.
	if demandMet(remaining) {
		plan, err := assemblePlan(backbone, backboneCost, basePicked, nil, 0, 0, targets, cfg.Epsilon)
		if err != nil {
			return nil, err
		}

		return []RoutePlan{plan}, nil
	}

	// Candidate generation, tie-retaining DP, independent verification.
	candidates, err := generateCandidates(g, backbone, inv, cfg.Epsilon)
	if err != nil {
		return nil, err
	}
	target := demandVector(remaining, order)
	detourCost, combos, err := selectDetours(candidates, target, order, cfg.Epsilon, cfg.MaxCombos)
	if err != nil {
		return nil, err
	}
	verifiedCost, err := verifyDetourCost(candidates, target, order, detourCost, cfg.Epsilon)
	if err != nil {
		return nil, err
	}

	// Assemble one plan per cost-tied detour combination.
	plans := make([]RoutePlan, 0, len(combos))
	for _, c := range combos {
		selections := make([]DetourSelection, 0, len(c))
		for _, p := range c {
			picked := make(map[string]int, len(order))
			for d, amount := range p.take {
				if amount > 0 {
					picked[order[d]] = amount
				}
			}
			selections = append(selections, DetourSelection{
				Candidate: candidates[p.cand],
				Picked:    picked,
			})
		}
		plan, err := assemblePlan(backbone, backboneCost, basePicked, selections, detourCost, verifiedCost, targets, cfg.Epsilon)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	return plans, nil
}
