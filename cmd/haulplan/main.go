// Command haulplan solves one YAML problem instance end to end: it picks
// the profit-maximising cargo mix, plans the cheapest route that collects
// exactly that mix, and prints the resulting plan(s). With --html it also
// writes an interactive visualization of the best plan.
//
// Exit codes: 0 on success, 1 when the instance is infeasible or malformed,
// 2 when internal consistency checks fail.
package main

import (
	"errors"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/haulplan/haulplan/config"
	"github.com/haulplan/haulplan/knapsack"
	"github.com/haulplan/haulplan/report"
	"github.com/haulplan/haulplan/routing"
)

const (
	exitInfeasible = 1
	exitInternal   = 2
)

func main() {
	configPath := flag.String("config", "problem_instance.yaml", "path to the YAML problem instance")
	htmlPath := flag.String("html", "", "write an HTML visualization of the best plan to this path")
	parallel := flag.Bool("parallel", false, "plan tied backbones concurrently")
	maxCombos := flag.Int("max-combos", 0, "cap on retained cost-tied detour selections per state (0 = unbounded)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	os.Exit(run(*configPath, *htmlPath, *parallel, *maxCombos))
}

func run(configPath, htmlPath string, parallel bool, maxCombos int) int {
	inst, err := config.Load(configPath)
	if err != nil {
		log.Error().Err(err).Str("path", configPath).Msg("cannot load problem instance")
		return exitInfeasible
	}
	log.Info().Str("path", configPath).Int("nodes", len(inst.Nodes)).Int("edges", len(inst.Edges)).Msg("instance loaded")

	result, err := knapsack.Solve(inst.Catalog, inst.Inventory, inst.Constraints)
	if err != nil {
		log.Error().Err(err).Msg("no feasible cargo mix")
		return exitInfeasible
	}
	log.Info().Float64("profit", result.Profit).Int("units", result.TotalUnits).Msg("target mix selected")

	g, err := inst.BuildGraph()
	if err != nil {
		log.Error().Err(err).Msg("invalid road network")
		return exitInfeasible
	}

	opts := []routing.Option{routing.WithMaxCombos(maxCombos)}
	if parallel {
		opts = append(opts, routing.WithParallel())
	}

	plans, err := routing.Plan(g, inst.Inventory, result.Counts, inst.Start, inst.End, opts...)
	switch {
	case errors.Is(err, routing.ErrInternal):
		log.Error().Err(err).Msg("planner consistency check failed")
		return exitInternal
	case err != nil:
		log.Error().Err(err).Msg("no feasible route")
		return exitInfeasible
	}
	log.Info().Int("plans", len(plans)).Float64("total_cost", plans[0].TotalCost).Msg("route planned")

	if err := report.Write(os.Stdout, result, plans); err != nil {
		log.Error().Err(err).Msg("cannot write report")
		return exitInternal
	}

	if htmlPath != "" {
		if err := writeHTML(htmlPath, inst, result, plans[0]); err != nil {
			log.Error().Err(err).Str("path", htmlPath).Msg("cannot write visualization")
			return exitInternal
		}
		log.Info().Str("path", htmlPath).Msg("visualization written")
	}

	return 0
}

func writeHTML(path string, inst *config.Instance, result knapsack.Result, plan routing.RoutePlan) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteHTML(f, inst, result, plan); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
