package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/redist-cli/internal/balance"
	"github.com/sells-group/redist-cli/internal/export"
	"github.com/sells-group/redist-cli/internal/ingest"
	"github.com/sells-group/redist-cli/internal/model"
	"github.com/sells-group/redist-cli/internal/scenario"
)

var (
	scenarioInputs    inputFlags
	scenarioFile      string
	scenarioTolerance float64
	scenarioOut       string
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario [names...]",
	Short: "Evaluate and rank alternate ward assignments",
	Long:  "Loads candidate attributions from a scenario file, evaluates each against the balance tolerance alongside the resolved baseline, and ranks them: fewest out-of-tolerance wards first, then lowest squared deviation.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		in, err := loadInputs(scenarioInputs)
		if err != nil {
			return err
		}
		tolerance := scenarioTolerance
		if !cmd.Flags().Changed("tolerance") {
			tolerance = cfg.Analysis.TolerancePct
		}

		attr, err := in.resolver.Finalize(in.asOfYear)
		if err != nil {
			return err
		}

		engine := scenario.New(in.store, in.est, attr)

		specs, err := ingest.ReadScenarios(scenarioFile)
		if err != nil {
			return err
		}
		for _, spec := range specs {
			switch {
			case len(spec.Assignments) > 0:
				err = engine.Add(spec.Name, &model.Attribution{Wards: spec.Assignments})
			default:
				err = engine.AddOverrides(spec.Name, spec.Overrides)
			}
			if err != nil {
				return eris.Wrapf(err, "register scenario %q", spec.Name)
			}
		}

		results, err := engine.Compare(ctx, args, in.asOfYear, tolerance)
		if err != nil {
			return err
		}

		printRanking(results, tolerance)

		if scenarioOut != "" {
			summary, err := buildScenarioSummary(in, attr, results, tolerance)
			if err != nil {
				return err
			}
			if err := export.WriteSummary(scenarioOut, summary); err != nil {
				return err
			}
			fmt.Printf("summary written to %s\n", scenarioOut)
		}
		return nil
	},
}

func init() {
	scenarioInputs.register(scenarioCmd.Flags())
	scenarioCmd.Flags().StringVar(&scenarioFile, "scenarios", "", "scenario definitions yaml")
	scenarioCmd.Flags().Float64Var(&scenarioTolerance, "tolerance", balance.DefaultTolerancePct, "deviation tolerance percent")
	scenarioCmd.Flags().StringVar(&scenarioOut, "out", "", "write xlsx summary workbook to this path")
	_ = scenarioCmd.MarkFlagRequired("scenarios")
	rootCmd.AddCommand(scenarioCmd)
}

func printRanking(results []*model.ScenarioResult, tolerance float64) {
	p := message.NewPrinter(language.English)
	p.Printf("scenario ranking at %.1f%% tolerance (best first):\n\n", tolerance)
	p.Printf("%-4s %-24s %10s %14s\n", "rank", "scenario", "violations", "sum sq dev")
	for i, r := range results {
		p.Printf("%-4d %-24s %10d %14.2f\n", i+1, r.Name, r.Violations, r.SumSquaredDeviation)
	}
}

// buildScenarioSummary assembles the workbook payload: baseline totals and
// balance plus every scenario's change sheet.
func buildScenarioSummary(in *analysisInputs, attr *model.Attribution, results []*model.ScenarioResult, tolerance float64) (export.Summary, error) {
	var summary export.Summary

	var baseline *model.ScenarioResult
	scenarios := make([]model.ScenarioResult, 0, len(results))
	for _, r := range results {
		if r.Name == scenario.BaselineName {
			baseline = r
			continue
		}
		scenarios = append(scenarios, *r)
	}
	if baseline == nil {
		return summary, eris.New("baseline scenario missing from comparison")
	}

	totals, err := rebuildTotals(in, attr)
	if err != nil {
		return summary, err
	}
	summary.Totals = totals
	summary.Balance = baseline.Report
	summary.Scenarios = scenarios
	return summary, nil
}
