package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/redist-cli/internal/aggregate"
	"github.com/sells-group/redist-cli/internal/balance"
	"github.com/sells-group/redist-cli/internal/export"
	"github.com/sells-group/redist-cli/internal/model"
)

var (
	analyzeInputs    inputFlags
	analyzeTolerance float64
	analyzeOut       string
	analyzeSave      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Estimate population, roll up by ward, and report balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		in, err := loadInputs(analyzeInputs)
		if err != nil {
			return err
		}
		tolerance := analyzeTolerance
		if !cmd.Flags().Changed("tolerance") {
			tolerance = cfg.Analysis.TolerancePct
		}

		issues, err := in.resolver.Issues(in.asOfYear)
		if err != nil {
			return err
		}

		attr, err := in.resolver.Finalize(in.asOfYear)
		if err != nil {
			if errors.Is(err, model.ErrUnresolvedConflict) {
				printIssues(issues)
				fmt.Fprintln(os.Stderr, "supply --overrides with final wards for the blocks above and re-run")
			}
			return err
		}

		totals, err := aggregate.WardTotals(in.store, in.est, attr, in.asOfYear)
		if err != nil {
			return err
		}
		report, err := balance.Analyze(totals.Wards, tolerance)
		if err != nil {
			return err
		}

		printReport(report, totals)

		if analyzeOut != "" {
			err = export.WriteSummary(analyzeOut, export.Summary{
				Totals:  totals,
				Balance: report,
				Issues:  issues,
			})
			if err != nil {
				return err
			}
			fmt.Printf("summary written to %s\n", analyzeOut)
		}

		if analyzeSave {
			if err := saveRun(ctx, in.asOfYear, tolerance, &model.RunReport{
				Totals:  totals,
				Balance: report,
				Issues:  issues,
			}); err != nil {
				return err
			}
		}

		if !report.AllWithinTolerance {
			zap.L().Warn("analyze: wards exceed tolerance",
				zap.Float64("tolerance_pct", tolerance),
				zap.Int("as_of_year", in.asOfYear),
			)
		}
		return nil
	},
}

func init() {
	analyzeInputs.register(analyzeCmd.Flags())
	analyzeCmd.Flags().Float64Var(&analyzeTolerance, "tolerance", balance.DefaultTolerancePct, "deviation tolerance percent")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "write xlsx summary workbook to this path")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "persist the run to the configured store")
	rootCmd.AddCommand(analyzeCmd)
}

func printReport(report *model.BalanceReport, totals *model.WardTotals) {
	p := message.NewPrinter(language.English)

	p.Printf("estimated total population: %.0f\n", totals.Citywide)
	if totals.Unattributed > 0 {
		p.Printf("unattributed population:    %.0f\n", totals.Unattributed)
	}
	p.Printf("ward average:               %.1f\n", report.Average)
	p.Printf("tolerance:                  %.1f%%\n\n", report.TolerancePct)

	p.Printf("%-8s %12s %10s  %s\n", "ward", "population", "deviation", "status")
	for _, e := range report.Entries {
		status := "ok"
		if !e.WithinTolerance {
			status = "OUT OF TOLERANCE"
		}
		p.Printf("%-8s %12.0f %+9.2f%%  %s\n", e.Ward, e.Population, e.DeviationPct, status)
	}
}

func printIssues(issues []model.AttributionIssue) {
	p := message.NewPrinter(language.English)
	p.Printf("%d blocks need manual attribution:\n", len(issues))
	for _, is := range issues {
		if len(is.Candidates) > 0 {
			p.Printf("  %-16s %-10s pop %8.1f  candidates: %v\n", is.BlockID, is.Status, is.EstimatedPopulation, is.Candidates)
		} else {
			p.Printf("  %-16s %-10s pop %8.1f\n", is.BlockID, is.Status, is.EstimatedPopulation)
		}
	}
}

func saveRun(ctx context.Context, asOfYear int, tolerance float64, report *model.RunReport) error {
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		return eris.Wrap(err, "migrate store")
	}

	run, err := st.CreateRun(ctx, asOfYear, tolerance)
	if err != nil {
		return err
	}
	if err := st.CompleteRun(ctx, run.ID, report); err != nil {
		return err
	}
	fmt.Printf("run %s saved\n", run.ID)
	return nil
}
