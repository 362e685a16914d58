package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	runsLimit int
	runsJSON  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List persisted analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		runs, err := st.ListRuns(ctx, runsLimit)
		if err != nil {
			return err
		}

		if runsJSON {
			return json.NewEncoder(os.Stdout).Encode(runs)
		}

		fmt.Printf("%-36s %-6s %-9s %-10s %s\n", "id", "year", "tol", "status", "created")
		for _, run := range runs {
			fmt.Printf("%-36s %-6d %-9.1f %-10s %s\n",
				run.ID, run.AsOfYear, run.TolerancePct, run.Status, run.CreatedAt.Format("2006-01-02 15:04"))
			if run.Report != nil && run.Report.Balance != nil && !run.Report.Balance.AllWithinTolerance {
				fmt.Printf("%36s   wards out of tolerance\n", "")
			}
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "max runs to list")
	runsCmd.Flags().BoolVar(&runsJSON, "json", false, "emit runs as JSON")
	rootCmd.AddCommand(runsCmd)
}
