package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	resolveInputs inputFlags
	resolveJSON   bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Report blocks whose ward attribution needs manual review",
	Long:  "Classifies every block against the supplied attribution sources and lists unassigned or conflicting blocks that carry population. Feed the final answers back with --overrides on analyze.",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadInputs(resolveInputs)
		if err != nil {
			return err
		}

		issues, err := in.resolver.Issues(in.asOfYear)
		if err != nil {
			return err
		}

		if resolveJSON {
			return json.NewEncoder(os.Stdout).Encode(issues)
		}
		if len(issues) == 0 {
			fmt.Println("no attribution issues; every populated block is resolved")
			return nil
		}
		printIssues(issues)
		return nil
	},
}

func init() {
	resolveInputs.register(resolveCmd.Flags())
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "emit issues as JSON")
	rootCmd.AddCommand(resolveCmd)
}
