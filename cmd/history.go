/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// history.go implements "mdaudit history": listing previous runs.
//
// Fixed-width columns come first so they align; the variable-length root
// goes last where its width cannot disrupt the other columns.

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpl-au/mdaudit/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous audit runs and their scores",
	Long: `Shows recorded runs newest first, with their overall score and finding
count. Score trends across runs show whether a corpus is improving.

  mdaudit history
  mdaudit history -n 5
  mdaudit history -o json`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		entries, err := history.List(historyLimit)
		if err != nil {
			return PrintJSONError(err)
		}

		if Structured() {
			return PrintStructured(entries)
		}

		if len(entries) == 0 {
			fmt.Fprintln(Out(), "no recorded runs")
			return nil
		}

		fmt.Fprintf(Out(), "%-16s  %-10s  %7s  %8s  %-4s  %s\n",
			"WHEN", "COMMAND", "SCORE", "FINDINGS", "OK", "ROOT")
		for _, e := range entries {
			when := time.Unix(e.Start, 0).Format("2006-01-02 15:04")
			ok := "yes"
			if !e.Success {
				ok = "no"
			}
			score := fmt.Sprintf("%.2f", e.Overall)
			if e.Partial {
				score += "*"
			}
			root := e.Root
			if root == "" {
				root = "-"
			}
			fmt.Fprintf(Out(), "%-16s  %-10s  %7s  %8d  %-4s  %s\n",
				when, e.Source, score, e.Findings, ok, root)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum runs to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}
