/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// check.go implements the "mdaudit check" command: the full pipeline.
//
// Design: the command is a thin shell over internal/audit so the MCP server
// and the CLI cannot drift apart. Terminal output gets the rendered report;
// -o json/yaml gets the raw structure for scripts. --fail-under turns the
// score into an exit code for CI gates.

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jpl-au/mdaudit/internal/audit"
	"github.com/jpl-au/mdaudit/internal/config"
	"github.com/jpl-au/mdaudit/internal/history"
)

var (
	failUnder    float64
	checkWeights []float64
)

var checkCmd = &cobra.Command{
	Use:   "check <root>",
	Short: "Run all analyzers over a corpus and score it",
	Long: `Runs the full audit: code example checks, link resolution, and
redundancy detection, then aggregates everything into one scored report.

  mdaudit check docs/                 # rendered report
  mdaudit check docs/ -o json         # machine output
  mdaudit check docs/ --fail-under 0.8  # CI gate`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		setHistoryProject(root)

		run := Cfg()
		if len(checkWeights) > 0 {
			if len(checkWeights) != 3 {
				return fmt.Errorf("--weights needs exactly three values: code,links,redundancy")
			}
			w := config.Weights{Code: checkWeights[0], Links: checkWeights[1], Redundancy: checkWeights[2]}
			if err := w.Validate(); err != nil {
				return err
			}
			override := *run
			override.Weights = &w
			run = &override
		}

		rep, err := audit.Run(cmd.Context(), run, audit.Options{
			Root:  root,
			Quiet: Quiet() || Structured(),
		})
		history.Event("check").Root(root).FromReport(rep).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}

		if Structured() {
			if err := PrintStructured(rep); err != nil {
				return err
			}
		} else if err := rep.Render(Out()); err != nil {
			return err
		}

		if failUnder > 0 && rep.Scores.Overall < failUnder {
			cmd.SilenceUsage = true
			return fmt.Errorf("overall score %.2f below threshold %.2f", rep.Scores.Overall, failUnder)
		}
		return nil
	},
}

// setHistoryProject ties subsequent history entries to this corpus.
func setHistoryProject(root string) {
	if abs, err := filepath.Abs(root); err == nil {
		history.SetProject(abs)
	}
}

func init() {
	checkCmd.Flags().Float64Var(&failUnder, "fail-under", 0, "Exit non-zero when the overall score is below this")
	checkCmd.Flags().Float64SliceVar(&checkWeights, "weights", nil, "Score weights as code,links,redundancy (must sum to 1.0)")
	rootCmd.AddCommand(checkCmd)
}
