/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// redundancy.go implements "mdaudit redundancy": the duplication phase alone.
//
// Threshold flags override config for this invocation, which makes it easy
// to sweep a corpus at different sensitivities without editing a file.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/mdaudit/internal/audit"
	"github.com/jpl-au/mdaudit/internal/history"
	"github.com/jpl-au/mdaudit/internal/redundancy"
)

var (
	overlapFlag float64
	nearFlag    float64
)

var redundancyCmd = &cobra.Command{
	Use:   "redundancy <root>",
	Short: "Detect duplicated and overlapping content",
	Long: `Compares paragraphs with paragraphs and code with code across the whole
corpus, reporting exact duplicates, near duplicates, and conceptual overlap
with a synopsis of the shared span.

  mdaudit redundancy docs/
  mdaudit redundancy docs/ --overlap 0.6
  mdaudit redundancy docs/ -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		setHistoryProject(root)

		t := Cfg().ResolvedThresholds()
		if overlapFlag > 0 {
			t.Overlap = overlapFlag
		}
		if nearFlag > 0 {
			t.Near = nearFlag
		}
		if err := t.Validate(); err != nil {
			return PrintJSONError(err)
		}
		run := *Cfg()
		run.Thresholds = &t

		_, pairs, err := audit.Redundancy(&run, audit.Options{Root: root, Quiet: Quiet() || Structured()})
		l := history.Event("redundancy").Root(root)
		if err != nil {
			l.Write(err)
			return PrintJSONError(err)
		}
		l.Detail("pairs", len(pairs)).Write(nil)

		if Structured() {
			return PrintStructured(struct {
				Pairs            []redundancy.Pair `json:"pairs,omitempty" yaml:"pairs,omitempty"`
				DuplicatedBlocks int               `json:"duplicated_blocks" yaml:"duplicated_blocks"`
			}{Pairs: pairs, DuplicatedBlocks: redundancy.DuplicatedBlocks(pairs)})
		}

		if len(pairs) == 0 {
			fmt.Fprintln(Out(), "no duplication found")
			return nil
		}
		for _, p := range pairs {
			fmt.Fprintf(Out(), "%s <-> %s  %.2f  %s\n", p.A, p.B, p.Score, p.Class)
			if p.Synopsis != "" {
				fmt.Fprintf(Out(), "    %s\n", p.Synopsis)
			}
		}
		return nil
	},
}

func init() {
	redundancyCmd.Flags().Float64Var(&overlapFlag, "overlap", 0, "Report pairs scoring at or above this")
	redundancyCmd.Flags().Float64Var(&nearFlag, "near", 0, "Near-duplicate threshold")
	rootCmd.AddCommand(redundancyCmd)
}
