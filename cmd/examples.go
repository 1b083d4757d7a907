/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// examples.go implements "mdaudit examples": the code example phase alone.
//
// Useful while fixing a tutorial's code: faster than a full check and the
// output is one line per block rather than a scored report.

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpl-au/mdaudit/internal/audit"
	"github.com/jpl-au/mdaudit/internal/example"
	"github.com/jpl-au/mdaudit/internal/history"
)

var failuresOnly bool

var examplesCmd = &cobra.Command{
	Use:   "examples <root>",
	Short: "Check fenced code blocks against language toolchains",
	Long: `Classifies every fenced code block and checks it with the configured
toolchain: a syntax pass, then a compile pass where one is configured, with
one scaffolded retry for fragments that assume tutorial context.

  mdaudit examples docs/
  mdaudit examples docs/ --failures-only
  mdaudit examples docs/ -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		setHistoryProject(root)

		c, err := audit.LoadCorpus(Cfg(), audit.Options{Root: root, Quiet: Quiet() || Structured()})
		l := history.Event("examples").Root(root)
		if err != nil {
			l.Write(err)
			return PrintJSONError(err)
		}

		results, partial := audit.Examples(cmd.Context(), Cfg(), c, audit.Options{
			Root:  root,
			Quiet: Quiet() || Structured(),
		})
		l.Detail("blocks", len(results)).Write(nil)

		if failuresOnly {
			var kept []example.Result
			for _, r := range results {
				if !r.Skipped && !r.Passed() {
					kept = append(kept, r)
				}
			}
			results = kept
		}

		if Structured() {
			return PrintStructured(struct {
				Partial bool             `json:"partial" yaml:"partial"`
				Results []example.Result `json:"results" yaml:"results"`
			}{Partial: partial, Results: results})
		}

		for _, r := range results {
			fmt.Fprintf(Out(), "%s  %-8s %s\n", r.Block, r.Language, verdict(r))
			for _, d := range r.Diagnostics {
				fmt.Fprintf(Out(), "    %s: %s\n", d.Kind, firstLine(d.Message))
			}
		}
		if partial {
			fmt.Fprintln(Out(), "\npartial run: one or more toolchains missing")
		}
		return nil
	},
}

// verdict gives the one-word outcome for text output.
func verdict(r example.Result) string {
	switch {
	case r.Skipped:
		return "skipped"
	case r.Scaffolded:
		return "pass (scaffolded)"
	case r.Passed():
		return "pass"
	default:
		return "FAIL"
	}
}

// firstLine trims multi-line compiler output for the per-block listing;
// full diagnostics remain available via -o json.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func init() {
	examplesCmd.Flags().BoolVar(&failuresOnly, "failures-only", false, "Show only blocks that failed a check")
	rootCmd.AddCommand(examplesCmd)
}
