/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// links.go implements "mdaudit links": the cross-reference phase alone.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/mdaudit/internal/audit"
	"github.com/jpl-au/mdaudit/internal/history"
	"github.com/jpl-au/mdaudit/internal/linkgraph"
)

var showOrphans bool

var linksCmd = &cobra.Command{
	Use:   "links <root>",
	Short: "Resolve internal links against minted heading anchors",
	Long: `Mints an anchor for every heading the way common Markdown renderers do,
extracts every internal link, and resolves each one. Broken links come with
the nearest matching anchor as a repair suggestion.

  mdaudit links docs/
  mdaudit links docs/ --orphans   # also list anchors nothing points at
  mdaudit links docs/ -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		root := args[0]
		setHistoryProject(root)

		_, g, err := audit.Links(Cfg(), audit.Options{Root: root, Quiet: Quiet() || Structured()})
		l := history.Event("links").Root(root)
		if err != nil {
			l.Write(err)
			return PrintJSONError(err)
		}
		l.Detail("links", len(g.Links)).Detail("broken", len(g.Broken)).Write(nil)

		if Structured() {
			return PrintStructured(struct {
				Total    int                `json:"total" yaml:"total"`
				Resolved int                `json:"resolved" yaml:"resolved"`
				Broken   []linkgraph.Broken `json:"broken,omitempty" yaml:"broken,omitempty"`
				Orphans  []linkgraph.Anchor `json:"orphans,omitempty" yaml:"orphans,omitempty"`
			}{Total: len(g.Links), Resolved: g.Resolved(), Broken: g.Broken, Orphans: g.Orphans})
		}

		fmt.Fprintf(Out(), "%d links, %d resolved, %d broken\n", len(g.Links), g.Resolved(), len(g.Broken))
		for _, b := range g.Broken {
			fmt.Fprintf(Out(), "%s:%d  %s\n", b.Link.SourcePath, b.Link.Line, b.Reason)
			if b.Suggestion != "" {
				fmt.Fprintf(Out(), "    did you mean %s?\n", b.Suggestion)
			}
		}
		if showOrphans && len(g.Orphans) > 0 {
			fmt.Fprintf(Out(), "\n%d orphan anchors:\n", len(g.Orphans))
			for _, a := range g.Orphans {
				fmt.Fprintf(Out(), "%s  (%s, line %d)\n", a.String(), a.Heading, a.Line)
			}
		}
		return nil
	},
}

func init() {
	linksCmd.Flags().BoolVar(&showOrphans, "orphans", false, "List anchors with no incoming link")
	rootCmd.AddCommand(linksCmd)
}
