// format.go renders a report for humans and machines.
//
// Separated from report.go to isolate presentation concerns. Machine output
// is YAML (the same structure the yaml tags describe); human output is
// Markdown prose, rendered through glamour when stdout is a terminal and
// emitted raw when piped so downstream tools get clean text.

package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// YAML serialises the full report.
func (r *Report) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}

// Markdown produces the human-readable summary. Deterministic: the same
// report always yields the same text.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# mdaudit report: %s\n\n", r.Root)
	if r.Partial {
		b.WriteString("**Partial run.** One or more toolchains were missing; the code score covers only what could be checked.\n\n")
	}

	fmt.Fprintf(&b, "Overall score: **%.2f**\n\n", r.Scores.Overall)
	fmt.Fprintf(&b, "| Phase | Score | Detail |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| Code examples | %.2f | %d passed of %d checked (%d skipped) |\n",
		r.Scores.Code, r.Examples.Passed, r.Examples.Checked, r.Examples.Skipped)
	fmt.Fprintf(&b, "| Links | %.2f | %d resolved of %d (%d broken) |\n",
		r.Scores.Links, r.Links.Resolved, r.Links.Total, len(r.Links.Broken))
	fmt.Fprintf(&b, "| Redundancy | %.2f | %d of %d blocks duplicated |\n\n",
		r.Scores.Redundancy, r.Redundancy.DuplicatedBlocks, r.Blocks)

	fmt.Fprintf(&b, "Scanned %d documents, %d blocks.\n\n", r.Documents, r.Blocks)

	if len(r.Findings) > 0 {
		b.WriteString("## Findings\n\n")
		for _, f := range r.Findings {
			fmt.Fprintf(&b, "%d. `%s` [%s] %s\n", f.Rank, f.Ref, f.Category, f.Message)
			if f.Suggestion != "" {
				fmt.Fprintf(&b, "   - suggestion: %s\n", f.Suggestion)
			}
		}
		b.WriteString("\n")
	}

	if len(r.Links.Orphans) > 0 {
		fmt.Fprintf(&b, "## Orphan anchors\n\n%d heading anchors have no incoming link:\n\n", len(r.Links.Orphans))
		for _, a := range r.Links.Orphans {
			fmt.Fprintf(&b, "- `%s` (%s, line %d)\n", a.String(), a.Heading, a.Line)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Render writes the Markdown summary to w. Terminal output gets glamour
// rendering; pipe or redirect gets the raw markdown.
func (r *Report) Render(w io.Writer) error {
	md := r.Markdown()
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if rendered, err := glamour.Render(md, "dark"); err == nil {
			_, err = fmt.Fprint(w, rendered)
			return err
		}
	}
	_, err := fmt.Fprint(w, md)
	return err
}

// firstLine trims a diagnostic message to its first line for ranked
// findings; full compiler output stays in the failure records.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
