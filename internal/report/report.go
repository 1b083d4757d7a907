// Package report aggregates the analyzer outputs for one run into a single
// scored report.
//
// Aggregation is pure: Build folds over already-computed results and never
// re-runs an analyzer, so building a report twice from the same inputs yields
// the same report. Scoring policy (the weight split, what counts as checked)
// lives here and in config; the analyzers only produce facts.
package report

import (
	"fmt"

	"github.com/jpl-au/mdaudit/internal/config"
	"github.com/jpl-au/mdaudit/internal/corpus"
	"github.com/jpl-au/mdaudit/internal/document"
	"github.com/jpl-au/mdaudit/internal/example"
	"github.com/jpl-au/mdaudit/internal/linkgraph"
	"github.com/jpl-au/mdaudit/internal/redundancy"
)

// ExampleSummary covers the code example phase.
type ExampleSummary struct {
	Total    int              `yaml:"total" json:"total"`
	Checked  int              `yaml:"checked" json:"checked"` // total minus skipped
	Passed   int              `yaml:"passed" json:"passed"`
	Skipped  int              `yaml:"skipped" json:"skipped"`
	Failures []example.Result `yaml:"failures,omitempty" json:"failures,omitempty"`
}

// LinkSummary covers the cross-reference phase.
type LinkSummary struct {
	Total    int                `yaml:"total" json:"total"`
	Resolved int                `yaml:"resolved" json:"resolved"`
	Broken   []linkgraph.Broken `yaml:"broken,omitempty" json:"broken,omitempty"`
	Orphans  []linkgraph.Anchor `yaml:"orphans,omitempty" json:"orphans,omitempty"`
}

// RedundancySummary covers the duplication phase.
type RedundancySummary struct {
	Pairs            []redundancy.Pair `yaml:"pairs,omitempty" json:"pairs,omitempty"`
	DuplicatedBlocks int               `yaml:"duplicated_blocks" json:"duplicated_blocks"`
}

// Scores are all in [0,1]. Redundancy is expressed as a score (1 minus the
// duplication penalty) so all three combine the same way.
type Scores struct {
	Code       float64 `yaml:"code" json:"code"`
	Links      float64 `yaml:"links" json:"links"`
	Redundancy float64 `yaml:"redundancy" json:"redundancy"`
	Overall    float64 `yaml:"overall" json:"overall"`
}

// Finding is one actionable item, ranked. Broken links outrank failing
// examples outrank duplication: a dead reference blocks a reader outright,
// a broken example misleads them, duplication merely wastes their time.
type Finding struct {
	Rank       int          `yaml:"rank" json:"rank"`
	Category   string       `yaml:"category" json:"category"`
	Ref        document.Ref `yaml:"ref" json:"ref"`
	Message    string       `yaml:"message" json:"message"`
	Suggestion string       `yaml:"suggestion,omitempty" json:"suggestion,omitempty"`
}

// Finding categories.
const (
	CategoryBrokenLink     = "broken-link"
	CategoryFailingExample = "failing-example"
	CategoryRedundancy     = "redundancy"
)

// Report is the full output for one run over a corpus.
type Report struct {
	Root      string `yaml:"root" json:"root"`
	Documents int    `yaml:"documents" json:"documents"`
	Blocks    int    `yaml:"blocks" json:"blocks"`

	// Partial means at least one configured toolchain binary was missing,
	// so the code score covers less than it should. The report is still
	// produced; consumers decide whether partial is acceptable.
	Partial bool `yaml:"partial" json:"partial"`

	Examples   ExampleSummary    `yaml:"examples" json:"examples"`
	Links      LinkSummary       `yaml:"links" json:"links"`
	Redundancy RedundancySummary `yaml:"redundancy" json:"redundancy"`

	Scores   Scores    `yaml:"scores" json:"scores"`
	Findings []Finding `yaml:"findings,omitempty" json:"findings,omitempty"`
}

// Build assembles the report from the three analyzer outputs.
func Build(c *corpus.Corpus, results []example.Result, partial bool, g *linkgraph.Graph, pairs []redundancy.Pair, w config.Weights) *Report {
	r := &Report{
		Root:      c.Root,
		Documents: len(c.Docs),
		Blocks:    c.TotalBlocks(),
		Partial:   partial,
	}

	r.Examples.Total = len(results)
	for _, res := range results {
		switch {
		case res.Skipped:
			r.Examples.Skipped++
		case res.Passed():
			r.Examples.Passed++
		default:
			r.Examples.Failures = append(r.Examples.Failures, res)
		}
	}
	r.Examples.Checked = r.Examples.Total - r.Examples.Skipped

	r.Links.Total = len(g.Links)
	r.Links.Resolved = g.Resolved()
	r.Links.Broken = g.Broken
	r.Links.Orphans = g.Orphans

	r.Redundancy.Pairs = pairs
	r.Redundancy.DuplicatedBlocks = redundancy.DuplicatedBlocks(pairs)

	r.Scores = score(r, w)
	r.Findings = rank(r)
	return r
}

// score computes the per-phase and weighted overall scores. Empty
// denominators score 1.0: a corpus with nothing to check has nothing wrong.
func score(r *Report, w config.Weights) Scores {
	s := Scores{Code: 1.0, Links: 1.0, Redundancy: 1.0}

	if r.Examples.Checked > 0 {
		s.Code = float64(r.Examples.Passed) / float64(r.Examples.Checked)
	}
	if r.Links.Total > 0 {
		s.Links = float64(r.Links.Resolved) / float64(r.Links.Total)
	}
	if r.Blocks > 0 {
		s.Redundancy = 1.0 - float64(r.Redundancy.DuplicatedBlocks)/float64(r.Blocks)
	}

	s.Overall = w.Code*s.Code + w.Links*s.Links + w.Redundancy*s.Redundancy
	return s
}

// rank orders findings for an editor: broken links, then failing examples,
// then exact and near duplicates. Within a category the analyzer's own
// (path, line) ordering is preserved.
func rank(r *Report) []Finding {
	var out []Finding
	add := func(category string, ref document.Ref, message, suggestion string) {
		out = append(out, Finding{
			Rank:       len(out) + 1,
			Category:   category,
			Ref:        ref,
			Message:    message,
			Suggestion: suggestion,
		})
	}

	for _, b := range r.Links.Broken {
		ref := document.Ref{Path: b.Link.SourcePath, Line: b.Link.Line}
		add(CategoryBrokenLink, ref, b.Reason, b.Suggestion)
	}

	for _, f := range r.Examples.Failures {
		msg := "code example failed checks"
		if len(f.Diagnostics) > 0 {
			msg = fmt.Sprintf("%s: %s", f.Diagnostics[0].Kind, firstLine(f.Diagnostics[0].Message))
		}
		add(CategoryFailingExample, f.Block, msg, "")
	}

	for _, p := range r.Redundancy.Pairs {
		if p.Class != redundancy.Exact && p.Class != redundancy.Near {
			continue
		}
		msg := fmt.Sprintf("%s of %s (score %.2f)", p.Class, p.B, p.Score)
		add(CategoryRedundancy, p.A, msg, p.Synopsis)
	}

	return out
}
