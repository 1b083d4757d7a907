// Package audit orchestrates a full run: load the corpus, check code
// examples, resolve the link graph, detect redundancy, and score.
//
// Both the CLI commands and the MCP tools call through this package, so the
// two surfaces behave identically. Commands stay thin; the pipeline order
// and its progress reporting live here.
package audit

import (
	"context"

	"github.com/jpl-au/mdaudit/internal/config"
	"github.com/jpl-au/mdaudit/internal/corpus"
	"github.com/jpl-au/mdaudit/internal/document"
	"github.com/jpl-au/mdaudit/internal/example"
	"github.com/jpl-au/mdaudit/internal/linkgraph"
	"github.com/jpl-au/mdaudit/internal/progress"
	"github.com/jpl-au/mdaudit/internal/redundancy"
	"github.com/jpl-au/mdaudit/internal/report"
	"github.com/jpl-au/mdaudit/internal/toolchain"
)

// Options selects what one run covers. Zero worker counts fall back to the
// per-pool defaults.
type Options struct {
	Root        string
	LoadJobs    int
	CompileJobs int

	// Quiet suppresses stderr progress, for MCP where stderr is the
	// protocol log.
	Quiet bool
}

// Run executes the whole pipeline and returns the scored report.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*report.Report, error) {
	c, err := LoadCorpus(cfg, opts)
	if err != nil {
		return nil, err
	}

	results, partial := Examples(ctx, cfg, c, opts)
	graph := linkgraph.Build(c.Docs)
	pairs := redundancy.Detect(c.Docs, cfg.ResolvedThresholds())

	return report.Build(c, results, partial, graph, pairs, cfg.ResolvedWeights()), nil
}

// LoadCorpus walks the root and parses every document.
func LoadCorpus(cfg *config.Config, opts Options) (*corpus.Corpus, error) {
	jobs := opts.LoadJobs
	if jobs <= 0 {
		jobs = cfg.Workers.Load
	}

	if !opts.Quiet {
		sp := progress.NewSpinner("loading corpus")
		sp.Start()
		defer sp.Stop()
	}
	return corpus.Load(opts.Root, jobs)
}

// Examples runs the code example phase over an already-loaded corpus.
func Examples(ctx context.Context, cfg *config.Config, c *corpus.Corpus, opts Options) ([]example.Result, bool) {
	jobs := opts.CompileJobs
	if jobs <= 0 {
		jobs = cfg.Workers.Compile
	}

	runner := toolchain.NewRunner(cfg.ResolvedTools())
	an := example.New(runner, jobs)

	if !opts.Quiet {
		ph := progress.NewPhase("checking examples", codeBlocks(c))
		an.Progress = ph.Step
		defer ph.Done()
	}
	return an.Run(ctx, c.Docs)
}

// Links runs only the cross-reference phase.
func Links(cfg *config.Config, opts Options) (*corpus.Corpus, *linkgraph.Graph, error) {
	c, err := LoadCorpus(cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	return c, linkgraph.Build(c.Docs), nil
}

// Redundancy runs only the duplication phase.
func Redundancy(cfg *config.Config, opts Options) (*corpus.Corpus, []redundancy.Pair, error) {
	c, err := LoadCorpus(cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	return c, redundancy.Detect(c.Docs, cfg.ResolvedThresholds()), nil
}

func codeBlocks(c *corpus.Corpus) int {
	n := 0
	for _, d := range c.Docs {
		for _, b := range d.Blocks {
			if b.Kind == document.CodeBlock {
				n++
			}
		}
	}
	return n
}
