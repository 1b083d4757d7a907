// Package example validates embedded code examples against external
// toolchains.
//
// Every code block in the corpus yields exactly one Result, whatever
// happens: classified Unknown, toolchain missing, compile timeout, or a
// clean pass. Failures are data in the result set, never errors that abort
// the batch.
package example

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jpl-au/mdaudit/internal/document"
	"github.com/jpl-au/mdaudit/internal/lang"
	"github.com/jpl-au/mdaudit/internal/toolchain"
)

// DefaultWorkers bounds concurrent compile checks. Compilers are heavy;
// unbounded fan-out would overwhelm the host.
const DefaultWorkers = 4

// Kind labels a diagnostic with its failure category from the error
// taxonomy.
type Kind string

const (
	KindParseError           Kind = "ParseError"
	KindLanguageUnknown      Kind = "LanguageUnknown"
	KindToolchainUnavailable Kind = "ToolchainUnavailable"
	KindSyntaxError          Kind = "SyntaxError"
	KindCompileError         Kind = "CompileError"
	KindCompileTimeout       Kind = "CompileTimeout"
	KindScaffolded           Kind = "Scaffolded"

	// KindNotChecked marks languages with no toolchain entry at all (data
	// formats like TOML or YAML). Distinct from ToolchainUnavailable, which
	// means a configured binary is missing and flags the run as partial.
	KindNotChecked Kind = "NotChecked"
)

// Diagnostic is one captured finding about a code example.
type Diagnostic struct {
	Kind    Kind   `yaml:"kind" json:"kind"`
	Message string `yaml:"message" json:"message"`
}

// Result is the verdict for one code block. Produced exactly once per block
// and never mutated afterwards.
type Result struct {
	Block       document.Ref `yaml:"block" json:"block"`
	Language    lang.Lang    `yaml:"language" json:"language"`
	SyntaxValid bool         `yaml:"syntax_valid" json:"syntax_valid"`
	Compiled    bool         `yaml:"compiled" json:"compiled"`
	Scaffolded  bool         `yaml:"scaffolded" json:"scaffolded"` // compiled only with injected scaffolding
	Skipped     bool         `yaml:"skipped" json:"skipped"`       // excluded from scoring
	Diagnostics []Diagnostic `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
}

// Passed reports whether this example counts as passing for the score:
// syntax is valid and, where a compile mode exists, compilation succeeded.
func (r Result) Passed() bool {
	if r.Skipped {
		return false
	}
	return r.SyntaxValid && (r.Compiled || !r.compileAttempted())
}

func (r Result) compileAttempted() bool {
	for _, d := range r.Diagnostics {
		if d.Kind == KindCompileError || d.Kind == KindCompileTimeout {
			return true
		}
	}
	return r.Compiled
}

// Analyzer runs code example checks over a corpus.
type Analyzer struct {
	runner  *toolchain.Runner
	workers int

	// Progress, when set, is called once per completed block check. It may
	// be called from multiple worker goroutines at once.
	Progress func()
}

// New creates an analyzer. workers <= 0 selects DefaultWorkers.
func New(runner *toolchain.Runner, workers int) *Analyzer {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Analyzer{runner: runner, workers: workers}
}

// Run checks every code block in every document. Checks fan out across a
// bounded worker pool; each worker owns a disjoint result slot so the merge
// needs no locking. Results come back sorted by (path, line) regardless of
// completion order.
//
// The partial return is true when at least one block's toolchain binary was
// missing, meaning the code phase could not fully run.
func (a *Analyzer) Run(ctx context.Context, docs []*document.Document) (results []Result, partial bool) {
	type job struct {
		doc   *document.Document
		block document.Block
	}
	var jobs []job
	for _, d := range docs {
		for _, b := range d.Blocks {
			if b.Kind == document.CodeBlock {
				jobs = append(jobs, job{doc: d, block: b})
			}
		}
	}

	results = make([]Result, len(jobs))
	sem := make(chan struct{}, a.workers)
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Go(func() {
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = a.check(ctx, j.doc, j.block)
			if a.Progress != nil {
				a.Progress()
			}
		})
	}
	wg.Wait()

	for _, r := range results {
		if hasKind(r, KindToolchainUnavailable) {
			partial = true
		}
	}

	sort.Slice(results, func(x, y int) bool {
		if results[x].Block.Path != results[y].Block.Path {
			return results[x].Block.Path < results[y].Block.Path
		}
		return results[x].Block.Line < results[y].Block.Line
	})
	return results, partial
}

func hasKind(r Result, k Kind) bool {
	for _, d := range r.Diagnostics {
		if d.Kind == k {
			return true
		}
	}
	return false
}

// check produces the single Result for one code block.
func (a *Analyzer) check(ctx context.Context, doc *document.Document, b document.Block) Result {
	r := Result{Block: b.Ref(doc.Path)}

	if b.ParseErr != "" {
		// The fence never closed; the captured body is not trustworthy.
		r.Skipped = true
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: KindParseError, Message: b.ParseErr})
		return r
	}

	r.Language = lang.Classify(b.LangTag, b.Text)
	if r.Language == lang.Unknown {
		r.Skipped = true
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: KindLanguageUnknown,
			Message: fmt.Sprintf("no language recognised (fence tag %q)", b.LangTag)})
		return r
	}

	tool, configured := a.runner.Tool(r.Language)
	if !configured {
		r.Skipped = true
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: KindNotChecked,
			Message: fmt.Sprintf("no toolchain configured for %s", r.Language)})
		return r
	}
	if !a.runner.Available(r.Language) {
		r.Skipped = true
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: KindToolchainUnavailable,
			Message: fmt.Sprintf("%s not found on PATH", tool.Bin)})
		return r
	}

	inv, err := a.runner.ParseCheck(ctx, r.Language, b.Text)
	if err != nil {
		r.Skipped = true
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: KindToolchainUnavailable, Message: err.Error()})
		return r
	}
	switch {
	case inv.TimedOut:
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: KindCompileTimeout,
			Message: "syntax check timed out"})
		return r
	case !inv.OK():
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: KindSyntaxError, Message: inv.Stderr})
		return r
	}
	r.SyntaxValid = true

	if !tool.CompileConfigured() {
		return r
	}
	return a.compile(ctx, tool, r, b.Text)
}

// compile runs the full compile check, retrying once with injected
// scaffolding. Snippets frequently assume tutorial context (imports, a main
// the prose omitted), so "fails bare but compiles wrapped" is labelled
// distinctly from "genuinely broken".
func (a *Analyzer) compile(ctx context.Context, tool toolchain.Tool, r Result, body string) Result {
	inv, err := a.runner.Compile(ctx, r.Language, body)
	if err != nil {
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: KindCompileError, Message: err.Error()})
		return r
	}
	switch {
	case inv.TimedOut:
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: KindCompileTimeout,
			Message: "compile check timed out"})
		return r
	case inv.OK():
		r.Compiled = true
		return r
	}
	bare := inv.Stderr

	retry, err := a.runner.Compile(ctx, r.Language, tool.Wrap(r.Language, body))
	if err == nil && retry.OK() {
		r.Compiled = true
		r.Scaffolded = true
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: KindScaffolded,
			Message: "compiles only with injected scaffolding"})
		return r
	}
	if err == nil && retry.TimedOut {
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: KindCompileTimeout,
			Message: "compile check timed out (scaffolded retry)"})
		return r
	}
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: KindCompileError, Message: bare})
	return r
}
