// Package history provides centralised run history for mdaudit. Runs are
// stored in ~/.mdaudit/history/mdaudit-history.db and track every audit
// across corpora, so score trends survive individual runs.
//
// # Fluent API
//
// Use the fluent builder API to construct and write history entries:
//
//	history.Event("check").
//		Root(root).
//		FromReport(rep).
//		Write(err)
//
//	history.Event("links").
//		Root(root).
//		Detail("broken", len(g.Broken)).
//		Write(err)
//
// The source parameter is the subcommand that ran ("check", "examples",
// "links", "redundancy") or "mcp:{tool}" for MCP tool invocations.
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jpl-au/mdaudit/internal/report"
)

var (
	global *store
	mu     sync.Mutex
)

// Entry represents a single recorded run.
type Entry struct {
	Source string // subcommand or "mcp:{tool}"
	Root   string // corpus root as given on the command line

	// Corpus shape at the time of the run
	Documents int
	Blocks    int

	// Scores, all in [0,1]; zero when the run failed before scoring
	CodeScore       float64
	LinkScore       float64
	RedundancyScore float64
	Overall         float64

	Findings int
	Partial  bool

	// Timing
	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool
	Error   string
	Detail  map[string]any
}

// Builder constructs a history entry using a fluent API.
// Create with [Event], chain methods to set fields, then call [Builder.Write].
type Builder struct {
	entry Entry
}

// Event creates a new history entry builder for a run.
func Event(source string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Start:  time.Now().Unix(),
		},
	}
}

// Root sets the corpus root this run covered.
func (b *Builder) Root(root string) *Builder {
	b.entry.Root = root
	return b
}

// FromReport copies corpus shape, scores, and finding count out of a
// completed report. Call after the run succeeds; a nil report is a no-op so
// failure paths can share the same builder chain.
func (b *Builder) FromReport(r *report.Report) *Builder {
	if r == nil {
		return b
	}
	b.entry.Documents = r.Documents
	b.entry.Blocks = r.Blocks
	b.entry.CodeScore = r.Scores.Code
	b.entry.LinkScore = r.Scores.Links
	b.entry.RedundancyScore = r.Scores.Redundancy
	b.entry.Overall = r.Scores.Overall
	b.entry.Findings = len(r.Findings)
	b.entry.Partial = r.Partial
	return b
}

// Detail adds a key-value pair to the entry's detail map. Use for
// run-specific data that doesn't fit standard fields: broken link counts,
// pair counts, toolchain names.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write records the entry, deriving success/failure from err.
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global history store. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them (best-effort
// recording).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &store{db: db}
	return nil
}

// SetProject sets the project identifier for subsequent entries. The dir
// should be the absolute path of the corpus root.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(dir)
	}
}

// Log writes an entry. Safe to call if the store is not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	s := global
	mu.Unlock()

	if s == nil {
		return
	}
	s.log(e)
}

// List returns the most recent entries, newest first. Limit <= 0 means all.
func List(limit int) ([]Entry, error) {
	mu.Lock()
	s := global
	mu.Unlock()

	if s == nil {
		return nil, nil
	}
	return s.list(limit)
}

// Close closes the global store.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
