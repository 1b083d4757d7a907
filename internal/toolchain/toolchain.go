// Package toolchain invokes external compilers to validate code snippets.
//
// The pipeline never parses code itself; it writes a snippet to an isolated
// temp file, invokes a language-appropriate "parse only" or compile mode, and
// interprets the exit status and stderr. Every invocation carries a hard
// timeout and is killed on expiry, so a wedged compiler can never block the
// run.
//
// Design: binary availability is probed once per language and cached. When a
// toolchain is missing, every subsequent check for that language is marked
// unavailable rather than attempted and failed individually.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jpl-au/mdaudit/internal/duration"
	"github.com/jpl-au/mdaudit/internal/lang"
)

// DefaultTimeout bounds a single toolchain invocation when the config does
// not override it.
const DefaultTimeout = duration.Duration(15 * time.Second)

// Tool describes how to check one language. The {{file}} placeholder in the
// arg lists is replaced with the snippet's temp file path.
type Tool struct {
	Bin         string            `yaml:"bin"`
	ParseArgs   []string          `yaml:"parse_args"`   // parse-only mode, no linking
	CompileArgs []string          `yaml:"compile_args"` // full compile; empty disables the compile check
	Ext         string            `yaml:"ext"`          // temp file extension, e.g. ".rs"
	Scaffold    string            `yaml:"scaffold"`     // wrapper template with a {{body}} slot
	Timeout     duration.Duration `yaml:"timeout"`
}

// CompileConfigured reports whether a full compile mode exists for this tool.
func (t Tool) CompileConfigured() bool {
	return len(t.CompileArgs) > 0
}

// Invocation is the observed outcome of one toolchain run.
type Invocation struct {
	ExitCode int
	Stderr   string
	TimedOut bool
}

// OK reports whether the invocation succeeded.
func (v Invocation) OK() bool {
	return !v.TimedOut && v.ExitCode == 0
}

// Runner executes toolchain checks with cached availability probing.
type Runner struct {
	tools map[lang.Lang]Tool

	mu          sync.Mutex
	unavailable map[lang.Lang]bool
}

// NewRunner creates a runner over the configured tool set.
func NewRunner(tools map[lang.Lang]Tool) *Runner {
	return &Runner{tools: tools, unavailable: make(map[lang.Lang]bool)}
}

// Tool returns the configured tool for a language.
func (r *Runner) Tool(l lang.Lang) (Tool, bool) {
	t, ok := r.tools[l]
	return t, ok
}

// Available reports whether the toolchain binary for l can be found. The
// probe runs once per language; the result is cached for the rest of the run.
func (r *Runner) Available(l lang.Lang) bool {
	t, ok := r.tools[l]
	if !ok {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if miss, probed := r.unavailable[l]; probed {
		return !miss
	}
	_, err := exec.LookPath(t.Bin)
	r.unavailable[l] = err != nil
	return err == nil
}

// ParseCheck runs the parse-only mode over the snippet body.
func (r *Runner) ParseCheck(ctx context.Context, l lang.Lang, body string) (Invocation, error) {
	t := r.tools[l]
	return r.invoke(ctx, t, t.ParseArgs, body)
}

// Compile runs full compilation over the snippet body.
func (r *Runner) Compile(ctx context.Context, l lang.Lang, body string) (Invocation, error) {
	t := r.tools[l]
	return r.invoke(ctx, t, t.CompileArgs, body)
}

// invoke writes body to an isolated temp file and runs the tool against it.
func (r *Runner) invoke(ctx context.Context, t Tool, args []string, body string) (Invocation, error) {
	dir, err := os.MkdirTemp("", "mdaudit-snippet-*")
	if err != nil {
		return Invocation{}, err
	}
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "snippet"+t.Ext)
	if err := os.WriteFile(file, []byte(body), 0644); err != nil {
		return Invocation{}, err
	}

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout.Std())
	defer cancel()

	expanded := make([]string, 0, len(args))
	for _, a := range args {
		expanded = append(expanded, strings.ReplaceAll(a, "{{file}}", file))
	}

	cmd := exec.CommandContext(ctx, t.Bin, expanded...)
	// Object files and other compiler droppings land in the temp dir, not
	// the corpus.
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	inv := Invocation{Stderr: strings.TrimSpace(stderr.String())}
	if ctx.Err() == context.DeadlineExceeded {
		inv.TimedOut = true
		return inv, nil
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		inv.ExitCode = 0
	case errors.As(runErr, &exitErr):
		inv.ExitCode = exitErr.ExitCode()
	default:
		// Binary vanished between probe and run, or another exec failure.
		return inv, runErr
	}
	return inv, nil
}
