// Package progress provides stderr progress feedback for audit phases.
// Output goes to stderr to keep stdout clean for piped report output, and
// TTY detection ensures control sequences never leak into scripted usage.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

// minItems is the minimum number of items before showing progress.
// Auditing a handful of blocks finishes before a reader could use the bar.
const minItems = 5

// Phase tracks one pipeline phase with a known item count, such as
// "checking examples" over N code blocks. Step is safe to call from the
// worker goroutines that fan out over the corpus.
type Phase struct {
	w     io.Writer
	label string
	total int64
	done  atomic.Int64
	isTTY bool
}

// NewPhase creates a phase reporter that writes to stderr.
// If total is less than minItems, updates are suppressed.
func NewPhase(label string, total int) *Phase {
	return &Phase{
		w:     os.Stderr,
		label: label,
		total: int64(total),
		isTTY: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// Step records one completed item and redraws the line.
// Concurrent redraws may interleave counts out of order; each redraw is a
// full line, so the display self-corrects on the next call.
func (p *Phase) Step() {
	done := p.done.Add(1)
	if p.total < minItems || !p.isTTY {
		return
	}

	pct := int64(0)
	if p.total > 0 {
		pct = done * 100 / p.total
	}
	fmt.Fprintf(p.w, "\r%s... %d/%d (%d%%)", p.label, done, p.total, pct)
}

// Done clears the progress line (on TTY) to make way for the report.
func (p *Phase) Done() {
	if p.total < minItems || !p.isTTY {
		return
	}
	fmt.Fprintf(p.w, "\r%s\r", "                                        ")
}

// Spinner provides feedback for indeterminate work, such as walking a
// corpus root whose document count is unknown until the walk finishes.
type Spinner struct {
	w       io.Writer
	label   string
	frame   int
	isTTY   bool
	frames  []string
	running bool
}

// NewSpinner creates a spinner that writes to stderr.
func NewSpinner(label string) *Spinner {
	return &Spinner{
		w:      os.Stderr,
		label:  label,
		isTTY:  term.IsTerminal(int(os.Stderr.Fd())),
		frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start displays the spinner.
func (s *Spinner) Start() {
	if !s.isTTY {
		return
	}
	s.running = true
	fmt.Fprintf(s.w, "%s %s...", s.frames[0], s.label)
}

// Tick advances the spinner animation by one frame. Call it from the walk
// callback; frame rate then tracks actual work rather than wall time.
func (s *Spinner) Tick() {
	if !s.isTTY || !s.running {
		return
	}
	s.frame = (s.frame + 1) % len(s.frames)
	fmt.Fprintf(s.w, "\r%s %s...", s.frames[s.frame], s.label)
}

// Stop clears the spinner line.
func (s *Spinner) Stop() {
	if !s.isTTY || !s.running {
		return
	}
	s.running = false
	fmt.Fprintf(s.w, "\r%s\r", "                                        ")
}
