// Package document provides loading and segmentation of Markdown documents.
//
// A Document is an immutable snapshot of one Markdown file, segmented into an
// ordered sequence of typed blocks with source line ranges. All downstream
// analyzers (examples, links, redundancy) consume Documents and never mutate
// them, which is what lets the pipeline fan out across workers without locks.
package document

import (
	"fmt"
	"os"
	"strings"
)

// Kind identifies the type of a content block.
type Kind int

const (
	Heading Kind = iota
	Paragraph
	CodeBlock
	Table
	List
)

// String returns the lowercase block kind name used in reports.
func (k Kind) String() string {
	switch k {
	case Heading:
		return "heading"
	case Paragraph:
		return "paragraph"
	case CodeBlock:
		return "code"
	case Table:
		return "table"
	case List:
		return "list"
	default:
		return "unknown"
	}
}

// Block is one segment of a document. Fields beyond Kind are populated
// depending on the kind: Level only for headings, LangTag only for code
// blocks. Line numbers are 1-based and inclusive.
type Block struct {
	Kind      Kind
	Text      string // heading text, paragraph/list/table body, or code body
	LangTag   string // fence tag for code blocks, trimmed; empty if absent
	Level     int    // heading level (number of leading #)
	StartLine int
	EndLine   int

	// ParseErr records a recoverable parse problem with this block, such as
	// an unclosed fence at end of file. The block is still usable; the error
	// is surfaced in the report rather than aborting the document.
	ParseErr string
}

// Ref identifies a block within the corpus for cross-analyzer reporting.
type Ref struct {
	Path string `yaml:"path" json:"path"`
	Line int    `yaml:"line" json:"line"`
	Kind string `yaml:"kind" json:"kind"`
}

// Ref returns a corpus-wide reference to this block.
func (b Block) Ref(path string) Ref {
	return Ref{Path: path, Line: b.StartLine, Kind: b.Kind.String()}
}

// String formats a ref as "path:line" for findings and diagnostics.
func (r Ref) String() string {
	return fmt.Sprintf("%s:%d", r.Path, r.Line)
}

// Document is one loaded Markdown file. Immutable once loaded for a given
// pipeline run.
type Document struct {
	Path   string
	Raw    string
	Blocks []Block
}

// Load reads and segments the Markdown file at path. The path is kept as
// given (relative to the corpus root) so reports stay stable across hosts.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(path, string(data)), nil
}

// Dir returns the directory portion of the document path, using forward
// slashes regardless of host OS. Relative link targets resolve against this.
func (d *Document) Dir() string {
	i := strings.LastIndex(d.Path, "/")
	if i < 0 {
		return ""
	}
	return d.Path[:i]
}
