// Package linkgraph builds and resolves the cross-reference graph of a
// Markdown corpus.
//
// Headings mint anchors, inline links mint edges, and resolution either
// binds each edge to exactly one anchor or records it as broken with a
// nearest-candidate suggestion. Nothing is ever silently dropped.
package linkgraph

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/jpl-au/mdaudit/internal/document"
)

// Anchor is a unique, addressable id minted from one heading.
type Anchor struct {
	Path    string `yaml:"path" json:"path"`
	ID      string `yaml:"id" json:"id"`
	Heading string `yaml:"heading" json:"heading"`
	Line    int    `yaml:"line" json:"line"`
}

// String formats the anchor as "path#id".
func (a Anchor) String() string {
	return fmt.Sprintf("%s#%s", a.Path, a.ID)
}

// Slugify converts heading text to its anchor id: markdown formatting
// removed, lowercased, punctuation stripped, whitespace runs collapsed to a
// single hyphen. Matches what the book renderer generates so minted anchors
// line up with what links actually target.
func Slugify(text string) string {
	// Emphasis and inline-code markers are formatting, not content.
	text = strings.NewReplacer("*", "", "_", "", "`", "").Replace(text)

	var b strings.Builder
	lastHyphen := true // suppress leading hyphens
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
		// Everything else is punctuation: dropped.
	}
	return strings.TrimSuffix(b.String(), "-")
}

// mintAnchors derives one anchor per heading in the document. Within a
// document, colliding slugs get numeric suffixes -2, -3, ... in source
// order, so every anchor id is unique per document.
func mintAnchors(d *document.Document) []Anchor {
	var anchors []Anchor
	seen := make(map[string]int)
	for _, b := range d.Blocks {
		if b.Kind != document.Heading {
			continue
		}
		id := Slugify(b.Text)
		seen[id]++
		if n := seen[id]; n > 1 {
			id = id + "-" + strconv.Itoa(n)
		}
		anchors = append(anchors, Anchor{Path: d.Path, ID: id, Heading: b.Text, Line: b.StartLine})
	}
	return anchors
}
