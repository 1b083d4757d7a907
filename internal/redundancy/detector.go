// Package redundancy finds duplicated content across a Markdown corpus.
//
// Paragraphs and code blocks are compared pairwise within their own kind;
// tables and lists are excluded as too structurally variable for a token
// metric. Exact duplicates are grouped by content hash first, so the O(n²)
// scoring pass only runs over blocks that are not byte-identical after
// normalization. The corpus is tens of files, so quadratic is fine; the
// contract that must survive any faster rewrite lives in similarity.go.
package redundancy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/crypto/blake2b"

	"github.com/jpl-au/mdaudit/internal/document"
)

// Class buckets a similarity score.
type Class string

const (
	Exact     Class = "exact-duplicate"
	Near      Class = "near-duplicate"
	Overlap   Class = "conceptual-overlap"
	Unrelated Class = "" // below threshold, not reported
)

// Thresholds carries the classification boundaries. They are policy carried
// over from the source scripts, not law; callers take them from config.
type Thresholds struct {
	Overlap float64 `yaml:"overlap"` // report at or above this
	Near    float64 `yaml:"near"`    // near-duplicate at or above this
}

// DefaultThresholds mirrors the observed behaviour of the original tooling.
func DefaultThresholds() Thresholds {
	return Thresholds{Overlap: 0.7, Near: 0.9}
}

// Validate rejects threshold configurations that cannot classify sensibly.
func (t Thresholds) Validate() error {
	if t.Overlap <= 0 || t.Overlap >= 1 {
		return fmt.Errorf("overlap threshold must be in (0,1), got %v", t.Overlap)
	}
	if t.Near < t.Overlap || t.Near >= 1 {
		return fmt.Errorf("near threshold must be in [overlap,1), got %v", t.Near)
	}
	return nil
}

// classify maps a score to its band.
func (t Thresholds) classify(score float64) Class {
	switch {
	case score == 1.0:
		return Exact
	case score >= t.Near:
		return Near
	case score >= t.Overlap:
		return Overlap
	default:
		return Unrelated
	}
}

// Pair is one reported duplication between two same-kind blocks. The
// relation is symmetric; each unordered pair appears at most once, with A
// ordered before B by (path, line).
type Pair struct {
	A        document.Ref `yaml:"a" json:"a"`
	B        document.Ref `yaml:"b" json:"b"`
	Score    float64      `yaml:"score" json:"score"`
	Class    Class        `yaml:"class" json:"class"`
	Synopsis string       `yaml:"synopsis,omitempty" json:"synopsis,omitempty"`
}

// minWords filters out trivial blocks; two three-word paragraphs matching is
// coincidence, not redundancy.
const minWords = 5

type segment struct {
	ref  document.Ref
	kind document.Kind
	raw  string
	norm string
	hash [32]byte
}

// Detect computes every reportable similarity pair in the corpus.
func Detect(docs []*document.Document, t Thresholds) []Pair {
	segments := collect(docs)

	var pairs []Pair

	// Exact duplicates by content hash: no pairwise scoring needed.
	byHash := make(map[[32]byte][]int)
	for i, s := range segments {
		byHash[s.hash] = append(byHash[s.hash], i)
	}
	for _, group := range byHash {
		for x := 0; x < len(group); x++ {
			for y := x + 1; y < len(group); y++ {
				a, b := segments[group[x]], segments[group[y]]
				pairs = append(pairs, Pair{
					A: a.ref, B: b.ref,
					Score:    1.0,
					Class:    Exact,
					Synopsis: synopsis(a.raw, b.raw),
				})
			}
		}
	}

	// Scored pass over non-identical same-kind pairs.
	for i := 0; i < len(segments); i++ {
		for j := i + 1; j < len(segments); j++ {
			a, b := segments[i], segments[j]
			if a.kind != b.kind || a.hash == b.hash {
				continue
			}
			score := similarity(a.norm, b.norm)
			class := t.classify(score)
			if class == Unrelated {
				continue
			}
			pairs = append(pairs, Pair{
				A: a.ref, B: b.ref,
				Score:    score,
				Class:    class,
				Synopsis: synopsis(a.raw, b.raw),
			})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A.Path != pairs[j].A.Path {
			return pairs[i].A.Path < pairs[j].A.Path
		}
		if pairs[i].A.Line != pairs[j].A.Line {
			return pairs[i].A.Line < pairs[j].A.Line
		}
		if pairs[i].B.Path != pairs[j].B.Path {
			return pairs[i].B.Path < pairs[j].B.Path
		}
		return pairs[i].B.Line < pairs[j].B.Line
	})
	return pairs
}

// DuplicatedBlocks counts distinct blocks involved in at least one exact or
// near duplicate pair, the numerator of the scorer's redundancy penalty.
func DuplicatedBlocks(pairs []Pair) int {
	seen := make(map[document.Ref]bool)
	for _, p := range pairs {
		if p.Class == Exact || p.Class == Near {
			seen[p.A] = true
			seen[p.B] = true
		}
	}
	return len(seen)
}

// collect gathers comparable segments in corpus order, so pair ordering
// (A before B) follows (path, line) without extra sorting.
func collect(docs []*document.Document) []segment {
	var segments []segment
	for _, d := range docs {
		for _, b := range d.Blocks {
			if b.Kind != document.Paragraph && b.Kind != document.CodeBlock {
				continue
			}
			if b.ParseErr != "" || len(strings.Fields(b.Text)) < minWords {
				continue
			}
			norm := normalizeProse(b.Text)
			if b.Kind == document.CodeBlock {
				norm = normalizeCode(b.Text)
			}
			if norm == "" {
				continue
			}
			segments = append(segments, segment{
				ref:  b.Ref(d.Path),
				kind: b.Kind,
				raw:  b.Text,
				norm: norm,
				hash: blake2b.Sum256([]byte(string(rune(b.Kind)) + norm)),
			})
		}
	}
	return segments
}

// synopsis reports the specific overlapping span between two blocks so an
// editor can act without re-reading both in full.
func synopsis(a, b string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	longest := ""
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual && len(d.Text) > len(longest) {
			longest = d.Text
		}
	}
	longest = whitespace.ReplaceAllString(strings.TrimSpace(longest), " ")
	if longest == "" {
		return ""
	}
	const maxLen = 120
	if len(longest) > maxLen {
		longest = longest[:maxLen-3] + "..."
	}
	return "shared: " + longest
}
