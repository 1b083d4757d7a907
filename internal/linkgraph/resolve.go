// resolve.go implements graph resolution: binding every extracted link to a
// minted anchor, or recording it as broken with a repair suggestion.
//
// Ordering rule, non-negotiable: a fragment-only link (#anchor) resolves
// within its source document or fails hard. Searching other documents for a
// matching anchor would hide real mistakes behind lucky collisions.

package linkgraph

import (
	"sort"

	"github.com/jpl-au/mdaudit/internal/document"
)

// Broken is an unresolved link plus the reason and, where possible, the
// nearest-candidate anchor to aid a manual fix.
type Broken struct {
	Link       Link   `yaml:"link" json:"link"`
	Reason     string `yaml:"reason" json:"reason"`
	Suggestion string `yaml:"suggestion,omitempty" json:"suggestion,omitempty"`
}

// Graph is the resolved cross-reference graph for one corpus.
type Graph struct {
	Links   []Link   // every internal link found
	Broken  []Broken // links that resolved to nothing
	Orphans []Anchor // anchors with no incoming link (quality signal, not an error)

	anchors map[string]map[string]Anchor // path -> id -> anchor
	docs    map[string]bool
}

// Resolved returns the number of links that bound to an anchor or document.
func (g *Graph) Resolved() int {
	return len(g.Links) - len(g.Broken)
}

// Build mints anchors from every heading, extracts every link, and resolves
// each edge. Documents are immutable inputs; the graph is built by folding
// over per-document outputs, so the whole pass is pure and deterministic.
func Build(docs []*document.Document) *Graph {
	g := &Graph{
		anchors: make(map[string]map[string]Anchor),
		docs:    make(map[string]bool),
	}

	for _, d := range docs {
		g.docs[d.Path] = true
		for _, a := range mintAnchors(d) {
			m := g.anchors[a.Path]
			if m == nil {
				m = make(map[string]Anchor)
				g.anchors[a.Path] = m
			}
			m[a.ID] = a
		}
	}

	for _, d := range docs {
		g.Links = append(g.Links, extractLinks(d)...)
	}

	referenced := make(map[string]bool) // "path#id"
	for _, l := range g.Links {
		g.resolve(l, referenced)
	}

	for _, m := range g.anchors {
		for _, a := range m {
			if !referenced[a.String()] {
				g.Orphans = append(g.Orphans, a)
			}
		}
	}

	// Deterministic report ordering regardless of map iteration order.
	sort.Slice(g.Broken, func(i, j int) bool {
		a, b := g.Broken[i].Link, g.Broken[j].Link
		if a.SourcePath != b.SourcePath {
			return a.SourcePath < b.SourcePath
		}
		return a.Line < b.Line
	})
	sort.Slice(g.Orphans, func(i, j int) bool {
		if g.Orphans[i].Path != g.Orphans[j].Path {
			return g.Orphans[i].Path < g.Orphans[j].Path
		}
		return g.Orphans[i].Line < g.Orphans[j].Line
	})
	return g
}

// resolve binds one link, marking the anchor it lands on as referenced or
// appending a Broken record. Every link takes exactly one of those paths.
func (g *Graph) resolve(l Link, referenced map[string]bool) {
	// Fragment-only: source document or nothing.
	if l.TargetPath == "" {
		a, ok := g.anchors[l.SourcePath][l.Fragment]
		if !ok {
			g.Broken = append(g.Broken, Broken{
				Link:       l,
				Reason:     "anchor #" + l.Fragment + " not found in this document",
				Suggestion: g.nearest(l.SourcePath, l.Fragment),
			})
			return
		}
		referenced[a.String()] = true
		return
	}

	sourceDir := (&document.Document{Path: l.SourcePath}).Dir()
	target := resolveTarget(sourceDir, l.TargetPath)

	if !g.docs[target] {
		g.Broken = append(g.Broken, Broken{
			Link:   l,
			Reason: "target document " + target + " not found",
		})
		return
	}

	if l.Fragment == "" {
		// Whole-document link; no anchor to mark.
		return
	}

	a, ok := g.anchors[target][l.Fragment]
	if !ok {
		g.Broken = append(g.Broken, Broken{
			Link:       l,
			Reason:     "anchor #" + l.Fragment + " not found in " + target,
			Suggestion: g.nearest(target, l.Fragment),
		})
		return
	}
	referenced[a.String()] = true
}

// nearest returns the anchor in doc with the smallest edit distance to the
// requested fragment, formatted as "path#id". Ties break lexicographically
// so suggestions are stable run to run.
func (g *Graph) nearest(doc, fragment string) string {
	best := ""
	bestDist := -1
	ids := make([]string, 0, len(g.anchors[doc]))
	for id := range g.anchors[doc] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		d := levenshtein(fragment, id)
		if bestDist < 0 || d < bestDist {
			best, bestDist = id, d
		}
	}
	if best == "" {
		return ""
	}
	return doc + "#" + best
}

// levenshtein computes edit distance with the standard two-row dynamic
// program. Inputs are anchor slugs, short ASCII strings, so the quadratic
// cost is negligible.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
