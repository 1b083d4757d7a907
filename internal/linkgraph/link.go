// link.go implements link extraction and relative path resolution.
//
// Extraction scans prose blocks (headings, paragraphs, lists, tables) for
// inline Markdown link syntax. Code blocks are excluded: bracket-paren
// sequences inside code are code, and flagging them as broken links would
// bury real findings in noise.

package linkgraph

import (
	"path"
	"regexp"
	"strings"

	"github.com/jpl-au/mdaudit/internal/document"
)

// Link is one Markdown link occurrence. TargetPath is empty for
// fragment-only links, which by definition target the source document.
type Link struct {
	SourcePath string `yaml:"source" json:"source"`
	Line       int    `yaml:"line" json:"line"`
	Text       string `yaml:"text" json:"text"`
	TargetPath string `yaml:"target,omitempty" json:"target,omitempty"`
	Fragment   string `yaml:"fragment,omitempty" json:"fragment,omitempty"`
}

// inlineLink matches [text](target). Targets with nested parens are rare in
// book sources; the non-greedy body keeps the common case exact.
var inlineLink = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)\)`)

// extractLinks finds every internal link in the document. External targets
// (http, https, mailto, ...) are not this tool's concern and are skipped.
func extractLinks(d *document.Document) []Link {
	var links []Link
	for _, b := range d.Blocks {
		if b.Kind == document.CodeBlock {
			continue
		}
		for off, line := range strings.Split(b.Text, "\n") {
			for _, m := range inlineLink.FindAllStringSubmatch(line, -1) {
				text, target := m[1], m[2]
				if isExternal(target) {
					continue
				}
				p, frag, _ := strings.Cut(target, "#")
				links = append(links, Link{
					SourcePath: d.Path,
					Line:       b.StartLine + off,
					Text:       text,
					TargetPath: p,
					Fragment:   frag,
				})
			}
		}
	}
	return links
}

func isExternal(target string) bool {
	return strings.Contains(target, "://") ||
		strings.HasPrefix(target, "mailto:") ||
		strings.HasPrefix(target, "tel:")
}

// resolveTarget turns a link's relative target into a corpus path, resolved
// against the source document's directory. "../x/y.md" from "a/b.md" becomes
// "x/y.md". Extensionless targets get ".md" appended, matching how book
// sources reference chapters.
func resolveTarget(sourceDir, target string) string {
	if target == "" {
		return ""
	}
	resolved := path.Clean(path.Join(sourceDir, target))
	if path.Ext(resolved) == "" {
		resolved += ".md"
	}
	return resolved
}
