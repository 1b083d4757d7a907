// similarity.go implements text normalization and the similarity metric.
//
// The metric contract, which any future replacement must preserve: identical
// text after normalization scores 1.0, disjoint vocabularies score near 0.0,
// the score is monotonic in shared-token proportion, and sim(a,b) == sim(b,a).

package redundancy

import (
	"regexp"
	"strings"
)

var (
	inlineLink  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	whitespace  = regexp.MustCompile(`\s+`)
	lineComment = regexp.MustCompile(`//[^\n]*`)
	spanComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// normalizeProse strips markdown formatting, collapses whitespace, and
// lowercases, so cosmetic edits don't hide duplication.
func normalizeProse(text string) string {
	text = inlineLink.ReplaceAllString(text, "$1")
	text = strings.NewReplacer("**", "", "*", "", "_", "", "`", "").Replace(text)
	text = whitespace.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

// normalizeCode drops comments and squeezes whitespace while preserving line
// structure. Case is kept: identifiers are content in code.
func normalizeCode(text string) string {
	text = spanComment.ReplaceAllString(text, "")
	text = lineComment.ReplaceAllString(text, "")
	var lines []string
	for line := range strings.Lines(text) {
		line = whitespace.ReplaceAllString(strings.TrimSpace(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// similarity is token-level Jaccard over whitespace-split normalized text.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1.0
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}

	shared := 0
	for tok := range ta {
		if tb[tok] {
			shared++
		}
	}
	union := len(ta) + len(tb) - shared
	return float64(shared) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}
