// parse.go implements the single-pass line-oriented Markdown segmenter.
//
// Separated from document.go to keep the type definitions readable. The
// parser is deliberately not a full CommonMark implementation: analyzers need
// verbatim code bodies and exact source line ranges, which AST-based parsers
// abstract away. Line-oriented scanning keeps both.
//
// Design: malformed input never fails a document. A block that cannot be
// classified falls back to Paragraph, and an unclosed fence is recorded on
// the block itself via ParseErr.

package document

import (
	"strings"
)

// Parse segments raw Markdown text into typed blocks. Parsing the same text
// twice yields an identical block sequence.
func Parse(path, raw string) *Document {
	d := &Document{Path: path, Raw: raw}

	lines := strings.Split(raw, "\n")
	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			i++
		case strings.HasPrefix(trimmed, "```"):
			i = parseFence(d, lines, i)
		case isHeading(trimmed):
			d.Blocks = append(d.Blocks, parseHeading(trimmed, i+1))
			i++
		case strings.HasPrefix(trimmed, "|"):
			i = parseRun(d, lines, i, Table, isTableRow)
		case isListItem(trimmed):
			i = parseRun(d, lines, i, List, isListContinuation)
		default:
			i = parseParagraph(d, lines, i)
		}
	}
	return d
}

// isHeading reports whether a line is an ATX heading: a run of 1-6 '#'
// followed by a space.
func isHeading(line string) bool {
	if !strings.HasPrefix(line, "#") {
		return false
	}
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	return n <= 6 && n < len(line) && line[n] == ' '
}

func parseHeading(line string, lineNo int) Block {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	text := strings.TrimSpace(line[level:])
	// Drop an explicit {#anchor} attribute; the anchor minting slugifies the
	// visible text the same way the rendered book does.
	if j := strings.LastIndex(text, "{#"); j >= 0 && strings.HasSuffix(text, "}") {
		text = strings.TrimSpace(text[:j])
	}
	return Block{Kind: Heading, Text: text, Level: level, StartLine: lineNo, EndLine: lineNo}
}

// parseFence captures a fenced code block verbatim between ``` delimiters.
// Returns the index of the first line after the block. An unclosed fence
// consumes the rest of the file and marks the block with ParseErr.
func parseFence(d *Document, lines []string, start int) int {
	open := strings.TrimSpace(lines[start])
	tag := strings.TrimSpace(strings.TrimPrefix(open, "```"))

	var body []string
	i := start + 1
	for i < len(lines) {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
			d.Blocks = append(d.Blocks, Block{
				Kind:      CodeBlock,
				Text:      strings.Join(body, "\n"),
				LangTag:   tag,
				StartLine: start + 1,
				EndLine:   i + 1,
			})
			return i + 1
		}
		body = append(body, lines[i])
		i++
	}

	// Unclosed fence: keep what we captured, record the problem.
	d.Blocks = append(d.Blocks, Block{
		Kind:      CodeBlock,
		Text:      strings.Join(body, "\n"),
		LangTag:   tag,
		StartLine: start + 1,
		EndLine:   len(lines),
		ParseErr:  "unclosed code fence",
	})
	return len(lines)
}

func isListItem(line string) bool {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "+ ") {
		return true
	}
	// Ordered list: digits followed by ". "
	n := 0
	for n < len(line) && line[n] >= '0' && line[n] <= '9' {
		n++
	}
	return n > 0 && n+1 < len(line) && line[n] == '.' && line[n+1] == ' '
}

func isTableRow(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

// isListContinuation accepts further list items and indented continuations.
func isListContinuation(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	return isListItem(trimmed) || strings.HasPrefix(line, "  ")
}

// parseRun collects consecutive lines matched by cont into a single block.
func parseRun(d *Document, lines []string, start int, kind Kind, cont func(string) bool) int {
	i := start
	for i < len(lines) && cont(lines[i]) {
		i++
	}
	d.Blocks = append(d.Blocks, Block{
		Kind:      kind,
		Text:      strings.Join(lines[start:i], "\n"),
		StartLine: start + 1,
		EndLine:   i,
	})
	return i
}

// parseParagraph collects lines until a blank line or the start of another
// block type. Anything unclassifiable lands here by design.
func parseParagraph(d *Document, lines []string, start int) int {
	i := start
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || isHeading(trimmed) || strings.HasPrefix(trimmed, "```") ||
			strings.HasPrefix(trimmed, "|") || isListItem(trimmed) {
			break
		}
		i++
	}
	d.Blocks = append(d.Blocks, Block{
		Kind:      Paragraph,
		Text:      strings.Join(lines[start:i], "\n"),
		StartLine: start + 1,
		EndLine:   i,
	})
	return i
}
