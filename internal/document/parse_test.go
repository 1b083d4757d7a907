package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# Getting Started

Welcome to the tutorial. This chapter covers setup.

## Install

Run the installer:

` + "```bash" + `
cargo install mdbook
` + "```" + `

| Target | Supported |
|--------|-----------|
| Linux  | yes       |

- step one
- step two
  with continuation
1. ordered item
`

func TestParse(t *testing.T) {
	d := Parse("guide/setup.md", sample)

	require.Len(t, d.Blocks, 7)

	assert.Equal(t, Heading, d.Blocks[0].Kind)
	assert.Equal(t, "Getting Started", d.Blocks[0].Text)
	assert.Equal(t, 1, d.Blocks[0].Level)
	assert.Equal(t, 1, d.Blocks[0].StartLine)

	assert.Equal(t, Paragraph, d.Blocks[1].Kind)
	assert.Equal(t, "Welcome to the tutorial. This chapter covers setup.", d.Blocks[1].Text)

	assert.Equal(t, Heading, d.Blocks[2].Kind)
	assert.Equal(t, 2, d.Blocks[2].Level)

	assert.Equal(t, Paragraph, d.Blocks[3].Kind)

	code := d.Blocks[4]
	assert.Equal(t, CodeBlock, code.Kind)
	assert.Equal(t, "bash", code.LangTag)
	assert.Equal(t, "cargo install mdbook", code.Text)
	assert.Equal(t, 9, code.StartLine)
	assert.Equal(t, 11, code.EndLine)

	table := d.Blocks[5]
	assert.Equal(t, Table, table.Kind)
	assert.Equal(t, 13, table.StartLine)
	assert.Equal(t, 15, table.EndLine)

	list := d.Blocks[6]
	assert.Equal(t, List, list.Kind)
	assert.Contains(t, list.Text, "with continuation")
	assert.Contains(t, list.Text, "1. ordered item")
}

func TestParse_Deterministic(t *testing.T) {
	a := Parse("x.md", sample)
	b := Parse("x.md", sample)
	assert.Equal(t, a.Blocks, b.Blocks)
}

func TestParse_UnclosedFence(t *testing.T) {
	d := Parse("x.md", "# Title\n\n```rust\nfn broken() {\n")

	require.Len(t, d.Blocks, 2)
	code := d.Blocks[1]
	assert.Equal(t, CodeBlock, code.Kind)
	assert.Equal(t, "rust", code.LangTag)
	assert.Equal(t, "unclosed code fence", code.ParseErr)
	assert.Contains(t, code.Text, "fn broken()")
}

func TestParse_UntaggedFence(t *testing.T) {
	d := Parse("x.md", "```\nplain text\n```\n")

	require.Len(t, d.Blocks, 1)
	assert.Equal(t, "", d.Blocks[0].LangTag)
}

func TestParse_HeadingAnchorAttribute(t *testing.T) {
	d := Parse("x.md", "## Memory Safety {#mem-safety}\n")

	require.Len(t, d.Blocks, 1)
	assert.Equal(t, "Memory Safety", d.Blocks[0].Text)
}

func TestParse_FallbackToParagraph(t *testing.T) {
	// A lone '#' with no space is not a heading; it must not be dropped.
	d := Parse("x.md", "#nospace heading-ish text\n")

	require.Len(t, d.Blocks, 1)
	assert.Equal(t, Paragraph, d.Blocks[0].Kind)
}

func TestDocumentDir(t *testing.T) {
	assert.Equal(t, "guide", (&Document{Path: "guide/setup.md"}).Dir())
	assert.Equal(t, "", (&Document{Path: "intro.md"}).Dir())
}
