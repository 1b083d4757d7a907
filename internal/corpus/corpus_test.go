package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "intro.md", "# Intro\n\nHello.\n")
	writeFile(t, root, "guide/setup.md", "# Setup\n")
	writeFile(t, root, "guide/notes.txt", "not markdown")
	writeFile(t, root, ".git/objects/x.md", "# hidden\n")

	c, err := Load(root, 4)
	require.NoError(t, err)

	require.Len(t, c.Docs, 2)
	// Sorted by relative path, forward slashes.
	assert.Equal(t, "guide/setup.md", c.Docs[0].Path)
	assert.Equal(t, "intro.md", c.Docs[1].Path)
	assert.Equal(t, 3, c.TotalBlocks())
}

func TestLoad_MissingRoot(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"), 4)
	assert.Error(t, err)
}

func TestLoad_RootIsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "intro.md", "# Intro\n")

	_, err := Load(filepath.Join(root, "intro.md"), 4)
	assert.Error(t, err)
}

func TestLoad_Deterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "# A\n\npara\n")
	writeFile(t, root, "b.md", "# B\n")
	writeFile(t, root, "c/d.md", "# D\n")

	first, err := Load(root, 2)
	require.NoError(t, err)
	second, err := Load(root, 2)
	require.NoError(t, err)

	require.Len(t, second.Docs, len(first.Docs))
	for i := range first.Docs {
		assert.Equal(t, first.Docs[i].Path, second.Docs[i].Path)
		assert.Equal(t, first.Docs[i].Blocks, second.Docs[i].Blocks)
	}
}
