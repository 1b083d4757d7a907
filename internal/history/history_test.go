package history

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/mdaudit/internal/report"
)

func TestHistory(t *testing.T) {
	// Use temp directory for test database
	tmpDir := t.TempDir()
	origDBPath := dbPathFunc
	dbPathFunc = func() string {
		return filepath.Join(tmpDir, "history", "test.db")
	}
	defer func() { dbPathFunc = origDBPath }()

	t.Run("open and close", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)
		defer Close()

		assert.FileExists(t, DBPath())
	})

	t.Run("record run", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)
		defer Close()

		SetProject("/test/corpus")

		Log(Entry{
			Source:    "check",
			Root:      "docs",
			Documents: 12,
			Blocks:    240,
			Overall:   0.91,
			Findings:  4,
			Success:   true,
		})

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM run").Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		var source, root string
		var documents, findings, success int
		var overall float64
		err = db.QueryRow("SELECT source, root, documents, findings, success, overall FROM run WHERE id = 1").
			Scan(&source, &root, &documents, &findings, &success, &overall)
		require.NoError(t, err)
		assert.Equal(t, "check", source)
		assert.Equal(t, "docs", root)
		assert.Equal(t, 12, documents)
		assert.Equal(t, 4, findings)
		assert.Equal(t, 1, success)
		assert.Equal(t, 0.91, overall)
	})

	t.Run("builder from report", func(t *testing.T) {
		Close()
		require.NoError(t, Open())
		defer Close()

		rep := &report.Report{
			Documents: 3,
			Blocks:    40,
			Partial:   true,
			Scores:    report.Scores{Code: 0.8, Links: 1.0, Redundancy: 0.95, Overall: 0.91},
		}
		Event("check").Root("docs").FromReport(rep).Write(nil)

		entries, err := List(0)
		require.NoError(t, err)
		require.NotEmpty(t, entries)

		e := entries[0]
		assert.Equal(t, "check", e.Source)
		assert.Equal(t, 3, e.Documents)
		assert.Equal(t, 0.8, e.CodeScore)
		assert.Equal(t, 0.91, e.Overall)
		assert.True(t, e.Partial)
		assert.True(t, e.Success)
	})

	t.Run("builder records failure", func(t *testing.T) {
		Close()
		require.NoError(t, Open())
		defer Close()

		Event("links").Root("docs").Write(errors.New("corpus root missing"))

		entries, err := List(1)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.False(t, entries[0].Success)
		assert.Equal(t, "corpus root missing", entries[0].Error)
	})

	t.Run("list newest first with limit", func(t *testing.T) {
		Close()
		require.NoError(t, Open())
		defer Close()

		// Start values beyond any wall-clock entry written by earlier subtests.
		Log(Entry{Source: "first", Start: 1<<40 + 1, End: 1<<40 + 1, Success: true})
		Log(Entry{Source: "second", Start: 1<<40 + 2, End: 1<<40 + 2, Success: true})

		entries, err := List(1)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "second", entries[0].Source)
	})

	t.Run("log without open is a no-op", func(t *testing.T) {
		Close()
		Log(Entry{Source: "check"})

		entries, err := List(0)
		require.NoError(t, err)
		assert.Nil(t, entries)
	})
}
