// storage.go implements SQLite-based persistent run history.
//
// Separated from history.go to isolate database concerns. The main
// history.go provides the fluent API for building entries, while this file
// handles persistence. Using SQLite enables cross-corpus queries and score
// trend extraction that plain text logs cannot provide. The project field
// uses a hash of the corpus root to enable aggregation while preserving
// privacy.
//
// Design: Errors during recording are silently ignored (best-effort). This
// prevents history failures from breaking the main operation - an audit
// should report its findings even if we can't record the run.

package history

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

// store writes run history entries to a SQLite database.
type store struct {
	db      *sql.DB
	project string
}

func (s *store) log(e Entry) {
	var detail *string
	if len(e.Detail) > 0 {
		if b, err := json.Marshal(e.Detail); err == nil {
			str := string(b)
			detail = &str
		}
	}

	boolInt := func(v bool) int {
		if v {
			return 1
		}
		return 0
	}

	_, err := s.db.Exec(`
		INSERT INTO run (start, end, project, source, root, documents, blocks,
		                 code_score, link_score, redundancy_score, overall,
		                 findings, partial, success, error, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Start, e.End, s.project, e.Source, nilIfEmpty(e.Root),
		e.Documents, e.Blocks,
		e.CodeScore, e.LinkScore, e.RedundancyScore, e.Overall,
		e.Findings, boolInt(e.Partial), boolInt(e.Success),
		nilIfEmpty(e.Error), detail,
	)
	if err != nil {
		// Best-effort recording: don't break main operation, but report failure
		_, _ = fmt.Fprintf(os.Stderr, "mdaudit: history write failed: %v\n", err)
	}
}

func (s *store) list(limit int) ([]Entry, error) {
	q := `SELECT start, end, source, root, documents, blocks,
	             code_score, link_score, redundancy_score, overall,
	             findings, partial, success, error
	      FROM run ORDER BY start DESC, id DESC`
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var root, errMsg sql.NullString
		var partial, success int
		if err := rows.Scan(&e.Start, &e.End, &e.Source, &root,
			&e.Documents, &e.Blocks,
			&e.CodeScore, &e.LinkScore, &e.RedundancyScore, &e.Overall,
			&e.Findings, &partial, &success, &errMsg); err != nil {
			return nil, err
		}
		e.Root = root.String
		e.Error = errMsg.String
		e.Partial = partial == 1
		e.Success = success == 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// dbPathFunc is the function that returns the database path.
// Tests can override this to use a temp directory.
var dbPathFunc = defaultDBPath

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to current directory if home cannot be determined.
		// This allows recording to work in unusual environments (containers,
		// etc.) rather than silently failing.
		return filepath.Join(".mdaudit", "history", "mdaudit-history.db")
	}
	return filepath.Join(home, ".mdaudit", "history", "mdaudit-history.db")
}

func dbPath() string {
	return dbPathFunc()
}

// DBPath returns the path to the history database.
func DBPath() string {
	return dbPath()
}

// hash creates a project identifier from the corpus root, enabling
// cross-corpus queries while preserving privacy.
func hash(s string) string {
	h, err := blake2b.New(8, nil) // 64-bit = 16 hex chars
	if err != nil {
		// Should never happen with nil key, but don't silently ignore
		panic("blake2b.New failed: " + err.Error())
	}
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// migrate creates the run table if it doesn't exist. Safe for concurrent access.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS run (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			start            INTEGER NOT NULL,
			end              INTEGER NOT NULL,
			project          TEXT NOT NULL,
			source           TEXT NOT NULL,
			root             TEXT,
			documents        INTEGER NOT NULL,
			blocks           INTEGER NOT NULL,
			code_score       REAL NOT NULL,
			link_score       REAL NOT NULL,
			redundancy_score REAL NOT NULL,
			overall          REAL NOT NULL,
			findings         INTEGER NOT NULL,
			partial          INTEGER NOT NULL,
			success          INTEGER NOT NULL,
			error            TEXT,
			detail           TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_run_start ON run(start);
		CREATE INDEX IF NOT EXISTS idx_run_project ON run(project);
		CREATE INDEX IF NOT EXISTS idx_run_source ON run(source);
	`)
	return err
}

// nilIfEmpty returns nil for empty strings, reducing NULL checks in queries.
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
