package library

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/xonecas/rmatch/internal/match"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	source  TEXT NOT NULL,
	word    TEXT NOT NULL,
	kind    TEXT NOT NULL DEFAULT '',
	pkg     TEXT NOT NULL DEFAULT '',
	menu    TEXT NOT NULL DEFAULT '',
	snippet TEXT NOT NULL DEFAULT '',
	args    TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_entries_word ON entries(word);
CREATE INDEX IF NOT EXISTS idx_entries_source ON entries(source);
`

// Store is the SQLite-backed completion index. Entries keep their
// cache-file line order through the autoincrement id.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenStore creates or opens the index database at the given path.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open index db: %w", err)
	}

	// SQLite pragmas for performance.
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// ReplaceSource swaps every entry belonging to one cache file in a
// single transaction. A nil slice clears the source (file removed).
func (s *Store) ReplaceSource(source string, entries []match.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec("DELETE FROM entries WHERE source = ?", source); err != nil {
		return fmt.Errorf("clear source %s: %w", source, err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO entries (source, word, kind, pkg, menu, snippet, args) VALUES (?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		args := ""
		if len(e.Args) > 0 {
			data, err := json.Marshal(e.Args)
			if err != nil {
				return fmt.Errorf("marshal args for %s: %w", e.Word, err)
			}
			args = string(data)
		}
		if _, err := stmt.Exec(source, e.Word, e.Kind, e.Pkg, e.Menu, e.Snippet, args); err != nil {
			return fmt.Errorf("insert %s: %w", e.Word, err)
		}
	}

	return tx.Commit()
}

// Complete returns entries whose word starts with prefix, in insertion
// order. limit <= 0 means no limit; an empty prefix matches everything.
func (s *Store) Complete(prefix string, limit int) ([]match.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := "SELECT word, kind, pkg, menu, snippet, args FROM entries WHERE word LIKE ? ESCAPE '\\' ORDER BY id"
	queryArgs := []any{escapeLike(prefix) + "%"}
	if limit > 0 {
		query += " LIMIT ?"
		queryArgs = append(queryArgs, limit)
	}

	rows, err := s.db.Query(query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []match.Entry
	for rows.Next() {
		var e match.Entry
		var args string
		if err := rows.Scan(&e.Word, &e.Kind, &e.Pkg, &e.Menu, &e.Snippet, &args); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if args != "" {
			if err := json.Unmarshal([]byte(args), &e.Args); err != nil {
				log.Warn().Err(err).Str("word", e.Word).Msg("bad args json in index")
			}
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Count returns the number of indexed entries.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// escapeLike escapes LIKE metacharacters so a prefix matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
