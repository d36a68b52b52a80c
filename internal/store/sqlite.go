package store

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/lexidx/lexidx/internal/errors"
	"github.com/lexidx/lexidx/internal/index"
)

const sqliteSchema = `
CREATE TABLE schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE documents (
	path TEXT PRIMARY KEY
);

CREATE TABLE terms (
	path  TEXT NOT NULL REFERENCES documents(path),
	term  TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY (path, term)
);

INSERT INTO schema_version (version) VALUES (1);
`

// SQLite stores the index in a SQLite database with one row per document
// and one row per (document, term) pair.
type SQLite struct{}

// NewSQLite returns the SQLite store.
func NewSQLite() *SQLite {
	return &SQLite{}
}

var _ Store = (*SQLite)(nil)

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Save implements Store. Any existing database at path is removed first.
func (s *SQLite) Save(idx index.TermFrequencyIndex, path string) error {
	l := newFileLock(path)
	if err := l.lock(); err != nil {
		return err
	}
	defer l.unlock()

	for _, p := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return errors.IOError(p, err)
		}
	}

	db, err := openSQLite(path)
	if err != nil {
		return errors.IOError(path, err)
	}

	if err := writeSQLite(db, idx); err != nil {
		_ = db.Close()
		return errors.IOError(path, err)
	}
	if err := db.Close(); err != nil {
		return errors.IOError(path, err)
	}
	return nil
}

func writeSQLite(db *sql.DB, idx index.TermFrequencyIndex) error {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	docStmt, err := tx.Prepare(`INSERT INTO documents(path) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare document statement: %w", err)
	}
	defer docStmt.Close()

	termStmt, err := tx.Prepare(`INSERT INTO terms(path, term, count) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare term statement: %w", err)
	}
	defer termStmt.Close()

	for _, path := range idx.Paths() {
		if _, err := docStmt.Exec(path); err != nil {
			return fmt.Errorf("failed to insert document %s: %w", path, err)
		}
		for term, count := range idx[path] {
			if _, err := termStmt.Exec(path, term, count); err != nil {
				return fmt.Errorf("failed to insert term %q: %w", term, err)
			}
		}
	}

	return tx.Commit()
}

// Load implements Store.
func (s *SQLite) Load(path string) (index.TermFrequencyIndex, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.IOError(path, err)
	}

	l := newFileLock(path)
	if err := l.rlock(); err != nil {
		return nil, err
	}
	defer l.unlock()

	db, err := openSQLite(path)
	if err != nil {
		return nil, errors.CorruptIndexError(path, err.Error(), err)
	}
	defer db.Close()

	idx, err := readSQLite(db)
	if err != nil {
		return nil, errors.CorruptIndexError(path, err.Error(), err)
	}
	return idx, nil
}

func readSQLite(db *sql.DB) (index.TermFrequencyIndex, error) {
	idx := make(index.TermFrequencyIndex)

	docs, err := db.Query(`SELECT path FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("cannot read documents: %w", err)
	}
	for docs.Next() {
		var path string
		if err := docs.Scan(&path); err != nil {
			_ = docs.Close()
			return nil, fmt.Errorf("cannot read document row: %w", err)
		}
		idx[path] = make(index.TermFrequency)
	}
	if err := docs.Err(); err != nil {
		_ = docs.Close()
		return nil, fmt.Errorf("cannot read documents: %w", err)
	}
	_ = docs.Close()

	rows, err := db.Query(`SELECT path, term, typeof(count), count FROM terms`)
	if err != nil {
		return nil, fmt.Errorf("cannot read terms: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			path, term, kind string
			count            any
		)
		if err := rows.Scan(&path, &term, &kind, &count); err != nil {
			return nil, fmt.Errorf("cannot read term row: %w", err)
		}
		if kind != "integer" {
			return nil, fmt.Errorf("document %q: term %q: count has type %s, expected integer", path, term, kind)
		}
		n, ok := count.(int64)
		if !ok || n < 0 {
			return nil, fmt.Errorf("document %q: term %q: count %v is not a non-negative integer", path, term, count)
		}
		tf, ok := idx[path]
		if !ok {
			return nil, fmt.Errorf("term %q references unknown document %q", term, path)
		}
		tf[term] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cannot read terms: %w", err)
	}
	return idx, nil
}
