// Package store persists a TermFrequencyIndex to disk and reads it back.
//
// Two formats are supported: a JSON object of objects (the default) and a
// SQLite database. Both hold a lock file next to the index while reading
// or writing so a reader never observes a half-written file.
package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lexidx/lexidx/internal/errors"
	"github.com/lexidx/lexidx/internal/index"
)

// Formats accepted by ForPath.
const (
	FormatAuto   = ""
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// Store saves and loads a TermFrequencyIndex.
type Store interface {
	// Save writes idx to path, replacing any previous content.
	Save(idx index.TermFrequencyIndex, path string) error

	// Load reads a complete index from path. It never returns a partial
	// index: any malformation yields an ERR_302_CORRUPT_INDEX error.
	Load(path string) (index.TermFrequencyIndex, error)
}

// Formats returns the accepted values for an explicit format.
func Formats() []string {
	return []string{FormatJSON, FormatSQLite}
}

// ForPath returns the Store for format. FormatAuto picks SQLite for .db,
// .sqlite and .sqlite3 files and JSON for everything else.
func ForPath(path, format string) (Store, error) {
	switch strings.ToLower(format) {
	case FormatAuto, "auto":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".db", ".sqlite", ".sqlite3":
			return NewSQLite(), nil
		default:
			return NewJSON(), nil
		}
	case FormatJSON:
		return NewJSON(), nil
	case FormatSQLite:
		return NewSQLite(), nil
	default:
		return nil, errors.ConfigError(
			fmt.Sprintf("unknown index format %q", format), nil,
		).WithSuggestion("Use one of: " + strings.Join(Formats(), ", "))
	}
}

// Save writes idx to path in the format implied by its extension.
func Save(idx index.TermFrequencyIndex, path string) error {
	s, err := ForPath(path, FormatAuto)
	if err != nil {
		return err
	}
	return s.Save(idx, path)
}

// Load reads the index at path in the format implied by its extension.
func Load(path string) (index.TermFrequencyIndex, error) {
	s, err := ForPath(path, FormatAuto)
	if err != nil {
		return nil, err
	}
	return s.Load(path)
}
