package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexidx/lexidx/internal/errors"
)

// writeRawSQLite creates a database at path with the given statements.
func writeRawSQLite(t *testing.T, path string, stmts ...string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
}

func TestSQLite_Save_ReplacesExistingFile(t *testing.T) {
	// Given: a file that is not a database
	path := filepath.Join(t.TempDir(), "index.db")
	require.NoError(t, os.WriteFile(path, []byte("stale content"), 0o644))

	// When: saving over it
	require.NoError(t, NewSQLite().Save(sampleIndex(), path))

	// Then: the new database loads
	got, err := NewSQLite().Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleIndex(), got)
}

func TestSQLite_Load_Corrupt(t *testing.T) {
	schema := `CREATE TABLE documents (path TEXT PRIMARY KEY);
CREATE TABLE terms (path TEXT, term TEXT, count INTEGER)`

	tests := []struct {
		name  string
		setup func(t *testing.T, path string)
	}{
		{
			name: "not a database",
			setup: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, []byte("definitely not sqlite, just some text padding it out"), 0o644))
			},
		},
		{
			name: "missing tables",
			setup: func(t *testing.T, path string) {
				writeRawSQLite(t, path, `CREATE TABLE other (x INTEGER)`)
			},
		},
		{
			name: "text count",
			setup: func(t *testing.T, path string) {
				writeRawSQLite(t, path, schema,
					`INSERT INTO documents VALUES ('/a')`,
					`INSERT INTO terms VALUES ('/a', 'X', 'many')`)
			},
		},
		{
			name: "real count",
			setup: func(t *testing.T, path string) {
				writeRawSQLite(t, path, schema,
					`INSERT INTO documents VALUES ('/a')`,
					`INSERT INTO terms VALUES ('/a', 'X', 1.5)`)
			},
		},
		{
			name: "negative count",
			setup: func(t *testing.T, path string) {
				writeRawSQLite(t, path, schema,
					`INSERT INTO documents VALUES ('/a')`,
					`INSERT INTO terms VALUES ('/a', 'X', -3)`)
			},
		},
		{
			name: "orphan term",
			setup: func(t *testing.T, path string) {
				writeRawSQLite(t, path, schema,
					`INSERT INTO terms VALUES ('/ghost', 'X', 1)`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "index.db")
			tt.setup(t, path)

			got, err := NewSQLite().Load(path)

			require.Error(t, err)
			assert.Nil(t, got)
			assert.Equal(t, errors.ErrCodeCorruptIndex, errors.GetCode(err))
		})
	}
}
