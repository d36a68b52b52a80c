package store

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexidx/lexidx/internal/errors"
	"github.com/lexidx/lexidx/internal/index"
)

func TestEncode_Format(t *testing.T) {
	var buf bytes.Buffer
	idx := index.TermFrequencyIndex{
		"/b.xml": {"Z": 1, "A": 2},
		"/a.xml": {"<": 1},
	}

	require.NoError(t, Encode(&buf, idx))

	assert.Equal(t, `{"/a.xml":{"<":1},"/b.xml":{"A":2,"Z":1}}`+"\n", buf.String())
}

func TestEncode_NilIndex(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Encode(&buf, nil))

	assert.Equal(t, "{}\n", buf.String())
}

func TestEncode_RejectsInvalidUTF8Keys(t *testing.T) {
	tests := []struct {
		name string
		idx  index.TermFrequencyIndex
	}{
		{name: "path", idx: index.TermFrequencyIndex{"/docs/a\xff.xml": {"HELLO": 1}}},
		{name: "term", idx: index.TermFrequencyIndex{"/docs/a.xml": {"HE\xfeLLO": 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Error(t, Encode(&buf, tt.idx))
			assert.Zero(t, buf.Len())
		})
	}
}

func TestJSON_Save_InvalidUTF8PathKeepsExistingFile(t *testing.T) {
	// Given: a saved index and two paths that differ only in invalid bytes
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, NewJSON().Save(sampleIndex(), path))
	idx := index.TermFrequencyIndex{
		"/docs/a\xff.xml": {"HELLO": 1},
		"/docs/a\xfe.xml": {"WORLD": 1},
	}

	// When: saving them
	err := NewJSON().Save(idx, path)

	// Then: the save fails and the previous index is untouched
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIO, errors.GetCode(err))
	got, err := NewJSON().Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleIndex(), got)
}

func TestDecode_Valid(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect index.TermFrequencyIndex
	}{
		{
			name:   "empty object",
			input:  `{}`,
			expect: index.TermFrequencyIndex{},
		},
		{
			name:   "surrounding whitespace",
			input:  "\n  {\"/a\": {\"X\": 1}}  \n",
			expect: index.TermFrequencyIndex{"/a": {"X": 1}},
		},
		{
			name:   "empty document",
			input:  `{"/a": {}}`,
			expect: index.TermFrequencyIndex{"/a": {}},
		},
		{
			name:   "zero count",
			input:  `{"/a": {"X": 0}}`,
			expect: index.TermFrequencyIndex{"/a": {"X": 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expect, got)
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "whitespace", input: "  \n"},
		{name: "not json", input: "not json"},
		{name: "top-level null", input: "null"},
		{name: "top-level array", input: `[{"/a": {"X": 1}}]`},
		{name: "top-level string", input: `"index"`},
		{name: "top-level number", input: `42`},
		{name: "truncated", input: `{"/a": {"X": 1}`},
		{name: "trailing data", input: `{"/a": {"X": 1}} {}`},
		{name: "null document", input: `{"/a": null}`},
		{name: "array document", input: `{"/a": ["X"]}`},
		{name: "string count", input: `{"/a": {"X": "1"}}`},
		{name: "null count", input: `{"/a": {"X": null}}`},
		{name: "negative count", input: `{"/a": {"X": -1}}`},
		{name: "fractional count", input: `{"/a": {"X": 1.5}}`},
		{name: "object count", input: `{"/a": {"X": {}}}`},
		{name: "duplicate document", input: `{"/a.xml": {"X": 1}, "/a.xml": {"Y": 2}}`},
		{name: "duplicate term", input: `{"/a.xml": {"X": 1, "X": 2}}`},
		{name: "invalid utf-8 key", input: "{\"/a\xff.xml\": {\"X\": 1}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.input))
			assert.Error(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestJSON_Load_CorruptFile(t *testing.T) {
	// Given: a file that is not a valid index
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"/a": {"X": 1}, "/b": 7}`), 0o644))

	// When: loading it
	got, err := NewJSON().Load(path)

	// Then: a corrupt-index parse error is returned with no partial result
	require.Error(t, err)
	assert.Nil(t, got)
	e, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeCorruptIndex, e.Code)
	assert.Equal(t, errors.CategoryParse, e.Category)
	assert.Equal(t, path, e.Path())
	assert.NotEmpty(t, e.Suggestion)
}

func TestJSON_Load_SyntaxErrorHasLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte("{\n\"/a\": {\"X\": 1,}\n}"), 0o644))

	_, err := NewJSON().Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestJSON_Save_LeavesLockFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")

	require.NoError(t, NewJSON().Save(sampleIndex(), path))

	_, err := os.Stat(path + ".lock")
	assert.NoError(t, err)
}
