package cmd

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexidx/lexidx/internal/errors"
	"github.com/lexidx/lexidx/internal/index"
	"github.com/lexidx/lexidx/internal/store"
)

func saveSampleIndex(t *testing.T, path string) {
	t.Helper()
	idx := index.TermFrequencyIndex{
		"/corpus/a.xml": {"HELLO": 2, "WORLD": 1},
		"/corpus/b.xml": {"HELLO": 1, "AGAIN": 1},
	}
	require.NoError(t, store.Save(idx, path))
}

func TestSearchCmd_PrintsDocumentCount(t *testing.T) {
	// Given: a saved index
	testEnv(t)
	saveSampleIndex(t, "idx.json")

	// When: searching it
	out, err := execute(t, context.Background(), "search", "idx.json")

	// Then: the document count is printed
	require.NoError(t, err)
	assert.Equal(t, "idx.json contains 2 documents\n", out)
}

func TestSearchCmd_Top(t *testing.T) {
	testEnv(t)
	saveSampleIndex(t, "idx.db")

	out, err := execute(t, context.Background(), "search", "idx.db", "--top", "2")

	require.NoError(t, err)
	assert.Contains(t, out, "idx.db contains 2 documents")
	assert.Contains(t, out, "TERM   COUNT")
	assert.Contains(t, out, "HELLO  3")
	assert.Contains(t, out, "AGAIN  1")
	assert.NotContains(t, out, "WORLD")
}

func TestSearchCmd_JSON(t *testing.T) {
	testEnv(t)
	saveSampleIndex(t, "idx.json")

	out, err := execute(t, context.Background(), "search", "idx.json", "--format", "json", "--top", "1")

	require.NoError(t, err)
	var result searchResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "idx.json", result.Path)
	assert.Equal(t, 2, result.Documents)
	assert.Equal(t, 3, result.Terms)
	assert.Equal(t, []index.TermCount{{Term: "HELLO", Count: 3}}, result.Top)
}

func TestSearchCmd_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		args     []string
		wantCode string
	}{
		{"missing file", "", []string{"search", "missing.json"}, errors.ErrCodeFileNotFound},
		{"corrupt file", "not json", []string{"search", "idx.json"}, errors.ErrCodeCorruptIndex},
		{"negative count", `{"/a.xml":{"A":-1}}`, []string{"search", "idx.json"}, errors.ErrCodeCorruptIndex},
		{"unknown output format", "{}", []string{"search", "idx.json", "--format", "xml"}, errors.ErrCodeConfigInvalid},
		{"negative top", "{}", []string{"search", "idx.json", "--top", "-1"}, errors.ErrCodeConfigInvalid},
		{"unknown index format", "{}", []string{"search", "idx.json", "--index-format", "csv"}, errors.ErrCodeConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testEnv(t)
			if tt.content != "" {
				writeFile(t, "idx.json", tt.content)
			}

			_, err := execute(t, context.Background(), tt.args...)

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
		})
	}
}
