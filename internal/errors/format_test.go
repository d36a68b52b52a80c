package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForCLI_IncludesCodeAndHint(t *testing.T) {
	// Given: a corrupt index error with a suggestion
	err := CorruptIndexError("index.json", "top level is not an object", nil)

	// When: formatting for CLI
	result := FormatForCLI(err)

	// Then: message, hint and code are present
	assert.Contains(t, result, "Error: index.json: top level is not an object")
	assert.Contains(t, result, "Hint: Rebuild the index")
	assert.Contains(t, result, "Code: ERR_302_CORRUPT_INDEX")
}

func TestFormatForCLI_KeepsOuterContext(t *testing.T) {
	inner := TraversalError("/corpus", errors.New("permission denied"))
	err := fmt.Errorf("could not index folder /corpus: %w", inner)

	result := FormatForCLI(err)

	assert.Contains(t, result, "Error: could not index folder /corpus: cannot traverse /corpus")
	assert.Contains(t, result, "Code: ERR_204_TRAVERSAL_FAILED")
}

func TestFormatForCLI_ShowsPosition(t *testing.T) {
	err := ExtractionError("a.xml", "element <b> closed by </a>", nil).WithPosition(4, 2)

	result := FormatForCLI(err)

	assert.Contains(t, result, "At: 4:2")
}

func TestFormatForCLI_StandardAndNil(t *testing.T) {
	assert.Empty(t, FormatForCLI(nil))

	result := FormatForCLI(errors.New("something went wrong"))
	assert.Contains(t, result, "something went wrong")
	assert.Contains(t, result, ErrCodeInternal)
}

func TestFormatJSON_BasicError(t *testing.T) {
	// Given: an extraction error with a position and a cause
	err := ExtractionError("doc.xml", "unexpected EOF", errors.New("xml: unexpected EOF")).WithPosition(10, 3)

	// When: formatting as JSON
	data, jerr := FormatJSON(err)
	require.NoError(t, jerr)

	// Then: fields are present
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, ErrCodeMalformedDocument, parsed["code"])
	assert.Equal(t, "PARSE", parsed["category"])
	assert.Equal(t, "WARNING", parsed["severity"])
	assert.Equal(t, float64(10), parsed["line"])
	assert.Equal(t, float64(3), parsed["column"])
	assert.Equal(t, "xml: unexpected EOF", parsed["cause"])
}

func TestFormatJSON_StandardAndNil(t *testing.T) {
	data, err := FormatJSON(errors.New("plain"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ErrCodeInternal)

	data, err = FormatJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestFormatForLog_ReturnsSlogAttrs(t *testing.T) {
	err := IOError("/tmp/index.json", errors.New("disk full"))

	attrs := FormatForLog(err)

	keys := make(map[string]string)
	for _, a := range attrs {
		attr, ok := a.(slog.Attr)
		require.True(t, ok)
		keys[attr.Key] = attr.Value.String()
	}
	assert.Equal(t, ErrCodeIO, keys["error_code"])
	assert.Equal(t, "/tmp/index.json", keys["detail_path"])
	assert.Equal(t, "disk full", keys["cause"])

	assert.Nil(t, FormatForLog(nil))
	assert.Len(t, FormatForLog(errors.New("x")), 1)
}
