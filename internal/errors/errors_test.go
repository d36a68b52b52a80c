package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("original error")

	// When: wrapping with Error
	err := New(ErrCodeFileNotFound, "file not found: test.xml", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, err)
	assert.Equal(t, originalErr, errors.Unwrap(err))
	assert.True(t, errors.Is(err, originalErr))
}

func TestError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "config error",
			err:      New(ErrCodeConfigNotFound, "config file not found", nil),
			expected: "[ERR_101_CONFIG_NOT_FOUND] config file not found",
		},
		{
			name:     "io error",
			err:      New(ErrCodeFileNotFound, "doc.xml not found", nil),
			expected: "[ERR_201_FILE_NOT_FOUND] doc.xml not found",
		},
		{
			name:     "with position",
			err:      New(ErrCodeMalformedDocument, "unexpected EOF", nil).WithPosition(3, 14),
			expected: "[ERR_301_MALFORMED_DOCUMENT] unexpected EOF (at 3:14)",
		},
		{
			name:     "line only",
			err:      New(ErrCodeMalformedDocument, "bad tag", nil).WithPosition(7, 0),
			expected: "[ERR_301_MALFORMED_DOCUMENT] bad tag (at 7)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_Is_MatchesByCode(t *testing.T) {
	err1 := New(ErrCodeFileNotFound, "file A not found", nil)
	err2 := New(ErrCodeFileNotFound, "file B not found", nil)
	err3 := New(ErrCodeCorruptIndex, "bad index", nil)

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
}

func TestError_WithDetail_AddsContext(t *testing.T) {
	err := New(ErrCodeFileNotFound, "file not found", nil).
		WithDetail("path", "/corpus/a.xml").
		WithDetail("size", "1024")

	assert.Equal(t, "/corpus/a.xml", err.Details["path"])
	assert.Equal(t, "/corpus/a.xml", err.Path())
	assert.Equal(t, "1024", err.Details["size"])
}

func TestError_CategoryAndSeverityFromCode(t *testing.T) {
	tests := []struct {
		code         string
		wantCategory Category
		wantSeverity Severity
	}{
		{ErrCodeConfigNotFound, CategoryConfig, SeverityError},
		{ErrCodeConfigInvalid, CategoryConfig, SeverityError},
		{ErrCodeFileNotFound, CategoryIO, SeverityError},
		{ErrCodeIO, CategoryIO, SeverityError},
		{ErrCodeTraversalFailed, CategoryIO, SeverityFatal},
		{ErrCodeMalformedDocument, CategoryParse, SeverityWarning},
		{ErrCodeCorruptIndex, CategoryParse, SeverityError},
		{ErrCodeInvalidRequest, CategoryParse, SeverityError},
		{ErrCodeInternal, CategoryInternal, SeverityError},
		{"BAD", CategoryInternal, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test", nil)
			assert.Equal(t, tt.wantCategory, err.Category)
			assert.Equal(t, tt.wantSeverity, err.Severity)
		})
	}
}

func TestIOError_PicksCodeFromCause(t *testing.T) {
	tests := []struct {
		name  string
		cause error
		want  string
	}{
		{"not exist", fs.ErrNotExist, ErrCodeFileNotFound},
		{"permission", fmt.Errorf("open: %w", fs.ErrPermission), ErrCodeFilePermission},
		{"other", errors.New("disk on fire"), ErrCodeIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := IOError("/tmp/x", tt.cause)
			assert.Equal(t, tt.want, err.Code)
			assert.Equal(t, "/tmp/x", err.Path())
			assert.Contains(t, err.Message, "/tmp/x")
		})
	}
}

func TestIsFatal_FindsErrorInChain(t *testing.T) {
	fatal := TraversalError("/corpus/sub", fs.ErrPermission)
	wrapped := fmt.Errorf("indexing failed: %w", fatal)

	assert.True(t, IsFatal(fatal))
	assert.True(t, IsFatal(wrapped))
	assert.False(t, IsFatal(ExtractionError("/corpus/a.xml", "bad", nil)))
	assert.False(t, IsFatal(errors.New("plain")))
	assert.False(t, IsFatal(nil))
}

func TestGetCodeAndCategory(t *testing.T) {
	err := fmt.Errorf("load: %w", CorruptIndexError("index.json", "not an object", nil))

	assert.Equal(t, ErrCodeCorruptIndex, GetCode(err))
	assert.Equal(t, CategoryParse, GetCategory(err))
	assert.Empty(t, GetCode(errors.New("plain")))
	assert.Empty(t, GetCategory(nil))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))

	err := Wrap(ErrCodeInternal, errors.New("boom"))
	require.NotNil(t, err)
	assert.Equal(t, "boom", err.Message)
}

func TestHTTPStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatusCode(InvalidRequestError("bad utf-8", nil)))
	assert.Equal(t, http.StatusNotFound, HTTPStatusCode(IOError("index.json", fs.ErrNotExist)))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatusCode(CorruptIndexError("i.json", "x", nil)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusCode(errors.New("plain")))
}
