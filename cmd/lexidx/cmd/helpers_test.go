package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEnv isolates a command run: a temp working directory, HOME and
// XDG_CONFIG_HOME inside it, and no LEXIDX_* overrides.
func testEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", filepath.Join(dir, "home"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, name := range []string{
		"LEXIDX_INDEX_PATH", "LEXIDX_INDEX_FORMAT", "LEXIDX_ADDRESS",
		"LEXIDX_LOG_LEVEL", "LEXIDX_WATCH_DEBOUNCE", "LEXIDX_STATS_CACHE_SIZE",
		"NO_COLOR", "CI",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	return dir
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	return buf.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// writeCorpus creates two valid documents and one malformed document.
func writeCorpus(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, "a.xml"), "<doc><p>hello world</p></doc>")
	writeFile(t, filepath.Join(dir, "nested", "b.xml"), "<doc>Hello again</doc>")
	writeFile(t, filepath.Join(dir, "bad.xml"), "<doc><p>unclosed</doc>")
}
