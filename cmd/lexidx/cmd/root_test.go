package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexidx/lexidx/internal/errors"
)

func TestRootCmd_HasSubcommands(t *testing.T) {
	// Given: the root command
	root := NewRootCmd()

	// Then: every subcommand is registered
	for _, name := range []string{"index", "search", "serve", "config", "version"} {
		found, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, found.Name())
	}
}

func TestRootCmd_MissingExplicitConfig(t *testing.T) {
	testEnv(t)

	_, err := execute(t, context.Background(), "--config", "missing.yaml", "search", "idx.json")

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigNotFound, errors.GetCode(err))
}

func TestRootCmd_ExplicitConfig(t *testing.T) {
	// Given: a config file outside the project root
	dir := testEnv(t)
	writeCorpus(t, filepath.Join(dir, "corpus"))
	writeFile(t, filepath.Join(dir, "conf", "alt.yaml"), "index:\n  path: alt.db\n")

	// When: indexing with --config
	_, err := execute(t, context.Background(), "--config", "conf/alt.yaml", "index", "corpus", "--no-tui")

	// Then: its index path and format are used
	require.NoError(t, err)
	assert.FileExists(t, "alt.db")
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	testEnv(t)
	writeFile(t, ".lexidx.yaml", "logging:\n  level: loud\n")

	_, err := execute(t, context.Background(), "search", "idx.json")

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
}

func TestRootCmd_DebugMirrorsToStderr(t *testing.T) {
	// Given: a debug run; stderr is the process stderr, so only the file is checked
	dir := testEnv(t)
	saveSampleIndex(t, "idx.json")

	// When: searching with --debug
	_, err := execute(t, context.Background(), "--debug", "search", "idx.json")

	// Then: debug events reach the log file
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "home", ".lexidx", "logs", "lexidx.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"index_loading"`)
	assert.Contains(t, string(data), `"level":"DEBUG"`)
}

func TestRootCmd_ProfileFlags(t *testing.T) {
	// Given: a search run with CPU and heap profiling
	testEnv(t)
	saveSampleIndex(t, "idx.json")

	// When: executing
	_, err := execute(t, context.Background(),
		"--profile-cpu", "cpu.prof", "--profile-mem", "heap.prof", "search", "idx.json")

	// Then: both profiles are written
	require.NoError(t, err)
	assert.FileExists(t, "cpu.prof")
	assert.FileExists(t, "heap.prof")
}
