package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexidx/lexidx/internal/errors"
)

func startWatcher(t *testing.T, root string, opts Options) *Watcher {
	t.Helper()

	opts.DebounceWindow = 30 * time.Millisecond
	w, err := New(opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, root) }()

	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
		<-done
	})

	select {
	case <-w.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not become ready")
	}
	return w
}

func waitBatch(t *testing.T, w *Watcher) []FileEvent {
	t.Helper()
	select {
	case batch, ok := <-w.Events():
		require.True(t, ok)
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for batch")
		return nil
	}
}

func TestWatcher_FileCreated_EmitsBatch(t *testing.T) {
	// Given: a watched corpus
	root := t.TempDir()
	w := startWatcher(t, root, Options{})

	// When: a document is written
	path := filepath.Join(root, "a.xml")
	require.NoError(t, os.WriteFile(path, []byte("<a>hi</a>"), 0o644))

	// Then: a batch naming the document arrives
	batch := waitBatch(t, w)
	require.NotEmpty(t, batch)
	assert.Equal(t, path, batch[0].Path)
}

func TestWatcher_NestedDirectory_Watched(t *testing.T) {
	// Given: a corpus with an existing subdirectory
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	w := startWatcher(t, root, Options{})

	// When: a document is written below it
	path := filepath.Join(sub, "b.xml")
	require.NoError(t, os.WriteFile(path, []byte("<b/>"), 0o644))

	// Then: the change is reported
	batch := waitBatch(t, w)
	paths := make([]string, 0, len(batch))
	for _, e := range batch {
		paths = append(paths, e.Path)
	}
	assert.Contains(t, paths, path)
}

func TestWatcher_IgnoredPath_Dropped(t *testing.T) {
	// Given: a watcher ignoring the index file inside the corpus
	root := t.TempDir()
	indexPath := filepath.Join(root, "index.json")
	w := startWatcher(t, root, Options{Ignore: []string{indexPath}})

	// When: the index and a document are written
	require.NoError(t, os.WriteFile(indexPath, []byte("{}"), 0o644))
	doc := filepath.Join(root, "doc.xml")
	require.NoError(t, os.WriteFile(doc, []byte("<d/>"), 0o644))

	// Then: only the document is reported
	batch := waitBatch(t, w)
	for _, e := range batch {
		assert.NotEqual(t, indexPath, e.Path)
	}
}

func TestWatcher_Start_MissingRoot(t *testing.T) {
	w, err := New(Options{})
	require.NoError(t, err)
	defer w.Stop()

	err = w.Start(context.Background(), filepath.Join(t.TempDir(), "missing"))

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTraversalFailed, errors.GetCode(err))
}

func TestWatcher_Start_RootIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.xml")
	require.NoError(t, os.WriteFile(file, []byte("<a/>"), 0o644))

	w, err := New(Options{})
	require.NoError(t, err)
	defer w.Stop()

	err = w.Start(context.Background(), file)

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTraversalFailed, errors.GetCode(err))
}

func TestWatcher_ContextCancel_StopsAndClosesEvents(t *testing.T) {
	// Given: a running watcher
	w, err := New(Options{})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, t.TempDir()) }()
	<-w.Ready()

	// When: the context is cancelled
	cancel()

	// Then: Start returns and Events is closed
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return")
	}
	_, ok := <-w.Events()
	assert.False(t, ok)
	assert.NoError(t, w.Stop())
}

func TestOptions_WithDefaults(t *testing.T) {
	opts := Options{}.WithDefaults()

	assert.Equal(t, 500*time.Millisecond, opts.DebounceWindow)
	assert.Equal(t, 16, opts.EventBufferSize)
	assert.NotNil(t, opts.Logger)
}
