// Package watcher reports changes under a corpus directory so the indexer
// can rebuild the index.
//
// Events come from fsnotify. Every directory under the root is added on
// Start and new directories are added as they appear. Events are coalesced
// by a Debouncer and delivered as batches:
//
//	w, err := watcher.New(watcher.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//
//	go func() { _ = w.Start(ctx, "/path/to/corpus") }()
//
//	for batch := range w.Events() {
//	    // re-index
//	}
package watcher
