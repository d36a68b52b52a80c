package store

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/lexidx/lexidx/internal/errors"
)

// fileLock is a cross-process lock on "<index>.lock".
type fileLock struct {
	path  string
	flock *flock.Flock
}

func newFileLock(indexPath string) *fileLock {
	lockPath := indexPath + ".lock"
	return &fileLock{
		path:  lockPath,
		flock: flock.New(lockPath),
	}
}

// lock acquires the exclusive lock used by writers. It blocks.
func (l *fileLock) lock() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return errors.IOError(l.path, err)
	}
	if err := l.flock.Lock(); err != nil {
		return errors.IOError(l.path, err)
	}
	return nil
}

// rlock acquires the shared lock used by readers. It blocks.
func (l *fileLock) rlock() error {
	if err := l.flock.RLock(); err != nil {
		return errors.IOError(l.path, err)
	}
	return nil
}

func (l *fileLock) unlock() {
	_ = l.flock.Unlock()
}
