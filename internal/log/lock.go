package log

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/marceloboeira/voik/internal/logfile"
)

const lockFileName = ".voik.lock"

// dirLock is an advisory cross-process lock on a log directory. It does
// not replace the external synchronization a single process must still
// apply around a *Log; it only turns two processes opening the same
// directory into a loud failure instead of silent corruption.
type dirLock struct {
	fl *flock.Flock
}

func acquireDirLock(dir string) (*dirLock, error) {
	fl := flock.New(filepath.Join(dir, lockFileName))

	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: locking directory %s: %v", logfile.ErrIoError, dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrDirLocked, dir)
	}

	return &dirLock{fl: fl}, nil
}

func (l *dirLock) release() error {
	return l.fl.Unlock()
}
