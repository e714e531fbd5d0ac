// Package runlock serializes conversion runs per output directory.
//
// Two concurrent runs publishing into the same directory would race on
// staging and final paths, so each run takes an advisory flock on a lock
// file inside the output directory and fails fast if it is held.
package runlock

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created inside the output directory. It is never removed;
// flock state, not file existence, is what matters.
const LockFileName = ".heiconv.lock"

// ErrHeld reports that another run owns the output directory.
var ErrHeld = errors.New("output directory is locked by another heiconv run")

// Lock is a held advisory lock on an output directory.
type Lock struct {
	lock *flock.Flock
}

// Acquire takes the lock for outputDir without blocking.
func Acquire(outputDir string) (*Lock, error) {
	fl := flock.New(filepath.Join(outputDir, LockFileName))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrHeld
	}
	return &Lock{lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.lock.Path()
}

// Release drops the lock. Safe to call once the run is fully finished.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
