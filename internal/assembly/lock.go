package assembly

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"murmur/internal/config"
)

// Lock is an advisory single-writer lock guarding ledger writes and playlist
// reorder transactions. There is no cross-process coordination beyond this:
// two concurrent merges could otherwise both observe the same unprocessed set
// and record overlapping ledger rows.
type Lock struct {
	flock *flock.Flock
	path  string
}

// AcquireLock takes the assembly lock without blocking. It fails when another
// process already holds it.
func AcquireLock(cfg *config.Config) (*Lock, error) {
	path := filepath.Join(cfg.Paths.DataDir, "assembly.lock")
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire assembly lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another murmur instance holds the assembly lock")
	}
	return &Lock{flock: fl, path: path}, nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	return l.flock.Unlock()
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}
