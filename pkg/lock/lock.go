package lock

import (
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/sidkik/pushsync/pkg/errors"
)

// FileName is the name of the lock file within the logs directory.
const FileName = "pushsync.lock"

// Lock is held by the running pushsync process.
type Lock struct {
	flock *flock.Flock
}

// Acquire takes the lock in `dir`, failing if another pushsync process
// already holds it.
func Acquire(dir string) (*Lock, error) {
	path := filepath.Join(dir, FileName)
	fl := flock.New(path)

	locked, err := fl.TryLock()
	if err != nil {
		return nil, errors.WithContext(err, "lock "+path)
	}
	if !locked {
		return nil, errors.NewFriendlyError("Another pushsync process is "+
			"already running.\nIf that's not the case, remove %q and try again.", path)
	}
	return &Lock{fl}, nil
}

// Release unlocks the lock.
func (l *Lock) Release() error {
	return l.flock.Unlock()
}
