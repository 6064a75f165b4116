package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockName is the lock file created in the output root for the duration of
// a run.
const LockName = ".vid2mp3.lock"

// ErrLocked means another run is writing to the same output root.
var ErrLocked = errors.New("another vid2mp3 run is using this output directory")

// OutputLock guards an output root against concurrent runs.
type OutputLock struct {
	path string
	lock *flock.Flock
}

// AcquireLock takes the output-root lock without blocking. The output root
// must exist.
func AcquireLock(outputRoot string) (*OutputLock, error) {
	path := filepath.Join(outputRoot, LockName)
	l := flock.New(path)
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, path)
	}
	return &OutputLock{path: path, lock: l}, nil
}

// Path returns the lock file path.
func (l *OutputLock) Path() string { return l.path }

// Release removes the lock file and unlocks the output root, so a finished
// run leaves only the mirrored tree behind. The file is unlinked while still
// locked: a later run creates a fresh one instead of sharing this inode.
func (l *OutputLock) Release() error {
	rmErr := os.Remove(l.path)
	if errors.Is(rmErr, fs.ErrNotExist) {
		rmErr = nil
	}
	return errors.Join(l.lock.Unlock(), rmErr)
}
