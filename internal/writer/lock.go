package writer

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// ErrLocked reports that another writer holds the advisory lock for the
// target file.
var ErrLocked = errors.New("file is locked by another writer")

// acquireLock takes an exclusive, non-blocking advisory lock on a
// sibling `<path>.lock` file. The returned release function unlocks,
// closes and removes the lock file, and must run on every exit path.
func acquireLock(path string) (func(), error) {
	lockPath := path + ".lock"
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("could not lock %s: %w", lockPath, err)
	}
	return func() {
		_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		_ = f.Close()
		_ = os.Remove(lockPath)
	}, nil
}
