package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"forge/internal/protocol"
)

const maxWriteAttempts = 3

// retryDelay sits between write attempts on the same file. A variable so
// tests do not have to wait out real seconds.
var retryDelay = 1 * time.Second

// FileStatus is the per-file outcome of applying a ChangeSet.
type FileStatus struct {
	Path    string
	Written bool
	Err     string
}

// WriteChangeSet applies every file in the change set under root,
// creating parent directories as needed. A failure on one file does not
// stop the remaining files; the caller always gets complete per-file
// status. Overall success requires every file written and verified.
func WriteChangeSet(root string, cs protocol.ChangeSet) (bool, []FileStatus) {
	paths := make([]string, 0, len(cs))
	for path := range cs {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	ok := true
	statuses := make([]FileStatus, 0, len(paths))
	for _, path := range paths {
		st := FileStatus{Path: path}
		if err := writeFile(filepath.Join(root, path), cs[path]); err != nil {
			st.Err = err.Error()
			ok = false
		} else {
			st.Written = true
		}
		statuses = append(statuses, st)
	}
	return ok, statuses
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create parent directory: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}
		if lastErr = writeLocked(path, content); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("write failed after %d attempts: %w", maxWriteAttempts, lastErr)
}

func writeLocked(path, content string) error {
	unlock, err := acquireLock(path)
	if err != nil {
		return err
	}
	defer unlock()

	if err := writeAtomic(path, content); err != nil {
		return err
	}
	return verify(path, content)
}

// writeAtomic writes to a temp file in the target directory and renames
// it into place, so a crash mid-write never leaves a torn target file.
func writeAtomic(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("could not write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("could not close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("could not replace %s: %w", path, err)
	}
	return nil
}

// verify re-stats the written file. A zero-length result for non-empty
// content counts as a failure even when no write error surfaced: the
// model sometimes claims a path and delivers no body.
func verify(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("could not stat written file: %w", err)
	}
	if info.Size() == 0 && len(content) > 0 {
		return fmt.Errorf("file %s is unexpectedly empty after write", path)
	}
	return nil
}
