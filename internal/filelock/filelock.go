// Package filelock guards the coverage output directory against concurrent
// covgate runs and provides atomic writes for report artifacts, so readers
// of coverage-report.json and badge.json never observe partial content.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// RunLock is an exclusive inter-process lock over a directory, implemented
// as a flock on a lock file inside it.
type RunLock struct {
	flock *flock.Flock
	path  string
}

// LockFileName is the lock file created inside the guarded directory.
const LockFileName = ".covgate.lock"

// NewRunLock creates a lock for the given directory. The directory must
// already exist; the lock file is created on first acquisition.
func NewRunLock(dir string) *RunLock {
	path := filepath.Join(dir, LockFileName)
	return &RunLock{
		flock: flock.New(path),
		path:  path,
	}
}

// TryAcquire attempts to take the lock without blocking.
// Returns false when another process already holds it.
func (rl *RunLock) TryAcquire() (bool, error) {
	acquired, err := rl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", rl.path, err)
	}
	return acquired, nil
}

// Release releases the lock.
func (rl *RunLock) Release() error {
	if err := rl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", rl.path, err)
	}
	return nil
}

// AtomicWrite writes data to a file atomically via a temp file and rename.
// Report artifacts are idempotently overwritten on each run; the rename
// guarantees a reader sees either the previous artifact or the new one,
// never a truncated mix.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// The temp file must live in the target directory so the rename stays
	// on one filesystem and remains atomic
	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	// Renamed successfully, skip cleanup
	tempFile = nil
	return nil
}
