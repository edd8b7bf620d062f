package filelock

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunLockAcquireRelease(t *testing.T) {
	dir := t.TempDir()
	lock := NewRunLock(dir)

	acquired, err := lock.TryAcquire()
	if err != nil {
		t.Fatalf("TryAcquire() error = %v", err)
	}
	if !acquired {
		t.Fatal("TryAcquire() = false, want true for uncontended lock")
	}

	if err := lock.Release(); err != nil {
		t.Errorf("Release() error = %v", err)
	}

	// Reacquirable after release
	acquired, err = lock.TryAcquire()
	if err != nil {
		t.Fatalf("TryAcquire() after release error = %v", err)
	}
	if !acquired {
		t.Error("TryAcquire() after release = false, want true")
	}
	lock.Release()
}

func TestRunLockCreatesLockFile(t *testing.T) {
	dir := t.TempDir()
	lock := NewRunLock(dir)
	if _, err := lock.TryAcquire(); err != nil {
		t.Fatalf("TryAcquire() error = %v", err)
	}
	defer lock.Release()

	if _, err := os.Stat(filepath.Join(dir, LockFileName)); err != nil {
		t.Errorf("lock file not created: %v", err)
	}
}

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coverage-report.json")

	if err := AtomicWrite(path, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("AtomicWrite() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("content = %q, want %q", data, `{"a":1}`)
	}

	// Overwrite is idempotent
	if err := AtomicWrite(path, []byte(`{"a":2}`)); err != nil {
		t.Fatalf("AtomicWrite() overwrite error = %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != `{"a":2}` {
		t.Errorf("content after overwrite = %q, want %q", data, `{"a":2}`)
	}

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1 (temp files not cleaned up)", len(entries))
	}
}

func TestAtomicWriteCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "badge.json")
	if err := AtomicWrite(path, []byte("{}")); err != nil {
		t.Fatalf("AtomicWrite() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not created: %v", err)
	}
}
