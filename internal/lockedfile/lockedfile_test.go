//go:build unix || windows

package lockedfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMutexExcludes(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")
	mu := MutexAt(path)

	unlock, err := mu.Lock()
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("lock file not created: %v", err)
	}

	acquired := make(chan func())
	go func() {
		u, err := MutexAt(path).Lock()
		if err != nil {
			t.Errorf("second Lock: %v", err)
			close(acquired)
			return
		}
		acquired <- u
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock acquired while first was held")
	case <-time.After(100 * time.Millisecond):
	}

	unlock()

	select {
	case u, ok := <-acquired:
		if ok {
			u()
		}
	case <-time.After(5 * time.Second):
		t.Fatal("second Lock not acquired after unlock")
	}
}

func TestLockMissingDir(t *testing.T) {
	mu := MutexAt(filepath.Join(t.TempDir(), "no", "such", ".lock"))
	if _, err := mu.Lock(); err == nil {
		t.Fatal("Lock succeeded in a missing directory")
	}
}
