// Package lockedfile provides an inter-process mutex backed by a lock file.
package lockedfile

import (
	"fmt"
	"os"
)

// A Mutex is an exclusive lock on a file, shared between processes that use
// the same path.
type Mutex struct {
	path string
}

// MutexAt returns a Mutex using the file at path. The file is created on
// first use and never removed.
func MutexAt(path string) *Mutex {
	return &Mutex{path: path}
}

func (mu *Mutex) String() string {
	return fmt.Sprintf("lockedfile.Mutex(%s)", mu.path)
}

// Lock blocks until the lock is held and returns a function releasing it.
func (mu *Mutex) Lock() (func(), error) {
	f, err := os.OpenFile(mu.path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, err
	}
	if err := lock(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("lock %s: %w", mu.path, err)
	}
	return func() {
		unlock(f)
		f.Close()
	}, nil
}
