// Package lockfile serializes planpilot processes sharing one data
// directory with an exclusive advisory lock on a file.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrLockBusy is returned by TryAcquire when another process holds the lock.
var ErrLockBusy = errors.New("lock is held by another process")

// Lock is a held exclusive lock.
type Lock struct {
	f *os.File
}

// Acquire blocks until the exclusive lock on path is held.
func Acquire(path string) (*Lock, error) {
	return acquire(path, flockExclusive)
}

// TryAcquire takes the exclusive lock on path or fails with ErrLockBusy.
func TryAcquire(path string) (*Lock, error) {
	return acquire(path, flockExclusiveNonBlock)
}

func acquire(path string, lock func(*os.File) error) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	if err := lock(f); err != nil {
		f.Close()
		if errors.Is(err, ErrLockBusy) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	return &Lock{f: f}, nil
}

// Release drops the lock. Releasing twice is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := unlock(l.f)
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	l.f = nil
	return err
}
