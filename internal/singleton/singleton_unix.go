//go:build !windows

package singleton

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// lockPath maps a guard name onto a file in the temp directory.
func lockPath(identifier string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, identifier)
	return filepath.Join(os.TempDir(), "lidlock-"+strings.ToLower(name)+".lock")
}

func acquire(identifier string) (func() error, error) {
	path := lockPath(identifier)
	f, err := openLockFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}

	return func() error {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		return f.Close()
	}, nil
}

// openLockFile opens path for locking. The file outlives its creator and may
// belong to another user; flock only needs a readable descriptor.
func openLockFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if errors.Is(err, os.ErrPermission) {
		return os.OpenFile(path, os.O_RDONLY, 0)
	}
	return f, err
}
