//go:build windows

package singleton

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

func acquire(identifier string) (func() error, error) {
	name, err := windows.UTF16PtrFromString(identifier)
	if err != nil {
		return nil, fmt.Errorf("invalid guard name %q: %w", identifier, err)
	}

	// CreateMutex returns a valid handle together with ERROR_ALREADY_EXISTS
	// when the object predates this call.
	h, err := windows.CreateMutex(nil, false, name)
	if err != nil {
		if h != 0 {
			_ = windows.CloseHandle(h)
		}
		if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("failed to create mutex %s: %w", identifier, err)
	}

	return func() error { return windows.CloseHandle(h) }, nil
}
