//go:build !windows

package infra

import (
	"runtime"

	"github.com/eliteGoblin/lidlock/internal/domain"
)

// NewAutostartManager returns the XDG autostart manager on Unix desktops.
func NewAutostartManager() (domain.AutostartManager, error) {
	if runtime.GOOS == "darwin" {
		return nil, ErrAutostartUnsupported
	}
	return NewXDGAutostart(), nil
}
