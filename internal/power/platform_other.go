//go:build !windows && !linux

package power

import (
	"go.uber.org/zap"

	"github.com/eliteGoblin/lidlock/internal/config"
)

// NewPlatform reports ErrUnsupported; see receiver_windows.go and logind_linux.go.
func NewPlatform(cfg config.Config, logger *zap.Logger) (Platform, error) {
	return nil, ErrUnsupported
}
