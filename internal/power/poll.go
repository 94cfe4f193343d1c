package power

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/lidlock/internal/domain"
	"github.com/eliteGoblin/lidlock/internal/policy"
)

// lidState maps a lid-closed reading onto the shared state encoding.
func lidState(closed bool) uint32 {
	if closed {
		return policy.TriggerState
	}
	return 1
}

// pollLid samples the lid every interval and delivers one event per
// transition. The first successful sample only establishes the baseline.
// Sampling failures are logged and the loop continues.
func pollLid(
	ctx context.Context,
	interval time.Duration,
	sample func() (closed bool, err error),
	handler domain.PowerEventHandler,
	logger *zap.Logger,
) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		last  bool
		known bool
	)
	observe := func() {
		closed, err := sample()
		if err != nil {
			logger.Warn("failed to read lid state", zap.Error(err))
			return
		}
		if known && closed == last {
			return
		}
		wasKnown := known
		last, known = closed, true
		if !wasKnown {
			logger.Debug("lid baseline", zap.Bool("closed", closed))
			return
		}
		handler.HandlePowerEvent(domain.PowerEvent{
			Class: policy.LidSwitchStateChange.GUID,
			State: lidState(closed),
		})
	}

	observe()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Message loop finished")
			return nil
		case <-ticker.C:
			observe()
		}
	}
}
