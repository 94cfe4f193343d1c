package power

import (
	"go.uber.org/zap"

	"github.com/eliteGoblin/lidlock/internal/domain"
)

// Window message constants consumed by the router.
const (
	WMPowerBroadcast      = 0x0218
	PBTPowerSettingChange = 0x8013

	// BroadcastHandled is returned for every WM_POWERBROADCAST.
	BroadcastHandled uintptr = 1
)

// Router is the per-message state machine behind the window procedure.
// It carries no state between messages.
type Router struct {
	handler domain.PowerEventHandler
	logger  *zap.Logger
}

// NewRouter creates a router delivering decoded events to handler.
func NewRouter(handler domain.PowerEventHandler, logger *zap.Logger) *Router {
	return &Router{handler: handler, logger: logger}
}

// Route processes one message. It returns handled=false for anything that is
// not a power broadcast; the caller must pass those to the default handler.
func (r *Router) Route(msg domain.Message) (result uintptr, handled bool) {
	if msg.ID != WMPowerBroadcast {
		return 0, false
	}

	r.logger.Info("Received WM_POWERBROADCAST")

	if msg.WParam != PBTPowerSettingChange {
		r.logger.Info("Ignoring power broadcast", zap.Uint64("event", uint64(msg.WParam)))
		return BroadcastHandled, true
	}

	r.logger.Info("Received PBT_POWERSETTINGCHANGE")

	evt, err := DecodePowerSetting(msg.Payload)
	if err != nil {
		r.logger.Warn("Failed to decode power setting", zap.Error(err))
		return BroadcastHandled, true
	}

	r.handler.HandlePowerEvent(evt)
	return BroadcastHandled, true
}
