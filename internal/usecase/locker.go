// Package usecase contains application business logic.
package usecase

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eliteGoblin/lidlock/internal/domain"
	"github.com/eliteGoblin/lidlock/internal/policy"
)

// LockHandler implements domain.PowerEventHandler.
// It holds no state between events; the session is queried fresh each time.
type LockHandler struct {
	classes *policy.Registry
	session domain.SessionInspector
	locker  domain.SessionLocker
	logger  *zap.Logger
}

// NewLockHandler creates a handler for the given subscriptions.
func NewLockHandler(
	classes *policy.Registry,
	session domain.SessionInspector,
	locker domain.SessionLocker,
	logger *zap.Logger,
) *LockHandler {
	return &LockHandler{
		classes: classes,
		session: session,
		locker:  locker,
		logger:  logger,
	}
}

// HandlePowerEvent decides and, when the decision is lock, locks the session.
func (h *LockHandler) HandlePowerEvent(evt domain.PowerEvent) domain.Action {
	class, ok := h.classes.Lookup(evt.Class)
	if !ok {
		h.logger.Warn("Ignoring unknown power setting class",
			zap.Stringer("guid", evt.Class))
		return domain.ActionIgnoreClass
	}

	h.logger.Info(fmt.Sprintf("Power setting state: %d", evt.State),
		zap.String("class", class.ID))

	// Only ask about the session when the state could lead to a lock.
	remote := false
	if evt.State == policy.TriggerState {
		remote = h.session.IsRemote()
	}

	action := policy.Decide(evt.State, remote)
	switch action {
	case domain.ActionLock:
		h.logger.Info("Attempting to lock workstation")
		if h.locker.Lock() {
			h.logger.Info("Workstation locked successfully")
		} else {
			h.logger.Warn("Failed to lock workstation")
		}
	case domain.ActionIgnoreRemote:
		h.logger.Info("Ignoring, session is remote")
	case domain.ActionIgnoreState:
		h.logger.Info("Ignoring non-zero state")
	}

	return action
}

// Ensure LockHandler implements domain.PowerEventHandler.
var _ domain.PowerEventHandler = (*LockHandler)(nil)
