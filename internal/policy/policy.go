// Package policy implements the lock decision for power events.
// The decision is a pure function of the payload state and the session type.
package policy

import "github.com/eliteGoblin/lidlock/internal/domain"

// TriggerState is the payload value both subscribed classes use for
// "condition is now in its triggering state" (lid closed / display off).
const TriggerState uint32 = 0

// Decide maps a decoded state and a live remote-session answer to an action.
//
// Remote sessions are never locked: lid and display events there are not a
// signal that the user physically walked away.
func Decide(state uint32, isRemote bool) domain.Action {
	if state != TriggerState {
		return domain.ActionIgnoreState
	}
	if isRemote {
		return domain.ActionIgnoreRemote
	}
	return domain.ActionLock
}
