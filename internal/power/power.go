// Package power binds the agent to the platform's power-event delivery.
//
// The message-level state machine (Router), payload decoding and the
// all-or-nothing subscription helper are platform independent. The Windows
// receiver is a message-only window fed by a GetMessage loop; the Linux
// receiver samples systemd-logind over D-Bus.
package power

import (
	"errors"

	"github.com/eliteGoblin/lidlock/internal/domain"
	"github.com/eliteGoblin/lidlock/internal/policy"
)

// ErrUnsupported is returned by NewPlatform where no power binding exists.
var ErrUnsupported = errors.New("power events are not supported on this platform")

// Platform bundles the OS bindings the agent depends on.
type Platform interface {
	domain.SessionInspector
	domain.SessionLocker

	// Open creates the receiving endpoint and subscribes it to every class in
	// classes. Either all subscriptions succeed or Open fails.
	// On Windows, Open and the returned Receiver's Run must be called from
	// the same locked OS thread.
	Open(classes *policy.Registry, handler domain.PowerEventHandler) (domain.Receiver, error)

	// Close releases platform connections.
	Close() error
}
