package domain

import "context"

// SessionInspector answers questions about the current interactive session.
// Implementations must query the platform fresh on every call.
type SessionInspector interface {
	// IsRemote reports whether the session is a remote/redirected session.
	IsRemote() bool
}

// SessionLocker locks the current interactive session.
type SessionLocker interface {
	// Lock invokes the platform session-lock primitive.
	// Returns true when the platform reported success.
	Lock() bool
}

// PowerEventHandler consumes decoded power events.
type PowerEventHandler interface {
	// HandlePowerEvent applies the lock policy to one event and returns the action taken.
	HandlePowerEvent(evt PowerEvent) Action
}

// Receiver is the subscription endpoint for power notifications.
// Implementation: message-only window on Windows, logind poller on Linux.
type Receiver interface {
	// Run pumps platform events into the handler until ctx is canceled
	// or the platform closes the queue. Blocks.
	Run(ctx context.Context) error

	// Close releases subscriptions and the endpoint.
	Close() error
}

// InstanceGuard is the held system-wide singleton token.
type InstanceGuard interface {
	// Identifier returns the well-known global name of the guard.
	Identifier() string

	// Release gives up ownership. Safe to call more than once.
	Release() error
}

// ProcessManager handles OS process lookups.
// Implementation: uses gopsutil for cross-platform support.
type ProcessManager interface {
	// FindByName returns PIDs of processes matching the pattern.
	FindByName(pattern string) ([]int, error)

	// IsRunning checks if a PID exists and is running.
	IsRunning(pid int) bool

	// GetCurrentPID returns the current process PID.
	GetCurrentPID() int
}

// AutostartManager handles start-on-login registration.
type AutostartManager interface {
	// Install registers execPath (with args) to run on login.
	Install(execPath string, args []string) error

	// Uninstall removes the registration.
	Uninstall() error

	// IsInstalled checks whether the registration exists.
	IsInstalled() bool

	// Location describes where the registration lives (for status output).
	Location() string
}
