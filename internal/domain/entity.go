// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import "fmt"

// GUID is a platform notification-class identifier in Windows memory layout.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// String formats the GUID in registry form, e.g. {BA3E0F4D-B817-4094-A2D1-D56379E6A0F3}.
func (g GUID) String() string {
	return fmt.Sprintf("{%08X-%04X-%04X-%02X%02X-%02X%02X%02X%02X%02X%02X}",
		g.Data1, g.Data2, g.Data3,
		g.Data4[0], g.Data4[1],
		g.Data4[2], g.Data4[3], g.Data4[4], g.Data4[5], g.Data4[6], g.Data4[7])
}

// NotificationClass identifies one power-setting subscription.
type NotificationClass struct {
	ID   string // Short identifier (e.g., "lid-switch")
	Name string // Human-readable name for logs
	GUID GUID   // Platform power-setting identifier
}

// PowerEvent is a decoded power-setting notification.
// Constructed per delivered message and consumed immediately.
type PowerEvent struct {
	Class GUID
	State uint32 // 0 means the monitored condition is in its triggering state
}

// Action is the outcome of the lock policy for one event.
type Action int

const (
	ActionIgnoreState Action = iota
	ActionIgnoreRemote
	ActionLock
	ActionIgnoreClass // payload arrived under a class we never subscribed to
)

// String returns a log-friendly name.
func (a Action) String() string {
	switch a {
	case ActionLock:
		return "lock"
	case ActionIgnoreRemote:
		return "ignore-remote"
	case ActionIgnoreState:
		return "ignore-state"
	case ActionIgnoreClass:
		return "ignore-class"
	default:
		return "unknown"
	}
}

// Message is one platform window message as seen by the receiver callback.
// Payload holds the bytes addressed by lParam when the message carries a structure.
type Message struct {
	ID      uint32
	WParam  uintptr
	LParam  uintptr
	Payload []byte
}

// Instance describes a running agent process (for status output).
type Instance struct {
	PID  int
	Name string
}
