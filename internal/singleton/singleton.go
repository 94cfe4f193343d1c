// Package singleton guarantees one agent instance per machine.
//
// On Windows the guard is a named kernel mutex in the Global namespace; on
// other platforms it is an flock'ed file in the temp directory. Either way the
// OS releases it when the process exits.
package singleton

import (
	"errors"
	"sync"

	"github.com/eliteGoblin/lidlock/internal/domain"
)

// Identifier is the fixed, versioned machine-wide name of the agent guard.
const Identifier = `Global\{3DA16D16-5F02-4CFD-8C43-11C31127889D}`

// ErrAlreadyRunning means another process created the guard first.
var ErrAlreadyRunning = errors.New("application instance already exists")

// Guard is a held singleton token. Keep it alive for the process lifetime.
type Guard struct {
	identifier string
	release    func() error
	once       sync.Once
	err        error
}

// Acquire creates the named guard. It returns ErrAlreadyRunning when the
// guard already exists, and a wrapped OS error for any other failure.
func Acquire(identifier string) (*Guard, error) {
	release, err := acquire(identifier)
	if err != nil {
		return nil, err
	}
	return &Guard{identifier: identifier, release: release}, nil
}

// Identifier returns the guard's global name.
func (g *Guard) Identifier() string {
	return g.identifier
}

// Release gives up ownership. Safe to call multiple times.
func (g *Guard) Release() error {
	g.once.Do(func() {
		g.err = g.release()
	})
	return g.err
}

// Probe reports whether some process currently holds identifier.
// The probe's own temporary hold is released before returning.
func Probe(identifier string) (bool, error) {
	g, err := Acquire(identifier)
	if errors.Is(err, ErrAlreadyRunning) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, g.Release()
}

// Ensure Guard implements domain.InstanceGuard.
var _ domain.InstanceGuard = (*Guard)(nil)
