// Package infra implements infrastructure concerns (process lookup, autostart).
package infra

import (
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/lidlock/internal/domain"
)

// ProcessManagerImpl implements domain.ProcessManager using gopsutil.
type ProcessManagerImpl struct{}

// NewProcessManager creates a new process manager.
func NewProcessManager() domain.ProcessManager {
	return &ProcessManagerImpl{}
}

// FindByName returns PIDs of processes matching the pattern (case-insensitive).
// A trailing ".exe" on the process name is ignored.
func (pm *ProcessManagerImpl) FindByName(pattern string) ([]int, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	var found []int
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue // Process may have exited
		}
		if MatchesName(name, pattern) {
			found = append(found, int(p.Pid))
		}
	}

	return found, nil
}

// MatchesName reports whether a process name matches pattern.
func MatchesName(name, pattern string) bool {
	name = strings.TrimSuffix(strings.ToLower(name), ".exe")
	return name == strings.ToLower(pattern)
}

// IsRunning checks if a PID exists and is running.
func (pm *ProcessManagerImpl) IsRunning(pid int) bool {
	exists, err := process.PidExists(int32(pid))
	return err == nil && exists
}

// GetCurrentPID returns the current process PID.
func (pm *ProcessManagerImpl) GetCurrentPID() int {
	return os.Getpid()
}

// Ensure ProcessManagerImpl implements domain.ProcessManager.
var _ domain.ProcessManager = (*ProcessManagerImpl)(nil)
