package daemon

import (
	"os"
	"os/exec"

	"github.com/eliteGoblin/lidlock/internal/config"
)

// StartDetached spawns a new agent process running in the background.
// The agent is detached from the parent process (runs independently).
func StartDetached(cfg config.Config) (int, error) {
	executable, err := os.Executable()
	if err != nil {
		return 0, err
	}

	cmd := agentCommand(executable, cfg)
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid

	// The child outlives us; don't keep its handle.
	_ = cmd.Process.Release()
	return pid, nil
}

// agentCommand builds the self-exec command for cfg.
func agentCommand(executable string, cfg config.Config) *exec.Cmd {
	cmd := exec.Command(executable, cfg.AgentArgs()...)
	cmd.SysProcAttr = detachedAttr()

	// No stdin/stdout/stderr - fully detached
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	return cmd
}
