// Package daemon implements the lid-lock agent lifecycle.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/eliteGoblin/lidlock/internal/config"
	"github.com/eliteGoblin/lidlock/internal/domain"
	"github.com/eliteGoblin/lidlock/internal/infra"
	"github.com/eliteGoblin/lidlock/internal/policy"
	"github.com/eliteGoblin/lidlock/internal/power"
	"github.com/eliteGoblin/lidlock/internal/singleton"
	"github.com/eliteGoblin/lidlock/internal/usecase"
)

// Acquirer takes the machine-wide singleton.
type Acquirer func(identifier string) (domain.InstanceGuard, error)

// PlatformFactory creates the OS power binding.
type PlatformFactory func(cfg config.Config, logger *zap.Logger) (power.Platform, error)

// Agent runs one lid-lock instance: singleton check, receiver construction,
// then the blocking dispatch loop.
type Agent struct {
	config         config.Config
	acquire        Acquirer
	newPlatform    PlatformFactory
	classes        *policy.Registry
	processManager domain.ProcessManager
	logger         *zap.Logger
}

// NewAgent creates an agent wired to the real platform.
func NewAgent(cfg config.Config, logger *zap.Logger) *Agent {
	return NewAgentWith(cfg, AcquireSingleton, power.NewPlatform,
		policy.NewRegistry(), infra.NewProcessManager(), logger)
}

// NewAgentWith creates an agent with custom collaborators (for testing).
func NewAgentWith(
	cfg config.Config,
	acquire Acquirer,
	newPlatform PlatformFactory,
	classes *policy.Registry,
	pm domain.ProcessManager,
	logger *zap.Logger,
) *Agent {
	return &Agent{
		config:         cfg,
		acquire:        acquire,
		newPlatform:    newPlatform,
		classes:        classes,
		processManager: pm,
		logger:         logger,
	}
}

// AcquireSingleton adapts singleton.Acquire to Acquirer.
func AcquireSingleton(identifier string) (domain.InstanceGuard, error) {
	g, err := singleton.Acquire(identifier)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Run blocks until ctx is canceled or the platform closes the event queue.
// Any startup failure is returned without entering the loop.
func (a *Agent) Run(ctx context.Context) error {
	// The Win32 window and its message queue belong to the creating thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	a.logger.Info("Main started")

	guard, err := a.acquire(singleton.Identifier)
	if err != nil {
		if errors.Is(err, singleton.ErrAlreadyRunning) {
			a.logger.Warn("Another instance is already running",
				zap.Ints("pids", a.otherInstances()))
		} else {
			a.logger.Error("failed to acquire singleton", zap.Error(err))
		}
		return err
	}
	defer func() { _ = guard.Release() }()

	platform, err := a.newPlatform(a.config, a.logger)
	if err != nil {
		a.logger.Error("failed to initialize power platform", zap.Error(err))
		return err
	}
	defer func() { _ = platform.Close() }()

	handler := usecase.NewLockHandler(a.classes, platform, platform, a.logger)

	receiver, err := platform.Open(a.classes, handler)
	if err != nil {
		a.logger.Error("failed to create event receiver", zap.Error(err))
		return fmt.Errorf("failed to create event receiver: %w", err)
	}
	defer func() { _ = receiver.Close() }()

	a.logger.Info("agent started",
		zap.Strings("classes", a.classes.List()),
		zap.Int("pid", a.processManager.GetCurrentPID()))

	return receiver.Run(ctx)
}

// otherInstances lists PIDs of running agent processes other than this one.
func (a *Agent) otherInstances() []int {
	pids, err := a.processManager.FindByName(config.AppName)
	if err != nil {
		a.logger.Debug("process lookup failed", zap.Error(err))
		return nil
	}

	self := a.processManager.GetCurrentPID()
	others := make([]int, 0, len(pids))
	for _, pid := range pids {
		if pid != self {
			others = append(others, pid)
		}
	}
	return others
}
