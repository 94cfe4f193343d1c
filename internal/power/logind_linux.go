//go:build linux

package power

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/eliteGoblin/lidlock/internal/config"
	"github.com/eliteGoblin/lidlock/internal/domain"
	"github.com/eliteGoblin/lidlock/internal/policy"
)

const (
	login1Dest        = "org.freedesktop.login1"
	login1Path        = dbus.ObjectPath("/org/freedesktop/login1")
	managerInterface  = "org.freedesktop.login1.Manager"
	sessionInterface  = "org.freedesktop.login1.Session"
	propLidClosed     = managerInterface + ".LidClosed"
	propSessionRemote = sessionInterface + ".Remote"
)

type logindPlatform struct {
	conn     *dbus.Conn
	manager  dbus.BusObject
	session  dbus.BusObject
	interval time.Duration
	logger   *zap.Logger
}

// NewPlatform connects to systemd-logind [org.freedesktop.login1] for the
// caller's session.
//
// [org.freedesktop.login1]: https://www.freedesktop.org/software/systemd/man/latest/org.freedesktop.login1.html
func NewPlatform(cfg config.Config, logger *zap.Logger) (Platform, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}

	manager := conn.Object(login1Dest, login1Path)
	sessionPath, err := findSession(manager)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = config.DefaultConfig().PollInterval
	}

	return &logindPlatform{
		conn:     conn,
		manager:  manager,
		session:  conn.Object(login1Dest, sessionPath),
		interval: interval,
		logger:   logger,
	}, nil
}

// findSession resolves XDG_SESSION_ID, falling back to the session owning this PID.
func findSession(manager dbus.BusObject) (dbus.ObjectPath, error) {
	var path dbus.ObjectPath

	if id := os.Getenv("XDG_SESSION_ID"); id != "" {
		if err := manager.Call(managerInterface+".GetSession", 0, id).Store(&path); err != nil {
			return "", fmt.Errorf("failed to find session %s: %w", id, err)
		}
		return path, nil
	}

	if err := manager.Call(managerInterface+".GetSessionByPID", 0, uint32(os.Getpid())).Store(&path); err != nil {
		return "", fmt.Errorf("failed to find session for pid %d: %w", os.Getpid(), err)
	}
	return path, nil
}

// IsRemote reads the session's Remote property on every call.
// An unreadable property counts as a local session.
func (p *logindPlatform) IsRemote() bool {
	v, err := p.session.GetProperty(propSessionRemote)
	if err != nil {
		p.logger.Warn("failed to read session Remote property", zap.Error(err))
		return false
	}
	remote, ok := v.Value().(bool)
	return ok && remote
}

// Lock asks logind to lock the session.
func (p *logindPlatform) Lock() bool {
	if err := p.session.Call(sessionInterface+".Lock", 0).Err; err != nil {
		p.logger.Warn("logind Lock call failed", zap.Error(err))
		return false
	}
	return true
}

func (p *logindPlatform) lidClosed() (bool, error) {
	v, err := p.manager.GetProperty(propLidClosed)
	if err != nil {
		return false, fmt.Errorf("could not get LidClosed: %w", err)
	}
	closed, ok := v.Value().(bool)
	if !ok {
		return false, errors.New("LidClosed property result is not a boolean")
	}
	return closed, nil
}

func (p *logindPlatform) Open(classes *policy.Registry, handler domain.PowerEventHandler) (domain.Receiver, error) {
	_, err := subscribeAll(classes.GetAll(), func(c domain.NotificationClass) (func() error, error) {
		switch c.GUID {
		case policy.LidSwitchStateChange.GUID:
			_, err := p.lidClosed()
			return noopUnregister, err
		case policy.MonitorPowerOn.GUID:
			p.logger.Debug("logind has no display power signal", zap.String("class", c.ID))
			return noopUnregister, nil
		default:
			return nil, fmt.Errorf("no logind source for %s", c.GUID)
		}
	}, p.logger)
	if err != nil {
		return nil, err
	}

	return &logindReceiver{platform: p, handler: handler}, nil
}

func (p *logindPlatform) Close() error {
	return p.conn.Close()
}

func noopUnregister() error { return nil }

// logindReceiver polls LidClosed and feeds transitions to the handler.
type logindReceiver struct {
	platform *logindPlatform
	handler  domain.PowerEventHandler
}

func (r *logindReceiver) Run(ctx context.Context) error {
	r.platform.logger.Info("Starting message loop", zap.Duration("poll_interval", r.platform.interval))
	return pollLid(ctx, r.platform.interval, r.platform.lidClosed, r.handler, r.platform.logger)
}

func (r *logindReceiver) Close() error {
	return nil
}

// Ensure logindReceiver implements domain.Receiver.
var _ domain.Receiver = (*logindReceiver)(nil)
