// Package fixtures provides an in-memory power platform for integration tests.
package fixtures

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/eliteGoblin/lidlock/internal/domain"
	"github.com/eliteGoblin/lidlock/internal/policy"
	"github.com/eliteGoblin/lidlock/internal/power"
)

// FakePlatform implements power.Platform. Messages queued with Post are
// delivered through power.Router exactly as the window procedure would.
type FakePlatform struct {
	mu sync.Mutex

	Remote     bool
	LockResult bool
	LockCalls  int

	// FailClass makes Open fail for the class with this ID.
	FailClass string

	Subscribed []string
	Forwarded  []domain.Message
	Dispatched int

	queue  []domain.Message
	logger *zap.Logger
}

// NewFakePlatform creates a platform for a local session whose lock succeeds.
func NewFakePlatform(logger *zap.Logger) *FakePlatform {
	return &FakePlatform{LockResult: true, logger: logger}
}

// Post queues a message for the dispatch loop.
func (p *FakePlatform) Post(msgs ...domain.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, msgs...)
}

// PowerSettingMessage builds a WM_POWERBROADCAST/PBT_POWERSETTINGCHANGE message.
func PowerSettingMessage(class domain.NotificationClass, state uint32) domain.Message {
	return domain.Message{
		ID:      power.WMPowerBroadcast,
		WParam:  power.PBTPowerSettingChange,
		Payload: power.EncodePowerSetting(class.GUID, state),
	}
}

func (p *FakePlatform) IsRemote() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Remote
}

func (p *FakePlatform) Lock() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.LockCalls++
	return p.LockResult
}

// Locks returns how many times the lock primitive ran.
func (p *FakePlatform) Locks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.LockCalls
}

func (p *FakePlatform) Open(classes *policy.Registry, handler domain.PowerEventHandler) (domain.Receiver, error) {
	for _, c := range classes.GetAll() {
		if c.ID == p.FailClass {
			p.Subscribed = nil
			return nil, &SubscribeError{Class: c.ID}
		}
		p.Subscribed = append(p.Subscribed, c.ID)
	}
	return &fakeReceiver{platform: p, router: power.NewRouter(handler, p.logger)}, nil
}

func (p *FakePlatform) Close() error {
	return nil
}

// SubscribeError reports a refused subscription.
type SubscribeError struct {
	Class string
}

func (e *SubscribeError) Error() string {
	return "subscription refused for " + e.Class
}

type fakeReceiver struct {
	platform *FakePlatform
	router   *power.Router
}

// Run dispatches everything posted so far in order, then blocks until ctx is canceled.
func (r *fakeReceiver) Run(ctx context.Context) error {
	for {
		m, ok := r.next()
		if !ok {
			break
		}
		if _, handled := r.router.Route(m); !handled {
			r.platform.mu.Lock()
			r.platform.Forwarded = append(r.platform.Forwarded, m)
			r.platform.mu.Unlock()
		}
		r.platform.mu.Lock()
		r.platform.Dispatched++
		r.platform.mu.Unlock()
	}

	<-ctx.Done()
	return nil
}

func (r *fakeReceiver) next() (domain.Message, bool) {
	r.platform.mu.Lock()
	defer r.platform.mu.Unlock()
	if len(r.platform.queue) == 0 {
		return domain.Message{}, false
	}
	m := r.platform.queue[0]
	r.platform.queue = r.platform.queue[1:]
	return m, true
}

func (r *fakeReceiver) Close() error {
	return nil
}
