package power

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eliteGoblin/lidlock/internal/domain"
	"github.com/eliteGoblin/lidlock/internal/policy"
)

// scriptedLid replays readings, then repeats the last one.
type scriptedLid struct {
	mu       sync.Mutex
	readings []reading
	pos      int
}

type reading struct {
	closed bool
	err    error
}

func (s *scriptedLid) sample() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.readings[s.pos]
	if s.pos < len(s.readings)-1 {
		s.pos++
	}
	return r.closed, r.err
}

// syncHandler is a goroutine-safe recordingHandler.
type syncHandler struct {
	mu     sync.Mutex
	states []uint32
}

func (h *syncHandler) HandlePowerEvent(evt domain.PowerEvent) domain.Action {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.states = append(h.states, evt.State)
	return policy.Decide(evt.State, false)
}

func (h *syncHandler) snapshot() []uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]uint32(nil), h.states...)
}

func TestPollLid_EmitsOnTransitionsOnly(t *testing.T) {
	lid := &scriptedLid{readings: []reading{
		{closed: false},                  // baseline
		{closed: false},                  // unchanged
		{closed: true},                   // close -> 0
		{err: errors.New("bus timeout")}, // skipped
		{closed: true},                   // unchanged
		{closed: false},                  // open -> 1
	}}
	h := &syncHandler{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pollLid(ctx, time.Millisecond, lid.sample, h, zap.NewNop()) }()

	require.Eventually(t, func() bool { return len(h.snapshot()) == 2 }, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []uint32{0, 1}, h.snapshot())
}

func TestPollLid_StopsOnCancel(t *testing.T) {
	lid := &scriptedLid{readings: []reading{{closed: true}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pollLid(ctx, time.Hour, lid.sample, &syncHandler{}, zap.NewNop())
	assert.NoError(t, err)
}

func TestLidState(t *testing.T) {
	assert.Equal(t, uint32(0), lidState(true))
	assert.Equal(t, uint32(1), lidState(false))
}
