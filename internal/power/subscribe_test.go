package power

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eliteGoblin/lidlock/internal/domain"
	"github.com/eliteGoblin/lidlock/internal/policy"
)

// fakeRegistrar records registrations and fails for selected classes.
type fakeRegistrar struct {
	failFor    map[string]error
	attempted  []string
	registered map[string]bool
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{
		failFor:    make(map[string]error),
		registered: make(map[string]bool),
	}
}

func (f *fakeRegistrar) register(c domain.NotificationClass) (func() error, error) {
	f.attempted = append(f.attempted, c.ID)
	if err := f.failFor[c.ID]; err != nil {
		return nil, err
	}
	f.registered[c.ID] = true
	return func() error {
		delete(f.registered, c.ID)
		return nil
	}, nil
}

func TestSubscribeAll_BothSucceed(t *testing.T) {
	f := newFakeRegistrar()

	release, err := subscribeAll(policy.NewRegistry().GetAll(), f.register, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"monitor-power-on", "lid-switch"}, f.attempted)
	assert.Len(t, f.registered, 2)

	require.NoError(t, release())
	assert.Empty(t, f.registered)
}

func TestSubscribeAll_SecondFailureRollsBackFirst(t *testing.T) {
	f := newFakeRegistrar()
	denied := errors.New("access denied")
	f.failFor["lid-switch"] = denied

	release, err := subscribeAll(policy.NewRegistry().GetAll(), f.register, zap.NewNop())

	assert.Nil(t, release)
	require.Error(t, err)
	assert.ErrorIs(t, err, denied)
	assert.Contains(t, err.Error(), "lid-switch")
	assert.Empty(t, f.registered, "partial subscription must not survive")
}

func TestSubscribeAll_FirstFailureStillAttemptsSecond(t *testing.T) {
	f := newFakeRegistrar()
	f.failFor["monitor-power-on"] = errors.New("boom")

	_, err := subscribeAll(policy.NewRegistry().GetAll(), f.register, zap.NewNop())

	require.Error(t, err)
	assert.Equal(t, []string{"monitor-power-on", "lid-switch"}, f.attempted)
	assert.Empty(t, f.registered)
}
