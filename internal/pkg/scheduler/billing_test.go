package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChargeGenerator struct {
	calls   []time.Time
	created int
	err     error
}

func (f *fakeChargeGenerator) GenerateSubscriptionCharges(period time.Time) (int, error) {
	f.calls = append(f.calls, period)
	return f.created, f.err
}

func TestBillingTickOnlyFiresOnFirstOfMonth(t *testing.T) {
	gen := &fakeChargeGenerator{created: 3}
	s := NewBillingScheduler(gen)

	s.SetClock(func() time.Time { return time.Date(2024, 6, 15, 0, 10, 0, 0, time.UTC) })
	s.Tick()
	assert.Empty(t, gen.calls)

	s.SetClock(func() time.Time { return time.Date(2024, 7, 1, 0, 10, 0, 0, time.UTC) })
	s.Tick()
	require.Len(t, gen.calls, 1)
	assert.Equal(t, time.July, gen.calls[0].Month())
}

func TestBillingRunNowBypassesDayGuard(t *testing.T) {
	gen := &fakeChargeGenerator{created: 2}
	s := NewBillingScheduler(gen)
	s.SetClock(func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) })

	created, err := s.RunNow()
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	require.Len(t, gen.calls, 1)
}

func TestBillingRunNowPropagatesError(t *testing.T) {
	gen := &fakeChargeGenerator{err: errors.New("db down")}
	s := NewBillingScheduler(gen)

	_, err := s.RunNow()
	assert.Error(t, err)
}

func TestBillingTickSwallowsGeneratorError(t *testing.T) {
	gen := &fakeChargeGenerator{err: errors.New("db down")}
	s := NewBillingScheduler(gen)
	s.SetClock(func() time.Time { return time.Date(2024, 7, 1, 0, 10, 0, 0, time.UTC) })

	// Must not panic; the next tick retries.
	s.Tick()
	require.Len(t, gen.calls, 1)
}

func TestBillingSchedulerStartStop(t *testing.T) {
	gen := &fakeChargeGenerator{}
	s := NewBillingScheduler(gen)
	// Keep the startup pass a no-op.
	s.SetClock(func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) })

	assert.False(t, s.IsRunning())
	s.Start()
	assert.True(t, s.IsRunning())
	s.Start()
	assert.True(t, s.IsRunning())
	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
	assert.False(t, s.IsRunning())
}
