package circuit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errRelay = errors.New("relay unavailable")

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(cfg Config) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := NewBreaker("smtp", cfg, zap.NewNop())
	b.now = clock.now
	return b, clock
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker(Config{Threshold: 3, Timeout: time.Minute, SuccessThreshold: 1, MaxHalfOpen: 1})

	for i := 0; i < 2; i++ {
		b.Record(errRelay)
	}
	assert.Equal(t, StateClosed, b.State())

	b.Record(errRelay)
	assert.Equal(t, StateOpen, b.State())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b, _ := newTestBreaker(Config{Threshold: 2, Timeout: time.Minute, SuccessThreshold: 1, MaxHalfOpen: 1})

	b.Record(errRelay)
	b.Record(nil)
	b.Record(errRelay)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	b, clock := newTestBreaker(Config{Threshold: 1, Timeout: time.Minute, SuccessThreshold: 2, MaxHalfOpen: 1})

	b.Record(errRelay)
	require.Equal(t, StateOpen, b.State())

	clock.advance(time.Minute)
	require.NoError(t, b.Allow())
	assert.Equal(t, StateHalfOpen, b.State())
	assert.ErrorIs(t, b.Allow(), ErrTooManyRequests)

	b.Record(nil)
	assert.Equal(t, StateHalfOpen, b.State())
	require.NoError(t, b.Allow())
	b.Record(nil)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b, clock := newTestBreaker(Config{Threshold: 1, Timeout: time.Minute, SuccessThreshold: 1, MaxHalfOpen: 1})

	b.Record(errRelay)
	clock.advance(2 * time.Minute)
	require.NoError(t, b.Allow())
	b.Record(errRelay)

	assert.Equal(t, StateOpen, b.State())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
}

func TestBreaker_Execute(t *testing.T) {
	b, _ := newTestBreaker(Config{Threshold: 1, Timeout: time.Minute, SuccessThreshold: 1, MaxHalfOpen: 1})
	ctx := context.Background()

	calls := 0
	err := b.Execute(ctx, func(context.Context) error { calls++; return errRelay })
	assert.ErrorIs(t, err, errRelay)

	err = b.Execute(ctx, func(context.Context) error { calls++; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 1, calls)
}

func TestBreaker_CancelledContextNotCounted(t *testing.T) {
	b, _ := newTestBreaker(Config{Threshold: 1, Timeout: time.Minute, SuccessThreshold: 1, MaxHalfOpen: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Execute(ctx, func(ctx context.Context) error { return ctx.Err() })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_Reset(t *testing.T) {
	b, _ := newTestBreaker(Config{Threshold: 1, Timeout: time.Hour, SuccessThreshold: 1, MaxHalfOpen: 1})
	b.Record(errRelay)
	require.Equal(t, StateOpen, b.State())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.NoError(t, b.Allow())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(Config{Threshold: 1, Timeout: time.Hour, SuccessThreshold: 1, MaxHalfOpen: 1}, nil)

	email := r.GetOrCreate("email")
	assert.Same(t, email, r.GetOrCreate("email"))
	r.GetOrCreate("sms")

	email.Record(errRelay)
	assert.Equal(t, []string{"email"}, r.Open())
	assert.Len(t, r.Snapshots(), 2)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "CLOSED", StateClosed.String())
	assert.Equal(t, "OPEN", StateOpen.String())
	assert.Equal(t, "HALF_OPEN", StateHalfOpen.String())
	assert.Equal(t, "UNKNOWN", State(9).String())
}
