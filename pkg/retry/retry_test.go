package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "igfetch/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noWait(recorded *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*recorded = append(*recorded, d)
		return nil
	}
}

func TestExponentialBackoff(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   1 * time.Second,
		Multiplier: 2.0,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 0},
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, 1 * time.Second},
		{9, 1 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, backoff.NextDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestExponentialBackoffJitterStaysInBounds(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.3,
	}

	for i := 0; i < 50; i++ {
		d := backoff.NextDelay(2)
		assert.GreaterOrEqual(t, d, 140*time.Millisecond)
		assert.LessOrEqual(t, d, 260*time.Millisecond)
	}
}

func TestDoRetriesTransientErrors(t *testing.T) {
	var waits []time.Duration
	attempts := 0

	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return &errs.Error{Type: errs.ErrorTypeServerError, Message: "server error", Code: 502}
		}
		return nil
	}, &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: 10 * time.Millisecond},
		Wait:        noWait(&waits),
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 10 * time.Millisecond}, waits)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	var waits []time.Duration
	attempts := 0
	notFound := &errs.Error{Type: errs.ErrorTypeNotFound, Message: "post not found", Code: 404}

	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return notFound
	}, &Config{MaxAttempts: 3, Wait: noWait(&waits)})

	assert.Same(t, notFound, err)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, waits)
}

func TestDoDoesNotRetryUntypedErrors(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("boom")
	}, &Config{MaxAttempts: 5, Wait: func(context.Context, time.Duration) error { return nil }})

	assert.EqualError(t, err, "boom")
	assert.Equal(t, 1, attempts)
}

func TestDoReturnsLastErrorWhenExhausted(t *testing.T) {
	var waits []time.Duration
	attempts := 0

	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return &errs.Error{Type: errs.ErrorTypeNetwork, Message: "connection reset"}
	}, &Config{MaxAttempts: 3, Backoff: &ConstantBackoff{Delay: time.Millisecond}, Wait: noWait(&waits)})

	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeNetwork, errs.TypeOf(err))
	assert.Equal(t, 3, attempts)
	assert.Len(t, waits, 2)
}

func TestDoUsesPerTypeBackoff(t *testing.T) {
	var waits []time.Duration
	perType := &ErrorTypeBackoff{
		Network:   &ConstantBackoff{Delay: time.Second},
		RateLimit: &ConstantBackoff{Delay: time.Minute},
		Server:    &ConstantBackoff{Delay: 2 * time.Second},
		Default:   &ConstantBackoff{Delay: 0},
	}

	attempts := 0
	_ = Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return &errs.Error{Type: errs.ErrorTypeRateLimit, Code: 429}
		}
		return &errs.Error{Type: errs.ErrorTypeNetwork}
	}, &Config{MaxAttempts: 3, PerType: perType, Wait: noWait(&waits)})

	assert.Equal(t, []time.Duration{time.Minute, time.Second}, waits)
}

func TestDoCancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, func(ctx context.Context) error {
		return &errs.Error{Type: errs.ErrorTypeNetwork}
	}, &Config{MaxAttempts: 3, Backoff: &ConstantBackoff{Delay: time.Hour}})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoWithResult(t *testing.T) {
	attempts := 0
	got, err := DoWithResult(context.Background(), func(ctx context.Context) (string, error) {
		attempts++
		if attempts == 1 {
			return "", &errs.Error{Type: errs.ErrorTypeServerError, Code: 503}
		}
		return "ok", nil
	}, &Config{MaxAttempts: 2, Wait: func(context.Context, time.Duration) error { return nil }})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}
