package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacerSkipsLastStep(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)
	pacer := NewPacer(2 * time.Second).WithSleeper(clock.Sleep)

	total := 4
	for i := 0; i < total; i++ {
		require.NoError(t, pacer.After(context.Background(), i, total))
	}

	assert.Len(t, clock.Sleeps(), total-1)
	assert.Equal(t, start.Add(6*time.Second), clock.Now())
}

func TestPacerSingleStepNeverSleeps(t *testing.T) {
	clock := NewFakeClock(time.Now())
	pacer := NewPacer(time.Second).WithSleeper(clock.Sleep)

	require.NoError(t, pacer.After(context.Background(), 0, 1))
	assert.Empty(t, clock.Sleeps())
}

func TestPacerZeroDelay(t *testing.T) {
	clock := NewFakeClock(time.Now())
	pacer := NewPacer(0).WithSleeper(clock.Sleep)

	require.NoError(t, pacer.After(context.Background(), 0, 3))
	assert.Empty(t, clock.Sleeps())
	assert.Equal(t, time.Duration(0), pacer.Delay())
}

func TestSleepHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSleepWaits(t *testing.T) {
	start := time.Now()
	require.NoError(t, Sleep(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
