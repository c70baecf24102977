package ratelimit

import (
	"context"
	"time"
)

// SleepFunc pauses for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Pacer spaces out the steps of a sequential batch. The pause follows every
// step except the last one.
type Pacer struct {
	delay time.Duration
	sleep SleepFunc
}

// NewPacer creates a pacer that waits delay between steps
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay, sleep: Sleep}
}

// WithSleeper swaps the sleep implementation, which tests use to record pauses
func (p *Pacer) WithSleeper(sleep SleepFunc) *Pacer {
	return &Pacer{delay: p.delay, sleep: sleep}
}

// Delay returns the configured pause
func (p *Pacer) Delay() time.Duration {
	return p.delay
}

// After pauses following step index (0-based) of total. Nothing happens
// after the final step or when the delay is zero.
func (p *Pacer) After(ctx context.Context, index, total int) error {
	if index >= total-1 || p.delay <= 0 {
		return nil
	}
	return p.sleep(ctx, p.delay)
}

// Sleep waits for d or until ctx is cancelled
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
