package driver

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTicker struct {
	n     atomic.Int64
	panic bool
}

func (c *countingTicker) Tick() {
	c.n.Add(1)
	if c.panic {
		panic("boom")
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func runDriver(t *testing.T, d *Driver) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.True(t, errors.Is(err, context.Canceled))
		case <-time.After(time.Second):
			t.Error("Run did not return after cancel")
		}
	})
	return cancel
}

func TestSetIntervalClamps(t *testing.T) {
	d := New(&countingTicker{}, 0, quietLogger())
	assert.Equal(t, DefaultInterval, d.Interval())

	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{10 * time.Millisecond, MinInterval},
		{750 * time.Millisecond, 750 * time.Millisecond},
		{5 * time.Second, MaxInterval},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, d.SetInterval(tt.in))
		assert.Equal(t, tt.want, d.Interval())
	}
}

func TestDriverDoesNotTickUntilStarted(t *testing.T) {
	target := &countingTicker{}
	d := New(target, MinInterval, quietLogger())
	runDriver(t, d)

	time.Sleep(3 * MinInterval)
	assert.Zero(t, target.n.Load())
	assert.False(t, d.Started())
}

func TestDriverTicksWhileStarted(t *testing.T) {
	target := &countingTicker{}
	d := New(target, MinInterval, quietLogger())
	d.Start()
	runDriver(t, d)

	require.Eventually(t, func() bool { return target.n.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	d.Pause()
	time.Sleep(2 * MinInterval)
	paused := target.n.Load()
	time.Sleep(3 * MinInterval)
	assert.Equal(t, paused, target.n.Load(), "ticks advanced while paused")

	d.Resume()
	require.Eventually(t, func() bool { return target.n.Load() > paused }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, uint64(target.n.Load()), d.Ticks())
}

func TestDriverSurvivesPanickingTick(t *testing.T) {
	target := &countingTicker{panic: true}
	d := New(target, MinInterval, quietLogger())
	d.Start()
	runDriver(t, d)

	require.Eventually(t, func() bool { return target.n.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestRunStopsOnCancel(t *testing.T) {
	d := New(&countingTicker{}, MaxInterval, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
