// Package driver advances the game on a timer.
package driver

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snakecast/internal/core"
)

// Tick interval bounds.
const (
	MinInterval     = 100 * time.Millisecond
	MaxInterval     = 2 * time.Second
	DefaultInterval = 500 * time.Millisecond
)

// Ticker is anything that can be advanced one step.
type Ticker interface {
	Tick()
}

// Driver calls Tick on its target every interval while started.
type Driver struct {
	target   Ticker
	logger   *log.Logger
	started  atomic.Bool
	interval atomic.Int64
	ticks    atomic.Uint64
}

// New creates a stopped driver. A zero interval selects DefaultInterval.
func New(target Ticker, interval time.Duration, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.Default()
	}
	d := &Driver{target: target, logger: logger}
	if interval <= 0 {
		interval = DefaultInterval
	}
	d.SetInterval(interval)
	return d
}

// Start allows ticking.
func (d *Driver) Start() { d.started.Store(true) }

// Pause stops ticking until Resume or Start.
func (d *Driver) Pause() { d.started.Store(false) }

// Resume allows ticking again.
func (d *Driver) Resume() { d.started.Store(true) }

// Started reports whether the driver is ticking.
func (d *Driver) Started() bool { return d.started.Load() }

// Ticks returns how many ticks the driver has issued.
func (d *Driver) Ticks() uint64 { return d.ticks.Load() }

// SetInterval clamps and stores the tick interval. The new value applies
// from the next wait. Returns the clamped interval.
func (d *Driver) SetInterval(interval time.Duration) time.Duration {
	clamped := core.ClampDuration(interval, MinInterval, MaxInterval)
	d.interval.Store(int64(clamped))
	return clamped
}

// Interval returns the current tick interval.
func (d *Driver) Interval() time.Duration {
	return time.Duration(d.interval.Load())
}

// Run blocks, ticking the target until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	timer := time.NewTimer(d.Interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if d.Started() {
				d.tick()
			}
			timer.Reset(d.Interval())
		}
	}
}

func (d *Driver) tick() {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tick panicked", "panic", r)
		}
	}()
	d.ticks.Add(1)
	d.target.Tick()
}
