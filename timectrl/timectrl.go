package timectrl

import (
	"context"
	"sync"
	"time"
)

// FrameClock measures the wall-clock delta between consecutive frames, the
// way a render loop would. It reports the raw delta; clamping and the
// zero/negative fallback are the engine's job.
type FrameClock struct {
	now  func() time.Time
	last time.Time
}

// NewFrameClock constructs a clock reading time.Now.
func NewFrameClock() *FrameClock {
	return &FrameClock{now: time.Now}
}

// NewFrameClockWithNow constructs a clock with an injected time source,
// for tests.
func NewFrameClockWithNow(now func() time.Time) *FrameClock {
	return &FrameClock{now: now}
}

// Delta returns the seconds elapsed since the previous call and restarts
// the measurement. The first call returns 0, which downstream handling
// treats the same as a stalled clock.
func (c *FrameClock) Delta() float64 {
	t := c.now()
	if c.last.IsZero() {
		c.last = t
		return 0
	}
	d := t.Sub(c.last).Seconds()
	c.last = t
	return d
}

// Mode describes how the Driver advances simulation time.
type Mode int

const (
	// RealTime steps once per tick interval of wall-clock time.
	RealTime Mode = iota
	// Accelerated steps as fast as the loop can run, still advancing the
	// simulation by the fixed tick each step.
	Accelerated
)

// Driver steps a simulation at a fixed tick interval. Listeners run on the
// driver's goroutine, one after the other, so a listener that owns the
// engine keeps exclusive access to it.
type Driver struct {
	mu      sync.RWMutex
	tick    time.Duration
	mode    Mode
	elapsed time.Duration

	listeners []func(dt float64)
}

// NewDriver constructs a driver stepping by tick in the given mode.
func NewDriver(tick time.Duration, mode Mode) *Driver {
	if tick <= 0 {
		tick = time.Second / 60
	}
	return &Driver{tick: tick, mode: mode}
}

// AddListener registers a callback invoked with the tick's dt (seconds) on
// every step. Must be called before Start.
func (d *Driver) AddListener(fn func(dt float64)) {
	d.listeners = append(d.listeners, fn)
}

// Elapsed returns the simulated time advanced so far.
func (d *Driver) Elapsed() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.elapsed
}

// Start runs the driver in a separate goroutine until the simulated
// duration has elapsed or ctx is cancelled. A duration of zero or less
// runs until cancellation. The returned channel closes when the driver
// finishes.
func (d *Driver) Start(ctx context.Context, duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		dt := d.tick.Seconds()

		var ticker *time.Ticker
		if d.mode == RealTime {
			ticker = time.NewTicker(d.tick)
			defer ticker.Stop()
		}

		for elapsed := time.Duration(0); duration <= 0 || elapsed < duration; {
			if ticker != nil {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			} else if ctx.Err() != nil {
				return
			}

			elapsed += d.tick
			d.mu.Lock()
			d.elapsed = elapsed
			d.mu.Unlock()

			for _, fn := range d.listeners {
				fn(dt)
			}
		}
	}()
	return done
}
