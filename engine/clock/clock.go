// Package clock gates scene updates to a minimum wall-clock interval independent of the display refresh rate.
package clock

import (
	"context"
	"sync"
	"time"
)

// DefaultMinFrameInterval is the default minimum time between two logical frames.
const DefaultMinFrameInterval = time.Second

// TimeSource supplies the current time. Tests inject a fake source to drive the gate deterministically.
type TimeSource interface {
	Now() time.Time
}

// SystemTimeSource reads the wall clock.
type SystemTimeSource struct{}

func (SystemTimeSource) Now() time.Time { return time.Now() }

// Frame describes one tick that passed the gate.
type Frame struct {
	// Now is the tick timestamp.
	Now time.Time

	// Seconds is the time elapsed since the clock started, in seconds. It drives the light orbit phase.
	Seconds float32

	// Count is the 1-based number of frames that have passed the gate.
	Count uint64
}

type clockImpl struct {
	mu *sync.Mutex

	source      TimeSource
	minInterval time.Duration

	start      time.Time
	lastRender time.Time
	rendered   bool
	count      uint64
}

// Clock decides which display ticks advance the scene.
type Clock interface {
	// Advance evaluates the gate for a tick at now. The tick passes iff no frame has passed yet or
	// now - lastRender >= MinFrameInterval; lastRender moves to now only when the tick passes.
	//
	// Parameters:
	//   - now: the tick timestamp
	//
	// Returns:
	//   - Frame: the frame data, valid only when the tick passed
	//   - bool: true if the scene should advance on this tick
	Advance(now time.Time) (Frame, bool)

	// Run is the scheduling loop. Every value received from refresh is one display tick stamped with the
	// time source; passing ticks call onFrame and the others call onSkip (which may be nil). Every tick
	// re-arms the loop regardless of the gate.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//   - refresh: the display refresh signal
	//   - onFrame: called for ticks that pass the gate
	//   - onSkip: called for ticks that do not
	//
	// Returns:
	//   - error: ctx.Err() on cancellation, nil when refresh is closed
	Run(ctx context.Context, refresh <-chan time.Time, onFrame func(Frame), onSkip func()) error

	// MinFrameInterval returns the gate interval.
	MinFrameInterval() time.Duration

	// SetMinFrameInterval changes the gate interval. Negative values are treated as zero.
	//
	// Parameters:
	//   - d: the new interval
	SetMinFrameInterval(d time.Duration)

	// LastRender returns the timestamp of the last passing tick.
	//
	// Returns:
	//   - time.Time: the timestamp
	//   - bool: false if no tick has passed yet
	LastRender() (time.Time, bool)

	// Source returns the clock's time source.
	Source() TimeSource
}

var _ Clock = &clockImpl{}

// NewClock creates a clock reading the system time with a one second gate. The start time is read from the
// source at construction.
//
// Parameters:
//   - options: functional options to configure the clock
//
// Returns:
//   - Clock: the new clock
func NewClock(options ...ClockBuilderOption) Clock {
	c := &clockImpl{
		mu:          &sync.Mutex{},
		source:      SystemTimeSource{},
		minInterval: DefaultMinFrameInterval,
	}
	for _, option := range options {
		option(c)
	}
	c.start = c.source.Now()
	return c
}

func (c *clockImpl) Advance(now time.Time) (Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rendered && now.Sub(c.lastRender) < c.minInterval {
		return Frame{}, false
	}
	c.rendered = true
	c.lastRender = now
	c.count++
	return Frame{
		Now:     now,
		Seconds: float32(now.Sub(c.start).Seconds()),
		Count:   c.count,
	}, true
}

func (c *clockImpl) Run(ctx context.Context, refresh <-chan time.Time, onFrame func(Frame), onSkip func()) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-refresh:
			if !ok {
				return nil
			}
			if frame, pass := c.Advance(c.source.Now()); pass {
				if onFrame != nil {
					onFrame(frame)
				}
			} else if onSkip != nil {
				onSkip()
			}
		}
	}
}

func (c *clockImpl) MinFrameInterval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.minInterval
}

func (c *clockImpl) SetMinFrameInterval(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.minInterval = max(d, 0)
}

func (c *clockImpl) LastRender() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRender, c.rendered
}

func (c *clockImpl) Source() TimeSource {
	return c.source
}
