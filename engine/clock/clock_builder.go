package clock

import "time"

// ClockBuilderOption is a functional option for configuring a Clock.
type ClockBuilderOption func(*clockImpl)

// WithTimeSource replaces the system time source.
//
// Parameters:
//   - source: the time source
//
// Returns:
//   - ClockBuilderOption: a function that sets the time source
func WithTimeSource(source TimeSource) ClockBuilderOption {
	return func(c *clockImpl) {
		if source != nil {
			c.source = source
		}
	}
}

// WithMinFrameInterval sets the minimum time between logical frames. Zero passes every tick.
//
// Parameters:
//   - d: the interval
//
// Returns:
//   - ClockBuilderOption: a function that sets the interval
func WithMinFrameInterval(d time.Duration) ClockBuilderOption {
	return func(c *clockImpl) {
		c.minInterval = max(d, 0)
	}
}
