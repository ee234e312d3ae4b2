package profiler

import "time"

// ProfilerBuilderOption is a functional option for configuring a Profiler via NewProfiler.
type ProfilerBuilderOption func(*profilerImpl)

// WithInterval sets how often stats are reported. Defaults to one second.
//
// Parameters:
//   - d: the reporting interval
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval option to a profiler
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *profilerImpl) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithTimeSource replaces time.Now, for tests.
func WithTimeSource(now func() time.Time) ProfilerBuilderOption {
	return func(p *profilerImpl) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLogging sets whether reports are written to the log. Defaults to true.
func WithLogging(enabled bool) ProfilerBuilderOption {
	return func(p *profilerImpl) {
		p.logEnabled = enabled
	}
}

// WithReportCallback registers a function receiving every report.
//
// Parameters:
//   - callback: called after each report, outside the profiler's lock
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the callback option to a profiler
func WithReportCallback(callback func(Stats)) ProfilerBuilderOption {
	return func(p *profilerImpl) {
		p.onReport = callback
	}
}
