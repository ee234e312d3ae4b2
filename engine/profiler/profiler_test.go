package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTickReportsOncePerInterval(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	var reports []Stats
	p := NewProfiler(
		WithInterval(time.Second),
		WithTimeSource(clk.now),
		WithLogging(false),
		WithReportCallback(func(s Stats) { reports = append(reports, s) }),
	)

	for range 3 {
		clk.advance(250 * time.Millisecond)
		assert.False(t, p.Tick(2*time.Millisecond))
	}
	clk.advance(250 * time.Millisecond)
	require.True(t, p.Tick(6*time.Millisecond))

	require.Len(t, reports, 1)
	s := p.Last()
	assert.Equal(t, reports[0], s)
	assert.Equal(t, 4, s.Frames)
	assert.InDelta(t, 4, s.FPS, 1e-9)
	assert.InDelta(t, 3, s.AvgFrameMs, 1e-9)
	assert.InDelta(t, 6, s.MaxFrameMs, 1e-9)
	assert.Positive(t, s.SysMB)
}

func TestTickRestartsCounters(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithInterval(100*time.Millisecond), WithTimeSource(clk.now), WithLogging(false))

	clk.advance(100 * time.Millisecond)
	require.True(t, p.Tick(10*time.Millisecond))

	clk.advance(50 * time.Millisecond)
	assert.False(t, p.Tick(time.Millisecond))
	clk.advance(50 * time.Millisecond)
	require.True(t, p.Tick(time.Millisecond))

	s := p.Last()
	assert.Equal(t, 2, s.Frames)
	assert.InDelta(t, 20, s.FPS, 1e-9)
	assert.InDelta(t, 1, s.MaxFrameMs, 1e-9, "the max resets with each report")
}

func TestLastBeforeFirstReport(t *testing.T) {
	p := NewProfiler(WithLogging(false))
	assert.Equal(t, Stats{}, p.Last())
}
