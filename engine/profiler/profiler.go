// Package profiler reports frame rate, render time and memory usage of the render loop.
package profiler

import (
	"log"
	"runtime"
	"sync"
	"time"
)

// Stats summarizes the frames rendered during one reporting interval.
type Stats struct {
	Frames     int
	FPS        float64
	AvgFrameMs float64
	MaxFrameMs float64
	HeapMB     float64
	AllocRate  float64
	GCCount    uint32
	SysMB      float64
}

// profilerImpl is the implementation of the Profiler interface.
type profilerImpl struct {
	mu *sync.Mutex

	interval   time.Duration
	now        func() time.Time
	logEnabled bool
	onReport   func(Stats)

	frameCount     int
	frameTotal     time.Duration
	frameMax       time.Duration
	lastTime       time.Time
	lastTotalAlloc uint64
	memStats       runtime.MemStats
	last           Stats
}

// Profiler tracks frame rate, render duration and memory statistics.
type Profiler interface {
	// Tick records one rendered frame. Once the interval has elapsed the accumulated stats are reported
	// and the counters restart.
	//
	// Parameters:
	//   - renderTime: how long the frame took to record and present
	//
	// Returns:
	//   - bool: true if stats were reported this tick
	Tick(renderTime time.Duration) bool

	// Last returns the stats of the most recent report.
	Last() Stats
}

var _ Profiler = &profilerImpl{}

// NewProfiler creates a Profiler that logs once per second.
//
// Parameters:
//   - options: variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - Profiler: the new profiler
func NewProfiler(options ...ProfilerBuilderOption) Profiler {
	p := &profilerImpl{
		mu:         &sync.Mutex{},
		interval:   time.Second,
		now:        time.Now,
		logEnabled: true,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

func (p *profilerImpl) Tick(renderTime time.Duration) bool {
	p.mu.Lock()
	p.frameCount++
	p.frameTotal += renderTime
	p.frameMax = max(p.frameMax, renderTime)

	current := p.now()
	elapsed := current.Sub(p.lastTime)
	if elapsed < p.interval {
		p.mu.Unlock()
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	stats := Stats{
		Frames:     p.frameCount,
		FPS:        float64(p.frameCount) / elapsed.Seconds(),
		AvgFrameMs: float64(p.frameTotal) / float64(p.frameCount) / float64(time.Millisecond),
		MaxFrameMs: float64(p.frameMax) / float64(time.Millisecond),
		HeapMB:     float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRate:  float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:    p.memStats.NumGC,
		SysMB:      float64(p.memStats.Sys) / 1024 / 1024,
	}

	p.frameCount = 0
	p.frameTotal = 0
	p.frameMax = 0
	p.lastTime = current
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.last = stats
	onReport, logEnabled := p.onReport, p.logEnabled
	p.mu.Unlock()

	if logEnabled {
		log.Printf("[Profiler] ms: %.2f (max %.2f) | fps: %.1f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d | Sys: %.2f MB",
			stats.AvgFrameMs, stats.MaxFrameMs, stats.FPS, stats.HeapMB, stats.AllocRate, stats.GCCount, stats.SysMB)
	}
	if onReport != nil {
		onReport(stats)
	}
	return true
}

func (p *profilerImpl) Last() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
