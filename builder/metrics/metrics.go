// Package metrics provides build performance tracking.
package metrics

import (
	"fmt"
	"time"
)

// BuildMetrics tracks performance data during the build process.
type BuildMetrics struct {
	// Timing
	StartTime  time.Time
	EndTime    time.Time
	AssetTime  time.Duration
	LoadTime   time.Duration
	RenderTime time.Duration
	SyncTime   time.Duration

	// Counters
	PostsProcessed int
	PagesRendered  int
	FilesWritten   int64
	FilesSynced    int
	CacheHits      int64
	CacheMisses    int64
}

// NewBuildMetrics creates a new metrics instance.
func NewBuildMetrics() *BuildMetrics {
	return &BuildMetrics{
		StartTime: time.Now(),
	}
}

// RecordStart marks the start of a build.
func (m *BuildMetrics) RecordStart() {
	m.StartTime = time.Now()
}

// RecordEnd marks the end of the build.
func (m *BuildMetrics) RecordEnd() {
	m.EndTime = time.Now()
}

// Track returns a func that adds the time elapsed since the call to d.
//
//	defer m.Track(&m.RenderTime)()
func (m *BuildMetrics) Track(d *time.Duration) func() {
	start := time.Now()
	return func() { *d += time.Since(start) }
}

// TotalDuration returns the total build duration.
func (m *BuildMetrics) TotalDuration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// CacheHitRate returns the math cache hit percentage.
func (m *BuildMetrics) CacheHitRate() float64 {
	total := m.CacheHits + m.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(m.CacheHits) / float64(total) * 100
}

// RecordCache copies math memo counters taken from the cache.
func (m *BuildMetrics) RecordCache(hits, misses int64) {
	m.CacheHits = hits
	m.CacheMisses = misses
}

// String returns a single-line summary of the build.
func (m *BuildMetrics) String() string {
	return fmt.Sprintf("📊 Built %d pages (%d posts) in %v (math cache: %d/%d hits, %.0f%%)\n",
		m.PagesRendered,
		m.PostsProcessed,
		m.TotalDuration().Round(time.Millisecond),
		m.CacheHits,
		m.CacheHits+m.CacheMisses,
		m.CacheHitRate(),
	)
}

// Phases returns the per-phase timing line printed in verbose mode.
func (m *BuildMetrics) Phases() string {
	return fmt.Sprintf("   assets %v, load %v, render %v, sync %v (%d written, %d synced)",
		m.AssetTime.Round(time.Millisecond),
		m.LoadTime.Round(time.Millisecond),
		m.RenderTime.Round(time.Millisecond),
		m.SyncTime.Round(time.Millisecond),
		m.FilesWritten,
		m.FilesSynced,
	)
}

// Print outputs the metrics to stdout.
func (m *BuildMetrics) Print() {
	fmt.Print(m.String())
}
