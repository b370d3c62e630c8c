package metrics

import (
	"strings"
	"testing"
	"time"
)

func TestNewBuildMetrics(t *testing.T) {
	m := NewBuildMetrics()

	if m.StartTime.IsZero() {
		t.Error("StartTime should be set")
	}
	if !m.EndTime.IsZero() {
		t.Error("EndTime should be zero initially")
	}
	if m.PagesRendered != 0 || m.CacheHits != 0 || m.CacheMisses != 0 {
		t.Errorf("counters should start at 0, got %+v", m)
	}
}

func TestRecordEnd(t *testing.T) {
	m := NewBuildMetrics()
	before := time.Now()
	m.RecordEnd()
	after := time.Now()

	if m.EndTime.Before(before) || m.EndTime.After(after) {
		t.Error("EndTime should be set to current time")
	}
}

func TestTotalDuration(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*BuildMetrics)
		expected func(time.Duration) bool
	}{
		{
			name: "returns elapsed time when end not set",
			setup: func(m *BuildMetrics) {
				m.StartTime = time.Now().Add(-time.Second)
			},
			expected: func(d time.Duration) bool {
				return d >= time.Second
			},
		},
		{
			name: "returns total duration when end is set",
			setup: func(m *BuildMetrics) {
				m.StartTime = time.Now().Add(-5 * time.Second)
				m.EndTime = time.Now()
			},
			expected: func(d time.Duration) bool {
				return d >= 5*time.Second && d < 6*time.Second
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewBuildMetrics()
			tt.setup(m)
			duration := m.TotalDuration()
			if !tt.expected(duration) {
				t.Errorf("TotalDuration() = %v, unexpected value", duration)
			}
		})
	}
}

func TestTrack(t *testing.T) {
	m := NewBuildMetrics()

	stop := m.Track(&m.RenderTime)
	time.Sleep(10 * time.Millisecond)
	stop()
	first := m.RenderTime
	if first < 10*time.Millisecond {
		t.Errorf("RenderTime = %v, want >= 10ms", first)
	}

	m.Track(&m.RenderTime)()
	if m.RenderTime < first {
		t.Error("Track() should accumulate, not overwrite")
	}
	if m.AssetTime != 0 {
		t.Error("Track() touched another phase")
	}
}

func TestCacheHitRate(t *testing.T) {
	tests := []struct {
		name         string
		hits, misses int64
		want         float64
	}{
		{"no lookups", 0, 0, 0},
		{"all hits", 4, 0, 100},
		{"mixed", 3, 1, 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewBuildMetrics()
			m.RecordCache(tt.hits, tt.misses)
			if got := m.CacheHitRate(); got != tt.want {
				t.Errorf("CacheHitRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*BuildMetrics)
		contains []string
	}{
		{
			name:     "empty build",
			setup:    func(m *BuildMetrics) {},
			contains: []string{"Built 0 pages (0 posts)", "math cache: 0/0 hits", "0%"},
		},
		{
			name: "build with cache hits",
			setup: func(m *BuildMetrics) {
				m.PagesRendered = 14
				m.PostsProcessed = 3
				m.RecordCache(8, 2)
			},
			contains: []string{"Built 14 pages (3 posts)", "math cache: 8/10 hits", "80%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewBuildMetrics()
			tt.setup(m)

			result := m.String()
			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("String() = %q, should contain %q", result, expected)
				}
			}
			if !strings.HasPrefix(result, "📊 Built") {
				t.Errorf("String() = %q, should start with the summary prefix", result)
			}
			if !strings.HasSuffix(result, "%)\n") {
				t.Errorf("String() = %q, should end with '%%)'", result)
			}
		})
	}
}

func TestPhases(t *testing.T) {
	m := NewBuildMetrics()
	m.RenderTime = 1500 * time.Millisecond
	m.FilesWritten = 20
	m.FilesSynced = 7

	got := m.Phases()
	for _, want := range []string{"render 1.5s", "20 written", "7 synced"} {
		if !strings.Contains(got, want) {
			t.Errorf("Phases() = %q, should contain %q", got, want)
		}
	}
}
