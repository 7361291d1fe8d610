package app

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dshills/previewsync/internal/preview/arbiter"
)

// Metrics tracks how the preview is used and how long its work takes.
type Metrics struct {
	// Transport
	messageCount   atomic.Uint64
	messageTotalNs atomic.Int64
	malformed      atomic.Uint64

	// Layout and offset table rebuilds
	renderCount   atomic.Uint64
	renderTotalNs atomic.Int64
	renderMaxNs   atomic.Int64

	// Screen updates
	drawCount   atomic.Uint64
	drawTotalNs atomic.Int64

	// Arbitration
	autoScrolls atomic.Uint64
	overrides   atomic.Uint64

	reloads atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordMessage records the handling time of a transport message.
func (m *Metrics) RecordMessage(duration time.Duration) {
	m.messageCount.Add(1)
	m.messageTotalNs.Add(duration.Nanoseconds())
}

// RecordMalformed records a record that could not be decoded.
func (m *Metrics) RecordMalformed() {
	m.malformed.Add(1)
}

// RecordRender records a layout and offset table rebuild.
func (m *Metrics) RecordRender(duration time.Duration) {
	ns := duration.Nanoseconds()
	m.renderCount.Add(1)
	m.renderTotalNs.Add(ns)

	// Update max (atomic compare-and-swap loop)
	for {
		old := m.renderMaxNs.Load()
		if ns <= old {
			break
		}
		if m.renderMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordDraw records a screen update.
func (m *Metrics) RecordDraw(duration time.Duration) {
	m.drawCount.Add(1)
	m.drawTotalNs.Add(duration.Nanoseconds())
}

// RecordModeChange counts arbiter transitions into auto scrolling and
// manual override.
func (m *Metrics) RecordModeChange(to arbiter.Mode) {
	switch to {
	case arbiter.AutoScrolling:
		m.autoScrolls.Add(1)
	case arbiter.ManualOverride:
		m.overrides.Add(1)
	}
}

// RecordReload records a config reload.
func (m *Metrics) RecordReload() {
	m.reloads.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Uptime:      time.Since(m.startTime),
		Messages:    m.messageCount.Load(),
		Malformed:   m.malformed.Load(),
		Renders:     m.renderCount.Load(),
		MaxRenderNs: m.renderMaxNs.Load(),
		Draws:       m.drawCount.Load(),
		AutoScrolls: m.autoScrolls.Load(),
		Overrides:   m.overrides.Load(),
		Reloads:     m.reloads.Load(),
	}
	if s.Messages > 0 {
		s.AvgMessageNs = m.messageTotalNs.Load() / int64(s.Messages)
	}
	if s.Renders > 0 {
		s.AvgRenderNs = m.renderTotalNs.Load() / int64(s.Renders)
	}
	if s.Draws > 0 {
		s.AvgDrawNs = m.drawTotalNs.Load() / int64(s.Draws)
	}
	return s
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime       time.Duration
	Messages     uint64
	AvgMessageNs int64
	Malformed    uint64
	Renders      uint64
	AvgRenderNs  int64
	MaxRenderNs  int64
	Draws        uint64
	AvgDrawNs    int64
	AutoScrolls  uint64
	Overrides    uint64
	Reloads      uint64
}

// OverrideRate returns the percentage of auto scrolls the viewer
// interrupted.
func (s MetricsSnapshot) OverrideRate() float64 {
	if s.AutoScrolls == 0 {
		return 0
	}
	return float64(s.Overrides) / float64(s.AutoScrolls) * 100
}

// String formats the snapshot for the log.
func (s MetricsSnapshot) String() string {
	return fmt.Sprintf("%d messages (%d malformed), %d renders (avg %s, max %s), %d draws, %d auto scrolls, %.0f%% overridden, %d reloads",
		s.Messages, s.Malformed,
		s.Renders, time.Duration(s.AvgRenderNs), time.Duration(s.MaxRenderNs),
		s.Draws, s.AutoScrolls, s.OverrideRate(), s.Reloads)
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Stop returns the elapsed time and resets the timer.
func (t *Timer) Stop() time.Duration {
	elapsed := t.Elapsed()
	t.start = time.Now()
	return elapsed
}
