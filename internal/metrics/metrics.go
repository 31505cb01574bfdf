// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Generation outcomes passed to IncRewriteGenerated.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Rewrite pipeline
	IncRewriteGenerated(mode, status string)
	ObserveCompletionDuration(duration time.Duration)
	IncRewriteSaved()
	IncRewriteEdited()

	// Auth state changes: SIGNED_UP, SIGNED_IN, SIGNED_OUT
	IncAuthEvent(eventType string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
