package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncRewriteGenerated(mode, status string)          {}
func (n *NoopRecorder) ObserveCompletionDuration(duration time.Duration) {}
func (n *NoopRecorder) IncRewriteSaved()                                 {}
func (n *NoopRecorder) IncRewriteEdited()                                {}
func (n *NoopRecorder) IncAuthEvent(eventType string)                    {}
