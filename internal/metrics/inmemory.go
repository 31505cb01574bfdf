package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	RewritesGenerated         map[string]uint64 `json:"rewrites_generated"` // key: "<mode>:<status>"
	CompletionDurationCount   uint64            `json:"completion_duration_count"`
	CompletionDurationTotalNs int64             `json:"completion_duration_total_ns"`
	RewritesSaved             uint64            `json:"rewrites_saved"`
	RewritesEdited            uint64            `json:"rewrites_edited"`
	AuthEvents                map[string]uint64 `json:"auth_events"`
}

// Generated returns the count for a mode/status pair.
func (s Snapshot) Generated(mode, status string) uint64 {
	return s.RewritesGenerated[mode+":"+status]
}

// InMemoryRecorder stores metrics in memory. It backs the tests and the
// /metrics endpoint.
type InMemoryRecorder struct {
	completionDurationCount   uint64
	completionDurationTotalNs int64
	rewritesSaved             uint64
	rewritesEdited            uint64

	mu         sync.Mutex
	generated  map[string]uint64
	authEvents map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		generated:  make(map[string]uint64),
		authEvents: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	generated := make(map[string]uint64, len(m.generated))
	for k, v := range m.generated {
		generated[k] = v
	}
	auth := make(map[string]uint64, len(m.authEvents))
	for k, v := range m.authEvents {
		auth[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		RewritesGenerated:         generated,
		CompletionDurationCount:   atomic.LoadUint64(&m.completionDurationCount),
		CompletionDurationTotalNs: atomic.LoadInt64(&m.completionDurationTotalNs),
		RewritesSaved:             atomic.LoadUint64(&m.rewritesSaved),
		RewritesEdited:            atomic.LoadUint64(&m.rewritesEdited),
		AuthEvents:                auth,
	}
}

// IncRewriteGenerated counts a generation attempt by mode and outcome.
func (m *InMemoryRecorder) IncRewriteGenerated(mode, status string) {
	m.mu.Lock()
	m.generated[mode+":"+status]++
	m.mu.Unlock()
}

// ObserveCompletionDuration records upstream completion latency.
func (m *InMemoryRecorder) ObserveCompletionDuration(duration time.Duration) {
	atomic.AddUint64(&m.completionDurationCount, 1)
	atomic.AddInt64(&m.completionDurationTotalNs, duration.Nanoseconds())
}

// IncRewriteSaved increments the saved counter.
func (m *InMemoryRecorder) IncRewriteSaved() {
	atomic.AddUint64(&m.rewritesSaved, 1)
}

// IncRewriteEdited increments the edited counter.
func (m *InMemoryRecorder) IncRewriteEdited() {
	atomic.AddUint64(&m.rewritesEdited, 1)
}

// IncAuthEvent counts an auth state change.
func (m *InMemoryRecorder) IncAuthEvent(eventType string) {
	m.mu.Lock()
	m.authEvents[eventType]++
	m.mu.Unlock()
}
