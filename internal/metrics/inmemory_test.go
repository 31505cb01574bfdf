package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestInMemoryRecorder_Counts(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.IncRewriteGenerated("formal", StatusSuccess)
	m.IncRewriteGenerated("formal", StatusSuccess)
	m.IncRewriteGenerated("casual", StatusFailed)
	m.ObserveCompletionDuration(150 * time.Millisecond)
	m.ObserveCompletionDuration(50 * time.Millisecond)
	m.IncRewriteSaved()
	m.IncRewriteEdited()
	m.IncAuthEvent("SIGNED_IN")

	s := m.Snapshot()
	if got := s.Generated("formal", StatusSuccess); got != 2 {
		t.Errorf("formal success = %d, want 2", got)
	}
	if got := s.Generated("casual", StatusFailed); got != 1 {
		t.Errorf("casual failed = %d, want 1", got)
	}
	if s.CompletionDurationCount != 2 {
		t.Errorf("CompletionDurationCount = %d, want 2", s.CompletionDurationCount)
	}
	if s.CompletionDurationTotalNs != int64(200*time.Millisecond) {
		t.Errorf("CompletionDurationTotalNs = %d", s.CompletionDurationTotalNs)
	}
	if s.RewritesSaved != 1 || s.RewritesEdited != 1 {
		t.Errorf("saved/edited = %d/%d, want 1/1", s.RewritesSaved, s.RewritesEdited)
	}
	if s.AuthEvents["SIGNED_IN"] != 1 {
		t.Errorf("SIGNED_IN = %d, want 1", s.AuthEvents["SIGNED_IN"])
	}
}

func TestInMemoryRecorder_SnapshotIsCopy(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.IncAuthEvent("SIGNED_OUT")
	s := m.Snapshot()
	s.AuthEvents["SIGNED_OUT"] = 99

	if m.Snapshot().AuthEvents["SIGNED_OUT"] != 1 {
		t.Error("mutating a snapshot must not affect the recorder")
	}
}

func TestInMemoryRecorder_Concurrent(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncRewriteGenerated("summary", StatusSuccess)
			m.IncRewriteSaved()
		}()
	}
	wg.Wait()

	s := m.Snapshot()
	if s.Generated("summary", StatusSuccess) != 50 || s.RewritesSaved != 50 {
		t.Errorf("got generated=%d saved=%d, want 50/50", s.Generated("summary", StatusSuccess), s.RewritesSaved)
	}
}

var _ Recorder = (*InMemoryRecorder)(nil)
var _ Recorder = (*NoopRecorder)(nil)
