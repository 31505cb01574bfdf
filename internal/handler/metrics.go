package handler

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/bentossell/rewriter-cursor/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	for _, key := range sortedKeys(snap.RewritesGenerated) {
		mode, status, _ := strings.Cut(key, ":")
		writeMetric(w, "rewriter_rewrites_generated_total{mode=%q,status=%q} %d\n", mode, status, snap.RewritesGenerated[key])
	}
	writeMetric(w, "rewriter_completion_duration_seconds_count %d\n", snap.CompletionDurationCount)
	writeMetric(w, "rewriter_completion_duration_seconds_sum %.6f\n", float64(snap.CompletionDurationTotalNs)/1e9)

	writeMetric(w, "rewriter_rewrites_saved_total %d\n", snap.RewritesSaved)
	writeMetric(w, "rewriter_rewrites_edited_total %d\n", snap.RewritesEdited)

	for _, key := range sortedKeys(snap.AuthEvents) {
		writeMetric(w, "rewriter_auth_events_total{type=%q} %d\n", key, snap.AuthEvents[key])
	}
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
