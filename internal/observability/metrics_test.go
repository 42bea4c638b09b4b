package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/tickets/submit", "POST", 200, time.Millisecond)
	m.RecordRequest("/api/tickets/submit", "POST", 200, time.Millisecond)
	m.RecordError("/api/knowledge", "POST", "INVALID_CATEGORY")
	m.RecordOutcome("AutoResolved", 10*time.Millisecond)
	m.RecordOutcome("Escalated", 30*time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/tickets/submit|POST|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/knowledge|POST|INVALID_CATEGORY"])
	assert.Equal(t, int64(2), snap.PipelineRuns)
	assert.Equal(t, 20.0, snap.PipelineAvgMillis)
	assert.Equal(t, map[string]int64{"AutoResolved": 1, "Escalated": 1}, snap.PipelineOutcomes)

	// Snapshot is detached from later writes.
	m.RecordOutcome("Escalated", time.Millisecond)
	assert.Equal(t, int64(1), snap.PipelineOutcomes["Escalated"])
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "X")
	m.RecordOutcome("Escalated", 0)
	assert.Equal(t, Snapshot{}, m.Snapshot())
}
