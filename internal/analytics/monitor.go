package analytics

import (
	"sync"
	"time"
)

// Monitor observes pipeline calls. Implementations must be safe for
// concurrent use; handlers record every external call through one instance.
type Monitor interface {
	RecordCall(op string, duration time.Duration, err error, cacheHit bool)
	Snapshot() Snapshot
}

// OpStats aggregates outcomes for one operation name.
type OpStats struct {
	Calls        int64         `json:"calls"`
	Errors       int64         `json:"errors"`
	CacheHits    int64         `json:"cache_hits"`
	AvgLatencyMs float64       `json:"avg_latency_ms"`
	MaxLatencyMs float64       `json:"max_latency_ms"`
	totalLatency time.Duration
}

type Snapshot struct {
	Ops          map[string]OpStats `json:"ops"`
	TotalCalls   int64              `json:"total_calls"`
	ErrorRate    float64            `json:"error_rate"`
	CacheHitRate float64            `json:"cache_hit_rate"`
}

// Tracker is the default in-process Monitor.
type Tracker struct {
	mu  sync.Mutex
	ops map[string]*OpStats
}

func NewTracker() *Tracker {
	return &Tracker{
		ops: make(map[string]*OpStats),
	}
}

func (t *Tracker) RecordCall(op string, duration time.Duration, err error, cacheHit bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats, ok := t.ops[op]
	if !ok {
		stats = &OpStats{}
		t.ops[op] = stats
	}

	stats.Calls++
	stats.totalLatency += duration
	if latency := float64(duration.Milliseconds()); latency > stats.MaxLatencyMs {
		stats.MaxLatencyMs = latency
	}
	if err != nil {
		stats.Errors++
	}
	if cacheHit {
		stats.CacheHits++
	}
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := Snapshot{Ops: make(map[string]OpStats, len(t.ops))}

	var totalErrors, totalHits int64
	for op, stats := range t.ops {
		copied := *stats
		if copied.Calls > 0 {
			copied.AvgLatencyMs = float64(copied.totalLatency.Milliseconds()) / float64(copied.Calls)
		}
		snapshot.Ops[op] = copied

		snapshot.TotalCalls += stats.Calls
		totalErrors += stats.Errors
		totalHits += stats.CacheHits
	}

	if snapshot.TotalCalls > 0 {
		snapshot.ErrorRate = float64(totalErrors) / float64(snapshot.TotalCalls)
		snapshot.CacheHitRate = float64(totalHits) / float64(snapshot.TotalCalls)
	}

	return snapshot
}

// Noop discards every observation. Used in tests.
type Noop struct{}

var _ Monitor = (*Noop)(nil)

func (Noop) RecordCall(_ string, _ time.Duration, _ error, _ bool) {}
func (Noop) Snapshot() Snapshot                                   { return Snapshot{} }
