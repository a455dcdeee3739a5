package pipeline

import (
	"testing"
	"time"
)

func TestParseStats_Percentiles(t *testing.T) {
	stats := NewParseStats(time.Hour)
	for _, ms := range []int{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(ms) * time.Millisecond)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%f max=%f", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestParseStats_SubMillisecond(t *testing.T) {
	stats := NewParseStats(time.Hour)
	stats.Record(250 * time.Microsecond)
	if got := stats.Snapshot().MaxMs; got != 0.25 {
		t.Errorf("expected 0.25ms, got %f", got)
	}
}

func TestParseStats_PrunesExpiredSamples(t *testing.T) {
	stats := NewParseStats(10 * time.Millisecond)
	stats.Record(time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	if snap := stats.Snapshot(); snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(2 * time.Millisecond)
	snap := stats.Snapshot()
	if snap.Count != 1 || snap.MinMs != 2 {
		t.Fatalf("expected one fresh sample of 2ms, got count=%d min=%f", snap.Count, snap.MinMs)
	}
}

func TestParseStats_ClampsNegativeDuration(t *testing.T) {
	stats := NewParseStats(time.Hour)
	stats.Record(-time.Second)
	snap := stats.Snapshot()
	if snap.Count != 1 || snap.MaxMs != 0 {
		t.Fatalf("expected one clamped sample, got count=%d max=%f", snap.Count, snap.MaxMs)
	}
}

func TestParseStats_Outcomes(t *testing.T) {
	stats := NewParseStats(time.Hour)
	stats.Outcome(StatusCompleted)
	stats.Outcome(StatusCompleted)
	stats.Outcome(StatusFailed)

	snap := stats.Snapshot()
	if snap.Outcomes[StatusCompleted] != 2 || snap.Outcomes[StatusFailed] != 1 {
		t.Errorf("unexpected outcomes: %v", snap.Outcomes)
	}
	if snap.Count != 0 {
		t.Errorf("expected no latency samples, got %d", snap.Count)
	}
}
