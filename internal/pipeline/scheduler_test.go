package pipeline

import (
	"testing"

	"github.com/dgallion1/curricula/internal/config"
)

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	o := NewOrchestrator(testConfig(), testDeps(t, t.TempDir()), testLogger())
	if _, err := NewScheduler("every tuesday", o, nil, testLogger()); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestScheduler_RefreshQueuesEveryProgram(t *testing.T) {
	o := NewOrchestrator(testConfig(), testDeps(t, t.TempDir()), testLogger())
	programs := []config.Program{
		{ID: "ai", Title: "Artificial Intelligence"},
		{ID: "ai_product", Title: "AI Product"},
	}
	s, err := NewScheduler("@daily", o, programs, testLogger())
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	// Workers are not started, so the jobs stay queued.
	s.refresh()
	if got := o.QueueDepth(); got != 2 {
		t.Errorf("expected 2 queued refreshes, got %d", got)
	}
}

func TestScheduler_QueueFullIsNotFatal(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueueSize = 1
	o := NewOrchestrator(cfg, testDeps(t, t.TempDir()), testLogger())
	programs := []config.Program{{ID: "ai"}, {ID: "ai_product"}}
	s, err := NewScheduler("0 3 * * *", o, programs, testLogger())
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	s.Start()
	s.refresh()
	s.Stop()
	if got := o.QueueDepth(); got != 1 {
		t.Errorf("expected 1 queued refresh, got %d", got)
	}
}
