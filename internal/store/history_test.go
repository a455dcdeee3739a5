package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "db", "history.db"))
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistory_RecordAndList(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, status := range []string{"completed", "unchanged", "failed"} {
		_, err := h.Record(ctx, Run{
			ProgramID:    "ai",
			JobID:        "job-" + status,
			Status:       status,
			TotalCredits: 120,
			TotalCourses: 40 + i,
			StartedAt:    base.Add(time.Duration(i) * time.Minute),
			FinishedAt:   base.Add(time.Duration(i)*time.Minute + time.Second),
		})
		if err != nil {
			t.Fatalf("Record(%s): %v", status, err)
		}
	}
	if _, err := h.Record(ctx, Run{ProgramID: "ai_product", Status: "completed"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	runs, err := h.List(ctx, "ai", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].Status != "failed" || runs[2].Status != "completed" {
		t.Errorf("expected newest first, got %q ... %q", runs[0].Status, runs[2].Status)
	}
	if runs[0].ID == "" {
		t.Error("expected generated run id")
	}
	if runs[0].TotalCourses != 42 || runs[0].JobID != "job-failed" {
		t.Errorf("unexpected run: %+v", runs[0])
	}
	if !runs[2].StartedAt.Equal(base) {
		t.Errorf("expected started_at %v, got %v", base, runs[2].StartedAt)
	}

	limited, err := h.List(ctx, "ai", 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 runs with limit, got %d", len(limited))
	}
}

func TestHistory_ListUnknownProgram(t *testing.T) {
	h := openTestHistory(t)
	runs, err := h.List(context.Background(), "missing", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if runs == nil || len(runs) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", runs)
	}
}

func TestHistory_RecordRequiresProgram(t *testing.T) {
	h := openTestHistory(t)
	if _, err := h.Record(context.Background(), Run{Status: "completed"}); err == nil {
		t.Error("expected error for run without program id")
	}
}

func TestHistory_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	h, err := OpenHistory(path)
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	if _, err := h.Record(context.Background(), Run{ProgramID: "ai", Status: "completed", Error: ""}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	h.Close()

	h, err = OpenHistory(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer h.Close()
	runs, err := h.List(context.Background(), "ai", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected run to survive reopen, got %d", len(runs))
	}
}
