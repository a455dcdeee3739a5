package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/curricula/internal/config"
)

func testConfig(t *testing.T) config.Config {
	dir := t.TempDir()
	return config.Config{
		PDFDir:            filepath.Join(dir, "pdf"),
		OutputDir:         filepath.Join(dir, "out"),
		HistoryDB:         filepath.Join(dir, "out", "history.db"),
		WorkerCount:       1,
		MaxQueueSize:      1,
		ClassifyThreshold: 1,
		ClassifyMaxPages:  3,
	}
}

func TestNew(t *testing.T) {
	a, err := New(testConfig(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if a.Deps.Parser == nil || a.Deps.Store == nil || a.Deps.History == nil || a.Deps.Library == nil {
		t.Errorf("expected wired deps, got %+v", a.Deps)
	}
	if !a.Classifier.Known("ai") {
		t.Error("expected default catalog keywords")
	}
	if a.Orchestrator() == nil {
		t.Error("expected orchestrator")
	}
}

func TestNew_HistoryOff(t *testing.T) {
	cfg := testConfig(t)
	cfg.HistoryDB = "off"
	a, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	if a.Deps.History != nil {
		t.Error("expected history disabled")
	}
}

func TestNew_BadCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.CatalogFile = filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(cfg.CatalogFile, []byte("programs: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Error("expected catalog error")
	}
}

func TestPrograms(t *testing.T) {
	a, err := New(testConfig(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	all, err := a.Programs(nil)
	if err != nil || len(all) != 2 {
		t.Fatalf("expected all catalog programs, got %d (%v)", len(all), err)
	}
	one, err := a.Programs([]string{"ai_product"})
	if err != nil || len(one) != 1 || one[0].ID != "ai_product" {
		t.Errorf("unexpected selection: %+v (%v)", one, err)
	}
	if _, err := a.Programs([]string{"law"}); err == nil {
		t.Error("expected error for unknown program")
	}
}
