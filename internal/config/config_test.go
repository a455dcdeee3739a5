package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "CURRICULA_API_KEY", "PDF_DIR", "OUTPUT_DIR", "HISTORY_DB", "WORKER_COUNT", "JOB_TTL", "CLASSIFY_THRESHOLD", "LOG_LEVEL", "REFRESH_SCHEDULE"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.HistoryDB != filepath.Join("data", "parsed", "history.db") {
		t.Errorf("expected history db under output dir, got %q", cfg.HistoryDB)
	}
	if cfg.WorkerCount != 2 || cfg.ClassifyThreshold != 1 || cfg.ClassifyMaxPages != 3 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h job ttl, got %v", cfg.JobTTL)
	}
	if cfg.RefreshSchedule != "" {
		t.Errorf("expected scheduled refresh disabled, got %q", cfg.RefreshSchedule)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to require CURRICULA_API_KEY")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CURRICULA_API_KEY", "secret")
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("CLASSIFY_THRESHOLD", "2")
	t.Setenv("JOB_TTL", "10m")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")
	t.Setenv("HISTORY_DB", "off")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REFRESH_SCHEDULE", " @daily ")

	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("expected invalid worker count to fall back to 2, got %d", cfg.WorkerCount)
	}
	if cfg.ClassifyThreshold != 2 {
		t.Errorf("expected threshold 2, got %d", cfg.ClassifyThreshold)
	}
	if cfg.JobTTL != 10*time.Minute {
		t.Errorf("expected 10m, got %v", cfg.JobTTL)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback disabled")
	}
	if cfg.HistoryEnabled() {
		t.Error("expected history disabled")
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.SlogLevel())
	}
	if cfg.RefreshSchedule != "@daily" {
		t.Errorf("expected @daily, got %q", cfg.RefreshSchedule)
	}
}

func TestSlogLevel_Invalid(t *testing.T) {
	if got := (Config{LogLevel: "loud"}).SlogLevel(); got != slog.LevelInfo {
		t.Errorf("expected info for unknown level, got %v", got)
	}
}

func TestLoadCatalog_Default(t *testing.T) {
	cat, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.Programs) != 2 {
		t.Fatalf("expected 2 default programs, got %d", len(cat.Programs))
	}
	p, ok := cat.Program("ai_product")
	if !ok || !strings.HasSuffix(p.URL, "/ai_product") {
		t.Errorf("unexpected ai_product entry: %+v", p)
	}
	if kws := cat.Keywords()["ai"]; len(kws) != 7 {
		t.Errorf("expected 7 ai keywords, got %d", len(kws))
	}
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `programs:
  - id: data_science
    url: https://example.org/ds
    keywords: ["data science", "анализ данных"]
rules:
  fallback_program_name: Unnamed program
  max_semester: 12
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.Programs) != 1 || cat.Programs[0].ID != "data_science" {
		t.Errorf("unexpected programs: %+v", cat.Programs)
	}
	if cat.Rules.FallbackProgramName != "Unnamed program" || cat.Rules.MaxSemester != 12 {
		t.Errorf("unexpected rules: %+v", cat.Rules)
	}
	if len(cat.LinkPhrases) == 0 {
		t.Error("expected default link phrases")
	}
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "programs: []\nextra: 1\n"},
		{"bad id", "programs:\n  - id: ../etc\n"},
		{"duplicate id", "programs:\n  - id: ai\n  - id: ai\n"},
		{"malformed", "programs: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseCatalog_Empty(t *testing.T) {
	cat, err := ParseCatalog(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.Programs) != 2 {
		t.Errorf("expected default programs for empty file, got %d", len(cat.Programs))
	}
}

func TestLoadCatalog_Missing(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing catalog file")
	}
}
