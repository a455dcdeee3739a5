package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Storage
	PDFDir      string
	OutputDir   string
	HistoryDB   string
	CatalogFile string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	RefreshConcurrency int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Cron expression for refreshing every catalog program; empty disables.
	RefreshSchedule string

	// Fetching
	HTTPTimeout time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Classification
	ClassifyThreshold int
	ClassifyMaxPages  int

	LogLevel string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("CURRICULA_API_KEY"),

		PDFDir:      envOr("PDF_DIR", filepath.Join("data", "pdf")),
		OutputDir:   envOr("OUTPUT_DIR", filepath.Join("data", "parsed")),
		HistoryDB:   os.Getenv("HISTORY_DB"),
		CatalogFile: os.Getenv("CATALOG_FILE"),

		WorkerCount:        envInt("WORKER_COUNT", 2),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		RefreshConcurrency: envInt("REFRESH_CONCURRENCY", 2),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		RefreshSchedule: strings.TrimSpace(os.Getenv("REFRESH_SCHEDULE")),

		HTTPTimeout: envDuration("HTTP_TIMEOUT", 60*time.Second),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		ClassifyThreshold: envInt("CLASSIFY_THRESHOLD", 1),
		ClassifyMaxPages:  envInt("CLASSIFY_MAX_PAGES", 3),

		LogLevel: envOr("LOG_LEVEL", "info"),
	}

	if cfg.HistoryDB == "" {
		cfg.HistoryDB = filepath.Join(cfg.OutputDir, "history.db")
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.RefreshConcurrency <= 0 {
		cfg.RefreshConcurrency = 2
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 60 * time.Second
	}
	if cfg.ClassifyThreshold <= 0 {
		cfg.ClassifyThreshold = 1
	}
	if cfg.ClassifyMaxPages <= 0 {
		cfg.ClassifyMaxPages = 3
	}

	return cfg
}

// Validate checks the settings the HTTP server cannot run without.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("CURRICULA_API_KEY is required")
	}
	if c.PDFDir == "" || c.OutputDir == "" {
		return fmt.Errorf("PDF_DIR and OUTPUT_DIR must not be empty")
	}
	return nil
}

// HistoryEnabled reports whether parse runs are recorded. HISTORY_DB=off
// disables the history database.
func (c Config) HistoryEnabled() bool {
	return !strings.EqualFold(c.HistoryDB, "off")
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
