package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// timeLayout keeps fixed-width fractions so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one attempt to parse a program's curriculum.
type Run struct {
	ID           string    `json:"run_id"`
	ProgramID    string    `json:"program_id"`
	JobID        string    `json:"job_id,omitempty"`
	Status       string    `json:"status"`
	Source       string    `json:"source,omitempty"`
	ContentHash  string    `json:"content_hash,omitempty"`
	TotalCredits int       `json:"total_credits"`
	TotalCourses int       `json:"total_courses"`
	Blocks       int       `json:"blocks"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Error        string    `json:"error,omitempty"`
}

// History is an append-only log of parse runs in SQLite.
type History struct {
	db *sql.DB
}

// OpenHistory opens or creates the history database at path.
func OpenHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	h := &History{db: db}
	if err := h.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return h, nil
}

func (h *History) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			program_id TEXT NOT NULL,
			job_id TEXT,
			status TEXT NOT NULL,
			source TEXT,
			content_hash TEXT,
			total_credits INTEGER NOT NULL DEFAULT 0,
			total_courses INTEGER NOT NULL DEFAULT 0,
			blocks INTEGER NOT NULL DEFAULT 0,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_program ON runs(program_id, finished_at)`,
	}
	for _, stmt := range statements {
		if _, err := h.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Close releases the database connection.
func (h *History) Close() error {
	return h.db.Close()
}

// Record appends run, assigning an id when it has none. The stored run is
// returned.
func (h *History) Record(ctx context.Context, run Run) (Run, error) {
	if run.ProgramID == "" {
		return Run{}, errors.New("run without program id")
	}
	if run.ID == "" {
		run.ID = uuid.Must(uuid.NewV7()).String()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}
	run.StartedAt = run.StartedAt.UTC()
	run.FinishedAt = run.FinishedAt.UTC()

	_, err := h.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, program_id, job_id, status, source, content_hash,
			total_credits, total_courses, blocks, started_at, finished_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.ProgramID, run.JobID, run.Status, run.Source, run.ContentHash,
		run.TotalCredits, run.TotalCourses, run.Blocks,
		run.StartedAt.Format(timeLayout), run.FinishedAt.Format(timeLayout), run.Error,
	)
	if err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs for programID, newest first. A limit
// of zero or less returns every run.
func (h *History) List(ctx context.Context, programID string, limit int) ([]Run, error) {
	query := `SELECT run_id, program_id, job_id, status, source, content_hash,
			total_credits, total_courses, blocks, started_at, finished_at, error
		FROM runs WHERE program_id = ? ORDER BY finished_at DESC, run_id DESC`
	args := []any{programID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		var jobID, source, hash, e sql.NullString
		var startedAt, finishedAt string
		if err := rows.Scan(&r.ID, &r.ProgramID, &jobID, &r.Status, &source, &hash,
			&r.TotalCredits, &r.TotalCourses, &r.Blocks, &startedAt, &finishedAt, &e); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.JobID = jobID.String
		r.Source = source.String
		r.ContentHash = hash.String
		r.Error = e.String
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}
