// Package store keeps the latest parse result of every program as JSON
// files on disk.
//
// Layout under the output directory:
//
//	programs/<program_id>.json   one Record per program
//	latest_complete.json         every Record keyed by program id
//	latest_summary.json          per-program totals
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/curricula/internal/curriculum"
)

const (
	programsDir      = "programs"
	latestComplete   = "latest_complete.json"
	latestSummary    = "latest_summary.json"
	recordFileSuffix = ".json"
)

// Record is the stored result for one program.
type Record struct {
	ProgramID     string               `json:"program_id"`
	URL           string               `json:"url,omitempty"`
	Title         string               `json:"title,omitempty"`
	Source        string               `json:"source,omitempty"`
	PDFLinksCount int                  `json:"pdf_links_count"`
	ContentHash   string               `json:"content_hash"`
	ParsedAt      time.Time            `json:"parsed_at"`
	Curriculum    *curriculum.Document `json:"curriculum"`
}

// ProgramSummary is the condensed view of one Record.
type ProgramSummary struct {
	ProgramID     string    `json:"program_id"`
	URL           string    `json:"url,omitempty"`
	Title         string    `json:"title,omitempty"`
	HasWebData    bool      `json:"has_web_data"`
	HasCurriculum bool      `json:"has_curriculum"`
	PDFLinksCount int       `json:"pdf_links_count"`
	TotalCredits  int       `json:"total_credits"`
	TotalCourses  int       `json:"total_courses"`
	BlocksCount   int       `json:"blocks_count"`
	ParsedAt      time.Time `json:"parsed_at"`
}

// Summary is the content of latest_summary.json.
type Summary struct {
	GeneratedAt   time.Time                 `json:"generated_at"`
	ProgramsCount int                       `json:"programs_count"`
	Programs      map[string]ProgramSummary `json:"programs"`
}

// Store is safe for concurrent use. Records handed to Put must not be
// modified afterwards.
type Store struct {
	dir string
	log *slog.Logger
	now func() time.Time

	mu      sync.RWMutex
	records map[string]*Record
}

// Open creates dir if needed and loads every stored record.
func Open(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, programsDir), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	s := &Store{
		dir:     dir,
		log:     log,
		now:     time.Now,
		records: make(map[string]*Record),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	entries, err := os.ReadDir(filepath.Join(s.dir, programsDir))
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), recordFileSuffix) {
			continue
		}
		path := filepath.Join(s.dir, programsDir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			s.log.Warn("skipping unreadable record", "path", path, "error", err)
			continue
		}
		if rec.ProgramID == "" {
			rec.ProgramID = strings.TrimSuffix(e.Name(), recordFileSuffix)
		}
		s.records[rec.ProgramID] = &rec
	}
	s.log.Info("store loaded", "dir", s.dir, "programs", len(s.records))
	return nil
}

// Put stores rec and rewrites the aggregate files.
func (s *Store) Put(rec *Record) error {
	if rec == nil || rec.ProgramID == "" {
		return errors.New("record without program id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, programsDir, rec.ProgramID+recordFileSuffix)
	if err := writeJSON(path, rec); err != nil {
		return fmt.Errorf("write record %s: %w", rec.ProgramID, err)
	}
	s.records[rec.ProgramID] = rec

	if err := writeJSON(filepath.Join(s.dir, latestComplete), s.records); err != nil {
		return fmt.Errorf("write %s: %w", latestComplete, err)
	}
	if err := writeJSON(filepath.Join(s.dir, latestSummary), s.summaryLocked()); err != nil {
		return fmt.Errorf("write %s: %w", latestSummary, err)
	}
	return nil
}

// Get returns the record for programID.
func (s *Store) Get(programID string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[programID]
	return rec, ok
}

// ContentHash returns the stored content hash for programID, or "".
func (s *Store) ContentHash(programID string) string {
	if rec, ok := s.Get(programID); ok {
		return rec.ContentHash
	}
	return ""
}

// List returns all records ordered by program id.
func (s *Store) List() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProgramID < out[j].ProgramID })
	return out
}

// Summary condenses every record.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaryLocked()
}

func (s *Store) summaryLocked() Summary {
	sum := Summary{
		GeneratedAt:   s.now().UTC(),
		ProgramsCount: len(s.records),
		Programs:      make(map[string]ProgramSummary, len(s.records)),
	}
	for id, rec := range s.records {
		ps := ProgramSummary{
			ProgramID:     id,
			URL:           rec.URL,
			Title:         rec.Title,
			HasWebData:    rec.Title != "" || rec.PDFLinksCount > 0,
			HasCurriculum: rec.Curriculum != nil,
			PDFLinksCount: rec.PDFLinksCount,
			ParsedAt:      rec.ParsedAt,
		}
		if doc := rec.Curriculum; doc != nil {
			ps.TotalCredits = doc.TotalCredits
			ps.TotalCourses = doc.TotalCourses
			ps.BlocksCount = len(doc.Blocks)
		}
		sum.Programs[id] = ps
	}
	return sum
}

// writeJSON writes v indented, via a temp file and rename.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
