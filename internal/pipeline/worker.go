package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/curricula/internal/curriculum"
	"github.com/dgallion1/curricula/internal/docreader"
	"github.com/dgallion1/curricula/internal/metrics"
	"github.com/dgallion1/curricula/internal/programpage"
	"github.com/dgallion1/curricula/internal/source"
	"github.com/dgallion1/curricula/internal/store"
)

// Deps are the collaborators a Worker uses. Parser is required. Store,
// History, Fetcher, Scraper and Library are optional; without them the
// matching step is skipped.
type Deps struct {
	Parser      *curriculum.Parser
	Fetcher     *source.Fetcher
	Scraper     *programpage.Scraper
	Library     *source.Library
	Store       *store.Store
	History     *store.History
	Stats       *ParseStats
	ReadOptions docreader.Options
}

// Worker processes a single curriculum job.
type Worker struct {
	deps Deps
	log  *slog.Logger
}

func NewWorker(deps Deps, log *slog.Logger) *Worker {
	return &Worker{deps: deps, log: log}
}

// Process runs the job to a terminal status and records the run.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "kind", job.Kind, "program_id", job.ProgramID)
	started := time.Now()

	switch job.Kind {
	case KindUpload:
		w.processUpload(ctx, job, log)
	case KindRefresh:
		w.processRefresh(ctx, job, log)
	default:
		job.AddError(fmt.Sprintf("unknown job kind %q", job.Kind))
		job.SetStatus(StatusFailed, "dispatch")
	}

	snap := job.Snapshot()
	metrics.JobsTotal.WithLabelValues(string(job.Kind), string(snap.Status)).Inc()
	if w.deps.Stats != nil {
		w.deps.Stats.Outcome(snap.Status)
	}
	log.Info("job finished", "status", snap.Status, "blocks", snap.Progress.Blocks,
		"courses", snap.Progress.Courses, "credits", snap.Progress.Credits,
		"duration_ms", time.Since(started).Milliseconds())
	w.recordRun(ctx, job, snap, started, log)
}

func (w *Worker) processUpload(ctx context.Context, job *Job, log *slog.Logger) {
	job.SetStatus(StatusExtracting, "extracting")
	text, err := docreader.Extract(bytes.NewReader(job.FileData()), job.Filename, w.deps.ReadOptions)
	job.releaseFileData()
	if err != nil {
		log.Error("extract failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	job.SetPages(len(text.Pages))
	job.SetSource(job.Filename)

	title := job.Title
	if title == "" {
		title = text.Title
	}
	w.parseAndStore(ctx, job, text.String(), store.Record{
		ProgramID: job.ProgramID,
		Title:     title,
		Source:    job.Filename,
	}, log)
}

func (w *Worker) processRefresh(ctx context.Context, job *Job, log *slog.Logger) {
	job.SetStatus(StatusFetching, "fetching")

	rec := store.Record{ProgramID: job.ProgramID, URL: job.SourceURL, Title: job.Title}
	var page *programpage.Page
	if job.SourceURL != "" && w.deps.Scraper != nil {
		var err error
		page, err = w.deps.Scraper.Scrape(ctx, job.SourceURL)
		if err != nil {
			log.Warn("program page unusable, trying local documents", "url", job.SourceURL, "error", err)
		}
		if page != nil {
			if page.Title != "" {
				rec.Title = page.Title
			}
			rec.PDFLinksCount = len(page.PDFLinks)
		}
	}

	path, err := w.locate(ctx, job, page, log)
	if err != nil {
		log.Error("no curriculum document", "error", err)
		job.AddError(err.Error())
		w.storeWebOnly(rec, page, log)
		job.SetStatus(StatusFailed, "fetching")
		return
	}
	job.SetSource(path)
	rec.Source = path

	job.SetStatus(StatusExtracting, "extracting")
	text, err := docreader.ExtractFile(path, w.deps.ReadOptions)
	if err != nil {
		log.Error("extract failed", "path", path, "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	job.SetPages(len(text.Pages))
	w.parseAndStore(ctx, job, text.String(), rec, log)
}

// locate finds the document to parse: the curriculum linked from the
// program page first, then the local library.
func (w *Worker) locate(ctx context.Context, job *Job, page *programpage.Page, log *slog.Logger) (string, error) {
	if page != nil && page.CurriculumURL != "" && w.deps.Fetcher != nil {
		path, err := w.download(ctx, job, page.CurriculumURL)
		if err == nil {
			metrics.DocumentOrigin.WithLabelValues("web").Inc()
			return path, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Warn("download failed, trying local documents", "url", page.CurriculumURL, "error", err)
	}
	if w.deps.Library == nil {
		return "", fmt.Errorf("%s: %w", job.ProgramID, source.ErrNotFound)
	}
	path, err := w.deps.Library.Find(ctx, job.ProgramID)
	if err != nil {
		return "", err
	}
	metrics.DocumentOrigin.WithLabelValues("library").Inc()
	return path, nil
}

func (w *Worker) download(ctx context.Context, job *Job, url string) (string, error) {
	if job.Force {
		if err := w.deps.Fetcher.Download(ctx, url, job.ProgramID); err != nil {
			return "", err
		}
		return source.CachePath(w.deps.Fetcher.Dir(), job.ProgramID), nil
	}
	path, _, err := w.deps.Fetcher.Fetch(ctx, url, job.ProgramID)
	return path, err
}

// storeWebOnly keeps the scraped page data for a program that has no stored
// record yet.
func (w *Worker) storeWebOnly(rec store.Record, page *programpage.Page, log *slog.Logger) {
	if page == nil || w.deps.Store == nil {
		return
	}
	if _, ok := w.deps.Store.Get(rec.ProgramID); ok {
		return
	}
	rec.ParsedAt = time.Now().UTC()
	if err := w.deps.Store.Put(&rec); err != nil {
		log.Warn("store web data failed", "error", err)
	}
}

// parseAndStore parses text and, for jobs bound to a program, replaces the
// stored record. Text whose hash matches the stored record is not parsed
// again unless the job is forced.
func (w *Worker) parseAndStore(ctx context.Context, job *Job, text string, rec store.Record, log *slog.Logger) {
	hash := ContentHashHex([]byte(text))
	job.SetContentHash(hash)

	if job.ProgramID != "" && !job.Force && w.deps.Store != nil {
		if prev, ok := w.deps.Store.Get(job.ProgramID); ok && prev.ContentHash == hash && prev.Curriculum != nil {
			log.Info("content unchanged, keeping stored result", "content_hash", hash)
			job.SetResult(prev.Curriculum)
			job.SetStatus(StatusUnchanged, "done")
			return
		}
	}

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	job.SetStatus(StatusParsing, "parsing")
	start := time.Now()
	doc := w.deps.Parser.Parse(text)
	elapsed := time.Since(start)
	metrics.ParseDuration.Observe(elapsed.Seconds())
	if w.deps.Stats != nil {
		w.deps.Stats.Record(elapsed)
	}
	job.SetResult(doc)
	log.Info("parsed curriculum", "program_name", doc.ProgramName, "blocks", len(doc.Blocks),
		"courses", doc.TotalCourses, "credits", doc.TotalCredits)

	if job.ProgramID != "" && w.deps.Store != nil {
		rec.ContentHash = hash
		rec.ParsedAt = time.Now().UTC()
		rec.Curriculum = doc
		if err := w.deps.Store.Put(&rec); err != nil {
			log.Error("store failed", "error", err)
			job.AddError(fmt.Sprintf("store: %s", err))
			job.SetStatus(StatusFailed, "storing")
			return
		}
	}
	job.SetStatus(StatusCompleted, "done")
}

func (w *Worker) recordRun(ctx context.Context, job *Job, snap JobSnapshot, started time.Time, log *slog.Logger) {
	if w.deps.History == nil || job.ProgramID == "" {
		return
	}
	// The run is recorded even when ctx was cancelled mid-job.
	ctx = context.WithoutCancel(ctx)
	_, err := w.deps.History.Record(ctx, store.Run{
		ProgramID:    job.ProgramID,
		JobID:        job.ID,
		Status:       string(snap.Status),
		Source:       snap.Source,
		ContentHash:  snap.ContentHash,
		TotalCredits: snap.Progress.Credits,
		TotalCourses: snap.Progress.Courses,
		Blocks:       snap.Progress.Blocks,
		StartedAt:    started,
		FinishedAt:   time.Now(),
		Error:        job.LastError(),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("history write failed", "error", err)
	}
}
