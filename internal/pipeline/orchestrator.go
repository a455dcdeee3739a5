package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/curricula/internal/config"
	"github.com/dgallion1/curricula/internal/metrics"
)

// Orchestrator manages the curriculum parse pipeline.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	deps  Deps
	log   *slog.Logger
	cfg   config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Workers run after Start.
func NewOrchestrator(cfg config.Config, deps Deps, log *slog.Logger) *Orchestrator {
	if deps.Stats == nil {
		deps.Stats = NewParseStats(time.Hour)
	}
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		deps:  deps,
		log:   log,
		cfg:   cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.deps, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					metrics.QueueDepth.Set(float64(len(o.queue)))
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		metrics.QueueDepth.Set(float64(len(o.queue)))
		return nil
	default:
		job.AddError("queue_full")
		job.SetStatus(StatusFailed, "queued")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// SubmitUpload queues an uploaded document. programID may be empty, in
// which case the result is only kept on the job. force re-parses text whose
// hash matches the stored record.
func (o *Orchestrator) SubmitUpload(filename, title, programID string, force bool, data []byte) (*Job, error) {
	job := NewJob(KindUpload, programID)
	job.Filename = filename
	job.Title = title
	job.Force = force
	job.SetFileData(data)
	return job, o.Submit(job)
}

// SubmitRefresh queues a refresh of one catalog program.
func (o *Orchestrator) SubmitRefresh(p config.Program, force bool) (*Job, error) {
	job := o.newRefreshJob(p, force)
	return job, o.Submit(job)
}

func (o *Orchestrator) newRefreshJob(p config.Program, force bool) *Job {
	job := NewJob(KindRefresh, p.ID)
	job.Title = p.Title
	job.SourceURL = p.URL
	job.Force = force
	return job
}

// RefreshAll refreshes programs synchronously, at most
// cfg.RefreshConcurrency at a time, bypassing the queue. Snapshots are
// returned in the order of programs.
func (o *Orchestrator) RefreshAll(ctx context.Context, programs []config.Program, force bool) ([]JobSnapshot, error) {
	limit := o.cfg.RefreshConcurrency
	if limit <= 0 {
		limit = 1
	}

	jobs := make([]*Job, len(programs))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, p := range programs {
		job := o.newRefreshJob(p, force)
		jobs[i] = job
		o.jobs.Put(job)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				job.AddError(err.Error())
				job.SetStatus(StatusFailed, "queued")
				return err
			}
			NewWorker(o.deps, o.log).Process(ctx, job)
			return nil
		})
	}
	err := g.Wait()

	snaps := make([]JobSnapshot, len(jobs))
	for i, job := range jobs {
		snaps[i] = job.Snapshot()
	}
	return snaps, err
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// ParseStats returns the parse latency window and outcome counters.
func (o *Orchestrator) ParseStats() StatsSnapshot {
	return o.deps.Stats.Snapshot()
}

// Deps returns the collaborators shared by the workers.
func (o *Orchestrator) Deps() Deps {
	return o.deps
}
