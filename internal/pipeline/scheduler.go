package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/dgallion1/curricula/internal/config"
)

// Scheduler queues a refresh of every catalog program on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	orch     *Orchestrator
	programs []config.Program
	log      *slog.Logger
}

// NewScheduler parses schedule (standard five-field cron or a descriptor such
// as "@daily") and registers the refresh.
func NewScheduler(schedule string, orch *Orchestrator, programs []config.Program, log *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		orch:     orch,
		programs: programs,
		log:      log,
	}
	if _, err := s.cron.AddFunc(schedule, s.refresh); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running refresh to finish queuing.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) refresh() {
	queued := 0
	for _, p := range s.programs {
		job, err := s.orch.SubmitRefresh(p, false)
		if err != nil {
			s.log.Warn("scheduled refresh not queued", "program", p.ID, "error", err)
			continue
		}
		s.log.Debug("scheduled refresh queued", "program", p.ID, "job_id", job.ID)
		queued++
	}
	s.log.Info("scheduled refresh", "programs", len(s.programs), "queued", queued)
}
