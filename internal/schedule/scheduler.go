// Package schedule fires the pipeline on a cron expression.
package schedule

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a job on a standard 5-field cron spec. Triggers that
// arrive while a previous run is still in flight are skipped, not queued:
// the next scheduled slot picks up instead.
type Scheduler struct {
	cron    *cron.Cron
	job     func()
	running atomic.Bool
	logger  *slog.Logger
}

// New creates a Scheduler for the given spec. If logger is nil,
// slog.Default() is used.
func New(spec string, job func(), logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		cron:   cron.New(),
		job:    job,
		logger: logger,
	}
	if _, err := s.cron.AddFunc(spec, s.trigger); err != nil {
		return nil, fmt.Errorf("register pipeline job: %w", err)
	}
	return s, nil
}

// Start begins firing the job on schedule.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the schedule and waits for an in-flight job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// TriggerNow fires the job immediately, subject to the same overlap guard
// as scheduled triggers.
func (s *Scheduler) TriggerNow() {
	s.trigger()
}

func (s *Scheduler) trigger() {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous run still in flight, skipping trigger")
		return
	}
	defer s.running.Store(false)
	s.job()
}
