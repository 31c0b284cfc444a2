// Package schedule runs periodic accountability report generation.
// Reports are recomputed from the ledger on each run and handed to a
// sink, typically the report archive.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"veritas-ml/aequitas/pkg/accountability"
)

// Sink receives generated reports. *archive.ReportArchive satisfies it.
type Sink interface {
	Save(ctx context.Context, report *accountability.Report) error
}

// Job describes one recurring report.
type Job struct {
	// ModelID is the model to report on.
	ModelID string `yaml:"model_id"`

	// PeriodDays is the report window length.
	PeriodDays int `yaml:"period_days"`

	// Schedule is a standard cron expression, e.g. "0 3 * * *" for
	// daily at 3 AM.
	Schedule string `yaml:"schedule"`
}

// Scheduler generates and archives reports on cron schedules.
type Scheduler struct {
	store *accountability.Store
	sink  Sink
	jobs  []Job

	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewScheduler creates a report scheduler. The sink may be nil, in
// which case generated reports are only logged.
func NewScheduler(store *accountability.Store, sink Sink, jobs []Job) *Scheduler {
	return &Scheduler{
		store:  store,
		sink:   sink,
		jobs:   jobs,
		cron:   cron.New(),
		logger: slog.Default().With("component", "accountability.scheduler"),
	}
}

// Start begins scheduled report generation. If no jobs are configured,
// Start is a no-op. Every job's cron expression is validated before any
// job is registered, so a single bad expression rejects the whole set.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.jobs) == 0 {
		s.logger.Info("no report jobs configured, skipping scheduler")
		return nil
	}

	for _, job := range s.jobs {
		if job.ModelID == "" {
			return fmt.Errorf("report job has no model id")
		}
		if job.PeriodDays < 1 {
			return fmt.Errorf("report job for %q: period_days must be >= 1", job.ModelID)
		}
		if _, err := cron.ParseStandard(job.Schedule); err != nil {
			return fmt.Errorf("invalid cron schedule %q for %q: %w",
				job.Schedule, job.ModelID, err)
		}
	}

	for _, job := range s.jobs {
		job := job
		_, err := s.cron.AddFunc(job.Schedule, func() {
			s.runJob(ctx, job)
		})
		if err != nil {
			return fmt.Errorf("failed to schedule report for %q: %w", job.ModelID, err)
		}
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("report scheduler started", "jobs", len(s.jobs))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runJob executes one report generation cycle.
func (s *Scheduler) runJob(ctx context.Context, job Job) {
	s.logger.Info("generating scheduled report",
		"model_id", job.ModelID,
		"period_days", job.PeriodDays,
	)

	report, err := s.store.GenerateReport(ctx, job.ModelID, job.PeriodDays)
	if err != nil {
		s.logger.Error("scheduled report generation failed",
			"model_id", job.ModelID,
			"error", err,
		)
		return
	}

	if s.sink != nil {
		if err := s.sink.Save(ctx, report); err != nil {
			s.logger.Error("scheduled report archival failed",
				"report_id", report.ReportID,
				"error", err,
			)
			return
		}
	}

	s.logger.Info("scheduled report completed",
		"report_id", report.ReportID,
		"decisions", report.DecisionCount,
		"incidents", report.IncidentCount,
	)
}

// Stop stops the scheduler and waits for any running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("report scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled report time, or nil when nothing
// is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
