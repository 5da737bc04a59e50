package scheduler

import (
	"log/slog"
	"time"

	"github.com/balancehq/practice-backend-go/internal/jobs"
	"github.com/robfig/cron/v3"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Cron

	// Assign identifiers to invitations that still lack one
	_, err := s.cron.AddFunc(cfg.UUIDBackfillSpec, s.jobs.BackfillInvitationUUIDs)
	if err != nil {
		slog.Error("Failed to register BackfillInvitationUUIDs job", "error", err)
	}

	// Purge refresh tokens past their retention window
	_, err = s.cron.AddFunc(cfg.TokenPurgeSpec, s.jobs.PurgeExpiredRefreshTokens)
	if err != nil {
		slog.Error("Failed to register PurgeExpiredRefreshTokens job", "error", err)
	}

	slog.Info("All cron jobs registered successfully")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	slog.Info("Starting cron scheduler...")
	s.cron.Start()
	slog.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler is running
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
