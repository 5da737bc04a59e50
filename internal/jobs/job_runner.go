package jobs

import (
	"log/slog"

	"github.com/balancehq/practice-backend-go/internal/config"
	"github.com/balancehq/practice-backend-go/internal/domain/invitation"
	"github.com/balancehq/practice-backend-go/internal/repository/postgresql"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	invitationRepo invitation.InvitationRepository
	jwtRepo        postgresql.JWTRepository
	config         *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(invitationRepo invitation.InvitationRepository, jwtRepo postgresql.JWTRepository, cfg *config.Config) *JobRunner {
	return &JobRunner{
		invitationRepo: invitationRepo,
		jwtRepo:        jwtRepo,
		config:         cfg,
	}
}

// Config exposes the configuration for schedule registration
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	slog.Info("Starting job", "job", jobName)
	jobFunc()
	slog.Info("Job completed", "job", jobName)
}
