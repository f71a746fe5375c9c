package jobs

import (
	"context"
	"fmt"
	"time"

	"rentalstore-backend/internal/config"
	"rentalstore-backend/internal/logger"
	"rentalstore-backend/internal/metrics"
	"rentalstore-backend/internal/repository"
)

const jobTimeout = 5 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	repos  *repository.Repositories
	config *config.Config
	now    func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(repos *repository.Repositories, cfg *config.Config) *JobRunner {
	return &JobRunner{
		repos:  repos,
		config: cfg,
		now:    time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and records the
// outcome of every run.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	outcome := "success"
	defer func() {
		if r := recover(); r != nil {
			outcome = "panic"
			logger.Error("Job panicked", "job", jobName, "panic", fmt.Sprintf("%v", r))
		}
		metrics.JobRuns.WithLabelValues(jobName, outcome).Inc()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	logger.Info("Starting job", "job", jobName)
	start := jr.now()
	if err := jobFunc(ctx); err != nil {
		outcome = "failure"
		logger.Error("Job failed", "job", jobName, "error", err)
		return
	}
	logger.Info("Job completed", "job", jobName, "duration", jr.now().Sub(start).String())
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.ReportOverdueRentals()
	jr.AuditInventory()
}
