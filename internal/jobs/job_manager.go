package jobs

import (
	"context"
	"fmt"

	"orderflow/internal/core/application/usecases/commands"

	"go.uber.org/zap"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	boardResyncJob *BoardResyncJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	syncBoardHandler commands.SyncBoardCommandHandler,
	resyncSchedule string,
	logger *zap.Logger,
) *JobManager {
	return &JobManager{
		boardResyncJob: NewBoardResyncJob(syncBoardHandler, resyncSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll(ctx context.Context) error {
	if err := jm.boardResyncJob.Start(ctx); err != nil {
		return fmt.Errorf("failed to start board resync job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.boardResyncJob.Stop()
}
