package jobs

import (
	"context"
	"errors"
	"sync"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/ports"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultResyncSchedule re-reads the order store every 30 seconds.
const DefaultResyncSchedule = "@every 30s"

type boardSyncer interface {
	Handle(ctx context.Context, cmd commands.SyncBoardCommand) (commands.SyncBoardResult, error)
}

// BoardResyncJob periodically reconciles the in-memory board with the order
// store, catching up on notifications this instance missed.
type BoardResyncJob struct {
	handler  boardSyncer
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewBoardResyncJob creates the job. schedule is a cron expression with
// seconds or a descriptor such as "@every 1m"; empty means
// DefaultResyncSchedule.
func NewBoardResyncJob(handler boardSyncer, schedule string, logger *zap.Logger) *BoardResyncJob {
	if schedule == "" {
		schedule = DefaultResyncSchedule
	}
	logger = logger.With(zap.String("component", "board_resync_job"))
	return &BoardResyncJob{
		handler:  handler,
		schedule: schedule,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger{logger.Sugar()}),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger.Sugar()})),
		),
		logger: logger,
	}
}

// Start runs one sync immediately, then schedules the rest. Cancelling ctx
// aborts a sync in progress.
func (j *BoardResyncJob) Start(ctx context.Context) error {
	j.mu.Lock()
	j.ctx, j.cancel = context.WithCancel(ctx)
	j.mu.Unlock()

	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.Run()
	j.cron.Start()
	j.logger.Info("Board resync job started", zap.String("schedule", j.schedule))
	return nil
}

// Run performs one sync and logs its outcome.
func (j *BoardResyncJob) Run() {
	ctx := j.context()
	result, err := j.handler.Handle(ctx, commands.NewSyncBoardCommand())
	switch {
	case err == nil:
		j.logger.Debug("Board resynced", zap.Int("read", result.Read), zap.Int("merged", result.Merged))
	case errors.Is(err, context.Canceled):
		// shutting down
	case errors.Is(err, ports.ErrAuthExpired):
		j.logger.Error("Board resync rejected, service credentials expired", zap.Error(err))
	default:
		j.logger.Warn("Board resync failed", zap.Error(err))
	}
}

// Stop stops scheduling and waits for a running sync to finish.
func (j *BoardResyncJob) Stop() {
	j.mu.Lock()
	if j.cancel != nil {
		j.cancel()
	}
	j.mu.Unlock()

	<-j.cron.Stop().Done()
	j.logger.Info("Board resync job stopped")
}

func (j *BoardResyncJob) context() context.Context {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.ctx == nil {
		return context.Background()
	}
	return j.ctx
}

// cronLogger routes cron's own messages to zap.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
