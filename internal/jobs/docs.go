// Package jobs provides scheduled background tasks.
//
// Jobs are cron-driven (github.com/robfig/cron/v3) and call command handlers;
// they hold no state of their own.
//
// # Available Jobs
//
// BoardResyncJob runs SyncBoardCommand on a schedule (RESYNC_SCHEDULE,
// default every 30 seconds) so an instance that missed notifications, or
// started after they were sent, converges on the order store.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(syncBoardHandler, cfg.ResyncSchedule, logger)
//	if err := jobManager.StartAll(ctx); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed sync is logged and retried at the next tick. Overlapping ticks are
// skipped while a sync is still running.
package jobs
