// Package retention prunes stored rules by age and by count.
//
// A Pruner applies two limits in order: records older than Days are deleted,
// then the oldest records beyond MaxRecords are deleted. Either limit is
// disabled by setting it to 0. A Scheduler runs the pruner on a cron schedule:
//
//	pruner := retention.NewPruner(s, cfg, logger)
//	sched := retention.NewScheduler(pruner)
//	if err := sched.Start(ctx); err != nil { ... }
//	defer sched.Stop()
package retention
