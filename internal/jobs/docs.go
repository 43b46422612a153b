// Package jobs provides the background loop of the exception monitor.
//
// # Available Jobs
//
// ExceptionMonitorJob runs one exception scan cycle, waits for the
// configured interval and repeats until stopped. The waits are computed with
// github.com/robfig/cron/v3 schedules: cron.Every(interval) after a
// successful cycle and cron.Every(DefaultCooldown) after a failed one.
//
// # Usage
//
//	monitor := jobs.NewExceptionMonitorJob(scanHandler, logger)
//	jobManager := jobs.NewJobManager(monitor, 5*time.Minute, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
//   - A failed or panicking cycle is logged, counted in Status().FailedRuns
//     and followed by the cooldown; the loop never exits on its own
//   - Start on a running job returns ErrAlreadyRunning
//   - Stop does not interrupt a cycle in progress; wait on Done for that
package jobs
