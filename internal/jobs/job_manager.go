package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	exceptionMonitor *ExceptionMonitorJob
	monitorInterval  time.Duration
	logger           *slog.Logger
}

// NewJobManager creates a job manager around the exception monitor.
func NewJobManager(monitor *ExceptionMonitorJob, monitorInterval time.Duration, logger *slog.Logger) *JobManager {
	return &JobManager{
		exceptionMonitor: monitor,
		monitorInterval:  monitorInterval,
		logger:           logger.With("component", "job_manager"),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.exceptionMonitor.Start(jm.monitorInterval); err != nil {
		return fmt.Errorf("failed to start exception monitor job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs and waits for in-flight cycles to finish.
func (jm *JobManager) StopAll() {
	jm.exceptionMonitor.Stop()
	<-jm.exceptionMonitor.Done()
	jm.logger.Info("All jobs stopped")
}
