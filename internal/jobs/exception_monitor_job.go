package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/domain/model/run"
	"logistics/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// DefaultCooldown is how long the loop waits after a failed cycle.
const DefaultCooldown = time.Minute

var ErrAlreadyRunning = errors.New("exception monitor is already running")

// ScanHandler runs one exception scan cycle.
type ScanHandler interface {
	Handle(ctx context.Context, cmd commands.RunExceptionScanCommand) (run.Stats, error)
}

// Status is a point-in-time view of the monitor loop.
type Status struct {
	Running     bool
	Interval    time.Duration
	TotalRuns   int
	FailedRuns  int
	LastRunTime *time.Time
	LastStats   *run.Stats
}

// ExceptionMonitorJob drives scan cycles on a fixed interval.
//
// Unlike a cron table entry, the next cycle is scheduled from the end of the
// previous one, so cycles never overlap. A failed cycle is followed by a
// fixed cooldown instead of the regular interval. Stop prevents further
// cycles; a cycle already in progress runs to completion.
type ExceptionMonitorJob struct {
	handler  ScanHandler
	cooldown time.Duration
	clock    func() time.Time
	logger   *slog.Logger

	// cycleMu serializes scheduled and manual cycles.
	cycleMu sync.Mutex

	mu          sync.Mutex
	running     bool
	interval    time.Duration
	stop        chan struct{}
	done        chan struct{}
	totalRuns   int
	failedRuns  int
	lastRunTime *time.Time
	lastStats   *run.Stats
}

// MonitorOption customizes an ExceptionMonitorJob.
type MonitorOption func(*ExceptionMonitorJob)

// WithCooldown overrides DefaultCooldown.
func WithCooldown(d time.Duration) MonitorOption {
	return func(j *ExceptionMonitorJob) {
		if d > 0 {
			j.cooldown = d
		}
	}
}

// WithMonitorClock replaces time.Now for scheduling decisions.
func WithMonitorClock(clock func() time.Time) MonitorOption {
	return func(j *ExceptionMonitorJob) {
		j.clock = clock
	}
}

// NewExceptionMonitorJob creates a stopped monitor around handler.
func NewExceptionMonitorJob(handler ScanHandler, logger *slog.Logger, opts ...MonitorOption) *ExceptionMonitorJob {
	j := &ExceptionMonitorJob{
		handler:  handler,
		cooldown: DefaultCooldown,
		clock:    time.Now,
		logger:   logger.With("component", "exception_monitor_job"),
	}
	for _, opt := range opts {
		opt(j)
	}

	done := make(chan struct{})
	close(done)
	j.done = done
	return j
}

// Start launches the loop. The first cycle runs immediately. Intervals
// below one second are rejected, matching the resolution of the schedule.
func (j *ExceptionMonitorJob) Start(interval time.Duration) error {
	if interval < time.Second {
		return errs.NewValueIsOutOfRangeError("interval", interval, "1s", "unbounded")
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return ErrAlreadyRunning
	}

	j.running = true
	j.interval = interval
	j.stop = make(chan struct{})
	j.done = make(chan struct{})
	go j.loop(interval, j.stop, j.done)

	j.logger.InfoContext(context.Background(), "Exception monitor started", "interval", interval.String())
	return nil
}

// Stop asks the loop to exit at its next suspension point. Use Done to wait
// for an in-flight cycle to finish.
func (j *ExceptionMonitorJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.running {
		return
	}

	j.running = false
	close(j.stop)
	j.logger.InfoContext(context.Background(), "Exception monitor stopped")
}

// Done is closed once the loop has exited. It is already closed for a job
// that was never started.
func (j *ExceptionMonitorJob) Done() <-chan struct{} {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.done
}

// Status reports the in-memory counters of the loop.
func (j *ExceptionMonitorJob) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()

	s := Status{
		Running:    j.running,
		TotalRuns:  j.totalRuns,
		FailedRuns: j.failedRuns,
	}
	if j.running {
		s.Interval = j.interval
	}
	if j.lastRunTime != nil {
		t := *j.lastRunTime
		s.LastRunTime = &t
	}
	if j.lastStats != nil {
		stats := *j.lastStats
		s.LastStats = &stats
	}
	return s
}

// RunOnce runs a manual cycle outside the schedule. It waits for a scheduled
// cycle in progress to finish first.
func (j *ExceptionMonitorJob) RunOnce(ctx context.Context) (run.Stats, error) {
	return j.runCycle(ctx, commands.TriggerManual)
}

func (j *ExceptionMonitorJob) loop(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		default:
		}

		_, err := j.runCycle(context.Background(), commands.TriggerScheduled)

		schedule := j.nextSchedule(interval, err)
		now := j.clock()
		timer := time.NewTimer(schedule.Next(now).Sub(now))

		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// nextSchedule picks the suspension after a cycle that ended with err.
func (j *ExceptionMonitorJob) nextSchedule(interval time.Duration, err error) cron.Schedule {
	if err != nil {
		return cron.Every(j.cooldown)
	}
	return cron.Every(interval)
}

func (j *ExceptionMonitorJob) runCycle(ctx context.Context, trigger string) (stats run.Stats, err error) {
	cmd, err := commands.NewRunExceptionScanCommand(trigger)
	if err != nil {
		return run.Stats{}, err
	}

	j.cycleMu.Lock()
	defer j.cycleMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scan cycle panicked: %v", r)
			stats = run.NewFailedStats(j.clock(), 0, err)
		}
		j.observe(ctx, trigger, stats, err)
	}()

	return j.handler.Handle(ctx, cmd)
}

func (j *ExceptionMonitorJob) observe(ctx context.Context, trigger string, stats run.Stats, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err != nil {
		j.failedRuns++
		if stats.Failed() {
			j.lastStats = &stats
		}
		j.logger.ErrorContext(ctx, "Exception scan cycle failed",
			"trigger", trigger,
			"error", err,
			"cooldown", j.cooldown.String())
		return
	}

	j.totalRuns++
	now := j.clock()
	j.lastRunTime = &now
	j.lastStats = &stats
}
