package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"logistics/internal/core/domain/model/exception"
	"logistics/internal/core/domain/model/run"
	"logistics/internal/core/domain/model/shipment"
	"logistics/internal/core/ports"
)

// DefaultPublishTimeout bounds one publish of a cycle's exceptions.
const DefaultPublishTimeout = 5 * time.Second

// RunExceptionScanCommandHandler executes one scan cycle:
//
//	read session ──> active shipments ──> snapshots ──> detectors
//	                                                       │
//	        recorder <── stats <── publisher <── dispatcher ┘
//
// Only a failure to open the session or list the active shipments aborts the
// cycle. Everything after that is best effort and logged: a broken sub-query
// disables one detector for one shipment, a failed delivery lowers the sent
// count, a failed publish or record write is logged and ignored. Publishing
// runs after dispatch under its own timeout, so a stalled broker never delays
// an escalation.
//
// Example:
//
//	handler := NewRunExceptionScanCommandHandler(sessions, battery, dispatcher, recorder, logger)
//	cmd, _ := NewRunExceptionScanCommand(TriggerScheduled)
//
//	stats, err := handler.Handle(ctx, cmd)
//	var cycleErr *CycleError
//	if errors.As(err, &cycleErr) {
//	    // back off, stats.Error is set
//	}
type RunExceptionScanCommandHandler struct {
	sessions   ports.ReadSessionFactory
	evaluator  Evaluator
	dispatcher ports.EscalationSender
	recorder   ports.RunRecorder
	publisher  ports.ExceptionPublisher
	pubTimeout time.Duration
	observer   CycleObserver
	clock      func() time.Time
	logger     *slog.Logger
}

// HandlerOption customizes a RunExceptionScanCommandHandler.
type HandlerOption func(*RunExceptionScanCommandHandler)

// WithPublisher mirrors every detected exception to an event stream.
func WithPublisher(p ports.ExceptionPublisher) HandlerOption {
	return func(h *RunExceptionScanCommandHandler) {
		h.publisher = p
	}
}

// WithPublishTimeout overrides DefaultPublishTimeout.
func WithPublishTimeout(d time.Duration) HandlerOption {
	return func(h *RunExceptionScanCommandHandler) {
		if d > 0 {
			h.pubTimeout = d
		}
	}
}

// WithCycleObserver reports cycle outcomes, e.g. to metrics.
func WithCycleObserver(o CycleObserver) HandlerOption {
	return func(h *RunExceptionScanCommandHandler) {
		if o != nil {
			h.observer = o
		}
	}
}

// WithClock replaces time.Now for cycle timestamps and durations.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *RunExceptionScanCommandHandler) {
		h.clock = clock
	}
}

// NewRunExceptionScanCommandHandler wires a scan handler.
func NewRunExceptionScanCommandHandler(
	sessions ports.ReadSessionFactory,
	evaluator Evaluator,
	dispatcher ports.EscalationSender,
	recorder ports.RunRecorder,
	logger *slog.Logger,
	opts ...HandlerOption,
) *RunExceptionScanCommandHandler {
	h := &RunExceptionScanCommandHandler{
		sessions:   sessions,
		evaluator:  evaluator,
		dispatcher: dispatcher,
		recorder:   recorder,
		pubTimeout: DefaultPublishTimeout,
		observer:   noopCycleObserver{},
		clock:      time.Now,
		logger:     logger.With("component", "exception_scan"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle runs the cycle and returns its statistics. The error is either a
// command validation error or a *CycleError.
func (h *RunExceptionScanCommandHandler) Handle(ctx context.Context, cmd RunExceptionScanCommand) (run.Stats, error) {
	if err := cmd.Validate(); err != nil {
		return run.Stats{}, err
	}

	started := h.clock()
	h.logger.InfoContext(ctx, "Starting exception scan", "trigger", cmd.Trigger())

	snapshots, err := h.loadSnapshots(ctx)
	if err != nil {
		stats := run.NewFailedStats(started, h.clock().Sub(started), err)
		h.logger.ErrorContext(ctx, "Exception scan failed", "error", err, "duration_ms", stats.DurationMS)
		h.record(ctx, stats)
		h.observer.CycleFailed(stats)
		return stats, &CycleError{Stats: stats, Err: err}
	}

	records := h.evaluator.EvaluateAll(ctx, snapshots, started)

	sent := 0
	if len(records) > 0 {
		sent = h.dispatcher.Dispatch(ctx, records)
		h.publish(ctx, records)
	}

	stats, err := run.NewStats(started, len(records), len(snapshots), sent, h.clock().Sub(started))
	if err != nil {
		// the dispatcher reported more deliveries than records
		stats = run.NewFailedStats(started, h.clock().Sub(started), err)
		h.record(ctx, stats)
		h.observer.CycleFailed(stats)
		return stats, &CycleError{Stats: stats, Err: err}
	}

	h.record(ctx, stats)
	h.observer.CycleCompleted(stats)

	h.logger.InfoContext(ctx, "Exception scan completed",
		"shipments_checked", stats.ShipmentsChecked,
		"exceptions_found", stats.ExceptionsFound,
		"notifications_sent", stats.NotificationsSent,
		"duration_ms", stats.DurationMS)

	return stats, nil
}

// loadSnapshots reads all active shipments and their details in one read
// session. The session is closed before any outbound call is made.
func (h *RunExceptionScanCommandHandler) loadSnapshots(ctx context.Context) ([]shipment.Snapshot, error) {
	session := h.sessions.Create()
	if err := session.Begin(ctx); err != nil {
		return nil, fmt.Errorf("open read session: %w", err)
	}
	defer func() {
		if err := session.Close(ctx); err != nil {
			h.logger.WarnContext(ctx, "Failed to close read session", "error", err)
		}
	}()

	store := session.ShipmentStore()
	shipments, err := store.QueryActiveShipments(ctx)
	if err != nil {
		return nil, fmt.Errorf("query active shipments: %w", err)
	}

	snapshots := make([]shipment.Snapshot, 0, len(shipments))
	for _, s := range shipments {
		snapshot := shipment.Snapshot{Shipment: s}
		snapshot.ReeferContainers, snapshot.ContainersErr = store.QueryContainers(ctx, s.ID, shipment.ContainerTypeReefer)
		snapshot.PendingMilestones, snapshot.MilestonesErr = store.QueryPendingMilestones(ctx, s.ID)
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

func (h *RunExceptionScanCommandHandler) publish(ctx context.Context, records []exception.Record) {
	if h.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, h.pubTimeout)
	defer cancel()

	if err := h.publisher.Publish(pubCtx, records); err != nil {
		h.logger.ErrorContext(ctx, "Failed to publish exceptions", "count", len(records), "error", err)
	}
}

func (h *RunExceptionScanCommandHandler) record(ctx context.Context, stats run.Stats) {
	if h.recorder == nil {
		return
	}
	if err := h.recorder.Record(ctx, stats); err != nil {
		h.logger.ErrorContext(ctx, "Failed to record run statistics", "error", err)
	}
}
