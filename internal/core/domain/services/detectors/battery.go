package detectors

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"logistics/internal/core/domain/model/exception"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/shipment"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many shipments EvaluateAll inspects at once.
const DefaultConcurrency = 8

// Observer is notified of every detector outcome.
type Observer interface {
	ExceptionDetected(t exception.Type, severity exception.Severity)
	DetectorFailed(detector string)
}

type noopObserver struct{}

func (noopObserver) ExceptionDetected(exception.Type, exception.Severity) {}
func (noopObserver) DetectorFailed(string)                                {}

// Option customizes a Battery.
type Option func(*Battery)

// WithConcurrency sets the number of shipments evaluated in parallel.
func WithConcurrency(n int) Option {
	return func(b *Battery) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithObserver reports findings and failures, e.g. to metrics.
func WithObserver(o Observer) Option {
	return func(b *Battery) {
		if o != nil {
			b.observer = o
		}
	}
}

// WithIDGenerator replaces kernel.NewUUID for record ids.
func WithIDGenerator(newID func() kernel.UUID) Option {
	return func(b *Battery) {
		b.newID = newID
	}
}

// Battery runs a fixed set of detectors over shipments.
type Battery struct {
	detectors   []Detector
	concurrency int
	observer    Observer
	newID       func() kernel.UUID
	logger      *slog.Logger
}

// DefaultDetectors returns the five checks in their reporting order.
// predictor may be nil when no risk model is loaded.
func DefaultDetectors(predictor Predictor) []Detector {
	return []Detector{
		NewDelayDetector(),
		NewMLPredictionDetector(predictor),
		NewTemperatureDetector(),
		NewGeofenceDetector(),
		NewMilestoneDetector(),
	}
}

// NewBattery creates a battery running detectors in the given order.
//
// Example:
//
//	battery := detectors.NewBattery(
//	    detectors.DefaultDetectors(model),
//	    logger,
//	    detectors.WithConcurrency(16),
//	)
//	records := battery.EvaluateAll(ctx, snapshots, time.Now())
func NewBattery(detectors []Detector, logger *slog.Logger, opts ...Option) *Battery {
	b := &Battery{
		detectors:   detectors,
		concurrency: DefaultConcurrency,
		observer:    noopObserver{},
		newID:       kernel.NewUUID,
		logger:      logger.With("component", "detector_battery"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Evaluate runs every detector on one shipment and returns the findings in
// detector order, stamped with a fresh id, the shipment id and now.
//
// A malformed shipment counts as a failure of every detector and yields no
// findings. A shipment in a terminal status is skipped.
func (b *Battery) Evaluate(ctx context.Context, snapshot shipment.Snapshot, now time.Time) []exception.Record {
	if err := snapshot.Shipment.Validate(); err != nil {
		for _, d := range b.detectors {
			b.observer.DetectorFailed(d.Name())
		}
		b.logger.ErrorContext(ctx, "Malformed shipment skipped",
			"shipment_id", snapshot.Shipment.ID,
			"error", err)
		return nil
	}
	if !snapshot.Shipment.IsActive() {
		return nil
	}

	var records []exception.Record
	for _, d := range b.detectors {
		rec, err := b.run(d, snapshot, now)
		if err != nil {
			b.observer.DetectorFailed(d.Name())
			b.logger.ErrorContext(ctx, "Detector failed",
				"detector", d.Name(),
				"shipment_id", snapshot.Shipment.ID,
				"error", err)
			continue
		}
		if rec == nil {
			continue
		}
		rec.Stamp(b.newID(), snapshot.Shipment.ID, now)
		b.observer.ExceptionDetected(rec.Type, rec.Severity)
		records = append(records, *rec)
	}
	return records
}

// run isolates a single detector so that a panic becomes an error.
func (b *Battery) run(d Detector, snapshot shipment.Snapshot, now time.Time) (rec *exception.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec, err = nil, fmt.Errorf("detector panicked: %v", r)
		}
	}()
	return d.Detect(snapshot, now)
}

// EvaluateAll evaluates shipments concurrently and returns all findings in
// shipment order, so equal inputs give equally ordered outputs.
func (b *Battery) EvaluateAll(ctx context.Context, snapshots []shipment.Snapshot, now time.Time) []exception.Record {
	perShipment := make([][]exception.Record, len(snapshots))

	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for i := range snapshots {
		g.Go(func() error {
			perShipment[i] = b.Evaluate(ctx, snapshots[i], now)
			return nil
		})
	}
	_ = g.Wait()

	var records []exception.Record
	for _, rs := range perShipment {
		records = append(records, rs...)
	}
	return records
}
