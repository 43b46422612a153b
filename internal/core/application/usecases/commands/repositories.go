// Package commands contains the operations that drive the exception engine.
// Each command is created through its constructor and executed by a handler
// that owns the read session, the detectors and the outbound adapters.
package commands

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/exception"
	"logistics/internal/core/domain/model/run"
	"logistics/internal/core/domain/model/shipment"
)

type (
	// Evaluator runs the detector battery over a set of snapshots.
	// *detectors.Battery implements it.
	Evaluator interface {
		EvaluateAll(ctx context.Context, snapshots []shipment.Snapshot, now time.Time) []exception.Record
	}

	// CycleObserver is told about every finished or failed cycle.
	CycleObserver interface {
		CycleCompleted(stats run.Stats)
		CycleFailed(stats run.Stats)
	}
)

type noopCycleObserver struct{}

func (noopCycleObserver) CycleCompleted(run.Stats) {}
func (noopCycleObserver) CycleFailed(run.Stats)    {}
