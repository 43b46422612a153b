package ports

import (
	"context"

	"logistics/internal/core/domain/model/run"
)

// RunRecorder appends the statistics of one scan cycle to durable storage.
type RunRecorder interface {
	Record(ctx context.Context, stats run.Stats) error
}
