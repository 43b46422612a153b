package ports

import (
	"context"

	"logistics/internal/core/domain/model/exception"
)

// EscalationSender delivers exception records to the crew-handling endpoint.
//
// Dispatch attempts every record independently and returns how many were
// accepted. Failed deliveries are not retried; the next cycle re-detects them.
type EscalationSender interface {
	Dispatch(ctx context.Context, records []exception.Record) int
}

// ExceptionPublisher mirrors detected exceptions to an event stream.
type ExceptionPublisher interface {
	Publish(ctx context.Context, records []exception.Record) error
}
