package ports

import (
	"context"
)

// ReadSessionFactory creates a new ReadSession for each scan cycle.
type ReadSessionFactory interface {
	Create() ReadSession
}

// ReadSession is a read-only transaction boundary. Every query issued through
// its ShipmentStore sees the same snapshot of the database.
// Client code must call Close once the reads are done.
type ReadSession interface {
	// Begin opens the snapshot.
	Begin(ctx context.Context) error

	// Close releases the snapshot. Nothing is ever committed.
	Close(ctx context.Context) error

	// ShipmentStore returns a store bound to the current snapshot.
	ShipmentStore() ShipmentStore
}
