package ports

import (
	"context"

	"logistics/internal/core/domain/model/shipment"
)

// ShipmentStore is the read-only query surface over persisted shipments.
// The exception engine never writes through it.
type ShipmentStore interface {
	// QueryActiveShipments returns every shipment whose status is not terminal.
	QueryActiveShipments(ctx context.Context) ([]shipment.Shipment, error)

	// QueryContainers returns the containers of a shipment with the given type,
	// e.g. shipment.ContainerTypeReefer.
	QueryContainers(ctx context.Context, shipmentID, containerType string) ([]shipment.Container, error)

	// QueryPendingMilestones returns the milestones of a shipment that have no
	// actual time yet, ordered by expected time.
	QueryPendingMilestones(ctx context.Context, shipmentID string) ([]shipment.Milestone, error)
}
