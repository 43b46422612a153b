package shipmentrepo

import (
	"context"

	"logistics/internal/core/domain/model/shipment"
	"logistics/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormShipmentStore implements ports.ShipmentStore using GORM.
type GormShipmentStore struct {
	db *gorm.DB
}

// NewGormShipmentStore creates a store over db, which may be a transaction.
func NewGormShipmentStore(db *gorm.DB) *GormShipmentStore {
	return &GormShipmentStore{db: db}
}

// QueryActiveShipments returns every shipment not yet delivered, ordered by id.
func (r *GormShipmentStore) QueryActiveShipments(ctx context.Context) ([]shipment.Shipment, error) {
	var dtos []ShipmentDTO
	if err := r.db.WithContext(ctx).
		Where("status <> ?", string(shipment.Delivered)).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	shipments := make([]shipment.Shipment, 0, len(dtos))
	for _, dto := range dtos {
		shipments = append(shipments, shipmentToDomain(dto))
	}
	return shipments, nil
}

// QueryContainers returns the containers of shipmentID with containerType.
func (r *GormShipmentStore) QueryContainers(ctx context.Context, shipmentID, containerType string) ([]shipment.Container, error) {
	if shipmentID == "" {
		return nil, errs.NewValueIsRequiredError("shipment id")
	}

	var dtos []ContainerDTO
	if err := r.db.WithContext(ctx).
		Where("shipment_id = ? AND container_type = ?", shipmentID, containerType).
		Order("container_id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	containers := make([]shipment.Container, 0, len(dtos))
	for _, dto := range dtos {
		containers = append(containers, containerToDomain(dto))
	}
	return containers, nil
}

// QueryPendingMilestones returns the milestones of shipmentID without an
// actual time, earliest expected first. Undated milestones come last.
func (r *GormShipmentStore) QueryPendingMilestones(ctx context.Context, shipmentID string) ([]shipment.Milestone, error) {
	if shipmentID == "" {
		return nil, errs.NewValueIsRequiredError("shipment id")
	}

	var dtos []MilestoneDTO
	if err := r.db.WithContext(ctx).
		Where("shipment_id = ? AND actual_time IS NULL", shipmentID).
		Order("expected_time ASC NULLS LAST, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	milestones := make([]shipment.Milestone, 0, len(dtos))
	for _, dto := range dtos {
		milestones = append(milestones, milestoneToDomain(dto))
	}
	return milestones, nil
}
