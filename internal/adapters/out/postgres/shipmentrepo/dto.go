// Package shipmentrepo maps the shipments, containers and milestones tables
// onto the read-only shipment model.
package shipmentrepo

import (
	"time"

	"logistics/internal/core/domain/model/shipment"
)

// ShipmentDTO is a row of the shipments table. Nullable columns are pointers.
type ShipmentDTO struct {
	ID                  string `gorm:"type:varchar(64);primaryKey"`
	Status              string `gorm:"type:varchar(32);index;not null"`
	DelayHours          float64
	MLDelayConfidence   *float64 `gorm:"column:ml_delay_confidence"`
	PredictedDelayHours *float64
	GeofenceViolation   bool
	CurrentLocation     *string
	OriginPort          string
	DestinationPort     string
	VesselName          string
	ContainerType       string
	ETD                 *time.Time `gorm:"column:etd"`
	ETA                 *time.Time `gorm:"column:eta"`
	RiskFlag            bool
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

// ContainerDTO is a row of the containers table.
type ContainerDTO struct {
	ContainerID   string `gorm:"type:varchar(32);primaryKey"`
	ShipmentID    string `gorm:"type:varchar(64);index;not null"`
	CurrentTemp   *float64
	TargetTemp    *float64
	ContainerType string `gorm:"type:varchar(32);index"`
}

func (ContainerDTO) TableName() string {
	return "containers"
}

// MilestoneDTO is a row of the milestones table.
type MilestoneDTO struct {
	ID            uint   `gorm:"primaryKey"`
	ShipmentID    string `gorm:"type:varchar(64);index;not null"`
	MilestoneName string
	ExpectedTime  *time.Time
	ActualTime    *time.Time
}

func (MilestoneDTO) TableName() string {
	return "milestones"
}

func shipmentToDomain(dto ShipmentDTO) shipment.Shipment {
	return shipment.Shipment{
		ID:                  dto.ID,
		Status:              shipment.Status(dto.Status),
		DelayHours:          dto.DelayHours,
		MLDelayConfidence:   dto.MLDelayConfidence,
		PredictedDelayHours: dto.PredictedDelayHours,
		GeofenceViolation:   dto.GeofenceViolation,
		CurrentLocation:     dto.CurrentLocation,
		OriginPort:          dto.OriginPort,
		DestinationPort:     dto.DestinationPort,
		Carrier:             dto.VesselName,
		ContainerType:       dto.ContainerType,
		PlannedDeparture:    dto.ETD,
		PlannedArrival:      dto.ETA,
		RiskFlag:            dto.RiskFlag,
	}
}

func containerToDomain(dto ContainerDTO) shipment.Container {
	return shipment.Container{
		ContainerID:   dto.ContainerID,
		ShipmentID:    dto.ShipmentID,
		CurrentTemp:   dto.CurrentTemp,
		TargetTemp:    dto.TargetTemp,
		ContainerType: dto.ContainerType,
	}
}

func milestoneToDomain(dto MilestoneDTO) shipment.Milestone {
	return shipment.Milestone{
		Name:         dto.MilestoneName,
		ShipmentID:   dto.ShipmentID,
		ExpectedTime: dto.ExpectedTime,
		ActualTime:   dto.ActualTime,
	}
}
