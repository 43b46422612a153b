package detectors

import (
	"time"

	"logistics/internal/core/domain/model/exception"
	"logistics/internal/core/domain/model/shipment"
)

// UnknownLocation is reported when the store has no position for the shipment.
const UnknownLocation = "Unknown"

type GeofenceDetector struct{}

func NewGeofenceDetector() *GeofenceDetector {
	return &GeofenceDetector{}
}

func (d *GeofenceDetector) Name() string {
	return string(exception.TypeGeofenceViolation)
}

func (d *GeofenceDetector) Detect(snapshot shipment.Snapshot, _ time.Time) (*exception.Record, error) {
	if !snapshot.Shipment.GeofenceViolation {
		return nil, nil
	}

	location := UnknownLocation
	if l := snapshot.Shipment.CurrentLocation; l != nil && *l != "" {
		location = *l
	}

	return exception.New(
		exception.TypeGeofenceViolation,
		exception.SeverityHigh,
		"Shipment outside expected route",
		exception.GeofenceDetail{CurrentLocation: location},
	)
}
