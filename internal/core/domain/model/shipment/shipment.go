package shipment

import (
	"time"

	"logistics/internal/pkg/errs"
)

// Shipment is one booking as persisted by the shipment store.
//
// Optional attributes are pointers; nil means the store has no value, which
// the detectors and the risk model treat explicitly instead of reading zeros.
type Shipment struct {
	ID                  string
	Status              Status
	DelayHours          float64
	MLDelayConfidence   *float64
	PredictedDelayHours *float64
	GeofenceViolation   bool
	CurrentLocation     *string

	// Attributes consumed by the delay-risk model.
	OriginPort       string
	DestinationPort  string
	Carrier          string
	ContainerType    string
	PlannedDeparture *time.Time
	PlannedArrival   *time.Time
	RiskFlag         bool
}

// Validate checks the fields every detector relies on.
func (s Shipment) Validate() error {
	if s.ID == "" {
		return errs.NewValueIsRequiredError("shipment id")
	}
	return s.Status.Validate()
}

// IsActive reports whether the shipment should be scanned.
func (s Shipment) IsActive() bool {
	return !s.Status.IsTerminal()
}
