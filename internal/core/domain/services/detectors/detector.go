package detectors

import (
	"time"

	"logistics/internal/core/domain/model/exception"
	"logistics/internal/core/domain/model/shipment"
)

// Detector is one independent exception check.
//
// Detect returns nil when the shipment shows no exception of this kind. An
// error means the check could not be performed; it is never a finding.
type Detector interface {
	Name() string
	Detect(snapshot shipment.Snapshot, now time.Time) (*exception.Record, error)
}
