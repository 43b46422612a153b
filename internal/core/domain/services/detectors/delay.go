package detectors

import (
	"fmt"
	"time"

	"logistics/internal/core/domain/model/exception"
	"logistics/internal/core/domain/model/shipment"
)

const (
	DelayThresholdHours    = 24.0
	DelayHighSeverityHours = 48.0
)

// DelayDetector flags shipments running more than a day behind schedule.
type DelayDetector struct{}

func NewDelayDetector() *DelayDetector {
	return &DelayDetector{}
}

func (d *DelayDetector) Name() string {
	return string(exception.TypeDelay)
}

func (d *DelayDetector) Detect(snapshot shipment.Snapshot, _ time.Time) (*exception.Record, error) {
	hours := snapshot.Shipment.DelayHours
	if hours <= DelayThresholdHours {
		return nil, nil
	}

	severity := exception.SeverityMedium
	if hours > DelayHighSeverityHours {
		severity = exception.SeverityHigh
	}

	return exception.New(
		exception.TypeDelay,
		severity,
		fmt.Sprintf("Shipment delayed by %g hours (threshold: %gh)", hours, DelayThresholdHours),
		exception.DelayDetail{DelayHours: hours},
	)
}
