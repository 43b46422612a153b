package detectors

import (
	"fmt"
	"time"

	"logistics/internal/core/domain/model/exception"
	"logistics/internal/core/domain/model/shipment"
)

// TemperatureDeviationThreshold is the tolerated reefer drift in °C.
const TemperatureDeviationThreshold = 5.0

// TemperatureDetector flags the first reefer container whose reading drifts
// too far from its set point. Containers without both readings are skipped.
type TemperatureDetector struct{}

func NewTemperatureDetector() *TemperatureDetector {
	return &TemperatureDetector{}
}

func (d *TemperatureDetector) Name() string {
	return string(exception.TypeTemperatureDeviation)
}

func (d *TemperatureDetector) Detect(snapshot shipment.Snapshot, _ time.Time) (*exception.Record, error) {
	if snapshot.ContainersErr != nil {
		return nil, fmt.Errorf("load reefer containers: %w", snapshot.ContainersErr)
	}

	for _, c := range snapshot.ReeferContainers {
		if !c.IsReefer() {
			continue
		}
		deviation, ok := c.TemperatureDeviation()
		if !ok || deviation <= TemperatureDeviationThreshold {
			continue
		}
		return exception.New(
			exception.TypeTemperatureDeviation,
			exception.SeverityHigh,
			fmt.Sprintf("Container %s temperature deviation: %.1f°C", c.ContainerID, deviation),
			exception.TemperatureDetail{
				ContainerID: c.ContainerID,
				CurrentTemp: *c.CurrentTemp,
				TargetTemp:  *c.TargetTemp,
				Deviation:   deviation,
			},
		)
	}
	return nil, nil
}
