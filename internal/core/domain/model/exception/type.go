package exception

import (
	"fmt"

	"logistics/internal/pkg/errs"
)

// Type names the detector that produced a record.
type Type string

const (
	TypeDelay                Type = "delay"
	TypeMLPrediction         Type = "ml_prediction"
	TypeTemperatureDeviation Type = "temperature_deviation"
	TypeGeofenceViolation    Type = "geofence_violation"
	TypeMissingMilestone     Type = "missing_milestone"
)

// Types lists every exception type in detector order.
func Types() []Type {
	return []Type{
		TypeDelay,
		TypeMLPrediction,
		TypeTemperatureDeviation,
		TypeGeofenceViolation,
		TypeMissingMilestone,
	}
}

func (t Type) Validate() error {
	for _, known := range Types() {
		if t == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("exception type", fmt.Errorf("%q is not an exception type", string(t)))
}

func (t Type) String() string {
	return string(t)
}

// Severity ranks how urgently the crew should act.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) Validate() error {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("severity", fmt.Errorf("%q is not a severity", string(s)))
	}
}

func (s Severity) String() string {
	return string(s)
}
