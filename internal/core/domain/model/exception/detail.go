package exception

// Detail is the type-specific payload of a Record.
type Detail interface {
	ExceptionType() Type
}

// DelayDetail is attached to TypeDelay records.
type DelayDetail struct {
	DelayHours float64 `json:"delay_hours"`
}

func (DelayDetail) ExceptionType() Type { return TypeDelay }

// MLPredictionDetail is attached to TypeMLPrediction records.
type MLPredictionDetail struct {
	MLConfidence        float64  `json:"ml_confidence"`
	DelayProbability    float64  `json:"delay_probability"`
	PredictedDelayHours float64  `json:"predicted_delay_hours"`
	RiskFactors         []string `json:"risk_factors"`
	Recommendation      string   `json:"recommendation"`
}

func (MLPredictionDetail) ExceptionType() Type { return TypeMLPrediction }

// TemperatureDetail is attached to TypeTemperatureDeviation records.
type TemperatureDetail struct {
	ContainerID string  `json:"container_id"`
	CurrentTemp float64 `json:"current_temp"`
	TargetTemp  float64 `json:"target_temp"`
	Deviation   float64 `json:"deviation"`
}

func (TemperatureDetail) ExceptionType() Type { return TypeTemperatureDeviation }

// GeofenceDetail is attached to TypeGeofenceViolation records.
type GeofenceDetail struct {
	CurrentLocation string `json:"current_location"`
}

func (GeofenceDetail) ExceptionType() Type { return TypeGeofenceViolation }

// MilestoneDetail is attached to TypeMissingMilestone records.
type MilestoneDetail struct {
	MilestoneName string  `json:"milestone_name"`
	HoursOverdue  float64 `json:"hours_overdue"`
}

func (MilestoneDetail) ExceptionType() Type { return TypeMissingMilestone }
