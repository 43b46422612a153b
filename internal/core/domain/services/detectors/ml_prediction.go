package detectors

import (
	"errors"
	"fmt"
	"time"

	"logistics/internal/core/domain/model/exception"
	"logistics/internal/core/domain/model/shipment"
	"logistics/internal/core/domain/services/riskmodel"
)

const (
	MLConfidenceThreshold    = 0.70
	MLHighSeverityConfidence = 0.85

	// DefaultPredictedDelayHours is reported when the store has no estimate.
	DefaultPredictedDelayHours = 24.0
)

// Predictor scores the delay risk of a shipment.
// *riskmodel.Model satisfies it, including a nil model.
type Predictor interface {
	Predict(attrs riskmodel.ShipmentAttributes) (riskmodel.RiskScore, error)
}

// MLPredictionDetector escalates shipments the risk model expects to be late.
//
// Without a model, or when the model reports riskmodel.ErrModelUnavailable,
// the detector finds nothing. That is a steady state, not a failure.
type MLPredictionDetector struct {
	predictor Predictor
}

func NewMLPredictionDetector(predictor Predictor) *MLPredictionDetector {
	return &MLPredictionDetector{predictor: predictor}
}

func (d *MLPredictionDetector) Name() string {
	return string(exception.TypeMLPrediction)
}

func (d *MLPredictionDetector) Detect(snapshot shipment.Snapshot, _ time.Time) (*exception.Record, error) {
	if d.predictor == nil {
		return nil, nil
	}

	score, err := d.predictor.Predict(riskmodel.AttributesFromShipment(snapshot.Shipment))
	if err != nil {
		if errors.Is(err, riskmodel.ErrModelUnavailable) {
			return nil, nil
		}
		return nil, fmt.Errorf("predict delay: %w", err)
	}
	if !score.WillDelay || score.Confidence <= MLConfidenceThreshold {
		return nil, nil
	}

	severity := exception.SeverityMedium
	if score.Confidence > MLHighSeverityConfidence {
		severity = exception.SeverityHigh
	}

	predictedDelay := DefaultPredictedDelayHours
	if p := snapshot.Shipment.PredictedDelayHours; p != nil {
		predictedDelay = *p
	}

	return exception.New(
		exception.TypeMLPrediction,
		severity,
		fmt.Sprintf("ML predicts delay with %.0f%% confidence", score.Confidence*100),
		exception.MLPredictionDetail{
			MLConfidence:        score.Confidence,
			DelayProbability:    score.DelayProbability,
			PredictedDelayHours: predictedDelay,
			RiskFactors:         score.RiskFactors,
			Recommendation:      score.Recommendation,
		},
	)
}
