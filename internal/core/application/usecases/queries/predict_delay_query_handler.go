package queries

import (
	"context"
	"math"

	"logistics/internal/core/domain/services/riskmodel"
)

// Predictor scores one shipment. *riskmodel.Model implements it.
type Predictor interface {
	Predict(attrs riskmodel.ShipmentAttributes) (riskmodel.RiskScore, error)
}

// PredictDelayQueryHandler runs ad-hoc predictions. When the model is not
// loaded it returns riskmodel.ErrModelUnavailable.
type PredictDelayQueryHandler struct {
	predictor Predictor
}

func NewPredictDelayQueryHandler(predictor Predictor) PredictDelayQueryHandler {
	return PredictDelayQueryHandler{predictor: predictor}
}

func (h PredictDelayQueryHandler) Handle(_ context.Context, query PredictDelayQuery) (PredictDelayQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return PredictDelayQueryResponse{}, err
	}
	if h.predictor == nil {
		return PredictDelayQueryResponse{}, riskmodel.ErrModelUnavailable
	}

	score, err := h.predictor.Predict(query.Attributes())
	if err != nil {
		return PredictDelayQueryResponse{}, err
	}

	return PredictDelayQueryResponse{
		ShipmentID:       query.Attributes().ShipmentID,
		WillDelay:        score.WillDelay,
		Confidence:       round3(score.Confidence),
		DelayProbability: round3(score.DelayProbability),
		RiskFactors:      score.RiskFactors,
		Recommendation:   score.Recommendation,
		ModelAccuracy:    round3(score.ModelAccuracy),
	}, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
