// Package queries contains read operations of the exception engine: delay
// predictions, model metadata and the recorded run history.
// Queries never change state.
package queries

import (
	"errors"
	"strings"

	"logistics/internal/core/domain/services/riskmodel"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var (
	ErrPredictDelayQueryIsNotConstructed = errors.New(
		"PredictDelayQuery must be created via NewPredictDelayQuery constructor",
	)
)

// PredictDelayQuery asks the risk model about one shipment.
//
// Example:
//
//	query, err := NewPredictDelayQuery(riskmodel.ShipmentAttributes{
//	    ShipmentID:       "SHP-2024-001",
//	    OriginPort:       "CNSHA",
//	    DestinationPort:  "NLRTM",
//	    PlannedDeparture: "2024-02-10T08:00:00Z",
//	})
//	if err != nil {
//	    return err
//	}
//	prediction, err := handler.Handle(ctx, query)
type PredictDelayQuery struct {
	attrs riskmodel.ShipmentAttributes

	guard guard.ConstructorGuard
}

// NewPredictDelayQuery requires a shipment id; every other attribute may be
// empty and falls back to the model defaults.
func NewPredictDelayQuery(attrs riskmodel.ShipmentAttributes) (PredictDelayQuery, error) {
	if strings.TrimSpace(attrs.ShipmentID) == "" {
		return PredictDelayQuery{}, errs.NewValueIsRequiredError("shipment id")
	}
	return PredictDelayQuery{attrs: attrs, guard: guard.NewConstructorGuard()}, nil
}

func (q PredictDelayQuery) Attributes() riskmodel.ShipmentAttributes {
	return q.attrs
}

// Validate ensures the query was created through the constructor.
func (q PredictDelayQuery) Validate() error {
	return q.guard.Validate(ErrPredictDelayQueryIsNotConstructed)
}

// PredictDelayQueryResponse is the prediction read model. Probabilities are
// rounded to three decimals.
type PredictDelayQueryResponse struct {
	ShipmentID       string   `json:"shipment_id"`
	WillDelay        bool     `json:"will_delay"`
	Confidence       float64  `json:"confidence"`
	DelayProbability float64  `json:"delay_probability"`
	RiskFactors      []string `json:"risk_factors"`
	Recommendation   string   `json:"recommendation"`
	ModelAccuracy    float64  `json:"model_accuracy"`
}
