package queries

import (
	"context"

	"logistics/internal/core/domain/services/riskmodel"
)

// ModelDescriber exposes model metadata. *riskmodel.Model implements it.
type ModelDescriber interface {
	Info() (riskmodel.Info, error)
}

type GetModelInfoQueryHandler struct {
	model ModelDescriber
}

func NewGetModelInfoQueryHandler(model ModelDescriber) GetModelInfoQueryHandler {
	return GetModelInfoQueryHandler{model: model}
}

// Handle returns riskmodel.ErrModelUnavailable when no model is loaded.
func (h GetModelInfoQueryHandler) Handle(_ context.Context, query GetModelInfoQuery) (riskmodel.Info, error) {
	if err := query.Validate(); err != nil {
		return riskmodel.Info{}, err
	}
	if h.model == nil {
		return riskmodel.Info{}, riskmodel.ErrModelUnavailable
	}
	return h.model.Info()
}
