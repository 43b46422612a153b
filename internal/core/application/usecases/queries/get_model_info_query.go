package queries

import (
	"errors"

	"logistics/internal/pkg/guard"
)

var (
	ErrGetModelInfoQueryIsNotConstructed = errors.New(
		"GetModelInfoQuery must be created via NewGetModelInfoQuery constructor",
	)
)

// GetModelInfoQuery reads the metadata of the loaded risk model.
type GetModelInfoQuery struct {
	guard guard.ConstructorGuard
}

func NewGetModelInfoQuery() GetModelInfoQuery {
	return GetModelInfoQuery{guard: guard.NewConstructorGuard()}
}

func (q GetModelInfoQuery) Validate() error {
	return q.guard.Validate(ErrGetModelInfoQueryIsNotConstructed)
}
