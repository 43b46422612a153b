package queries

import (
	"errors"

	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

const (
	DefaultRecentRunsLimit = 20
	MaxRecentRunsLimit     = 500
)

var (
	ErrGetRecentRunsQueryIsNotConstructed = errors.New(
		"GetRecentRunsQuery must be created via NewGetRecentRunsQuery constructor",
	)
)

// GetRecentRunsQuery lists the latest recorded scan cycles, newest first.
//
// Example:
//
//	query, err := NewGetRecentRunsQuery(10)
//	if err != nil {
//	    return err
//	}
//	runs, err := handler.Handle(ctx, query)
type GetRecentRunsQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewGetRecentRunsQuery creates the query; a zero limit means DefaultRecentRunsLimit.
func NewGetRecentRunsQuery(limit int) (GetRecentRunsQuery, error) {
	if limit == 0 {
		limit = DefaultRecentRunsLimit
	}
	if limit < 0 || limit > MaxRecentRunsLimit {
		return GetRecentRunsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxRecentRunsLimit)
	}
	return GetRecentRunsQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetRecentRunsQuery) Limit() int {
	return q.limit
}

func (q GetRecentRunsQuery) Validate() error {
	return q.guard.Validate(ErrGetRecentRunsQueryIsNotConstructed)
}
