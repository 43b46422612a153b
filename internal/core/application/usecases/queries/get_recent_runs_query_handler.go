package queries

import (
	"context"
	"database/sql"

	"logistics/internal/core/domain/model/run"

	"gorm.io/gorm"
)

// GetRecentRunsQueryHandler reads the run history straight from the
// exception_monitor_runs table.
type GetRecentRunsQueryHandler struct {
	db *gorm.DB
}

func NewGetRecentRunsQueryHandler(db *gorm.DB) GetRecentRunsQueryHandler {
	return GetRecentRunsQueryHandler{db: db}
}

func (h GetRecentRunsQueryHandler) Handle(ctx context.Context, query GetRecentRunsQuery) ([]run.Stats, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			run_timestamp,
			exceptions_found,
			shipments_checked,
			notifications_sent,
			run_duration_ms,
			error
		FROM exception_monitor_runs
		ORDER BY run_timestamp DESC, id DESC
		LIMIT ?
	`, query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]run.Stats, 0, query.Limit())
	for rows.Next() {
		var (
			stats    run.Stats
			cycleErr sql.NullString
		)
		if err = rows.Scan(
			&stats.Timestamp,
			&stats.ExceptionsFound,
			&stats.ShipmentsChecked,
			&stats.NotificationsSent,
			&stats.DurationMS,
			&cycleErr,
		); err != nil {
			return nil, err
		}
		if cycleErr.Valid {
			stats.Error = &cycleErr.String
		}
		runs = append(runs, stats)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}
