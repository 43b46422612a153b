package runrepo

import (
	"context"

	"logistics/internal/core/domain/model/run"
	"logistics/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRunRecorder implements ports.RunRecorder using GORM.
// Rows are only ever inserted.
type GormRunRecorder struct {
	db *gorm.DB
}

func NewGormRunRecorder(db *gorm.DB) *GormRunRecorder {
	return &GormRunRecorder{db: db}
}

// Record appends stats as a new row.
func (r *GormRunRecorder) Record(ctx context.Context, stats run.Stats) error {
	if stats.Timestamp.IsZero() {
		return errs.NewValueIsRequiredError("run timestamp")
	}
	if stats.NotificationsSent > stats.ExceptionsFound {
		return errs.NewValueIsOutOfRangeError("notifications sent", stats.NotificationsSent, 0, stats.ExceptionsFound)
	}

	dto := fromDomain(stats)
	return r.db.WithContext(ctx).Create(&dto).Error
}
