// Package runrepo persists scan cycle statistics to the append-only
// exception_monitor_runs table.
package runrepo

import (
	"time"

	"logistics/internal/core/domain/model/run"
)

// RunDTO is one row of exception_monitor_runs.
type RunDTO struct {
	ID                uint      `gorm:"primaryKey"`
	RunTimestamp      time.Time `gorm:"index;not null"`
	ExceptionsFound   int       `gorm:"not null"`
	ShipmentsChecked  int       `gorm:"not null"`
	NotificationsSent int       `gorm:"not null"`
	RunDurationMS     int64     `gorm:"column:run_duration_ms;not null"`
	Error             *string   `gorm:"type:text"`
}

func (RunDTO) TableName() string {
	return "exception_monitor_runs"
}

func fromDomain(stats run.Stats) RunDTO {
	return RunDTO{
		RunTimestamp:      stats.Timestamp.UTC(),
		ExceptionsFound:   stats.ExceptionsFound,
		ShipmentsChecked:  stats.ShipmentsChecked,
		NotificationsSent: stats.NotificationsSent,
		RunDurationMS:     stats.DurationMS,
		Error:             stats.Error,
	}
}
