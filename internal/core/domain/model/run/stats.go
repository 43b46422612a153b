// Package run describes the per-cycle statistics of the exception monitor.
package run

import (
	"time"

	"logistics/internal/pkg/errs"
)

// Stats is the immutable summary of one scan cycle.
//
// Invariants: all counts are non-negative and NotificationsSent never exceeds
// ExceptionsFound. Error is set only for cycles that failed before finishing.
type Stats struct {
	Timestamp         time.Time
	ExceptionsFound   int
	ShipmentsChecked  int
	NotificationsSent int
	DurationMS        int64
	Error             *string
}

// NewStats builds the statistics of a completed cycle.
func NewStats(timestamp time.Time, exceptionsFound, shipmentsChecked, notificationsSent int, duration time.Duration) (Stats, error) {
	if exceptionsFound < 0 {
		return Stats{}, errs.NewValueIsOutOfRangeError("exceptions found", exceptionsFound, 0, "unbounded")
	}
	if shipmentsChecked < 0 {
		return Stats{}, errs.NewValueIsOutOfRangeError("shipments checked", shipmentsChecked, 0, "unbounded")
	}
	if notificationsSent < 0 || notificationsSent > exceptionsFound {
		return Stats{}, errs.NewValueIsOutOfRangeError("notifications sent", notificationsSent, 0, exceptionsFound)
	}
	return Stats{
		Timestamp:         timestamp,
		ExceptionsFound:   exceptionsFound,
		ShipmentsChecked:  shipmentsChecked,
		NotificationsSent: notificationsSent,
		DurationMS:        duration.Milliseconds(),
	}, nil
}

// NewFailedStats builds the partial statistics of a cycle aborted by cause.
func NewFailedStats(timestamp time.Time, duration time.Duration, cause error) Stats {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return Stats{
		Timestamp:  timestamp,
		DurationMS: duration.Milliseconds(),
		Error:      &msg,
	}
}

// Failed reports whether the cycle was aborted.
func (s Stats) Failed() bool {
	return s.Error != nil
}
