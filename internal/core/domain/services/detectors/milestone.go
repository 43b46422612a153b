package detectors

import (
	"fmt"
	"math"
	"time"

	"logistics/internal/core/domain/model/exception"
	"logistics/internal/core/domain/model/shipment"
)

// MilestoneOverdueThreshold is how late a pending milestone may run.
const MilestoneOverdueThreshold = 72 * time.Hour

// MilestoneDetector flags the earliest pending milestone that is overdue.
//
// Overdue time is reported in whole hours so that cycles evaluated within the
// same hour produce the same finding.
type MilestoneDetector struct{}

func NewMilestoneDetector() *MilestoneDetector {
	return &MilestoneDetector{}
}

func (d *MilestoneDetector) Name() string {
	return string(exception.TypeMissingMilestone)
}

func (d *MilestoneDetector) Detect(snapshot shipment.Snapshot, now time.Time) (*exception.Record, error) {
	if snapshot.MilestonesErr != nil {
		return nil, fmt.Errorf("load pending milestones: %w", snapshot.MilestonesErr)
	}

	var (
		worst   shipment.Milestone
		overdue time.Duration
	)
	for _, m := range snapshot.PendingMilestones {
		late, ok := m.Overdue(now)
		if !ok || late <= MilestoneOverdueThreshold {
			continue
		}
		// the most overdue pending milestone is the one expected first
		if late > overdue {
			worst, overdue = m, late
		}
	}
	if overdue == 0 {
		return nil, nil
	}

	hours := math.Floor(overdue.Hours())
	return exception.New(
		exception.TypeMissingMilestone,
		exception.SeverityMedium,
		fmt.Sprintf("Milestone '%s' overdue by %.0f hours", worst.Name, hours),
		exception.MilestoneDetail{MilestoneName: worst.Name, HoursOverdue: hours},
	)
}
