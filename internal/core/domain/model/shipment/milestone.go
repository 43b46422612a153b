package shipment

import "time"

// Milestone is a planned event of the journey, e.g. "departed origin".
// A nil ActualTime means the event has not been reported yet.
type Milestone struct {
	Name         string
	ShipmentID   string
	ExpectedTime *time.Time
	ActualTime   *time.Time
}

// IsPending reports whether the milestone has not been reached.
func (m Milestone) IsPending() bool {
	return m.ActualTime == nil
}

// Overdue returns how long a pending milestone is past its expected time at now.
// ok is false for reached milestones, milestones without an expected time and
// milestones that are not yet due.
func (m Milestone) Overdue(now time.Time) (overdue time.Duration, ok bool) {
	if !m.IsPending() || m.ExpectedTime == nil {
		return 0, false
	}
	overdue = now.Sub(*m.ExpectedTime)
	if overdue <= 0 {
		return 0, false
	}
	return overdue, true
}
