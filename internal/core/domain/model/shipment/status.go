package shipment

import (
	"logistics/internal/pkg/errs"
)

// Status is the lifecycle state of a shipment as written by the booking and
// tracking systems.
//
// Known values:
//
//	booked ──> in_transit ──> at_port ──> customs_hold ──> delivered
//	                 │                                         ▲
//	                 └──────────────> delayed ─────────────────┘
//
// Only Delivered is terminal. Values outside the known set are kept as-is:
// the store owns the vocabulary and a new state must not hide a shipment from
// monitoring.
type Status string

const (
	Booked      Status = "booked"
	InTransit   Status = "in_transit"
	AtPort      Status = "at_port"
	CustomsHold Status = "customs_hold"
	Delayed     Status = "delayed"
	Delivered   Status = "delivered"
)

// IsTerminal reports whether the shipment is out of scope for monitoring.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// Validate rejects only the empty status.
func (s Status) Validate() error {
	if s == "" {
		return errs.NewValueIsRequiredError("status")
	}
	return nil
}

func (s Status) String() string {
	return string(s)
}
