package exception

import (
	"encoding/json"
	"fmt"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

// Record is one finding of one detector for one shipment.
//
// Detectors build records with New; the battery then stamps ID, ShipmentID
// and DetectedAt.
type Record struct {
	ID         kernel.UUID
	Type       Type
	Severity   Severity
	Message    string
	ShipmentID string
	DetectedAt time.Time
	Detail     Detail
}

// New validates type, severity and that the detail payload belongs to the type.
//
// Example:
//
//	rec, err := exception.New(
//	    exception.TypeDelay,
//	    exception.SeverityHigh,
//	    "Shipment delayed by 50 hours (threshold: 24h)",
//	    exception.DelayDetail{DelayHours: 50},
//	)
func New(t Type, severity Severity, message string, detail Detail) (*Record, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := severity.Validate(); err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, errs.NewValueIsRequiredError("detail")
	}
	if detail.ExceptionType() != t {
		return nil, errs.NewValueIsInvalidErrorWithCause("detail",
			fmt.Errorf("%s detail attached to %s record", detail.ExceptionType(), t))
	}
	return &Record{Type: t, Severity: severity, Message: message, Detail: detail}, nil
}

// Stamp sets the fields owned by the battery.
func (r *Record) Stamp(id kernel.UUID, shipmentID string, detectedAt time.Time) {
	r.ID = id
	r.ShipmentID = shipmentID
	r.DetectedAt = detectedAt
}

// SameFinding reports whether two records describe the same condition,
// ignoring identity and detection time.
func (r Record) SameFinding(other Record) bool {
	if r.Type != other.Type || r.Severity != other.Severity ||
		r.Message != other.Message || r.ShipmentID != other.ShipmentID {
		return false
	}
	a, errA := json.Marshal(r.Detail)
	b, errB := json.Marshal(other.Detail)
	return errA == nil && errB == nil && string(a) == string(b)
}

// MarshalJSON flattens the detail fields next to the common ones, which is the
// shape the crew-handling endpoint consumes.
func (r Record) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"id":          r.ID,
		"type":        r.Type,
		"severity":    r.Severity,
		"message":     r.Message,
		"shipment_id": r.ShipmentID,
		"detected_at": r.DetectedAt.UTC().Format(time.RFC3339Nano),
	}
	if r.Detail != nil {
		raw, err := json.Marshal(r.Detail)
		if err != nil {
			return nil, fmt.Errorf("marshal %s detail: %w", r.Type, err)
		}
		var fields map[string]any
		if err = json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("flatten %s detail: %w", r.Type, err)
		}
		for k, v := range fields {
			if _, taken := out[k]; !taken {
				out[k] = v
			}
		}
	}
	return json.Marshal(out)
}
