package riskmodel

import (
	"math"
	"strings"
	"time"

	"logistics/internal/core/domain/model/shipment"
	"logistics/internal/pkg/errs"
)

// FeatureCount is the length of every feature vector.
const FeatureCount = 12

// Positions inside a FeatureVector.
const (
	FeatureOrigin = iota
	FeatureDestination
	FeatureCarrier
	FeatureCarrierReliability
	FeatureMonth
	FeatureWeekday
	FeatureTransitDays
	FeatureContainerType
	FeatureRiskFlag
	FeatureBaseDelayRate
	FeatureSeasonalFactor
	FeatureWeekdayFactor
)

// Names of the categorical encoders, as keyed in label_encoders.json.
const (
	EncoderOriginPort      = "origin_port"
	EncoderDestinationPort = "destination_port"
	EncoderCarrierName     = "carrier_name"
	EncoderContainerType   = "container_type"
)

// Defaults for attributes the shipment record does not carry.
const (
	DefaultCarrierReliability = 0.88
	DefaultTransitDays        = 20.0
	DefaultBaseDelayRate      = 0.20
	DefaultContainerType      = "40HC"
)

// FeatureVector is the fixed-order numeric encoding of one shipment.
type FeatureVector [FeatureCount]float64

// FeatureNames returns the names the classifier was trained with, in vector order.
func FeatureNames() []string {
	return []string{
		"origin_port_encoded",
		"destination_port_encoded",
		"carrier_name_encoded",
		"carrier_reliability",
		"month",
		"day_of_week",
		"transit_days",
		"container_type_encoded",
		"risk_flag",
		"base_delay_rate",
		"seasonal_factor",
		"weekday_factor",
	}
}

// seasonalFactors maps month (1-12) to its congestion multiplier.
var seasonalFactors = map[int]float64{
	1: 0.05, 2: 0.15, 3: 0.10, 4: 0.02, 5: 0.00, 6: 0.00,
	7: 0.03, 8: 0.05, 9: 0.08, 10: 0.12, 11: 0.10, 12: 0.08,
}

// weekdayFactors maps weekday (Monday=0 .. Sunday=6) to its multiplier.
var weekdayFactors = map[int]float64{0: 0.02, 1: 0.01, 2: 0.00, 3: 0.01, 4: 0.03, 5: 0.05, 6: 0.05}

// SeasonalFactor returns the multiplier for month, 0 outside 1-12.
func SeasonalFactor(month int) float64 {
	return seasonalFactors[month]
}

// WeekdayFactor returns the multiplier for weekday, 0 outside 0-6.
func WeekdayFactor(weekday int) float64 {
	return weekdayFactors[weekday]
}

// ShipmentAttributes is the raw input of a prediction.
//
// PlannedDeparture and PlannedArrival are kept as text because callers of the
// prediction API send free-form timestamps; unparseable values fall back to
// the model clock.
type ShipmentAttributes struct {
	ShipmentID         string   `json:"id"`
	OriginPort         string   `json:"origin_port"`
	DestinationPort    string   `json:"destination_port"`
	Carrier            string   `json:"carrier_name"`
	ContainerType      string   `json:"container_type"`
	PlannedDeparture   string   `json:"etd"`
	PlannedArrival     string   `json:"eta"`
	RiskFlag           bool     `json:"risk_flag"`
	CarrierReliability *float64 `json:"carrier_reliability,omitempty"`
	TransitDays        *float64 `json:"transit_days,omitempty"`
	BaseDelayRate      *float64 `json:"base_delay_rate,omitempty"`
}

// AttributesFromShipment converts a stored shipment into prediction input.
func AttributesFromShipment(s shipment.Shipment) ShipmentAttributes {
	attrs := ShipmentAttributes{
		ShipmentID:      s.ID,
		OriginPort:      s.OriginPort,
		DestinationPort: s.DestinationPort,
		Carrier:         s.Carrier,
		ContainerType:   s.ContainerType,
		RiskFlag:        s.RiskFlag,
	}
	if s.PlannedDeparture != nil {
		attrs.PlannedDeparture = s.PlannedDeparture.Format(time.RFC3339)
	}
	if s.PlannedArrival != nil {
		attrs.PlannedArrival = s.PlannedArrival.Format(time.RFC3339)
	}
	return attrs
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp accepts RFC 3339, ISO 8601 without zone and plain dates.
func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// isoWeekday converts time.Weekday (Sunday=0) to Monday=0 .. Sunday=6.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ExtractFeatures builds the feature vector for attrs.
//
// Unknown categories encode to DefaultCode and are logged at debug level;
// they are not an error. The only failures are out-of-range numeric overrides.
func (m *Model) ExtractFeatures(attrs ShipmentAttributes) (FeatureVector, error) {
	var v FeatureVector

	containerType := attrs.ContainerType
	if containerType == "" {
		containerType = DefaultContainerType
	}
	v[FeatureOrigin] = float64(m.encode(EncoderOriginPort, attrs.OriginPort, attrs.ShipmentID))
	v[FeatureDestination] = float64(m.encode(EncoderDestinationPort, attrs.DestinationPort, attrs.ShipmentID))
	v[FeatureCarrier] = float64(m.encode(EncoderCarrierName, attrs.Carrier, attrs.ShipmentID))
	v[FeatureContainerType] = float64(m.encode(EncoderContainerType, containerType, attrs.ShipmentID))

	reference := m.clock()
	departure, hasDeparture := parseTimestamp(attrs.PlannedDeparture)
	if hasDeparture {
		reference = departure
	}
	month := int(reference.Month())
	weekday := isoWeekday(reference)
	v[FeatureMonth] = float64(month)
	v[FeatureWeekday] = float64(weekday)
	v[FeatureSeasonalFactor] = SeasonalFactor(month)
	v[FeatureWeekdayFactor] = WeekdayFactor(weekday)

	reliability := DefaultCarrierReliability
	if attrs.CarrierReliability != nil {
		reliability = *attrs.CarrierReliability
		if reliability < 0 || reliability > 1 || math.IsNaN(reliability) {
			return FeatureVector{}, errs.NewValueIsOutOfRangeError("carrier reliability", reliability, 0, 1)
		}
	}
	v[FeatureCarrierReliability] = reliability

	transitDays := DefaultTransitDays
	switch {
	case attrs.TransitDays != nil:
		transitDays = *attrs.TransitDays
		if transitDays < 0 || math.IsNaN(transitDays) {
			return FeatureVector{}, errs.NewValueIsOutOfRangeError("transit days", transitDays, 0, "unbounded")
		}
	case hasDeparture:
		if arrival, ok := parseTimestamp(attrs.PlannedArrival); ok && arrival.After(departure) {
			transitDays = math.Round(arrival.Sub(departure).Hours() / 24)
		}
	}
	v[FeatureTransitDays] = transitDays

	baseDelayRate := DefaultBaseDelayRate
	if attrs.BaseDelayRate != nil {
		baseDelayRate = *attrs.BaseDelayRate
		if baseDelayRate < 0 || baseDelayRate > 1 || math.IsNaN(baseDelayRate) {
			return FeatureVector{}, errs.NewValueIsOutOfRangeError("base delay rate", baseDelayRate, 0, 1)
		}
	}
	v[FeatureBaseDelayRate] = baseDelayRate

	if attrs.RiskFlag {
		v[FeatureRiskFlag] = 1
	}

	return v, nil
}

func (m *Model) encode(feature, value, shipmentID string) int {
	code, err := m.encoders[feature].Encode(value)
	if err != nil {
		m.logger.Debug("Unknown category encoded as default",
			"feature", feature, "value", value, "shipment_id", shipmentID, "code", DefaultCode)
		return DefaultCode
	}
	return code
}
