// Package detectors implements the exception checks run against every active
// shipment in a scan cycle.
//
// Each Detector inspects one shipment.Snapshot and returns at most one
// exception.Record. Detectors are pure: they read the snapshot and the
// evaluation time they are given and nothing else, so running the battery
// twice over the same snapshot yields the same findings.
//
// The Battery runs all detectors for a shipment and isolates them from each
// other. A detector that fails or panics is logged and counted as "no
// finding"; the remaining detectors still run.
//
// Thresholds are fixed:
//
//	delay               > 24h (high above 48h)
//	ml_prediction       confidence > 0.70 (high above 0.85)
//	temperature         |current - target| > 5.0°C
//	geofence            violation flag set
//	missing_milestone   pending and > 72h past expected time
package detectors
