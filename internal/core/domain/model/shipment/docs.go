// Package shipment holds the read-only records the exception engine inspects:
// shipments, their reefer containers and their planned milestones.
//
// The records are owned by the shipment store. The engine never mutates them;
// a scan cycle loads one Snapshot per active shipment and hands it to the
// detectors as a value.
package shipment
