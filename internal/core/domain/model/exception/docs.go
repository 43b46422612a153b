// Package exception defines the findings produced by the detector battery.
//
// A Record lives only for the duration of one scan cycle: it is escalated to
// the crew-handling endpoint, optionally published to the event stream, and
// then dropped. Only per-cycle counts are persisted.
package exception
