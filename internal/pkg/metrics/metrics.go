// Package metrics exposes the exception engine's Prometheus collectors.
//
// Collectors is registered on an explicit registry instead of the global
// default one and is handed to the components it observes:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	battery := detectors.NewBattery(dets, logger, detectors.WithObserver(m))
//	dispatcher := crew.NewDispatcher(cfg, logger, crew.WithObserver(m))
package metrics

import (
	"net/http"

	"logistics/internal/core/domain/model/exception"
	"logistics/internal/core/domain/model/run"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "exception_monitor"

// Collectors implements detectors.Observer, crew.Observer and
// commands.CycleObserver.
type Collectors struct {
	CyclesTotal        *prometheus.CounterVec
	CycleDuration      prometheus.Histogram
	ShipmentsChecked   prometheus.Gauge
	LastRunTimestamp   prometheus.Gauge
	ExceptionsDetected *prometheus.CounterVec
	DetectorFailures   *prometheus.CounterVec
	Escalations        *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them on reg.
// reg must also be a prometheus.Gatherer for Handler to serve it.
func New(reg *prometheus.Registry) *Collectors {
	c := &Collectors{
		CyclesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycles_total",
				Help:      "Scan cycles by outcome",
			},
			[]string{"status"},
		),
		CycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cycle_duration_seconds",
				Help:      "Scan cycle duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
		),
		ShipmentsChecked: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "shipments_checked",
				Help:      "Active shipments evaluated by the last completed cycle",
			},
		),
		LastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time of the last completed cycle",
			},
		),
		ExceptionsDetected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exceptions_detected_total",
				Help:      "Exceptions found by type and severity",
			},
			[]string{"type", "severity"},
		),
		DetectorFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "detector_failures_total",
				Help:      "Detector evaluations that failed or panicked",
			},
			[]string{"detector"},
		),
		Escalations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "escalations_total",
				Help:      "Escalation deliveries by type and outcome",
			},
			[]string{"type", "status"},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		c.CyclesTotal,
		c.CycleDuration,
		c.ShipmentsChecked,
		c.LastRunTimestamp,
		c.ExceptionsDetected,
		c.DetectorFailures,
		c.Escalations,
	)
	return c
}

func (c *Collectors) ExceptionDetected(t exception.Type, severity exception.Severity) {
	c.ExceptionsDetected.WithLabelValues(string(t), string(severity)).Inc()
}

func (c *Collectors) DetectorFailed(detector string) {
	c.DetectorFailures.WithLabelValues(detector).Inc()
}

func (c *Collectors) EscalationDelivered(t exception.Type, ok bool) {
	status := "sent"
	if !ok {
		status = "failed"
	}
	c.Escalations.WithLabelValues(string(t), status).Inc()
}

func (c *Collectors) CycleCompleted(stats run.Stats) {
	c.CyclesTotal.WithLabelValues("success").Inc()
	c.CycleDuration.Observe(float64(stats.DurationMS) / 1000)
	c.ShipmentsChecked.Set(float64(stats.ShipmentsChecked))
	c.LastRunTimestamp.Set(float64(stats.Timestamp.Unix()))
}

func (c *Collectors) CycleFailed(stats run.Stats) {
	c.CyclesTotal.WithLabelValues("error").Inc()
	c.CycleDuration.Observe(float64(stats.DurationMS) / 1000)
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
