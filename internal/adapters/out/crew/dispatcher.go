// Package crew delivers exception records to the crew-handling endpoint.
//
// Every record becomes one JSON POST:
//
//	{
//	  "skill": "handle-exception",
//	  "crew":  "exception",
//	  "input": {
//	    "shipment_id":    "SHP-2024-001",
//	    "exception_type": "delay",
//	    "severity":       "high",
//	    "details":        { ...the flattened record... }
//	  }
//	}
//
// Only 200 OK counts as delivered. Deliveries run concurrently, each bounded
// by its own timeout, and are never retried within a cycle.
package crew

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"logistics/internal/core/domain/model/exception"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultEndpoint    = "http://localhost:9000/message:send"
	DefaultTimeout     = 30 * time.Second
	DefaultConcurrency = 10

	skillHandleException = "handle-exception"
	crewException        = "exception"
)

// Message is the body posted for one record.
type Message struct {
	Skill string       `json:"skill"`
	Crew  string       `json:"crew"`
	Input MessageInput `json:"input"`
}

type MessageInput struct {
	ShipmentID    string             `json:"shipment_id"`
	ExceptionType exception.Type     `json:"exception_type"`
	Severity      exception.Severity `json:"severity"`
	Details       exception.Record   `json:"details"`
}

// NewMessage wraps a record for the crew endpoint.
func NewMessage(record exception.Record) Message {
	return Message{
		Skill: skillHandleException,
		Crew:  crewException,
		Input: MessageInput{
			ShipmentID:    record.ShipmentID,
			ExceptionType: record.Type,
			Severity:      record.Severity,
			Details:       record,
		},
	}
}

// Observer is told the outcome of every delivery attempt.
type Observer interface {
	EscalationDelivered(t exception.Type, ok bool)
}

type noopObserver struct{}

func (noopObserver) EscalationDelivered(exception.Type, bool) {}

// Config holds the dispatcher settings. Zero values take the defaults.
type Config struct {
	Endpoint    string
	Timeout     time.Duration
	Concurrency int
}

// Dispatcher implements ports.EscalationSender over HTTP.
type Dispatcher struct {
	endpoint    string
	timeout     time.Duration
	concurrency int
	client      *http.Client
	observer    Observer
	logger      *slog.Logger
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient replaces the default client, e.g. to add tracing transports.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) {
		d.client = c
	}
}

// WithObserver reports delivery outcomes, e.g. to metrics.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		if o != nil {
			d.observer = o
		}
	}
}

// NewDispatcher creates a dispatcher posting to cfg.Endpoint.
//
// Example:
//
//	dispatcher := crew.NewDispatcher(crew.Config{
//	    Endpoint: "http://crew:9000/message:send",
//	    Timeout:  10 * time.Second,
//	}, logger)
//	sent := dispatcher.Dispatch(ctx, records)
func NewDispatcher(cfg Config, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		endpoint:    cfg.Endpoint,
		timeout:     cfg.Timeout,
		concurrency: cfg.Concurrency,
		client:      &http.Client{},
		observer:    noopObserver{},
		logger:      logger.With("component", "escalation_dispatcher"),
	}
	if d.endpoint == "" {
		d.endpoint = DefaultEndpoint
	}
	if d.timeout <= 0 {
		d.timeout = DefaultTimeout
	}
	if d.concurrency <= 0 {
		d.concurrency = DefaultConcurrency
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch delivers every record independently and waits for all attempts.
// It returns the number of records the endpoint accepted.
func (d *Dispatcher) Dispatch(ctx context.Context, records []exception.Record) int {
	var (
		sent atomic.Int64
		g    errgroup.Group
	)
	g.SetLimit(d.concurrency)

	for _, record := range records {
		g.Go(func() error {
			err := d.send(ctx, record)
			d.observer.EscalationDelivered(record.Type, err == nil)
			if err != nil {
				d.logger.ErrorContext(ctx, "Failed to escalate exception",
					"exception_id", record.ID.String(),
					"shipment_id", record.ShipmentID,
					"exception_type", record.Type,
					"error", err)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	failed := len(records) - int(sent.Load())
	if failed > 0 {
		d.logger.WarnContext(ctx, "Some escalations were not delivered",
			"sent", sent.Load(), "failed", failed)
	}
	return int(sent.Load())
}

func (d *Dispatcher) send(ctx context.Context, record exception.Record) error {
	body, err := json.Marshal(NewMessage(record))
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to crew endpoint: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

// StatusError reports a response other than 200 OK.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("crew endpoint answered %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
