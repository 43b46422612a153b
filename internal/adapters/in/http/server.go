// Package http exposes the operational API of the exception engine over echo:
// health, model metadata, ad-hoc delay predictions, the monitor loop status,
// manual scan cycles, the recorded run history and prometheus metrics.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/run"
	"logistics/internal/core/domain/services/riskmodel"
	"logistics/internal/generated/servers"
	"logistics/internal/jobs"
	"logistics/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// PredictDelayHandler runs ad-hoc delay predictions.
type PredictDelayHandler interface {
	Handle(ctx context.Context, query queries.PredictDelayQuery) (queries.PredictDelayQueryResponse, error)
}

// ModelInfoHandler describes the loaded risk model.
type ModelInfoHandler interface {
	Handle(ctx context.Context, query queries.GetModelInfoQuery) (riskmodel.Info, error)
}

// RecentRunsHandler lists recorded scan cycles.
type RecentRunsHandler interface {
	Handle(ctx context.Context, query queries.GetRecentRunsQuery) ([]run.Stats, error)
}

// Monitor is the scan loop as seen by the API.
type Monitor interface {
	Status() jobs.Status
	RunOnce(ctx context.Context) (run.Stats, error)
}

var _ servers.ServerInterface = (*Server)(nil)

// Server implements the generated ServerInterface.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	predictDelayHandler PredictDelayHandler
	modelInfoHandler    ModelInfoHandler
	recentRunsHandler   RecentRunsHandler
	monitor             Monitor
	metrics             http.Handler
}

// NewServer creates a new HTTP server. metrics may be nil, in which case
// /metrics is not registered.
func NewServer(
	predictDelayHandler PredictDelayHandler,
	modelInfoHandler ModelInfoHandler,
	recentRunsHandler RecentRunsHandler,
	monitor Monitor,
	metrics http.Handler,
) *Server {
	return &Server{
		predictDelayHandler: predictDelayHandler,
		modelInfoHandler:    modelInfoHandler,
		recentRunsHandler:   recentRunsHandler,
		monitor:             monitor,
		metrics:             metrics,
	}
}

// RegisterRoutes mounts the generated API routes behind request validation,
// the swagger UI under /swagger/ and, when configured, /metrics.
func (s *Server) RegisterRoutes(e *echo.Echo) error {
	swagger, err := servers.GetSwagger()
	if err != nil {
		return fmt.Errorf("load openapi document: %w", err)
	}
	if err := registerDocs(swagger); err != nil {
		return err
	}
	validator, err := NewRequestValidator(swagger)
	if err != nil {
		return err
	}

	e.Use(validator)
	servers.RegisterHandlers(e, s)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if s.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.metrics))
	}
	return nil
}

// GetHealth handles GET /health. The service stays up without a model and
// reports itself degraded.
func (s *Server) GetHealth(ctx echo.Context) error {
	_, err := s.modelInfoHandler.Handle(ctx.Request().Context(), queries.NewGetModelInfoQuery())

	response := servers.HealthResponse{
		Status: "healthy",
		Models: map[string]string{"delay_predictor": "loaded"},
	}
	if err != nil {
		response.Status = "degraded"
		response.Models["delay_predictor"] = "not loaded"
	}
	if s.monitor != nil {
		response.MonitorRunning = s.monitor.Status().Running
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetModelInfo handles GET /model-info.
func (s *Server) GetModelInfo(ctx echo.Context) error {
	info, err := s.modelInfoHandler.Handle(ctx.Request().Context(), queries.NewGetModelInfoQuery())
	if err != nil {
		if errors.Is(err, riskmodel.ErrModelUnavailable) {
			return ctx.JSON(http.StatusServiceUnavailable, servers.Error{
				Code:    http.StatusServiceUnavailable,
				Message: "Model not loaded",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, servers.Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to read model info",
		})
	}

	return ctx.JSON(http.StatusOK, servers.ModelInfoResponse{
		ModelName: "Delay Prediction Model",
		ModelType: info.ModelType,
		Classes:   info.Classes,
		Accuracy:  info.Metrics.Accuracy,
		Precision: info.Metrics.Precision,
		Recall:    info.Metrics.Recall,
		F1Score:   info.Metrics.F1,
		Features:  info.FeatureNames,
	})
}

// PredictDelay handles POST /predict-delay.
func (s *Server) PredictDelay(ctx echo.Context) error {
	var request servers.PredictDelayJSONRequestBody
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	query, err := queries.NewPredictDelayQuery(shipmentAttributes(request.ShipmentData))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid shipment data: " + err.Error(),
		})
	}

	prediction, err := s.predictDelayHandler.Handle(ctx.Request().Context(), query)
	switch {
	case err == nil:
	case errors.Is(err, riskmodel.ErrModelUnavailable):
		return ctx.JSON(http.StatusServiceUnavailable, servers.Error{
			Code:    http.StatusServiceUnavailable,
			Message: "Delay prediction model not available",
		})
	case errors.Is(err, errs.ErrValueIsOutOfRange), errors.Is(err, errs.ErrValueIsInvalid):
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid shipment data: " + err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, servers.Error{
			Code:    http.StatusInternalServerError,
			Message: "Prediction failed",
		})
	}

	return ctx.JSON(http.StatusOK, servers.PredictDelayResponse{
		Success:          true,
		ShipmentId:       prediction.ShipmentID,
		WillDelay:        prediction.WillDelay,
		Confidence:       prediction.Confidence,
		DelayProbability: prediction.DelayProbability,
		RiskFactors:      prediction.RiskFactors,
		Recommendation:   prediction.Recommendation,
		ModelAccuracy:    prediction.ModelAccuracy,
	})
}

// GetMonitorStatus handles GET /monitor/status.
func (s *Server) GetMonitorStatus(ctx echo.Context) error {
	status := s.monitor.Status()

	response := servers.MonitorStatusResponse{
		Running:     status.Running,
		TotalRuns:   status.TotalRuns,
		FailedRuns:  status.FailedRuns,
		LastRunTime: status.LastRunTime,
	}
	if status.Running {
		seconds := int64(status.Interval / time.Second)
		response.IntervalSeconds = &seconds
	}
	if status.LastStats != nil {
		stats := runStats(*status.LastStats)
		response.LastStats = &stats
	}

	return ctx.JSON(http.StatusOK, response)
}

// RunMonitor handles POST /monitor/run: one manual scan cycle, answered when
// it finishes. A client hanging up does not cancel the cycle.
func (s *Server) RunMonitor(ctx echo.Context) error {
	stats, err := s.monitor.RunOnce(context.WithoutCancel(ctx.Request().Context()))
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, servers.Error{
			Code:    http.StatusInternalServerError,
			Message: "Exception scan failed: " + err.Error(),
		})
	}

	return ctx.JSON(http.StatusOK, runStats(stats))
}

// GetRecentRuns handles GET /monitor/runs?limit=N.
func (s *Server) GetRecentRuns(ctx echo.Context, params servers.GetRecentRunsParams) error {
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewGetRecentRunsQuery(limit)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	runs, err := s.recentRunsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, servers.Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve runs",
		})
	}

	response := make([]servers.RunStats, len(runs))
	for i, r := range runs {
		response[i] = runStats(r)
	}

	return ctx.JSON(http.StatusOK, response)
}

func runStats(s run.Stats) servers.RunStats {
	return servers.RunStats{
		Timestamp:         s.Timestamp,
		ExceptionsFound:   s.ExceptionsFound,
		ShipmentsChecked:  s.ShipmentsChecked,
		NotificationsSent: s.NotificationsSent,
		DurationMs:        s.DurationMS,
		Error:             s.Error,
	}
}

// shipmentAttributes maps the stored shipment row onto model attributes.
// The carrier arrives as vessel_name; carrier_name wins when both are set.
func shipmentAttributes(d servers.ShipmentData) riskmodel.ShipmentAttributes {
	carrier := value(d.CarrierName)
	if carrier == "" {
		carrier = value(d.VesselName)
	}
	return riskmodel.ShipmentAttributes{
		ShipmentID:         d.Id,
		OriginPort:         value(d.OriginPort),
		DestinationPort:    value(d.DestinationPort),
		Carrier:            carrier,
		ContainerType:      value(d.ContainerType),
		PlannedDeparture:   value(d.Etd),
		PlannedArrival:     value(d.Eta),
		RiskFlag:           value(d.RiskFlag),
		CarrierReliability: d.CarrierReliability,
		TransitDays:        d.TransitDays,
		BaseDelayRate:      d.BaseDelayRate,
	}
}

func value[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
