package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	server "logistics/internal/adapters/in/http"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/run"
	"logistics/internal/core/domain/services/riskmodel"
	"logistics/internal/generated/servers"
	"logistics/internal/jobs"
	"logistics/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPredictDelayHandler struct {
	mock.Mock
}

func (m *mockPredictDelayHandler) Handle(ctx context.Context, query queries.PredictDelayQuery) (queries.PredictDelayQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.PredictDelayQueryResponse), args.Error(1)
}

type mockModelInfoHandler struct {
	mock.Mock
}

func (m *mockModelInfoHandler) Handle(ctx context.Context, query queries.GetModelInfoQuery) (riskmodel.Info, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(riskmodel.Info), args.Error(1)
}

type mockRecentRunsHandler struct {
	mock.Mock
}

func (m *mockRecentRunsHandler) Handle(ctx context.Context, query queries.GetRecentRunsQuery) ([]run.Stats, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]run.Stats), args.Error(1)
}

type mockMonitor struct {
	mock.Mock
}

func (m *mockMonitor) Status() jobs.Status {
	return m.Called().Get(0).(jobs.Status)
}

func (m *mockMonitor) RunOnce(ctx context.Context) (run.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(run.Stats), args.Error(1)
}

type fixture struct {
	predict *mockPredictDelayHandler
	info    *mockModelInfoHandler
	runs    *mockRecentRunsHandler
	monitor *mockMonitor
	echo    *echo.Echo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		predict: &mockPredictDelayHandler{},
		info:    &mockModelInfoHandler{},
		runs:    &mockRecentRunsHandler{},
		monitor: &mockMonitor{},
		echo:    echo.New(),
	}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("exception_monitor_cycles_total 1\n"))
	})
	require.NoError(t, server.NewServer(f.predict, f.info, f.runs, f.monitor, metrics).RegisterRoutes(f.echo))
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func testInfo() riskmodel.Info {
	return riskmodel.Info{
		ModelType:    "Random Forest Classifier",
		Classes:      []string{"on_time", "delayed"},
		FeatureNames: riskmodel.FeatureNames(),
		Metrics:      riskmodel.Metrics{Accuracy: 0.87, Precision: 0.81, Recall: 0.78},
	}
}

func TestServer_GetHealth(t *testing.T) {
	t.Run("healthy with model", func(t *testing.T) {
		f := newFixture(t)
		f.info.On("Handle", mock.Anything, mock.Anything).Return(testInfo(), nil)
		f.monitor.On("Status").Return(jobs.Status{Running: true})

		rec := f.do(http.MethodGet, "/health", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body servers.HealthResponse
		decode(t, rec, &body)
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "loaded", body.Models["delay_predictor"])
		assert.True(t, body.MonitorRunning)
	})

	t.Run("degraded without model", func(t *testing.T) {
		f := newFixture(t)
		f.info.On("Handle", mock.Anything, mock.Anything).Return(riskmodel.Info{}, riskmodel.ErrModelUnavailable)
		f.monitor.On("Status").Return(jobs.Status{})

		rec := f.do(http.MethodGet, "/health", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body servers.HealthResponse
		decode(t, rec, &body)
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, "not loaded", body.Models["delay_predictor"])
	})
}

func TestServer_GetModelInfo(t *testing.T) {
	t.Run("returns metrics and features", func(t *testing.T) {
		f := newFixture(t)
		f.info.On("Handle", mock.Anything, mock.Anything).Return(testInfo(), nil)

		rec := f.do(http.MethodGet, "/model-info", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body servers.ModelInfoResponse
		decode(t, rec, &body)
		assert.Equal(t, "Delay Prediction Model", body.ModelName)
		assert.InDelta(t, 0.87, body.Accuracy, 1e-9)
		assert.Len(t, body.Features, riskmodel.FeatureCount)
	})

	t.Run("503 when model is not loaded", func(t *testing.T) {
		f := newFixture(t)
		f.info.On("Handle", mock.Anything, mock.Anything).Return(riskmodel.Info{}, riskmodel.ErrModelUnavailable)

		rec := f.do(http.MethodGet, "/model-info", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestServer_PredictDelay(t *testing.T) {
	const body = `{"shipment_data":{"id":"SHP-2025-001","origin_port":"Shanghai","destination_port":"Long Beach",` +
		`"vessel_name":"MAERSK LINE","etd":"2026-01-10T00:00:00","eta":"2026-02-05T00:00:00","container_type":"40HC"}}`

	t.Run("maps shipment data and returns the prediction", func(t *testing.T) {
		f := newFixture(t)
		f.predict.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.PredictDelayQuery) bool {
			attrs := q.Attributes()
			return attrs.ShipmentID == "SHP-2025-001" && attrs.Carrier == "MAERSK LINE" && attrs.PlannedArrival == "2026-02-05T00:00:00"
		})).Return(queries.PredictDelayQueryResponse{
			ShipmentID:       "SHP-2025-001",
			WillDelay:        true,
			Confidence:       0.82,
			DelayProbability: 0.82,
			RiskFactors:      []string{"High seasonal delay risk"},
			Recommendation:   "HIGH RISK",
			ModelAccuracy:    0.87,
		}, nil)

		rec := f.do(http.MethodPost, "/predict-delay", body)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]any
		decode(t, rec, &resp)
		assert.Equal(t, true, resp["success"])
		assert.Equal(t, true, resp["will_delay"])
		assert.InDelta(t, 0.82, resp["confidence"], 1e-9)
		f.predict.AssertExpectations(t)
	})

	t.Run("400 when shipment id is missing", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/predict-delay", `{"shipment_data":{"origin_port":"Shanghai"}}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.predict.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("400 on malformed body", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/predict-delay", `{"shipment_data":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("400 when a field has the wrong type", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/predict-delay", `{"shipment_data":{"id":"SHP-1","risk_flag":"yes"}}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp servers.Error
		decode(t, rec, &resp)
		assert.Contains(t, resp.Message, "risk_flag")
		f.predict.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("400 on out of range override", func(t *testing.T) {
		f := newFixture(t)
		f.predict.On("Handle", mock.Anything, mock.Anything).
			Return(queries.PredictDelayQueryResponse{}, errs.NewValueIsOutOfRangeError("carrier reliability", 1.5, 0, 1))

		rec := f.do(http.MethodPost, "/predict-delay", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("503 when model is not loaded", func(t *testing.T) {
		f := newFixture(t)
		f.predict.On("Handle", mock.Anything, mock.Anything).
			Return(queries.PredictDelayQueryResponse{}, riskmodel.ErrModelUnavailable)

		rec := f.do(http.MethodPost, "/predict-delay", body)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("500 on unexpected failure", func(t *testing.T) {
		f := newFixture(t)
		f.predict.On("Handle", mock.Anything, mock.Anything).
			Return(queries.PredictDelayQueryResponse{}, errors.New("classifier exploded"))

		rec := f.do(http.MethodPost, "/predict-delay", body)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestServer_Monitor(t *testing.T) {
	stats, err := run.NewStats(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), 3, 10, 2, 1500*time.Millisecond)
	require.NoError(t, err)

	t.Run("status", func(t *testing.T) {
		f := newFixture(t)
		last := stats.Timestamp.Add(2 * time.Second)
		f.monitor.On("Status").Return(jobs.Status{
			Running:     true,
			Interval:    5 * time.Minute,
			TotalRuns:   4,
			FailedRuns:  1,
			LastRunTime: &last,
			LastStats:   &stats,
		})

		rec := f.do(http.MethodGet, "/monitor/status", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body servers.MonitorStatusResponse
		decode(t, rec, &body)
		assert.True(t, body.Running)
		require.NotNil(t, body.IntervalSeconds)
		assert.Equal(t, int64(300), *body.IntervalSeconds)
		assert.Equal(t, 4, body.TotalRuns)
		assert.Equal(t, 1, body.FailedRuns)
		require.NotNil(t, body.LastStats)
		assert.Equal(t, 2, body.LastStats.NotificationsSent)
	})

	t.Run("manual run", func(t *testing.T) {
		f := newFixture(t)
		f.monitor.On("RunOnce", mock.Anything).Return(stats, nil)

		rec := f.do(http.MethodPost, "/monitor/run", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body servers.RunStats
		decode(t, rec, &body)
		assert.Equal(t, 3, body.ExceptionsFound)
		assert.Equal(t, int64(1500), body.DurationMs)
		assert.Nil(t, body.Error)
	})

	t.Run("manual run outlives a disconnected client", func(t *testing.T) {
		f := newFixture(t)
		f.monitor.On("RunOnce", mock.MatchedBy(func(ctx context.Context) bool {
			return ctx.Err() == nil
		})).Return(stats, nil)

		reqCtx, cancel := context.WithCancel(context.Background())
		cancel()
		req := httptest.NewRequest(http.MethodPost, "/monitor/run", nil).WithContext(reqCtx)
		rec := httptest.NewRecorder()
		f.echo.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		f.monitor.AssertExpectations(t)
	})

	t.Run("manual run failure", func(t *testing.T) {
		f := newFixture(t)
		f.monitor.On("RunOnce", mock.Anything).Return(run.Stats{}, errors.New("store unreachable"))

		rec := f.do(http.MethodPost, "/monitor/run", "")

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "store unreachable")
	})

	t.Run("recent runs", func(t *testing.T) {
		f := newFixture(t)
		f.runs.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetRecentRunsQuery) bool {
			return q.Limit() == 5
		})).Return([]run.Stats{stats}, nil)

		rec := f.do(http.MethodGet, "/monitor/runs?limit=5", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body []servers.RunStats
		decode(t, rec, &body)
		require.Len(t, body, 1)
		assert.Equal(t, 10, body[0].ShipmentsChecked)
	})

	t.Run("recent runs defaults the limit", func(t *testing.T) {
		f := newFixture(t)
		f.runs.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetRecentRunsQuery) bool {
			return q.Limit() == queries.DefaultRecentRunsLimit
		})).Return([]run.Stats{}, nil)

		rec := f.do(http.MethodGet, "/monitor/runs", "")

		require.Equal(t, http.StatusOK, rec.Code)
		f.runs.AssertExpectations(t)
	})

	t.Run("recent runs rejects bad limit", func(t *testing.T) {
		f := newFixture(t)

		assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/monitor/runs?limit=abc", "").Code)
		assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/monitor/runs?limit=100000", "").Code)
		assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/monitor/runs?limit=0", "").Code)
		f.runs.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestServer_Swagger(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/swagger/doc.json", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/predict-delay")
	assert.Contains(t, rec.Body.String(), "Shipment Exception Monitor")
}

func TestServer_Metrics(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "exception_monitor_cycles_total 1")
}
