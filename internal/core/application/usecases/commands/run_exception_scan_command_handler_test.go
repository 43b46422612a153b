package commands_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/domain/model/exception"
	"logistics/internal/core/domain/model/run"
	"logistics/internal/core/domain/model/shipment"
	"logistics/internal/core/domain/services/detectors"
	"logistics/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockShipmentStore struct{ mock.Mock }

func (m *MockShipmentStore) QueryActiveShipments(ctx context.Context) ([]shipment.Shipment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipment.Shipment), args.Error(1)
}

func (m *MockShipmentStore) QueryContainers(ctx context.Context, shipmentID, containerType string) ([]shipment.Container, error) {
	args := m.Called(ctx, shipmentID, containerType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipment.Container), args.Error(1)
}

func (m *MockShipmentStore) QueryPendingMilestones(ctx context.Context, shipmentID string) ([]shipment.Milestone, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipment.Milestone), args.Error(1)
}

type MockReadSession struct{ mock.Mock }

func (m *MockReadSession) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockReadSession) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockReadSession) ShipmentStore() ports.ShipmentStore {
	return m.Called().Get(0).(ports.ShipmentStore)
}

type MockReadSessionFactory struct{ mock.Mock }

func (m *MockReadSessionFactory) Create() ports.ReadSession {
	return m.Called().Get(0).(ports.ReadSession)
}

type MockDispatcher struct{ mock.Mock }

func (m *MockDispatcher) Dispatch(ctx context.Context, records []exception.Record) int {
	return m.Called(ctx, records).Int(0)
}

type MockRecorder struct{ mock.Mock }

func (m *MockRecorder) Record(ctx context.Context, stats run.Stats) error {
	return m.Called(ctx, stats).Error(0)
}

// stalledPublisher never acks and returns only when its context ends.
type stalledPublisher struct {
	onPublish   func()
	hadDeadline bool
}

func (p *stalledPublisher) Publish(ctx context.Context, _ []exception.Record) error {
	p.onPublish()
	_, p.hadDeadline = ctx.Deadline()
	<-ctx.Done()
	return ctx.Err()
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, records []exception.Record) error {
	return m.Called(ctx, records).Error(0)
}

var scanTime = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return scanTime }

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

type scanFixture struct {
	store      *MockShipmentStore
	session    *MockReadSession
	sessions   *MockReadSessionFactory
	dispatcher *MockDispatcher
	recorder   *MockRecorder
	logs       *bytes.Buffer
}

func newScanFixture() *scanFixture {
	f := &scanFixture{
		store:      &MockShipmentStore{},
		session:    &MockReadSession{},
		sessions:   &MockReadSessionFactory{},
		dispatcher: &MockDispatcher{},
		recorder:   &MockRecorder{},
		logs:       &bytes.Buffer{},
	}
	f.sessions.On("Create").Return(f.session)
	f.session.On("ShipmentStore").Return(f.store)
	return f
}

func (f *scanFixture) handler(opts ...commands.HandlerOption) *commands.RunExceptionScanCommandHandler {
	logger := quietLogger(f.logs)
	battery := detectors.NewBattery(detectors.DefaultDetectors(nil), logger)
	opts = append([]commands.HandlerOption{commands.WithClock(fixedClock)}, opts...)
	return commands.NewRunExceptionScanCommandHandler(f.sessions, battery, f.dispatcher, f.recorder, logger, opts...)
}

func scheduled(t *testing.T) commands.RunExceptionScanCommand {
	t.Helper()
	cmd, err := commands.NewRunExceptionScanCommand(commands.TriggerScheduled)
	require.NoError(t, err)
	return cmd
}

func TestRunExceptionScanCommandHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("should deliver and record a partial dispatch failure", func(t *testing.T) {
		f := newScanFixture()
		f.session.On("Begin", ctx).Return(nil)
		f.session.On("Close", ctx).Return(nil)

		late := shipment.Shipment{ID: "SHP-1", Status: shipment.InTransit, DelayHours: 50, GeofenceViolation: true}
		calm := shipment.Shipment{ID: "SHP-2", Status: shipment.AtPort}
		f.store.On("QueryActiveShipments", ctx).Return([]shipment.Shipment{late, calm}, nil)
		f.store.On("QueryContainers", ctx, "SHP-1", shipment.ContainerTypeReefer).Return([]shipment.Container{{
			ContainerID: "C-1", ShipmentID: "SHP-1", ContainerType: shipment.ContainerTypeReefer,
			CurrentTemp: ptr(-12.0), TargetTemp: ptr(-18.0),
		}}, nil)
		f.store.On("QueryContainers", ctx, "SHP-2", shipment.ContainerTypeReefer).Return([]shipment.Container{}, nil)
		f.store.On("QueryPendingMilestones", ctx, mock.Anything).Return([]shipment.Milestone{}, nil)

		f.dispatcher.On("Dispatch", ctx, mock.MatchedBy(func(records []exception.Record) bool {
			return len(records) == 3
		})).Return(2)
		f.recorder.On("Record", ctx, mock.MatchedBy(func(s run.Stats) bool {
			return s.ExceptionsFound == 3 && s.NotificationsSent == 2 && s.ShipmentsChecked == 2 && !s.Failed()
		})).Return(nil)

		stats, err := f.handler().Handle(ctx, scheduled(t))

		require.NoError(t, err)
		assert.Equal(t, 3, stats.ExceptionsFound)
		assert.Equal(t, 2, stats.ShipmentsChecked)
		assert.Equal(t, 2, stats.NotificationsSent)
		assert.Equal(t, scanTime, stats.Timestamp)
		f.dispatcher.AssertExpectations(t)
		f.recorder.AssertExpectations(t)
		f.session.AssertExpectations(t)
	})

	t.Run("should skip the dispatcher when nothing was found", func(t *testing.T) {
		f := newScanFixture()
		f.session.On("Begin", ctx).Return(nil)
		f.session.On("Close", ctx).Return(nil)
		f.store.On("QueryActiveShipments", ctx).Return([]shipment.Shipment{}, nil)
		f.recorder.On("Record", ctx, mock.Anything).Return(nil)

		stats, err := f.handler().Handle(ctx, scheduled(t))

		require.NoError(t, err)
		assert.Zero(t, stats.ExceptionsFound)
		f.dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("should return a cycle error when shipments cannot be listed", func(t *testing.T) {
		f := newScanFixture()
		storeDown := errors.New("connection refused")
		f.session.On("Begin", ctx).Return(nil)
		f.session.On("Close", ctx).Return(nil)
		f.store.On("QueryActiveShipments", ctx).Return(nil, storeDown)
		f.recorder.On("Record", ctx, mock.MatchedBy(func(s run.Stats) bool { return s.Failed() })).Return(nil)

		stats, err := f.handler().Handle(ctx, scheduled(t))

		var cycleErr *commands.CycleError
		require.ErrorAs(t, err, &cycleErr)
		require.ErrorIs(t, err, storeDown)
		require.True(t, stats.Failed())
		assert.Contains(t, *stats.Error, "connection refused")
		assert.Equal(t, stats, cycleErr.Stats)
		f.recorder.AssertExpectations(t)
		f.dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("should return a cycle error when the session cannot open", func(t *testing.T) {
		f := newScanFixture()
		f.session.On("Begin", ctx).Return(errors.New("too many connections"))
		f.recorder.On("Record", ctx, mock.Anything).Return(nil)

		_, err := f.handler().Handle(ctx, scheduled(t))

		var cycleErr *commands.CycleError
		require.ErrorAs(t, err, &cycleErr)
		f.session.AssertNotCalled(t, "Close", mock.Anything)
	})

	t.Run("should keep scanning when a sub-query fails", func(t *testing.T) {
		f := newScanFixture()
		f.session.On("Begin", ctx).Return(nil)
		f.session.On("Close", ctx).Return(nil)
		f.store.On("QueryActiveShipments", ctx).Return([]shipment.Shipment{
			{ID: "SHP-3", Status: shipment.InTransit, DelayHours: 30},
		}, nil)
		f.store.On("QueryContainers", ctx, "SHP-3", shipment.ContainerTypeReefer).Return(nil, errors.New("statement timeout"))
		f.store.On("QueryPendingMilestones", ctx, "SHP-3").Return([]shipment.Milestone{}, nil)
		f.dispatcher.On("Dispatch", ctx, mock.Anything).Return(1)
		f.recorder.On("Record", ctx, mock.Anything).Return(nil)

		stats, err := f.handler().Handle(ctx, scheduled(t))

		require.NoError(t, err)
		assert.Equal(t, 1, stats.ExceptionsFound)
		assert.Contains(t, f.logs.String(), "statement timeout")
	})

	t.Run("should survive recorder and publisher failures", func(t *testing.T) {
		f := newScanFixture()
		publisher := &MockPublisher{}
		f.session.On("Begin", ctx).Return(nil)
		f.session.On("Close", ctx).Return(nil)
		f.store.On("QueryActiveShipments", ctx).Return([]shipment.Shipment{
			{ID: "SHP-4", Status: shipment.Delayed, DelayHours: 60},
		}, nil)
		f.store.On("QueryContainers", ctx, "SHP-4", shipment.ContainerTypeReefer).Return([]shipment.Container{}, nil)
		f.store.On("QueryPendingMilestones", ctx, "SHP-4").Return([]shipment.Milestone{}, nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker unavailable"))
		f.dispatcher.On("Dispatch", ctx, mock.Anything).Return(1)
		f.recorder.On("Record", ctx, mock.Anything).Return(errors.New("disk full"))

		stats, err := f.handler(commands.WithPublisher(publisher)).Handle(ctx, scheduled(t))

		require.NoError(t, err)
		assert.Equal(t, 1, stats.NotificationsSent)
		publisher.AssertExpectations(t)
		assert.Contains(t, f.logs.String(), "broker unavailable")
		assert.Contains(t, f.logs.String(), "disk full")
	})

	t.Run("should escalate before a stalled publish and bound it", func(t *testing.T) {
		f := newScanFixture()
		var order []string
		publisher := &stalledPublisher{onPublish: func() { order = append(order, "publish") }}
		f.session.On("Begin", ctx).Return(nil)
		f.session.On("Close", ctx).Return(nil)
		f.store.On("QueryActiveShipments", ctx).Return([]shipment.Shipment{
			{ID: "SHP-5", Status: shipment.Delayed, DelayHours: 60},
		}, nil)
		f.store.On("QueryContainers", ctx, "SHP-5", shipment.ContainerTypeReefer).Return([]shipment.Container{}, nil)
		f.store.On("QueryPendingMilestones", ctx, "SHP-5").Return([]shipment.Milestone{}, nil)
		f.dispatcher.On("Dispatch", ctx, mock.Anything).
			Run(func(mock.Arguments) { order = append(order, "dispatch") }).
			Return(1)
		f.recorder.On("Record", ctx, mock.Anything).Return(nil)

		handler := f.handler(commands.WithPublisher(publisher), commands.WithPublishTimeout(20*time.Millisecond))
		cmd := scheduled(t)
		done := make(chan struct{})
		var stats run.Stats
		var err error
		go func() {
			defer close(done)
			stats, err = handler.Handle(ctx, cmd)
		}()

		select {
		case <-done:
		case <-time.After(commands.DefaultPublishTimeout):
			t.Fatal("cycle blocked on the publisher")
		}
		require.NoError(t, err)
		assert.Equal(t, 1, stats.NotificationsSent)
		assert.Equal(t, []string{"dispatch", "publish"}, order)
		assert.True(t, publisher.hadDeadline)
		assert.Contains(t, f.logs.String(), "context deadline exceeded")
	})

	t.Run("should reject an unconstructed command", func(t *testing.T) {
		f := newScanFixture()

		_, err := f.handler().Handle(ctx, commands.RunExceptionScanCommand{})

		require.ErrorIs(t, err, commands.ErrRunExceptionScanCommandIsNotConstructed)
		f.sessions.AssertNotCalled(t, "Create")
	})
}

func ptr[T any](v T) *T { return &v }
