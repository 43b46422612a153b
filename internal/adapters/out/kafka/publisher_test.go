package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	publisher "logistics/internal/adapters/out/kafka"
	"logistics/internal/core/domain/model/exception"
	"logistics/internal/core/domain/model/kernel"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct{ mock.Mock }

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	return m.Called(ctx, msgs).Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func geofenceRecord(t *testing.T, shipmentID string) exception.Record {
	t.Helper()
	rec, err := exception.New(exception.TypeGeofenceViolation, exception.SeverityHigh,
		"Shipment outside expected route", exception.GeofenceDetail{CurrentLocation: "Unknown"})
	require.NoError(t, err)
	rec.Stamp(kernel.NewUUID(), shipmentID, time.Now())
	return *rec
}

func TestPublisher_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("should key messages by shipment", func(t *testing.T) {
		w := &MockWriter{}
		var written []kafka.Message
		w.On("WriteMessages", ctx, mock.Anything).Run(func(args mock.Arguments) {
			written = args.Get(1).([]kafka.Message)
		}).Return(nil)

		err := publisher.NewPublisherWithWriter(w).Publish(ctx, []exception.Record{
			geofenceRecord(t, "SHP-1"),
			geofenceRecord(t, "SHP-2"),
		})

		require.NoError(t, err)
		require.Len(t, written, 2)
		assert.Equal(t, []byte("SHP-1"), written[0].Key)
		assert.Equal(t, "exception_type", written[0].Headers[0].Key)
		assert.Equal(t, []byte("geofence_violation"), written[0].Headers[0].Value)

		var body map[string]any
		require.NoError(t, json.Unmarshal(written[1].Value, &body))
		assert.Equal(t, "SHP-2", body["shipment_id"])
		assert.Equal(t, "Unknown", body["current_location"])
	})

	t.Run("should skip empty batches", func(t *testing.T) {
		w := &MockWriter{}

		require.NoError(t, publisher.NewPublisherWithWriter(w).Publish(ctx, nil))
		w.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
	})

	t.Run("should return writer errors", func(t *testing.T) {
		w := &MockWriter{}
		boom := errors.New("leader not available")
		w.On("WriteMessages", ctx, mock.Anything).Return(boom)

		err := publisher.NewPublisherWithWriter(w).Publish(ctx, []exception.Record{geofenceRecord(t, "SHP-1")})

		require.ErrorIs(t, err, boom)
	})
}

func TestNewPublisher(t *testing.T) {
	_, err := publisher.NewPublisher(nil, "shipment-exceptions")
	require.Error(t, err)

	_, err = publisher.NewPublisher([]string{"localhost:9092"}, "")
	require.Error(t, err)

	p, err := publisher.NewPublisher([]string{"localhost:9092"}, "shipment-exceptions")
	require.NoError(t, err)
	require.NoError(t, p.Close())
}
