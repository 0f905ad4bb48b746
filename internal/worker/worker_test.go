package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"glamgo/internal/broker"
	"glamgo/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	msgs   []kafka.Message
	errs   []error
	closed bool
}

func (s *fakeSource) StartConsuming(ctx context.Context, handler broker.MessageHandler) error {
	for _, m := range s.msgs {
		s.errs = append(s.errs, handler(ctx, m))
	}
	return nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

type fakeCache struct {
	invalidated []string
	err         error
}

func (c *fakeCache) InvalidateRecord(_ context.Context, model, id string) error {
	if c.err != nil {
		return c.err
	}
	c.invalidated = append(c.invalidated, model+":"+id)
	return nil
}

type fakeEventLog struct {
	processed map[string]string
}

func newFakeEventLog() *fakeEventLog {
	return &fakeEventLog{processed: map[string]string{}}
}

func (l *fakeEventLog) IsEventProcessed(_ context.Context, id string) (bool, error) {
	_, ok := l.processed[id]
	return ok, nil
}

func (l *fakeEventLog) MarkEventProcessed(_ context.Context, id, eventType string) error {
	l.processed[id] = eventType
	return nil
}

func recordMessage(t *testing.T, id, eventType, model, recordID string) kafka.Message {
	t.Helper()
	b, err := json.Marshal(models.RecordEvent{
		BaseEvent: models.BaseEvent{EventID: id, EventType: eventType},
		Model:     model,
		RecordID:  recordID,
	})
	require.NoError(t, err)
	return kafka.Message{Value: b}
}

func TestCacheWorkerInvalidatesUpdatedAndDeletedRecords(t *testing.T) {
	src := &fakeSource{msgs: []kafka.Message{
		recordMessage(t, "e1", models.EventTypeProductUpdated, models.ModelProduct, "p-1"),
		recordMessage(t, "e2", models.EventTypeStoreDeleted, models.ModelStore, "s-1"),
		recordMessage(t, "e3", models.EventTypeProductCreated, models.ModelProduct, "p-2"),
		recordMessage(t, "e4", models.EventTypeOrderUpdated, models.ModelOrder, "o-1"),
	}}
	cache := &fakeCache{}
	log := newFakeEventLog()

	w := NewCacheWorker(src, cache, log)
	require.NoError(t, w.Start(context.Background()))

	assert.Equal(t, []string{"Product:p-1", "Store:s-1"}, cache.invalidated)
	assert.Equal(t, map[string]string{
		"e1": models.EventTypeProductUpdated,
		"e2": models.EventTypeStoreDeleted,
	}, log.processed)
	for _, err := range src.errs {
		assert.NoError(t, err)
	}

	require.NoError(t, w.Stop())
	assert.True(t, src.closed)
}

func TestCacheWorkerSkipsProcessedEvents(t *testing.T) {
	cache := &fakeCache{}
	log := newFakeEventLog()
	w := NewCacheWorker(&fakeSource{}, cache, log)

	msg := recordMessage(t, "e1", models.EventTypeStoreUpdated, models.ModelStore, "s-1")
	require.NoError(t, w.HandleMessage(context.Background(), msg))
	require.NoError(t, w.HandleMessage(context.Background(), msg))

	assert.Len(t, cache.invalidated, 1)
}

func TestCacheWorkerLeavesFailedEventsUnmarked(t *testing.T) {
	cache := &fakeCache{err: errors.New("redis down")}
	log := newFakeEventLog()
	w := NewCacheWorker(&fakeSource{}, cache, log)

	err := w.HandleMessage(context.Background(),
		recordMessage(t, "e1", models.EventTypeProductDeleted, models.ModelProduct, "p-1"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, broker.ErrPermanent)
	assert.Empty(t, log.processed)

	// The consumer redelivers the same message; once Redis recovers it is
	// invalidated and marked.
	cache.err = nil
	err = w.HandleMessage(context.Background(),
		recordMessage(t, "e1", models.EventTypeProductDeleted, models.ModelProduct, "p-1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Product:p-1"}, cache.invalidated)
	assert.Equal(t, models.EventTypeProductDeleted, log.processed["e1"])
}

func TestCacheWorkerRecordsStatusChanges(t *testing.T) {
	log := newFakeEventLog()
	w := NewCacheWorker(&fakeSource{}, &fakeCache{}, log)

	b, err := json.Marshal(models.OrderStatusChangedEvent{
		BaseEvent:  models.BaseEvent{EventID: "e9", EventType: models.EventTypeOrderStatusChanged},
		OrderID:    "o-1",
		FromStatus: models.OrderStatusPending,
		ToStatus:   models.OrderStatusConfirmed,
	})
	require.NoError(t, err)

	require.NoError(t, w.HandleMessage(context.Background(), kafka.Message{Value: b}))
	assert.Equal(t, models.EventTypeOrderStatusChanged, log.processed["e9"])
}

func TestCacheWorkerRejectsMalformedMessages(t *testing.T) {
	w := NewCacheWorker(&fakeSource{}, &fakeCache{}, newFakeEventLog())
	err := w.HandleMessage(context.Background(), kafka.Message{Value: []byte("{")})
	assert.ErrorIs(t, err, broker.ErrPermanent)
}
