package worker

import (
	"context"
	"fmt"

	"glamgo/internal/broker"
	"glamgo/internal/models"
	"glamgo/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageSource delivers event stream messages to a handler.
type MessageSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// CacheInvalidator drops cached records.
type CacheInvalidator interface {
	InvalidateRecord(ctx context.Context, model, id string) error
}

// EventLog records which events have been handled.
type EventLog interface {
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// cachedModels are the models whose reads go through the record cache.
var cachedModels = map[string]bool{
	models.ModelStore:   true,
	models.ModelProduct: true,
}

// CacheWorker keeps the record cache consistent with writes made by any
// instance. It drops cached stores and products on update and delete events.
type CacheWorker struct {
	consumer     MessageSource
	eventHandler *broker.EventHandler
	cache        CacheInvalidator
	events       EventLog
	logger       *zap.Logger
}

// NewCacheWorker creates a new cache worker
func NewCacheWorker(consumer MessageSource, cache CacheInvalidator, events EventLog) *CacheWorker {
	w := &CacheWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		cache:        cache,
		events:       events,
		logger:       util.GetLogger(),
	}

	w.eventHandler.OnRecordEvent(w.handleRecordEvent)
	w.eventHandler.OnOrderStatusChanged(w.handleOrderStatusChanged)
	return w
}

// Start starts the worker
func (w *CacheWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting cache worker...")
	return w.consumer.StartConsuming(ctx, w.HandleMessage)
}

// Stop stops the worker
func (w *CacheWorker) Stop() error {
	w.logger.Info("Stopping cache worker...")
	return w.consumer.Close()
}

// HandleMessage routes a single message through the event handler.
func (w *CacheWorker) HandleMessage(ctx context.Context, msg kafka.Message) error {
	return w.eventHandler.HandleMessage(ctx, msg)
}

func (w *CacheWorker) handleRecordEvent(ctx context.Context, event *models.RecordEvent) error {
	if !cachedModels[event.Model] || !invalidates(event.EventType) {
		return nil
	}

	return w.once(ctx, event.BaseEvent, func() error {
		if err := w.cache.InvalidateRecord(ctx, event.Model, event.RecordID); err != nil {
			return fmt.Errorf("failed to invalidate %s %s: %w", event.Model, event.RecordID, err)
		}
		w.logger.Debug("Invalidated cached record",
			zap.String("model", event.Model),
			zap.String("id", event.RecordID),
			zap.String("event_type", event.EventType))
		return nil
	})
}

func (w *CacheWorker) handleOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	return w.once(ctx, event.BaseEvent, func() error {
		w.logger.Info("Order status changed",
			zap.String("order_id", event.OrderID),
			zap.String("from", event.FromStatus),
			zap.String("to", event.ToStatus),
			zap.String("driver_id", event.DriverID))
		return nil
	})
}

// once runs fn unless the event was already handled, then marks it handled.
func (w *CacheWorker) once(ctx context.Context, event models.BaseEvent, fn func() error) error {
	processed, err := w.events.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event %s: %w", event.EventID, err)
	}
	if processed {
		w.logger.Debug("Event already processed, skipping", zap.String("event_id", event.EventID))
		return nil
	}

	if err := fn(); err != nil {
		return err
	}
	return w.events.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

func invalidates(eventType string) bool {
	switch eventType {
	case models.EventTypeStoreUpdated, models.EventTypeStoreDeleted,
		models.EventTypeProductUpdated, models.EventTypeProductDeleted:
		return true
	}
	return false
}
