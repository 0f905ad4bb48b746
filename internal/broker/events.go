package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"glamgo/internal/models"
	"glamgo/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher writes a keyed event to the event stream.
type Publisher interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
}

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer Publisher
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer Publisher) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// RecordKey is the partition key for events about one record.
func RecordKey(model, id string) string {
	return fmt.Sprintf("%s-%s", strings.ToLower(model), id)
}

// PublishRecordEvent publishes a create, update or delete of a record
func (ep *EventPublisher) PublishRecordEvent(ctx context.Context, event *models.RecordEvent) error {
	return ep.producer.PublishEvent(ctx, RecordKey(event.Model, event.RecordID), event)
}

// PublishOrderStatusChanged publishes an order status change
func (ep *EventPublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	return ep.producer.PublishEvent(ctx, RecordKey(models.ModelOrder, event.OrderID), event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onRecordEvent        func(context.Context, *models.RecordEvent) error
	onOrderStatusChanged func(context.Context, *models.OrderStatusChangedEvent) error
	logger               *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnRecordEvent registers a handler for record create/update/delete events
func (eh *EventHandler) OnRecordEvent(handler func(context.Context, *models.RecordEvent) error) {
	eh.onRecordEvent = handler
}

// OnOrderStatusChanged registers a handler for order status changes
func (eh *EventHandler) OnOrderStatusChanged(handler func(context.Context, *models.OrderStatusChangedEvent) error) {
	eh.onOrderStatusChanged = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return Permanent(fmt.Errorf("failed to unmarshal base event: %w", err))
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeStoreCreated, models.EventTypeStoreUpdated, models.EventTypeStoreDeleted,
		models.EventTypeProductCreated, models.EventTypeProductUpdated, models.EventTypeProductDeleted,
		models.EventTypeOrderCreated, models.EventTypeOrderUpdated, models.EventTypeOrderDeleted,
		models.EventTypeOrderProductCreated, models.EventTypeOrderProductUpdated, models.EventTypeOrderProductDeleted:
		if eh.onRecordEvent != nil {
			var event models.RecordEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return Permanent(fmt.Errorf("failed to unmarshal %s event: %w", baseEvent.EventType, err))
			}
			return eh.onRecordEvent(ctx, &event)
		}

	case models.EventTypeOrderStatusChanged:
		if eh.onOrderStatusChanged != nil {
			var event models.OrderStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return Permanent(fmt.Errorf("failed to unmarshal OrderStatusChanged event: %w", err))
			}
			return eh.onOrderStatusChanged(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
