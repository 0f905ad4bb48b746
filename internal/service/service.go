package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"glamgo/internal/authz"
	"glamgo/internal/models"
	"glamgo/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrValidation marks input rejected before it reaches storage.
var ErrValidation = errors.New("validation failed")

// RecordCache caches records by model and ID.
type RecordCache interface {
	GetRecord(ctx context.Context, model, id string, dest interface{}) (bool, error)
	SetRecord(ctx context.Context, model, id string, record interface{}) error
	InvalidateRecord(ctx context.Context, model, id string) error
}

// EventPublisher publishes domain events.
type EventPublisher interface {
	PublishRecordEvent(ctx context.Context, event *models.RecordEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}

// Deps are the collaborators shared by every service. Cache and Events are
// optional.
type Deps struct {
	Schema authz.Schema
	Cache  RecordCache
	Events EventPublisher
	Logger *zap.Logger
}

type base struct {
	schema authz.Schema
	cache  RecordCache
	events EventPublisher
	logger *zap.Logger
}

func newBase(d Deps) base {
	b := base{
		schema: d.Schema,
		cache:  d.Cache,
		events: d.Events,
		logger: d.Logger,
	}
	if b.schema == nil {
		b.schema = authz.DefaultSchema()
	}
	if b.logger == nil {
		b.logger = util.GetLogger()
	}
	return b
}

func (b *base) authorize(model string, op authz.Operation, caller authz.Identity, owner string) error {
	if err := b.schema.Check(model, op, caller, owner); err != nil {
		util.AuthzDeniedTotal.WithLabelValues(model, string(op)).Inc()
		b.logger.Info("Access denied",
			zap.String("model", model),
			zap.String("operation", string(op)),
			zap.String("subject", caller.Subject))
		return err
	}
	return nil
}

// listOwner returns the owner filter a list query must carry: empty when
// the caller may read any record of model, the caller's subject otherwise.
func (b *base) listOwner(model string, caller authz.Identity) (string, error) {
	if !caller.Authenticated() {
		return "", authz.ErrUnauthenticated
	}
	if b.schema.Allow(model, authz.Read, caller, "") {
		return "", nil
	}
	return caller.Subject, nil
}

func (b *base) cached(ctx context.Context, model, id string, dest interface{}) bool {
	if b.cache == nil {
		return false
	}
	hit, err := b.cache.GetRecord(ctx, model, id, dest)
	if err != nil {
		b.logger.Warn("Cache read failed", zap.String("model", model), zap.String("id", id), zap.Error(err))
		return false
	}
	if hit {
		util.CacheLookupsTotal.WithLabelValues(model, "hit").Inc()
	} else {
		util.CacheLookupsTotal.WithLabelValues(model, "miss").Inc()
	}
	return hit
}

func (b *base) remember(ctx context.Context, model, id string, record interface{}) {
	if b.cache == nil {
		return
	}
	if err := b.cache.SetRecord(ctx, model, id, record); err != nil {
		b.logger.Warn("Cache write failed", zap.String("model", model), zap.String("id", id), zap.Error(err))
	}
}

func (b *base) invalidate(ctx context.Context, model, id string) {
	if b.cache == nil {
		return
	}
	if err := b.cache.InvalidateRecord(ctx, model, id); err != nil {
		b.logger.Warn("Cache invalidation failed", zap.String("model", model), zap.String("id", id), zap.Error(err))
	}
}

// publish emits a record event. Failures are logged and counted; the write
// that triggered the event has already succeeded.
func (b *base) publish(ctx context.Context, eventType, model, id, owner string, caller authz.Identity, record interface{}) {
	if b.events == nil {
		return
	}
	event := &models.RecordEvent{
		BaseEvent: newBaseEvent(eventType),
		Model:     model,
		RecordID:  id,
		Owner:     owner,
		Actor:     caller.Subject,
		Record:    record,
	}
	if err := b.events.PublishRecordEvent(ctx, event); err != nil {
		util.EventsPublishFailedTotal.WithLabelValues(eventType).Inc()
		b.logger.Error("Failed to publish event",
			zap.String("event_type", eventType),
			zap.String("record_id", id),
			zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}

// requireFields returns a validation error naming every empty field.
func requireFields(fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
}
