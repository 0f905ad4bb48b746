package service

import (
	"context"
	"fmt"
	"time"

	"glamgo/internal/authz"
	"glamgo/internal/models"
	"glamgo/internal/store"
	"glamgo/internal/util"

	"go.uber.org/zap"
)

const idempotencyTTL = 24 * time.Hour

// OrderRepository persists orders.
type OrderRepository interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, f store.OrderFilter, page store.Page) ([]models.Order, error)
	UpdateOrder(ctx context.Context, o *models.Order) error
	DeleteOrder(ctx context.Context, id string) error
}

// IdempotencyStore remembers which order a client request key produced.
type IdempotencyStore interface {
	SetIdempotencyKey(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	GetIdempotencyKey(ctx context.Context, key string) (string, bool, error)
}

// OrderService manages customer orders.
//
// Status is validated against the enumeration only. Any writer allowed to
// update an order may move it to any status; transition timestamps are
// whatever the writer supplies.
type OrderService struct {
	base
	repo        OrderRepository
	idempotency IdempotencyStore
}

// NewOrderService creates a new order service. idem may be nil.
func NewOrderService(repo OrderRepository, idem IdempotencyStore, deps Deps) *OrderService {
	return &OrderService{base: newBase(deps), repo: repo, idempotency: idem}
}

// CreateOrder creates an order owned by the caller. When idempotencyKey is
// set and was already used by the same caller, the earlier order is returned.
func (s *OrderService) CreateOrder(ctx context.Context, caller authz.Identity, o *models.Order, idempotencyKey string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if err := s.authorize(models.ModelOrder, authz.Create, caller, caller.Subject); err != nil {
		return nil, err
	}

	idemKey := ""
	if idempotencyKey != "" && s.idempotency != nil {
		idemKey = caller.Subject + ":" + idempotencyKey
		if existing := s.existingOrder(ctx, idemKey); existing != nil {
			s.logger.Info("Duplicate order request detected",
				zap.String("idempotency_key", idempotencyKey),
				zap.String("order_id", existing.ID))
			return existing, nil
		}
	}

	o.ID = ""
	o.Owner = caller.Subject
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	if err := validateOrder(o); err != nil {
		return nil, err
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.RecordsCreatedTotal.WithLabelValues(models.ModelOrder).Inc()
	util.OrderStatusChangesTotal.WithLabelValues(o.Status).Inc()
	s.logger.Info("Order created", zap.String("order_id", o.ID), zap.String("status", o.Status))

	if idemKey != "" {
		if _, err := s.idempotency.SetIdempotencyKey(ctx, idemKey, o.ID, idempotencyTTL); err != nil {
			s.logger.Warn("Failed to store idempotency key", zap.String("order_id", o.ID), zap.Error(err))
		}
	}

	s.publish(ctx, models.EventTypeOrderCreated, models.ModelOrder, o.ID, o.Owner, caller, o)
	return o, nil
}

func (s *OrderService) existingOrder(ctx context.Context, key string) *models.Order {
	orderID, ok, err := s.idempotency.GetIdempotencyKey(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to check idempotency key", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		s.logger.Warn("Idempotency key points at missing order", zap.String("order_id", orderID), zap.Error(err))
		return nil
	}
	return order
}

// GetOrder retrieves an order
func (s *OrderService) GetOrder(ctx context.Context, caller authz.Identity, id string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.GetOrder")
	defer span.End()

	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(models.ModelOrder, authz.Read, caller, o.Owner); err != nil {
		return nil, err
	}
	return o, nil
}

// ListOrders lists orders visible to the caller
func (s *OrderService) ListOrders(ctx context.Context, caller authz.Identity, f store.OrderFilter, page store.Page) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListOrders")
	defer span.End()

	if f.Status != "" && !models.ValidOrderStatus(f.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}

	owner, err := s.listOwner(models.ModelOrder, caller)
	if err != nil {
		return nil, err
	}
	if owner != "" {
		f.Owner = owner
	}
	return s.repo.ListOrders(ctx, f, page)
}

// UpdateOrder applies changes to an order owned by the caller
func (s *OrderService) UpdateOrder(ctx context.Context, caller authz.Identity, id string, apply func(*models.Order) error) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateOrder")
	defer span.End()

	current, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(models.ModelOrder, authz.Update, caller, current.Owner); err != nil {
		return nil, err
	}

	next := *current
	if err := apply(&next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	next.ID, next.Owner, next.CreatedAt = current.ID, current.Owner, current.CreatedAt

	if err := validateOrder(&next); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateOrder(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	util.RecordsUpdatedTotal.WithLabelValues(models.ModelOrder).Inc()
	s.publish(ctx, models.EventTypeOrderUpdated, models.ModelOrder, id, next.Owner, caller, &next)

	if next.Status != current.Status {
		util.OrderStatusChangesTotal.WithLabelValues(next.Status).Inc()
		s.logger.Info("Order status changed",
			zap.String("order_id", id),
			zap.String("from", current.Status),
			zap.String("to", next.Status))
		s.publishStatusChange(ctx, caller, current.Status, &next)
	}
	return &next, nil
}

func (s *OrderService) publishStatusChange(ctx context.Context, caller authz.Identity, from string, o *models.Order) {
	if s.events == nil {
		return
	}
	event := &models.OrderStatusChangedEvent{
		BaseEvent:  newBaseEvent(models.EventTypeOrderStatusChanged),
		OrderID:    o.ID,
		FromStatus: from,
		ToStatus:   o.Status,
		DriverID:   o.DriverID,
		Actor:      caller.Subject,
	}
	if err := s.events.PublishOrderStatusChanged(ctx, event); err != nil {
		util.EventsPublishFailedTotal.WithLabelValues(models.EventTypeOrderStatusChanged).Inc()
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}
}

// DeleteOrder deletes an order owned by the caller. Its order products are
// not deleted.
func (s *OrderService) DeleteOrder(ctx context.Context, caller authz.Identity, id string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.DeleteOrder")
	defer span.End()

	current, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(models.ModelOrder, authz.Delete, caller, current.Owner); err != nil {
		return err
	}

	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	util.RecordsDeletedTotal.WithLabelValues(models.ModelOrder).Inc()
	s.logger.Info("Order deleted", zap.String("order_id", id))
	s.publish(ctx, models.EventTypeOrderDeleted, models.ModelOrder, id, current.Owner, caller, nil)
	return nil
}

func validateOrder(o *models.Order) error {
	if err := requireFields(map[string]string{
		"customerId":      o.CustomerID,
		"customerName":    o.CustomerName,
		"customerEmail":   o.CustomerEmail,
		"deliveryAddress": o.DeliveryAddress,
		"deliveryCity":    o.DeliveryCity,
		"deliveryState":   o.DeliveryState,
		"deliveryZipCode": o.DeliveryZipCode,
	}); err != nil {
		return err
	}
	if !models.ValidOrderStatus(o.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, o.Status)
	}
	return nil
}
