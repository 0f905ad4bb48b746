package service

import (
	"context"
	"fmt"

	"glamgo/internal/authz"
	"glamgo/internal/models"
	"glamgo/internal/store"
	"glamgo/internal/util"

	"go.uber.org/zap"
)

// OrderProductRepository persists order lines.
type OrderProductRepository interface {
	CreateOrderProduct(ctx context.Context, op *models.OrderProduct) error
	GetOrderProductByID(ctx context.Context, id string) (*models.OrderProduct, error)
	ListOrderProducts(ctx context.Context, f store.OrderProductFilter, page store.Page) ([]models.OrderProduct, error)
	UpdateOrderProduct(ctx context.Context, op *models.OrderProduct) error
	DeleteOrderProduct(ctx context.Context, id string) error
}

// OrderProductService manages the lines of an order. Lines are written as
// supplied: the order and product are not looked up, the price is not copied
// from the product and inventory is not touched.
type OrderProductService struct {
	base
	repo OrderProductRepository
}

// NewOrderProductService creates a new order product service
func NewOrderProductService(repo OrderProductRepository, deps Deps) *OrderProductService {
	return &OrderProductService{base: newBase(deps), repo: repo}
}

// CreateOrderProduct creates an order line owned by the caller
func (s *OrderProductService) CreateOrderProduct(ctx context.Context, caller authz.Identity, op *models.OrderProduct) (*models.OrderProduct, error) {
	ctx, span := util.StartSpan(ctx, "OrderProductService.CreateOrderProduct")
	defer span.End()

	if err := s.authorize(models.ModelOrderProduct, authz.Create, caller, caller.Subject); err != nil {
		return nil, err
	}

	op.ID = ""
	op.Owner = caller.Subject
	if err := validateOrderProduct(op); err != nil {
		return nil, err
	}

	if err := s.repo.CreateOrderProduct(ctx, op); err != nil {
		return nil, fmt.Errorf("failed to create order product: %w", err)
	}

	util.RecordsCreatedTotal.WithLabelValues(models.ModelOrderProduct).Inc()
	s.logger.Info("Order product created",
		zap.String("order_product_id", op.ID),
		zap.String("order_id", op.OrderID),
		zap.String("product_id", op.ProductID))

	s.publish(ctx, models.EventTypeOrderProductCreated, models.ModelOrderProduct, op.ID, op.Owner, caller, op)
	return op, nil
}

// GetOrderProduct retrieves an order line
func (s *OrderProductService) GetOrderProduct(ctx context.Context, caller authz.Identity, id string) (*models.OrderProduct, error) {
	ctx, span := util.StartSpan(ctx, "OrderProductService.GetOrderProduct")
	defer span.End()

	op, err := s.repo.GetOrderProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(models.ModelOrderProduct, authz.Read, caller, op.Owner); err != nil {
		return nil, err
	}
	return op, nil
}

// ListOrderProducts lists order lines visible to the caller
func (s *OrderProductService) ListOrderProducts(ctx context.Context, caller authz.Identity, f store.OrderProductFilter, page store.Page) ([]models.OrderProduct, error) {
	ctx, span := util.StartSpan(ctx, "OrderProductService.ListOrderProducts")
	defer span.End()

	owner, err := s.listOwner(models.ModelOrderProduct, caller)
	if err != nil {
		return nil, err
	}
	if owner != "" {
		f.Owner = owner
	}
	return s.repo.ListOrderProducts(ctx, f, page)
}

// UpdateOrderProduct applies changes to an order line owned by the caller
func (s *OrderProductService) UpdateOrderProduct(ctx context.Context, caller authz.Identity, id string, apply func(*models.OrderProduct) error) (*models.OrderProduct, error) {
	ctx, span := util.StartSpan(ctx, "OrderProductService.UpdateOrderProduct")
	defer span.End()

	current, err := s.repo.GetOrderProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(models.ModelOrderProduct, authz.Update, caller, current.Owner); err != nil {
		return nil, err
	}

	next := *current
	if err := apply(&next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	next.ID, next.Owner, next.CreatedAt = current.ID, current.Owner, current.CreatedAt

	if err := validateOrderProduct(&next); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateOrderProduct(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to update order product: %w", err)
	}

	util.RecordsUpdatedTotal.WithLabelValues(models.ModelOrderProduct).Inc()
	s.publish(ctx, models.EventTypeOrderProductUpdated, models.ModelOrderProduct, id, next.Owner, caller, &next)
	return &next, nil
}

// DeleteOrderProduct deletes an order line owned by the caller
func (s *OrderProductService) DeleteOrderProduct(ctx context.Context, caller authz.Identity, id string) error {
	ctx, span := util.StartSpan(ctx, "OrderProductService.DeleteOrderProduct")
	defer span.End()

	current, err := s.repo.GetOrderProductByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(models.ModelOrderProduct, authz.Delete, caller, current.Owner); err != nil {
		return err
	}

	if err := s.repo.DeleteOrderProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete order product: %w", err)
	}

	util.RecordsDeletedTotal.WithLabelValues(models.ModelOrderProduct).Inc()
	s.publish(ctx, models.EventTypeOrderProductDeleted, models.ModelOrderProduct, id, current.Owner, caller, nil)
	return nil
}

func validateOrderProduct(op *models.OrderProduct) error {
	return requireFields(map[string]string{
		"orderId":    op.OrderID,
		"productId":  op.ProductID,
		"customerId": op.CustomerID,
	})
}
