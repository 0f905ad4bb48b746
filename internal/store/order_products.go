package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"glamgo/internal/models"
)

// OrderProductFilter narrows ListOrderProducts. Empty fields are ignored.
type OrderProductFilter struct {
	Owner      string
	OrderID    string
	ProductID  string
	CustomerID string
}

// CreateOrderProduct inserts an order line, assigning an ID when none is set
func (s *Store) CreateOrderProduct(ctx context.Context, op *models.OrderProduct) error {
	if op.ID == "" {
		op.ID = newID()
	}

	query := `
		INSERT INTO order_products (id, order_id, product_id, quantity, price_at_purchase,
			owner, customer_id)
		VALUES (:id, :order_id, :product_id, :quantity, :price_at_purchase,
			:owner, :customer_id)
		RETURNING *`

	return s.namedGet(ctx, op, query, op)
}

// GetOrderProductByID retrieves an order line by ID
func (s *Store) GetOrderProductByID(ctx context.Context, id string) (*models.OrderProduct, error) {
	var op models.OrderProduct
	err := s.db.GetContext(ctx, &op, "SELECT * FROM order_products WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// ListOrderProducts retrieves order lines matching the filter
func (s *Store) ListOrderProducts(ctx context.Context, f OrderProductFilter, page Page) ([]models.OrderProduct, error) {
	var w where
	w.eq("owner", f.Owner)
	w.eq("order_id", f.OrderID)
	w.eq("product_id", f.ProductID)
	w.eq("customer_id", f.CustomerID)
	query, args := w.build("SELECT * FROM order_products", "created_at", page)

	items := []models.OrderProduct{}
	err := s.db.SelectContext(ctx, &items, query, args...)
	return items, err
}

// UpdateOrderProduct replaces the mutable fields of an order line.
// price_at_purchase is written as supplied.
func (s *Store) UpdateOrderProduct(ctx context.Context, op *models.OrderProduct) error {
	query := `
		UPDATE order_products SET order_id = :order_id, product_id = :product_id,
			quantity = :quantity, price_at_purchase = :price_at_purchase,
			customer_id = :customer_id, updated_at = NOW()
		WHERE id = :id
		RETURNING *`

	err := s.namedGet(ctx, op, query, op)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("order product %s: %w", op.ID, ErrNotFound)
	}
	return err
}

// DeleteOrderProduct deletes an order line
func (s *Store) DeleteOrderProduct(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "order_products", id)
}
