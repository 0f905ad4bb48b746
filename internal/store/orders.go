package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"glamgo/internal/models"
)

// OrderFilter narrows ListOrders. Empty fields are ignored.
type OrderFilter struct {
	Owner      string
	CustomerID string
	DriverID   string
	Status     string
}

// CreateOrder inserts an order, assigning an ID when none is set
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = newID()
	}

	query := `
		INSERT INTO orders (id, customer_id, customer_name, customer_email,
			delivery_address, delivery_city, delivery_state, delivery_zip_code,
			delivery_phone_number, status, total_amount, driver_id, driver_name,
			confirmed_at, picked_up_at, delivered_at, notes, owner)
		VALUES (:id, :customer_id, :customer_name, :customer_email,
			:delivery_address, :delivery_city, :delivery_state, :delivery_zip_code,
			:delivery_phone_number, :status, :total_amount, :driver_id, :driver_name,
			:confirmed_at, :picked_up_at, :delivered_at, :notes, :owner)
		RETURNING *`

	return s.namedGet(ctx, o, query, o)
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders retrieves orders matching the filter
func (s *Store) ListOrders(ctx context.Context, f OrderFilter, page Page) ([]models.Order, error) {
	var w where
	w.eq("owner", f.Owner)
	w.eq("customer_id", f.CustomerID)
	w.eq("driver_id", f.DriverID)
	w.eq("status", f.Status)
	query, args := w.build("SELECT * FROM orders", "created_at DESC", page)

	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders, query, args...)
	return orders, err
}

// UpdateOrder replaces the mutable fields of an order, status included.
func (s *Store) UpdateOrder(ctx context.Context, o *models.Order) error {
	query := `
		UPDATE orders SET customer_id = :customer_id, customer_name = :customer_name,
			customer_email = :customer_email, delivery_address = :delivery_address,
			delivery_city = :delivery_city, delivery_state = :delivery_state,
			delivery_zip_code = :delivery_zip_code, delivery_phone_number = :delivery_phone_number,
			status = :status, total_amount = :total_amount, driver_id = :driver_id,
			driver_name = :driver_name, confirmed_at = :confirmed_at,
			picked_up_at = :picked_up_at, delivered_at = :delivered_at, notes = :notes,
			updated_at = NOW()
		WHERE id = :id
		RETURNING *`

	err := s.namedGet(ctx, o, query, o)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("order %s: %w", o.ID, ErrNotFound)
	}
	return err
}

// DeleteOrder deletes an order. Its order products are left in place.
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "orders", id)
}
