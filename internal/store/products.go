package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"glamgo/internal/models"
)

// ProductFilter narrows ListProducts. Empty fields are ignored.
type ProductFilter struct {
	StoreID  string
	VendorID string
	Category string
	Owner    string
}

// CreateProduct inserts a product, assigning an ID when none is set
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = newID()
	}

	query := `
		INSERT INTO products (id, name, description, price, inventory_count, is_available,
			category, image_key, owner, store_id, vendor_id)
		VALUES (:id, :name, :description, :price, :inventory_count, :is_available,
			:category, :image_key, :owner, :store_id, :vendor_id)
		RETURNING *`

	return s.namedGet(ctx, p, query, p)
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts retrieves products matching the filter
func (s *Store) ListProducts(ctx context.Context, f ProductFilter, page Page) ([]models.Product, error) {
	var w where
	w.eq("store_id", f.StoreID)
	w.eq("vendor_id", f.VendorID)
	w.eq("category", f.Category)
	w.eq("owner", f.Owner)
	query, args := w.build("SELECT * FROM products", "created_at DESC", page)

	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

// UpdateProduct replaces the mutable fields of a product. Inventory is
// written as given; nothing here keeps it non-negative.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products SET name = :name, description = :description, price = :price,
			inventory_count = :inventory_count, is_available = :is_available,
			category = :category, image_key = :image_key, store_id = :store_id,
			vendor_id = :vendor_id, updated_at = NOW()
		WHERE id = :id
		RETURNING *`

	err := s.namedGet(ctx, p, query, p)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("product %s: %w", p.ID, ErrNotFound)
	}
	return err
}

// DeleteProduct deletes a product
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "products", id)
}
