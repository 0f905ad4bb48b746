package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"glamgo/internal/models"
)

// StoreFilter narrows ListStores. Empty fields are ignored.
type StoreFilter struct {
	Owner    string
	VendorID string
	City     string
}

// CreateStore inserts a store, assigning an ID when none is set
func (s *Store) CreateStore(ctx context.Context, st *models.Store) error {
	if st.ID == "" {
		st.ID = newID()
	}

	query := `
		INSERT INTO stores (id, name, description, address, city, state, zip_code,
			phone_number, image_key, owner, vendor_id, vendor_name, vendor_email, is_active, rating)
		VALUES (:id, :name, :description, :address, :city, :state, :zip_code,
			:phone_number, :image_key, :owner, :vendor_id, :vendor_name, :vendor_email, :is_active, :rating)
		RETURNING *`

	return s.namedGet(ctx, st, query, st)
}

// GetStoreByID retrieves a store by ID
func (s *Store) GetStoreByID(ctx context.Context, id string) (*models.Store, error) {
	var st models.Store
	err := s.db.GetContext(ctx, &st, "SELECT * FROM stores WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// ListStores retrieves stores matching the filter
func (s *Store) ListStores(ctx context.Context, f StoreFilter, page Page) ([]models.Store, error) {
	var w where
	w.eq("owner", f.Owner)
	w.eq("vendor_id", f.VendorID)
	w.eq("city", f.City)
	query, args := w.build("SELECT * FROM stores", "created_at DESC", page)

	stores := []models.Store{}
	err := s.db.SelectContext(ctx, &stores, query, args...)
	return stores, err
}

// UpdateStore replaces the mutable fields of a store. The owner is never
// changed.
func (s *Store) UpdateStore(ctx context.Context, st *models.Store) error {
	query := `
		UPDATE stores SET name = :name, description = :description, address = :address,
			city = :city, state = :state, zip_code = :zip_code, phone_number = :phone_number,
			image_key = :image_key, vendor_id = :vendor_id, vendor_name = :vendor_name,
			vendor_email = :vendor_email, is_active = :is_active, rating = :rating,
			updated_at = NOW()
		WHERE id = :id
		RETURNING *`

	err := s.namedGet(ctx, st, query, st)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("store %s: %w", st.ID, ErrNotFound)
	}
	return err
}

// DeleteStore deletes a store. Its products are left in place.
func (s *Store) DeleteStore(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "stores", id)
}
