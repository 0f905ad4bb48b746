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

// StoreRepository persists stores.
type StoreRepository interface {
	CreateStore(ctx context.Context, st *models.Store) error
	GetStoreByID(ctx context.Context, id string) (*models.Store, error)
	ListStores(ctx context.Context, f store.StoreFilter, page store.Page) ([]models.Store, error)
	UpdateStore(ctx context.Context, st *models.Store) error
	DeleteStore(ctx context.Context, id string) error
}

// StoreService manages vendor stores
type StoreService struct {
	base
	repo StoreRepository
}

// NewStoreService creates a new store service
func NewStoreService(repo StoreRepository, deps Deps) *StoreService {
	return &StoreService{base: newBase(deps), repo: repo}
}

// CreateStore creates a store owned by the caller
func (s *StoreService) CreateStore(ctx context.Context, caller authz.Identity, st *models.Store) (*models.Store, error) {
	ctx, span := util.StartSpan(ctx, "StoreService.CreateStore")
	defer span.End()

	if err := s.authorize(models.ModelStore, authz.Create, caller, caller.Subject); err != nil {
		return nil, err
	}

	st.ID = ""
	st.Owner = caller.Subject
	if err := validateStore(st); err != nil {
		return nil, err
	}

	if err := s.repo.CreateStore(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	util.RecordsCreatedTotal.WithLabelValues(models.ModelStore).Inc()
	s.logger.Info("Store created", zap.String("store_id", st.ID), zap.String("owner", st.Owner))

	s.remember(ctx, models.ModelStore, st.ID, st)
	s.publish(ctx, models.EventTypeStoreCreated, models.ModelStore, st.ID, st.Owner, caller, st)
	return st, nil
}

// GetStore retrieves a store, serving from cache when possible
func (s *StoreService) GetStore(ctx context.Context, caller authz.Identity, id string) (*models.Store, error) {
	ctx, span := util.StartSpan(ctx, "StoreService.GetStore")
	defer span.End()

	var st models.Store
	if !s.cached(ctx, models.ModelStore, id, &st) {
		got, err := s.repo.GetStoreByID(ctx, id)
		if err != nil {
			return nil, err
		}
		st = *got
		s.remember(ctx, models.ModelStore, id, &st)
	}

	if err := s.authorize(models.ModelStore, authz.Read, caller, st.Owner); err != nil {
		return nil, err
	}
	return &st, nil
}

// ListStores lists stores visible to the caller
func (s *StoreService) ListStores(ctx context.Context, caller authz.Identity, f store.StoreFilter, page store.Page) ([]models.Store, error) {
	ctx, span := util.StartSpan(ctx, "StoreService.ListStores")
	defer span.End()

	owner, err := s.listOwner(models.ModelStore, caller)
	if err != nil {
		return nil, err
	}
	if owner != "" {
		f.Owner = owner
	}
	return s.repo.ListStores(ctx, f, page)
}

// UpdateStore applies changes to a store owned by the caller. ID, owner and
// creation time cannot be changed.
func (s *StoreService) UpdateStore(ctx context.Context, caller authz.Identity, id string, apply func(*models.Store) error) (*models.Store, error) {
	ctx, span := util.StartSpan(ctx, "StoreService.UpdateStore")
	defer span.End()

	current, err := s.repo.GetStoreByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(models.ModelStore, authz.Update, caller, current.Owner); err != nil {
		return nil, err
	}

	next := *current
	if err := apply(&next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	next.ID, next.Owner, next.CreatedAt = current.ID, current.Owner, current.CreatedAt

	if err := validateStore(&next); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStore(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to update store: %w", err)
	}

	util.RecordsUpdatedTotal.WithLabelValues(models.ModelStore).Inc()
	s.invalidate(ctx, models.ModelStore, id)
	s.publish(ctx, models.EventTypeStoreUpdated, models.ModelStore, id, next.Owner, caller, &next)
	return &next, nil
}

// DeleteStore deletes a store owned by the caller. Products of the store are
// not deleted.
func (s *StoreService) DeleteStore(ctx context.Context, caller authz.Identity, id string) error {
	ctx, span := util.StartSpan(ctx, "StoreService.DeleteStore")
	defer span.End()

	current, err := s.repo.GetStoreByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(models.ModelStore, authz.Delete, caller, current.Owner); err != nil {
		return err
	}

	if err := s.repo.DeleteStore(ctx, id); err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}

	util.RecordsDeletedTotal.WithLabelValues(models.ModelStore).Inc()
	s.logger.Info("Store deleted", zap.String("store_id", id))
	s.invalidate(ctx, models.ModelStore, id)
	s.publish(ctx, models.EventTypeStoreDeleted, models.ModelStore, id, current.Owner, caller, nil)
	return nil
}

func validateStore(st *models.Store) error {
	return requireFields(map[string]string{
		"name":        st.Name,
		"address":     st.Address,
		"city":        st.City,
		"state":       st.State,
		"zipCode":     st.ZipCode,
		"vendorId":    st.VendorID,
		"vendorName":  st.VendorName,
		"vendorEmail": st.VendorEmail,
	})
}
