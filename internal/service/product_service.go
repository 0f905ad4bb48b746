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

// ProductRepository persists products.
type ProductRepository interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, f store.ProductFilter, page store.Page) ([]models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// ProductService manages store products
type ProductService struct {
	base
	repo ProductRepository
}

// NewProductService creates a new product service
func NewProductService(repo ProductRepository, deps Deps) *ProductService {
	return &ProductService{base: newBase(deps), repo: repo}
}

// CreateProduct creates a product owned by the caller. The referenced store
// is not checked for existence.
func (s *ProductService) CreateProduct(ctx context.Context, caller authz.Identity, p *models.Product) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.CreateProduct")
	defer span.End()

	if err := s.authorize(models.ModelProduct, authz.Create, caller, caller.Subject); err != nil {
		return nil, err
	}

	p.ID = ""
	p.Owner = caller.Subject
	if err := validateProduct(p); err != nil {
		return nil, err
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	util.RecordsCreatedTotal.WithLabelValues(models.ModelProduct).Inc()
	s.logger.Info("Product created",
		zap.String("product_id", p.ID),
		zap.String("store_id", p.StoreID))

	s.remember(ctx, models.ModelProduct, p.ID, p)
	s.publish(ctx, models.EventTypeProductCreated, models.ModelProduct, p.ID, p.Owner, caller, p)
	return p, nil
}

// GetProduct retrieves a product, serving from cache when possible
func (s *ProductService) GetProduct(ctx context.Context, caller authz.Identity, id string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.GetProduct")
	defer span.End()

	var p models.Product
	if !s.cached(ctx, models.ModelProduct, id, &p) {
		got, err := s.repo.GetProductByID(ctx, id)
		if err != nil {
			return nil, err
		}
		p = *got
		s.remember(ctx, models.ModelProduct, id, &p)
	}

	if err := s.authorize(models.ModelProduct, authz.Read, caller, p.Owner); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts lists products visible to the caller
func (s *ProductService) ListProducts(ctx context.Context, caller authz.Identity, f store.ProductFilter, page store.Page) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.ListProducts")
	defer span.End()

	owner, err := s.listOwner(models.ModelProduct, caller)
	if err != nil {
		return nil, err
	}
	if owner != "" {
		f.Owner = owner
	}
	return s.repo.ListProducts(ctx, f, page)
}

// UpdateProduct applies changes to a product owned by the caller.
// Inventory and price are written as supplied.
func (s *ProductService) UpdateProduct(ctx context.Context, caller authz.Identity, id string, apply func(*models.Product) error) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.UpdateProduct")
	defer span.End()

	current, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(models.ModelProduct, authz.Update, caller, current.Owner); err != nil {
		return nil, err
	}

	next := *current
	if err := apply(&next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	next.ID, next.Owner, next.CreatedAt = current.ID, current.Owner, current.CreatedAt

	if err := validateProduct(&next); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProduct(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	util.RecordsUpdatedTotal.WithLabelValues(models.ModelProduct).Inc()
	s.invalidate(ctx, models.ModelProduct, id)
	s.publish(ctx, models.EventTypeProductUpdated, models.ModelProduct, id, next.Owner, caller, &next)
	return &next, nil
}

// DeleteProduct deletes a product owned by the caller
func (s *ProductService) DeleteProduct(ctx context.Context, caller authz.Identity, id string) error {
	ctx, span := util.StartSpan(ctx, "ProductService.DeleteProduct")
	defer span.End()

	current, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(models.ModelProduct, authz.Delete, caller, current.Owner); err != nil {
		return err
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	util.RecordsDeletedTotal.WithLabelValues(models.ModelProduct).Inc()
	s.logger.Info("Product deleted", zap.String("product_id", id))
	s.invalidate(ctx, models.ModelProduct, id)
	s.publish(ctx, models.EventTypeProductDeleted, models.ModelProduct, id, current.Owner, caller, nil)
	return nil
}

func validateProduct(p *models.Product) error {
	return requireFields(map[string]string{
		"name":     p.Name,
		"category": p.Category,
		"storeId":  p.StoreID,
		"vendorId": p.VendorID,
	})
}
