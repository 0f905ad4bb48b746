package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"glamgo/internal/models"
	"glamgo/internal/store"
)

type fakeStoreRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[string]models.Store
	gets   int
	lastF  store.StoreFilter
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{items: map[string]models.Store{}}
}

func (r *fakeStoreRepo) CreateStore(_ context.Context, st *models.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	st.ID = fmt.Sprintf("store-%d", r.nextID)
	st.CreatedAt = time.Now()
	st.UpdatedAt = st.CreatedAt
	r.items[st.ID] = *st
	return nil
}

func (r *fakeStoreRepo) GetStoreByID(_ context.Context, id string) (*models.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	st, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("store %s: %w", id, store.ErrNotFound)
	}
	return &st, nil
}

func (r *fakeStoreRepo) ListStores(_ context.Context, f store.StoreFilter, _ store.Page) ([]models.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastF = f
	var out []models.Store
	for _, st := range r.items {
		if f.Owner == "" || st.Owner == f.Owner {
			out = append(out, st)
		}
	}
	return out, nil
}

func (r *fakeStoreRepo) UpdateStore(_ context.Context, st *models.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[st.ID]; !ok {
		return store.ErrNotFound
	}
	st.UpdatedAt = time.Now()
	r.items[st.ID] = *st
	return nil
}

func (r *fakeStoreRepo) DeleteStore(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeProductRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[string]models.Product
	gets   int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{items: map[string]models.Product{}}
}

func (r *fakeProductRepo) CreateProduct(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = fmt.Sprintf("product-%d", r.nextID)
	p.CreatedAt = time.Now()
	r.items[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) GetProductByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	p, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, store.ErrNotFound)
	}
	return &p, nil
}

func (r *fakeProductRepo) ListProducts(_ context.Context, f store.ProductFilter, _ store.Page) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Product
	for _, p := range r.items {
		if f.StoreID != "" && p.StoreID != f.StoreID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) UpdateProduct(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) DeleteProduct(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type fakeOrderRepo struct {
	mu      sync.Mutex
	nextID  int
	items   map[string]models.Order
	creates int
	lastF   store.OrderFilter
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{items: map[string]models.Order{}}
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.creates++
	o.ID = fmt.Sprintf("order-%d", r.nextID)
	o.CreatedAt = time.Now()
	r.items[o.ID] = *o
	return nil
}

func (r *fakeOrderRepo) GetOrderByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, store.ErrNotFound)
	}
	return &o, nil
}

func (r *fakeOrderRepo) ListOrders(_ context.Context, f store.OrderFilter, _ store.Page) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastF = f
	var out []models.Order
	for _, o := range r.items {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateOrder(_ context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[o.ID] = *o
	return nil
}

func (r *fakeOrderRepo) DeleteOrder(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type fakeOrderProductRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[string]models.OrderProduct
	lastF  store.OrderProductFilter
}

func newFakeOrderProductRepo() *fakeOrderProductRepo {
	return &fakeOrderProductRepo{items: map[string]models.OrderProduct{}}
}

func (r *fakeOrderProductRepo) CreateOrderProduct(_ context.Context, op *models.OrderProduct) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	op.ID = fmt.Sprintf("line-%d", r.nextID)
	r.items[op.ID] = *op
	return nil
}

func (r *fakeOrderProductRepo) GetOrderProductByID(_ context.Context, id string) (*models.OrderProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	op, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("order product %s: %w", id, store.ErrNotFound)
	}
	return &op, nil
}

func (r *fakeOrderProductRepo) ListOrderProducts(_ context.Context, f store.OrderProductFilter, _ store.Page) ([]models.OrderProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastF = f
	var out []models.OrderProduct
	for _, op := range r.items {
		if f.OrderID != "" && op.OrderID != f.OrderID {
			continue
		}
		out = append(out, op)
	}
	return out, nil
}

func (r *fakeOrderProductRepo) UpdateOrderProduct(_ context.Context, op *models.OrderProduct) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[op.ID] = *op
	return nil
}

func (r *fakeOrderProductRepo) DeleteOrderProduct(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

// fakeCache stores JSON like the Redis cache does.
type fakeCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	invalidated []string
	getErr      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) GetRecord(_ context.Context, model, id string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	b, ok := c.data[model+":"+id]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *fakeCache) SetRecord(_ context.Context, model, id string, record interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	c.data[model+":"+id] = b
	return nil
}

func (c *fakeCache) InvalidateRecord(_ context.Context, model, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, model+":"+id)
	c.invalidated = append(c.invalidated, model+":"+id)
	return nil
}

type fakeEvents struct {
	mu            sync.Mutex
	records       []*models.RecordEvent
	statusChanges []*models.OrderStatusChangedEvent
	err           error
}

func (e *fakeEvents) PublishRecordEvent(_ context.Context, event *models.RecordEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = append(e.records, event)
	return e.err
}

func (e *fakeEvents) PublishOrderStatusChanged(_ context.Context, event *models.OrderStatusChangedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.statusChanges = append(e.statusChanges, event)
	return e.err
}

func (e *fakeEvents) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.records))
	for _, r := range e.records {
		out = append(out, r.EventType)
	}
	return out
}

type fakeIdempotency struct {
	mu   sync.Mutex
	keys map[string]string
	err  error
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{keys: map[string]string{}}
}

func (f *fakeIdempotency) SetIdempotencyKey(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.keys[key]; ok {
		return false, nil
	}
	f.keys[key] = value
	return true, nil
}

func (f *fakeIdempotency) GetIdempotencyKey(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.keys[key]
	return v, ok, nil
}

var errBoom = errors.New("boom")
