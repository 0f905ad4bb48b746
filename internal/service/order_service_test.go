package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"glamgo/internal/authz"
	"glamgo/internal/models"
	"glamgo/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var carol = authz.Identity{Subject: "sub-carol", Username: "carol", Groups: []string{"DRIVER"}}

func newTestOrder() *models.Order {
	o := models.NewOrder()
	o.CustomerID = bob.Subject
	o.CustomerName = "Bob"
	o.CustomerEmail = "bob@example.com"
	o.DeliveryAddress = "9 Elm St"
	o.DeliveryCity = "Los Angeles"
	o.DeliveryState = "CA"
	o.DeliveryZipCode = "90002"
	o.TotalAmount = 79.5
	return o
}

type orderFixture struct {
	svc    *OrderService
	repo   *fakeOrderRepo
	idem   *fakeIdempotency
	events *fakeEvents
}

func newOrderFixture() orderFixture {
	f := orderFixture{repo: newFakeOrderRepo(), idem: newFakeIdempotency(), events: &fakeEvents{}}
	f.svc = NewOrderService(f.repo, f.idem, Deps{Events: f.events, Logger: zap.NewNop()})
	return f
}

func TestCreateOrderDefaultsToPending(t *testing.T) {
	f := newOrderFixture()

	in := newTestOrder()
	in.Status = ""

	o, err := f.svc.CreateOrder(context.Background(), bob, in, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, o.Status)
	assert.Equal(t, bob.Subject, o.Owner)
	assert.Equal(t, []string{models.EventTypeOrderCreated}, f.events.types())
}

func TestCreateOrderRejectsUnknownStatus(t *testing.T) {
	f := newOrderFixture()

	in := newTestOrder()
	in.Status = "LOST"

	_, err := f.svc.CreateOrder(context.Background(), bob, in, "")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, 0, f.repo.creates)
}

func TestCreateOrderRequiresDeliveryFields(t *testing.T) {
	f := newOrderFixture()

	in := newTestOrder()
	in.DeliveryZipCode = ""

	_, err := f.svc.CreateOrder(context.Background(), bob, in, "")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "deliveryZipCode")
}

func TestCreateOrderIdempotency(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	first, err := f.svc.CreateOrder(ctx, bob, newTestOrder(), "checkout-1")
	require.NoError(t, err)
	second, err := f.svc.CreateOrder(ctx, bob, newTestOrder(), "checkout-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.repo.creates)
	assert.Equal(t, first.ID, f.idem.keys[bob.Subject+":checkout-1"])

	// Keys are scoped to the caller.
	other, err := f.svc.CreateOrder(ctx, alice, newTestOrder(), "checkout-1")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
	assert.Equal(t, 2, f.repo.creates)
}

func TestCreateOrderIdempotencyStoreFailure(t *testing.T) {
	f := newOrderFixture()
	f.idem.err = errBoom
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, bob, newTestOrder(), "checkout-1")
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(ctx, bob, newTestOrder(), "checkout-1")
	require.NoError(t, err)
	assert.Equal(t, 2, f.repo.creates)
}

func TestUpdateOrderStatusPublishesChange(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	o, err := f.svc.CreateOrder(ctx, bob, newTestOrder(), "")
	require.NoError(t, err)

	now := time.Now().UTC()
	updated, err := f.svc.UpdateOrder(ctx, bob, o.ID, func(o *models.Order) error {
		o.Status = models.OrderStatusDelivered
		o.DeliveredAt = &now
		o.DriverID = carol.Subject
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)

	require.Len(t, f.events.statusChanges, 1)
	change := f.events.statusChanges[0]
	assert.Equal(t, models.EventTypeOrderStatusChanged, change.EventType)
	assert.Equal(t, models.OrderStatusPending, change.FromStatus)
	assert.Equal(t, models.OrderStatusDelivered, change.ToStatus)
	assert.Equal(t, carol.Subject, change.DriverID)

	_, err = f.svc.UpdateOrder(ctx, bob, o.ID, func(o *models.Order) error {
		o.Notes = "leave at door"
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, f.events.statusChanges, 1)
}

func TestUpdateOrderRejectsUnknownStatus(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	o, err := f.svc.CreateOrder(ctx, bob, newTestOrder(), "")
	require.NoError(t, err)

	_, err = f.svc.UpdateOrder(ctx, bob, o.ID, func(o *models.Order) error {
		o.Status = "teleported"
		return nil
	})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, models.OrderStatusPending, f.repo.items[o.ID].Status)
}

func TestNonOwnerCannotUpdateOrDeleteOrder(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	o, err := f.svc.CreateOrder(ctx, bob, newTestOrder(), "")
	require.NoError(t, err)

	_, err = f.svc.UpdateOrder(ctx, carol, o.ID, func(o *models.Order) error {
		o.Status = models.OrderStatusPickedUp
		return nil
	})
	assert.True(t, errors.Is(err, authz.ErrForbidden))

	err = f.svc.DeleteOrder(ctx, carol, o.ID)
	assert.True(t, errors.Is(err, authz.ErrForbidden))

	got, err := f.svc.GetOrder(ctx, carol, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	require.NoError(t, f.svc.DeleteOrder(ctx, bob, o.ID))
	_, err = f.svc.GetOrder(ctx, bob, o.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestListOrders(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, bob, newTestOrder(), "")
	require.NoError(t, err)

	list, err := f.svc.ListOrders(ctx, carol, store.OrderFilter{Status: models.OrderStatusPending}, store.Page{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.svc.ListOrders(ctx, carol, store.OrderFilter{Status: "pending"}, store.Page{})
	assert.True(t, errors.Is(err, ErrValidation))
}
