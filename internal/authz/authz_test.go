package authz

import (
	"errors"
	"testing"

	"glamgo/internal/models"

	"github.com/stretchr/testify/assert"
)

var (
	vendor   = Identity{Subject: "sub-vendor", Groups: []string{"VENDOR"}}
	customer = Identity{Subject: "sub-customer", Groups: []string{"CUSTOMER"}}
	nobody   = Identity{}
)

func TestOwnerHasFullAccess(t *testing.T) {
	s := DefaultSchema()
	for _, op := range allOperations {
		assert.True(t, s.Allow(models.ModelProduct, op, vendor, vendor.Subject), "op %s", op)
	}
}

func TestAuthenticatedCanOnlyRead(t *testing.T) {
	s := DefaultSchema()
	for _, model := range []string{models.ModelStore, models.ModelProduct, models.ModelOrder, models.ModelOrderProduct} {
		assert.True(t, s.Allow(model, Read, customer, vendor.Subject), model)
		assert.False(t, s.Allow(model, Update, customer, vendor.Subject), model)
		assert.False(t, s.Allow(model, Delete, customer, vendor.Subject), model)
	}
}

func TestAnyAuthenticatedIdentityMayCreate(t *testing.T) {
	s := DefaultSchema()
	assert.True(t, s.Allow(models.ModelOrder, Create, customer, ""))
	assert.True(t, s.Allow(models.ModelStore, Create, customer, ""))
}

func TestEmptyOwnerMatchesNobody(t *testing.T) {
	s := DefaultSchema()
	assert.False(t, s.Allow(models.ModelStore, Update, customer, ""))
}

func TestUnauthenticatedDenied(t *testing.T) {
	s := DefaultSchema()
	assert.False(t, s.Allow(models.ModelProduct, Read, nobody, ""))

	err := s.Check(models.ModelProduct, Read, nobody, "")
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestCheckForbidden(t *testing.T) {
	s := DefaultSchema()

	err := s.Check(models.ModelOrder, Delete, vendor, customer.Subject)
	assert.True(t, errors.Is(err, ErrForbidden))
	assert.Contains(t, err.Error(), "delete Order")

	assert.NoError(t, s.Check(models.ModelOrder, Delete, customer, customer.Subject))
}

func TestUnknownModelDenied(t *testing.T) {
	s := DefaultSchema()
	assert.False(t, s.Allow("Invoice", Read, customer, customer.Subject))
}

func TestCustomRules(t *testing.T) {
	s := Schema{"Note": {Authenticated(Read, Update)}}
	assert.True(t, s.Allow("Note", Update, customer, "someone-else"))
	assert.False(t, s.Allow("Note", Delete, customer, customer.Subject))
}

func TestInGroup(t *testing.T) {
	assert.True(t, vendor.InGroup("VENDOR"))
	assert.False(t, vendor.InGroup("DRIVER"))
}
