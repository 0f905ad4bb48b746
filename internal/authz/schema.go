package authz

import "glamgo/internal/models"

// DefaultSchema is the marketplace access contract. Every model is fully
// managed by its owner and readable by any authenticated identity.
//
// Drivers read orders through the authenticated rule; updating an order they
// do not own is not granted here.
func DefaultSchema() Schema {
	return Schema{
		models.ModelStore: {
			Owner(),
			Authenticated(Read),
		},
		models.ModelProduct: {
			Owner(),
			Authenticated(Read),
		},
		models.ModelOrderProduct: {
			Owner(),
			Authenticated(Read),
		},
		models.ModelOrder: {
			Owner(),
			Authenticated(Read),
		},
	}
}
