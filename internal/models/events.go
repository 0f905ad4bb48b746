package models

import "time"

// Event types
const (
	EventTypeStoreCreated        = "STORE_CREATED"
	EventTypeStoreUpdated        = "STORE_UPDATED"
	EventTypeStoreDeleted        = "STORE_DELETED"
	EventTypeProductCreated      = "PRODUCT_CREATED"
	EventTypeProductUpdated      = "PRODUCT_UPDATED"
	EventTypeProductDeleted      = "PRODUCT_DELETED"
	EventTypeOrderCreated        = "ORDER_CREATED"
	EventTypeOrderUpdated        = "ORDER_UPDATED"
	EventTypeOrderDeleted        = "ORDER_DELETED"
	EventTypeOrderStatusChanged  = "ORDER_STATUS_CHANGED"
	EventTypeOrderProductCreated = "ORDER_PRODUCT_CREATED"
	EventTypeOrderProductUpdated = "ORDER_PRODUCT_UPDATED"
	EventTypeOrderProductDeleted = "ORDER_PRODUCT_DELETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordEvent is published whenever a record is created, updated or
// deleted. Record carries the record state after the change and is omitted
// for deletes.
type RecordEvent struct {
	BaseEvent
	Model    string      `json:"model"`
	RecordID string      `json:"record_id"`
	Owner    string      `json:"owner"`
	Actor    string      `json:"actor"`
	Record   interface{} `json:"record,omitempty"`
}

// OrderStatusChangedEvent is published alongside ORDER_UPDATED when the
// status value differs from the stored one.
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID    string `json:"order_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	DriverID   string `json:"driver_id,omitempty"`
	Actor      string `json:"actor"`
}
