package models

import "time"

// Model names as used by the access rules, metrics and events.
const (
	ModelStore        = "Store"
	ModelProduct      = "Product"
	ModelOrder        = "Order"
	ModelOrderProduct = "OrderProduct"
)

// Store is a vendor-owned beauty service location.
type Store struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Address     string    `db:"address" json:"address"`
	City        string    `db:"city" json:"city"`
	State       string    `db:"state" json:"state"`
	ZipCode     string    `db:"zip_code" json:"zipCode"`
	PhoneNumber string    `db:"phone_number" json:"phoneNumber,omitempty"`
	ImageKey    string    `db:"image_key" json:"imageKey,omitempty"`
	Owner       string    `db:"owner" json:"owner"`
	VendorID    string    `db:"vendor_id" json:"vendorId"`
	VendorName  string    `db:"vendor_name" json:"vendorName"`
	VendorEmail string    `db:"vendor_email" json:"vendorEmail"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	Rating      float64   `db:"rating" json:"rating"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Product is a product or service sold by a store.
type Product struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Description    string    `db:"description" json:"description,omitempty"`
	Price          float64   `db:"price" json:"price"`
	InventoryCount int       `db:"inventory_count" json:"inventoryCount"`
	IsAvailable    bool      `db:"is_available" json:"isAvailable"`
	Category       string    `db:"category" json:"category"`
	ImageKey       string    `db:"image_key" json:"imageKey,omitempty"`
	Owner          string    `db:"owner" json:"owner"`
	StoreID        string    `db:"store_id" json:"storeId"`
	VendorID       string    `db:"vendor_id" json:"vendorId"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// Order is a customer order with delivery tracking.
type Order struct {
	ID                  string     `db:"id" json:"id"`
	CustomerID          string     `db:"customer_id" json:"customerId"`
	CustomerName        string     `db:"customer_name" json:"customerName"`
	CustomerEmail       string     `db:"customer_email" json:"customerEmail"`
	DeliveryAddress     string     `db:"delivery_address" json:"deliveryAddress"`
	DeliveryCity        string     `db:"delivery_city" json:"deliveryCity"`
	DeliveryState       string     `db:"delivery_state" json:"deliveryState"`
	DeliveryZipCode     string     `db:"delivery_zip_code" json:"deliveryZipCode"`
	DeliveryPhoneNumber string     `db:"delivery_phone_number" json:"deliveryPhoneNumber,omitempty"`
	Status              string     `db:"status" json:"status"`
	TotalAmount         float64    `db:"total_amount" json:"totalAmount"`
	DriverID            string     `db:"driver_id" json:"driverId,omitempty"`
	DriverName          string     `db:"driver_name" json:"driverName,omitempty"`
	ConfirmedAt         *time.Time `db:"confirmed_at" json:"confirmedAt,omitempty"`
	PickedUpAt          *time.Time `db:"picked_up_at" json:"pickedUpAt,omitempty"`
	DeliveredAt         *time.Time `db:"delivered_at" json:"deliveredAt,omitempty"`
	Notes               string     `db:"notes" json:"notes,omitempty"`
	Owner               string     `db:"owner" json:"owner"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
}

// OrderProduct joins an order to a product. PriceAtPurchase is an ordinary
// field; nothing copies it from the product on write.
type OrderProduct struct {
	ID              string    `db:"id" json:"id"`
	OrderID         string    `db:"order_id" json:"orderId"`
	ProductID       string    `db:"product_id" json:"productId"`
	Quantity        int       `db:"quantity" json:"quantity"`
	PriceAtPurchase float64   `db:"price_at_purchase" json:"priceAtPurchase"`
	Owner           string    `db:"owner" json:"owner"`
	CustomerID      string    `db:"customer_id" json:"customerId"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// Order statuses. These form an enumeration only: any value may follow any
// other.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusPickedUp  = "PICKED_UP"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

var orderStatuses = map[string]bool{
	OrderStatusPending:   true,
	OrderStatusConfirmed: true,
	OrderStatusPickedUp:  true,
	OrderStatusDelivered: true,
	OrderStatusCancelled: true,
}

// ValidOrderStatus reports whether s is a member of the status enumeration.
func ValidOrderStatus(s string) bool {
	return orderStatuses[s]
}

// ProcessedEvent for idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}

// NewStore returns a store carrying the schema defaults.
func NewStore() *Store {
	return &Store{IsActive: true}
}

// NewProduct returns a product carrying the schema defaults.
func NewProduct() *Product {
	return &Product{IsAvailable: true}
}

// NewOrder returns an order carrying the schema defaults.
func NewOrder() *Order {
	return &Order{Status: OrderStatusPending}
}

// NewOrderProduct returns an order line carrying the schema defaults.
func NewOrderProduct() *OrderProduct {
	return &OrderProduct{Quantity: 1}
}
