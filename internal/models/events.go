package models

import "time"

// Event types
const (
	EventTypeCartItemAdded       = "CART_ITEM_ADDED"
	EventTypeCartQuantityUpdated = "CART_QUANTITY_UPDATED"
	EventTypeCartItemRemoved     = "CART_ITEM_REMOVED"
	EventTypeProductUpserted     = "PRODUCT_UPSERTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemAddedEvent published when a product is added or merged into a cart
type CartItemAddedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Merged    bool   `json:"merged"`
	UnitPrice int64  `json:"unit_price"`
	ItemCount int    `json:"item_count"`
}

// CartQuantityUpdatedEvent published when a line quantity is set
type CartQuantityUpdatedEvent struct {
	BaseEvent
	SessionID   string `json:"session_id"`
	ProductID   int64  `json:"product_id"`
	OldQuantity int    `json:"old_quantity"`
	NewQuantity int    `json:"new_quantity"`
	ItemCount   int    `json:"item_count"`
}

// CartItemRemovedEvent published when a line leaves the cart
type CartItemRemovedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	ItemCount int    `json:"item_count"`
}

// ProductUpsertedEvent carries a catalog change from the merchandising side
type ProductUpsertedEvent struct {
	BaseEvent
	Product Product `json:"product"`
}
