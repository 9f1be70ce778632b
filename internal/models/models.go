package models

import "time"

// Product represents a product in the catalog
type Product struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Price       int64     `db:"price" json:"price"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description"`
	Image       string    `db:"image" json:"image"`
	UpdatedAt   time.Time `db:"updated_at" json:"-"`
}

// CartLine is a product snapshot taken at add time plus a quantity
type CartLine struct {
	ProductID   int64  `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Quantity    int    `json:"quantity"`
}

// LineTotal returns price times quantity
func (l CartLine) LineTotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Cart is an ordered list of lines, one per product id
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Totals are derived from a cart and never stored
type Totals struct {
	Subtotal             int64 `json:"subtotal"`
	ShippingFee          int64 `json:"shipping_fee"`
	Total                int64 `json:"total"`
	ItemCount            int   `json:"item_count"`
	AmountToFreeShipping int64 `json:"amount_to_free_shipping"`
}

// Sort keys accepted by the catalog view
const (
	SortDefault   = "default"
	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

// CategoryAll is the filter value meaning no category restriction
const CategoryAll = "all"

// FilterState selects and orders the visible catalog
type FilterState struct {
	Category string `json:"category"`
	SortKey  string `json:"sort"`
}

// DefaultFilter shows every product in catalog order
func DefaultFilter() FilterState {
	return FilterState{Category: CategoryAll, SortKey: SortDefault}
}

// Pages a shopper can navigate to
const (
	PageHome           = "home"
	PageProducts       = "products"
	PageProductDetails = "product-details"
	PageCart           = "cart"
	PageContact        = "contact"
)

// Session is the caller-held state for one shopper
type Session struct {
	ID                string      `json:"id"`
	Page              string      `json:"page"`
	SelectedProductID *int64      `json:"selected_product_id,omitempty"`
	Filter            FilterState `json:"filter"`
	Cart              Cart        `json:"cart"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}
