// Package session tracks which page a shopper is on, the product they are
// looking at and their catalog filter.
package session

import (
	"errors"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
)

var (
	ErrUnknownPage       = errors.New("unknown page")
	ErrNoProductSelected = errors.New("no product selected")
)

// New returns a fresh session on the home page with an empty cart
func New(id string, now time.Time) models.Session {
	return models.Session{
		ID:        id,
		Page:      models.PageHome,
		Filter:    models.DefaultFilter(),
		Cart:      models.Cart{Lines: []models.CartLine{}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Navigate moves to page. The details page needs a selected product.
func Navigate(s models.Session, page string) (models.Session, error) {
	switch page {
	case models.PageHome, models.PageProducts, models.PageCart, models.PageContact:
	case models.PageProductDetails:
		if s.SelectedProductID == nil {
			return s, ErrNoProductSelected
		}
	default:
		return s, ErrUnknownPage
	}
	s.Page = page
	return s, nil
}

// SelectProduct opens the details page for product
func SelectProduct(s models.Session, product models.Product) models.Session {
	id := product.ID
	s.SelectedProductID = &id
	s.Page = models.PageProductDetails
	return s
}

// SetCategoryFilter restricts the catalog view to category
func SetCategoryFilter(s models.Session, category string) models.Session {
	if category == "" {
		category = models.CategoryAll
	}
	s.Filter.Category = category
	return s
}

// SetSortKey changes the catalog order. Unknown keys fall back to default.
func SetSortKey(s models.Session, key string) models.Session {
	if !catalog.ValidSortKey(key) {
		key = models.SortDefault
	}
	s.Filter.SortKey = key
	return s
}

// WithCart replaces the session's cart
func WithCart(s models.Session, c models.Cart) models.Session {
	s.Cart = c
	return s
}
