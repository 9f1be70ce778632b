// Package catalog computes what part of the product catalog a shopper sees.
package catalog

import (
	"sort"

	"storefront-service/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultRelatedLimit caps the related products list on the details page
const DefaultRelatedLimit = 4

// Viewer filters and sorts a catalog. The zero value collates names in English.
type Viewer struct {
	Locale language.Tag
}

// NewViewer creates a viewer that orders names for the given locale
func NewViewer(locale language.Tag) *Viewer {
	return &Viewer{Locale: locale}
}

// View returns the products matching the filter in the requested order.
// The result is always a new slice; products is left untouched.
func (v *Viewer) View(products []models.Product, filter models.FilterState) []models.Product {
	visible := Filter(products, filter.Category)

	switch filter.SortKey {
	case models.SortName:
		// Collator keeps internal buffers, one per call
		col := collate.New(v.locale())
		sort.SliceStable(visible, func(i, j int) bool {
			return col.CompareString(visible[i].Name, visible[j].Name) < 0
		})
	case models.SortPriceLow:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].Price < visible[j].Price
		})
	case models.SortPriceHigh:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].Price > visible[j].Price
		})
	}

	return visible
}

func (v *Viewer) locale() language.Tag {
	if v == nil || v.Locale == language.Und {
		return language.English
	}
	return v.Locale
}

// View uses the default English viewer
func View(products []models.Product, filter models.FilterState) []models.Product {
	return (&Viewer{}).View(products, filter)
}

// Filter keeps products whose category equals category exactly.
// CategoryAll keeps everything.
func Filter(products []models.Product, category string) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category == models.CategoryAll || p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// AvailableCategories lists each distinct category once, in order of first
// appearance. The "all" option is not included.
func AvailableCategories(products []models.Product) []string {
	seen := make(map[string]struct{}, len(products))
	categories := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}

// RelatedProducts returns up to maxCount other products in subject's category
func RelatedProducts(products []models.Product, subject models.Product, maxCount int) []models.Product {
	related := make([]models.Product, 0, maxCount)
	if maxCount <= 0 {
		return related
	}

	for _, p := range products {
		if p.ID == subject.ID || p.Category != subject.Category {
			continue
		}
		related = append(related, p)
		if len(related) == maxCount {
			break
		}
	}
	return related
}

// Featured returns the first n catalog products for the home page
func Featured(products []models.Product, n int) []models.Product {
	if n > len(products) {
		n = len(products)
	}
	if n < 0 {
		n = 0
	}
	out := make([]models.Product, n)
	copy(out, products[:n])
	return out
}

// Find looks a product up by id
func Find(products []models.Product, id int64) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// ValidSortKey reports whether key is one of the known sort keys
func ValidSortKey(key string) bool {
	switch key {
	case models.SortDefault, models.SortName, models.SortPriceLow, models.SortPriceHigh:
		return true
	}
	return false
}
