// Package cart maintains cart contents and the totals derived from them.
//
// Every function takes the current cart and returns a new one; the input is
// never modified, so a caller can keep the previous state around.
package cart

import "storefront-service/internal/models"

// AddOutcome tells the caller whether an add created a line or grew one
type AddOutcome int

const (
	Added AddOutcome = iota
	Merged
)

// MaxLineQuantity caps a single line so quantities and totals cannot overflow
const MaxLineQuantity = 999

func (o AddOutcome) String() string {
	switch o {
	case Added:
		return "added"
	case Merged:
		return "merged"
	default:
		return "unknown"
	}
}

// Message is the shopper-facing feedback for the outcome
func (o AddOutcome) Message() string {
	if o == Merged {
		return "Updated quantity in cart"
	}
	return "Added to cart"
}

// Add adds a single unit of product
func Add(c models.Cart, product models.Product) (models.Cart, AddOutcome) {
	return AddToCart(c, product, 1)
}

// AddToCart merges quantity into the product's line or appends a new line.
// Product fields are copied, so later catalog changes do not reach the cart.
func AddToCart(c models.Cart, product models.Product, quantity int) (models.Cart, AddOutcome) {
	lines := cloneLines(c.Lines, 1)

	for i := range lines {
		if lines[i].ProductID == product.ID {
			lines[i].Quantity = clampQuantity(lines[i].Quantity, quantity)
			return models.Cart{Lines: lines}, Merged
		}
	}

	lines = append(lines, models.CartLine{
		ProductID:   product.ID,
		Name:        product.Name,
		Price:       product.Price,
		Category:    product.Category,
		Description: product.Description,
		Image:       product.Image,
		Quantity:    clampQuantity(0, quantity),
	})
	return models.Cart{Lines: lines}, Added
}

// UpdateQuantity sets the line quantity. Anything below 1 removes the line
// and an unknown product id leaves the cart as it was.
func UpdateQuantity(c models.Cart, productID int64, newQuantity int) models.Cart {
	if newQuantity < 1 {
		return RemoveItem(c, productID)
	}

	lines := cloneLines(c.Lines, 0)
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = clampQuantity(0, newQuantity)
			break
		}
	}
	return models.Cart{Lines: lines}
}

// RemoveItem drops the product's line if present
func RemoveItem(c models.Cart, productID int64) models.Cart {
	lines := make([]models.CartLine, 0, len(c.Lines))
	for _, line := range c.Lines {
		if line.ProductID != productID {
			lines = append(lines, line)
		}
	}
	return models.Cart{Lines: lines}
}

// Line returns the product's line and whether it exists
func Line(c models.Cart, productID int64) (models.CartLine, bool) {
	for _, line := range c.Lines {
		if line.ProductID == productID {
			return line, true
		}
	}
	return models.CartLine{}, false
}

// ItemCount is the badge count: the sum of all quantities
func ItemCount(c models.Cart) int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// clampQuantity adds without exceeding MaxLineQuantity
func clampQuantity(current, delta int) int {
	if delta > MaxLineQuantity-current {
		return MaxLineQuantity
	}
	return current + delta
}

func cloneLines(lines []models.CartLine, extra int) []models.CartLine {
	out := make([]models.CartLine, len(lines), len(lines)+extra)
	copy(out, lines)
	return out
}
