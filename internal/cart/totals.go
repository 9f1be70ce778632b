package cart

import "storefront-service/internal/models"

const (
	DefaultFreeShippingThreshold int64 = 4000
	DefaultFlatShippingFee       int64 = 99
)

// ShippingPolicy decides the shipping fee for a subtotal
type ShippingPolicy struct {
	FreeShippingThreshold int64
	FlatShippingFee       int64
}

// DefaultShippingPolicy returns the storefront's standard thresholds
func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{
		FreeShippingThreshold: DefaultFreeShippingThreshold,
		FlatShippingFee:       DefaultFlatShippingFee,
	}
}

// ShippingFee is free only when subtotal is strictly above the threshold
func (p ShippingPolicy) ShippingFee(subtotal int64) int64 {
	if subtotal > p.FreeShippingThreshold {
		return 0
	}
	return p.FlatShippingFee
}

// ComputeTotals derives subtotal, shipping, total and item count
func ComputeTotals(c models.Cart, policy ShippingPolicy) models.Totals {
	var subtotal int64
	for _, line := range c.Lines {
		subtotal += line.LineTotal()
	}

	shipping := policy.ShippingFee(subtotal)

	var remaining int64
	if subtotal > 0 && subtotal < policy.FreeShippingThreshold {
		remaining = policy.FreeShippingThreshold - subtotal
	}

	return models.Totals{
		Subtotal:             subtotal,
		ShippingFee:          shipping,
		Total:                subtotal + shipping,
		ItemCount:            ItemCount(c),
		AmountToFreeShipping: remaining,
	}
}
