package api

import (
	"storefront-service/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders raw amounts for display. The engine never sees these.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter groups digits the way locale does and prefixes symbol
func NewFormatter(locale language.Tag, symbol string) *Formatter {
	return &Formatter{printer: message.NewPrinter(locale), symbol: symbol}
}

// Amount formats a raw amount
func (f *Formatter) Amount(v int64) string {
	return f.symbol + f.printer.Sprintf("%d", v)
}

// FormattedTotals mirrors models.Totals as display strings
type FormattedTotals struct {
	Subtotal             string `json:"subtotal"`
	Shipping             string `json:"shipping"`
	Total                string `json:"total"`
	AmountToFreeShipping string `json:"amount_to_free_shipping,omitempty"`
}

// Totals formats an order summary; a zero fee shows as FREE
func (f *Formatter) Totals(t models.Totals) FormattedTotals {
	out := FormattedTotals{
		Subtotal: f.Amount(t.Subtotal),
		Shipping: "FREE",
		Total:    f.Amount(t.Total),
	}
	if t.ShippingFee > 0 {
		out.Shipping = f.Amount(t.ShippingFee)
	}
	if t.AmountToFreeShipping > 0 {
		out.AmountToFreeShipping = f.Amount(t.AmountToFreeShipping)
	}
	return out
}
