package availability

import "time"

// DefaultVATRate matches the flat 25% rate applied to every stay.
const DefaultVATRate = 0.25

// PriceQuote is the derived price breakdown for a stay. It is recomputed on
// demand and never stored.
type PriceQuote struct {
	Nights   int     `json:"nights"`
	Subtotal float64 `json:"subtotal"`
	VAT      float64 `json:"vat"`
	Total    float64 `json:"total"`
}

// Nights returns the number of nights between check-in and checkout, not
// counting the checkout day. Nil dates mean the selection is incomplete and
// yield zero so a price summary can render before both dates are picked.
func Nights(start, end *time.Time) int {
	if start == nil || end == nil {
		return 0
	}
	n := int(DateOnly(*end).Sub(DateOnly(*start)).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

// NewQuote computes the tax-inclusive total for a stay. No rounding is
// applied; formatting for display is the caller's concern.
func NewQuote(nights int, nightlyRate, vatRate float64) PriceQuote {
	if nights < 0 {
		nights = 0
	}
	subtotal := float64(nights) * nightlyRate
	vat := subtotal * vatRate
	return PriceQuote{
		Nights:   nights,
		Subtotal: subtotal,
		VAT:      vat,
		Total:    subtotal + vat,
	}
}
