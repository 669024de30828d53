package cart

import (
	"resinstore/internal/model"

	"github.com/shopspring/decimal"
)

var (
	taxRate               = decimal.RequireFromString("0.08")
	freeShippingThreshold = decimal.NewFromInt(50)
	flatShipping          = decimal.NewFromInt(10)
)

// Quote is the price breakdown shown at checkout.
type Quote struct {
	Subtotal model.Money `json:"subtotal"`
	Tax      model.Money `json:"tax"`
	Shipping model.Money `json:"shipping"`
	Total    model.Money `json:"total"`
}

// QuoteFor prices lines: 8% tax, free shipping from a 50.00 subtotal, otherwise 10.00.
// Amounts are rounded to cents. The server stores Total as given and never recomputes it.
func QuoteFor(lines []model.CartLine) Quote {
	subtotal := Subtotal(lines).Decimal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)

	shipping := flatShipping
	if subtotal.GreaterThanOrEqual(freeShippingThreshold) || len(lines) == 0 {
		shipping = decimal.Zero
	}

	return Quote{
		Subtotal: model.MoneyFromDecimal(subtotal),
		Tax:      model.MoneyFromDecimal(tax),
		Shipping: model.MoneyFromDecimal(shipping),
		Total:    model.MoneyFromDecimal(subtotal.Add(tax).Add(shipping)),
	}
}
