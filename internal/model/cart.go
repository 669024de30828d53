package model

import "github.com/shopspring/decimal"

// CartLine is one product in a cart, with the price captured when it was added.
type CartLine struct {
	ProductID string `json:"productId" validate:"required,max=64"`
	Name      string `json:"name" validate:"required"`
	Price     Money  `json:"price" validate:"gte=0,lt=100000000"`
	ImageURL  string `json:"imageUrl"`
	Quantity  int    `json:"quantity" validate:"gte=1,lte=2147483647"`
}

// LineTotal is price times quantity.
func (l CartLine) LineTotal() Money {
	return MoneyFromDecimal(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
}
