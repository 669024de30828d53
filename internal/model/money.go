package model

import (
	"database/sql/driver"

	"github.com/shopspring/decimal"
)

// Money is a fixed-point amount with two decimal places on the wire.
// It serialises as a quoted string ("21.60") and accepts either a JSON number or string.
type Money struct {
	decimal.Decimal
}

// NewMoney parses s as a decimal amount.
func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Decimal: d}, nil
}

// MustMoney is NewMoney for literals; it panics on malformed input.
func MustMoney(s string) Money {
	m, err := NewMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Ptr returns a pointer to a copy of m, for optional request fields.
func (m Money) Ptr() *Money {
	return &m
}

// MoneyFromDecimal wraps d.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MoneyFromCents converts an integer minor-unit amount.
func MoneyFromCents(cents int64) Money {
	return Money{Decimal: decimal.New(cents, -2)}
}

// Cents rounds to the nearest minor unit.
func (m Money) Cents() int64 {
	return m.Decimal.Shift(2).Round(0).IntPart()
}

func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}

// Value stores the amount as a numeric literal.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

func (m *Money) Scan(value interface{}) error {
	return m.Decimal.Scan(value)
}
