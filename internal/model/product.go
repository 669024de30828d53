package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a resin-art item in the catalogue. Products are immutable once seeded.
type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name" validate:"required"`
	Description string          `json:"description" db:"description"`
	Price       Money           `json:"price" db:"price" validate:"gte=0"`
	Category    string          `json:"category" db:"category" validate:"required"`
	ImageURL    string          `json:"imageUrl" db:"image_url"`
	Rating      decimal.Decimal `json:"rating" db:"rating"`
	ReviewCount int             `json:"reviewCount" db:"review_count" validate:"gte=0"`
	InStock     int             `json:"inStock" db:"in_stock" validate:"gte=0"`
	Colors      []string        `json:"colors" db:"colors"`
	Dimensions  *string         `json:"dimensions" db:"dimensions"`
	Materials   *string         `json:"materials" db:"materials"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

var maxRating = decimal.NewFromInt(5)

// ValidateProduct checks a catalogue entry before it is seeded.
func ValidateProduct(p *Product) error {
	if err := validateStruct(p); err != nil {
		return err
	}
	if p.Rating.IsNegative() || p.Rating.GreaterThan(maxRating) {
		return NewValidationError("invalid product data: rating must be between 0 and 5")
	}
	return nil
}
