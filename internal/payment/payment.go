// Package payment starts the confirmation step that follows order placement.
//
// A deployment runs exactly one strategy: Stripe hands back a PaymentIntent client
// secret for the browser to complete, WhatsApp hands back a wa.me link that opens a
// chat with the shop carrying the order summary. Neither strategy creates orders.
package payment

import (
	"context"

	"resinstore/internal/model"
)

// Request describes what to confirm. Order is required by strategies that report
// RequiresOrder and optional otherwise.
type Request struct {
	Amount model.Money
	Order  *model.OrderDetail
}

// Session is what the client needs to finish payment.
type Session struct {
	Provider     string `json:"provider"`
	ClientSecret string `json:"clientSecret,omitempty"`
	RedirectURL  string `json:"redirectUrl,omitempty"`
}

// Confirmation is the payment confirmation capability.
type Confirmation interface {
	// Provider names the strategy.
	Provider() string

	// RequiresOrder reports whether Start needs Request.Order.
	RequiresOrder() bool

	// Start begins confirmation. Invalid input returns a validation error and provider
	// failures return an upstream payment error.
	Start(ctx context.Context, req Request) (*Session, error)
}
