package model

// PaymentIntentRequest starts payment confirmation for an amount. OrderID is required by
// strategies that need the placed order.
type PaymentIntentRequest struct {
	Amount  Money  `json:"amount"`
	OrderID string `json:"orderId,omitempty"`
}
