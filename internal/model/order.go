package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every status in display order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CustomerInfo identifies the buyer.
type CustomerInfo struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty"`
}

// PostalCode is a zip code. JSON numbers are accepted and kept as their literal text.
type PostalCode string

func (p *PostalCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '"' {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*p = PostalCode(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = PostalCode(s)
	return nil
}

// ShippingAddress is where the order ships to.
type ShippingAddress struct {
	Street string     `json:"street" validate:"required"`
	City   string     `json:"city" validate:"required"`
	State  string     `json:"state" validate:"required"`
	Zip    PostalCode `json:"zip" validate:"required"`
}

// Order represents a customer order.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	CustomerInfo    CustomerInfo    `json:"customerInfo" db:"customer_info"`
	ShippingAddress ShippingAddress `json:"shippingAddress" db:"shipping_address"`
	TotalAmount     Money           `json:"totalAmount" db:"total_amount"`
	Status          OrderStatus     `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}

// OrderItem is a priced snapshot of one cart line at checkout.
type OrderItem struct {
	ID           uuid.UUID `json:"id" db:"id"`
	OrderID      uuid.UUID `json:"orderId" db:"order_id"`
	ProductID    string    `json:"productId" db:"product_id"`
	ProductName  string    `json:"productName" db:"product_name"`
	ProductPrice Money     `json:"productPrice" db:"product_price"`
	Quantity     int       `json:"quantity" db:"quantity"`
}

// OrderDetail is an order with its items.
type OrderDetail struct {
	Order
	Items []OrderItem `json:"items"`
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	CustomerInfo    CustomerInfo    `json:"customerInfo"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	TotalAmount     *Money          `json:"totalAmount" validate:"required,gte=0,lt=100000000"`
	Items           []CartLine      `json:"items" validate:"dive"`
}

// OrderResponse is returned after a successful checkout.
type OrderResponse struct {
	Success bool      `json:"success"`
	OrderID uuid.UUID `json:"orderId"`
	Message string    `json:"message"`
}

// StatusUpdateRequest is the admin payload for changing an order status.
type StatusUpdateRequest struct {
	OrderID string      `json:"orderId"`
	Status  OrderStatus `json:"status"`
}

// StatusUpdateResponse echoes the updated order.
type StatusUpdateResponse struct {
	Success bool  `json:"success"`
	Updated Order `json:"updated"`
}
