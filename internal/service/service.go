package service

import (
	"context"

	"resinstore/internal/model"
	"resinstore/internal/payment"

	"github.com/google/uuid"
)

// CatalogueSource produces the products used to seed an empty catalogue.
type CatalogueSource func(ctx context.Context) ([]model.Product, error)

// ProductService defines catalogue operations.
type ProductService interface {
	// List retrieves every product in insertion order.
	List(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product. Returns ErrProductNotFound when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// SeedIfEmpty loads the catalogue from source when no products exist yet and
	// reports how many were inserted.
	SeedIfEmpty(ctx context.Context, source CatalogueSource) (int, error)
}

// CheckoutService turns a cart snapshot into a persisted order.
type CheckoutService interface {
	// PlaceOrder validates the request and writes the order and its items in one transaction.
	PlaceOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderDetail, error)

	// GetOrder retrieves an order with its items.
	GetOrder(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error)
}

// AdminService backs the order status console.
type AdminService interface {
	// ListAllOrders retrieves every order, newest first.
	ListAllOrders(ctx context.Context) ([]model.Order, error)

	// SetStatus changes the status of an order. Any status may follow any other.
	SetStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)
}

// PaymentService starts payment confirmation. It never creates orders.
type PaymentService interface {
	StartPayment(ctx context.Context, req *model.PaymentIntentRequest) (*payment.Session, error)
}
