package service

import (
	"context"
	"time"

	"resinstore/internal/model"
	"resinstore/internal/notify"
	"resinstore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const notifyTimeout = 10 * time.Second

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo repository.OrderRepository
	notifier  notify.OrderNotifier
	now       func() time.Time
	logger    zerolog.Logger
}

// NewCheckoutService creates a new checkout service. A nil notifier disables confirmation emails.
func NewCheckoutService(orderRepo repository.OrderRepository, notifier notify.OrderNotifier, logger zerolog.Logger) CheckoutService {
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}
	return &checkoutService{
		orderRepo: orderRepo,
		notifier:  notifier,
		now:       time.Now,
		logger:    logger.With().Str("service", "checkout").Logger(),
	}
}

// PlaceOrder persists a pending order with one item per cart line. The submitted total is
// stored as given.
func (s *checkoutService) PlaceOrder(ctx context.Context, req *model.OrderRequest) (detail *model.OrderDetail, err error) {
	if req == nil {
		return nil, model.NewValidationError("order request is required")
	}
	if err := req.Validate(); err != nil {
		s.logger.Warn().Err(err).Int("item_count", len(req.Items)).Msg("order request rejected")
		return nil, err
	}

	// Postgres keeps microseconds.
	order := model.Order{
		ID:              uuid.New(),
		CustomerInfo:    req.CustomerInfo,
		ShippingAddress: req.ShippingAddress,
		TotalAmount:     *req.TotalAmount,
		Status:          model.OrderStatusPending,
		CreatedAt:       s.now().UTC().Truncate(time.Microsecond),
	}

	items := make([]model.OrderItem, len(req.Items))
	for i, line := range req.Items {
		items[i] = model.OrderItem{
			ID:           uuid.New(),
			OrderID:      order.ID,
			ProductID:    line.ProductID,
			ProductName:  line.Name,
			ProductPrice: line.Price,
			Quantity:     line.Quantity,
		}
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, model.NewStoreError("create order", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Str("order_id", order.ID.String()).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, &order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, model.NewStoreError("create order", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, model.NewStoreError("create order", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, model.NewStoreError("create order", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(items)).
		Str("total_amount", order.TotalAmount.String()).
		Msg("order created successfully")

	detail = &model.OrderDetail{Order: order, Items: items}
	s.sendConfirmation(ctx, detail)

	return detail, nil
}

// sendConfirmation never fails the order.
func (s *checkoutService) sendConfirmation(ctx context.Context, detail *model.OrderDetail) {
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.notifier.OrderPlaced(notifyCtx, detail); err != nil {
		s.logger.Warn().Err(err).Str("order_id", detail.ID.String()).Msg("order confirmation not sent")
	}
}

// GetOrder retrieves an order by its ID with all items.
func (s *checkoutService) GetOrder(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, model.NewStoreError("fetch order", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	if items == nil {
		items = []model.OrderItem{}
	}

	return &model.OrderDetail{Order: *order, Items: items}, nil
}
