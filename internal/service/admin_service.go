package service

import (
	"context"

	"resinstore/internal/model"
	"resinstore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// adminService implements AdminService.
type adminService struct {
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(orderRepo repository.OrderRepository, logger zerolog.Logger) AdminService {
	return &adminService{
		orderRepo: orderRepo,
		logger:    logger.With().Str("service", "admin").Logger(),
	}
}

func (s *adminService) ListAllOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, model.NewStoreError("fetch orders", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}

	s.logger.Debug().Int("count", len(orders)).Msg("retrieved orders")
	return orders, nil
}

// SetStatus applies status without checking the current one.
func (s *adminService) SetStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	// No order can have an ID that is not a UUID.
	id, err := uuid.Parse(orderID)
	if err != nil {
		s.logger.Warn().Str("order_id", orderID).Msg("order ID is not a UUID")
		return nil, model.ErrOrderNotFound
	}

	if !status.Valid() {
		s.logger.Warn().Str("status", string(status)).Msg("invalid order status")
		return nil, model.ErrInvalidStatus
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID).Msg("failed to update order status")
		return nil, model.NewStoreError("update order", err)
	}

	if updated == nil {
		return nil, model.ErrOrderNotFound
	}

	s.logger.Info().
		Str("order_id", orderID).
		Str("status", string(status)).
		Msg("order status updated")

	return updated, nil
}
