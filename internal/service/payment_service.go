package service

import (
	"context"

	"resinstore/internal/model"
	"resinstore/internal/payment"
	"resinstore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// paymentService implements PaymentService.
type paymentService struct {
	confirmation payment.Confirmation
	orderRepo    repository.OrderRepository
	logger       zerolog.Logger
}

// NewPaymentService creates a payment service around the deployment's single strategy.
// A nil confirmation reports ErrPaymentNotEnabled.
func NewPaymentService(confirmation payment.Confirmation, orderRepo repository.OrderRepository, logger zerolog.Logger) PaymentService {
	return &paymentService{
		confirmation: confirmation,
		orderRepo:    orderRepo,
		logger:       logger.With().Str("service", "payment").Logger(),
	}
}

// StartPayment resolves the referenced order, if any, and starts confirmation for the amount.
func (s *paymentService) StartPayment(ctx context.Context, req *model.PaymentIntentRequest) (*payment.Session, error) {
	if s.confirmation == nil {
		return nil, model.ErrPaymentNotEnabled
	}
	if req == nil || !req.Amount.IsPositive() {
		return nil, model.ErrInvalidAmount
	}

	var order *model.OrderDetail
	if req.OrderID != "" {
		id, err := uuid.Parse(req.OrderID)
		if err != nil {
			return nil, model.ErrOrderNotFound
		}

		o, items, err := s.orderRepo.GetByID(ctx, id)
		if err != nil {
			s.logger.Error().Err(err).Str("order_id", req.OrderID).Msg("failed to get order")
			return nil, model.NewStoreError("fetch order", err)
		}
		if o == nil {
			return nil, model.ErrOrderNotFound
		}
		order = &model.OrderDetail{Order: *o, Items: items}
	} else if s.confirmation.RequiresOrder() {
		return nil, model.NewValidationError("orderId is required")
	}

	session, err := s.confirmation.Start(ctx, payment.Request{Amount: req.Amount, Order: order})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("provider", s.confirmation.Provider()).
			Str("amount", req.Amount.String()).
			Msg("payment confirmation failed")
		return nil, err
	}

	s.logger.Info().
		Str("provider", session.Provider).
		Str("order_id", req.OrderID).
		Msg("payment confirmation started")

	return session, nil
}
