package handler

import (
	"net/http"

	"resinstore/internal/model"
	"resinstore/internal/service"

	"github.com/rs/zerolog"
)

// PaymentHandler starts payment confirmation.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

// CreateIntent handles POST /api/create-payment-intent requests. No order is created here.
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentIntentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}

	session, err := h.service.StartPayment(r.Context(), &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, session, h.logger)
}
