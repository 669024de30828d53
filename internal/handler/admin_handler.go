package handler

import (
	"net/http"

	"resinstore/internal/model"
	"resinstore/internal/service"

	"github.com/rs/zerolog"
)

// AdminHandler serves the order status console.
type AdminHandler struct {
	service service.AdminService
	logger  zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(service service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("handler", "admin").Logger(),
	}
}

// ListOrders handles GET /api/orders-all requests.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAllOrders(r.Context())
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders, h.logger)
}

// UpdateStatus handles POST /api/admin/update-order-status requests.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req model.StatusUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}

	updated, err := h.service.SetStatus(r.Context(), req.OrderID, req.Status)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.StatusUpdateResponse{Success: true, Updated: *updated}, h.logger)
}
