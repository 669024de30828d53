package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"resinstore/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminHandler_ListOrders(t *testing.T) {
	orders := []model.Order{{ID: uuid.New(), Status: model.OrderStatusPending}}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAdminService)
		mockService.On("ListAllOrders", mock.Anything).Return(orders, nil)

		w := httptest.NewRecorder()
		NewAdminHandler(mockService, zerolog.Nop()).ListOrders(w, httptest.NewRequest(http.MethodGet, "/api/orders-all", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var got []model.Order
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Len(t, got, 1)
	})

	t.Run("Store unavailable", func(t *testing.T) {
		mockService := new(MockAdminService)
		mockService.On("ListAllOrders", mock.Anything).Return(nil, model.NewStoreError("fetch orders", errors.New("down")))

		w := httptest.NewRecorder()
		NewAdminHandler(mockService, zerolog.Nop()).ListOrders(w, httptest.NewRequest(http.MethodGet, "/api/orders-all", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAdminHandler_UpdateStatus(t *testing.T) {
	orderID := uuid.New()

	tests := []struct {
		name           string
		body           string
		mockReturn     *model.Order
		mockError      error
		expectService  bool
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           `{"orderId":"` + orderID.String() + `","status":"shipped"}`,
			mockReturn:     &model.Order{ID: orderID, Status: model.OrderStatusShipped},
			expectService:  true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Unknown order",
			body:           `{"orderId":"` + orderID.String() + `","status":"shipped"}`,
			mockError:      model.ErrOrderNotFound,
			expectService:  true,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Invalid status",
			body:           `{"orderId":"` + orderID.String() + `","status":"shipped"}`,
			mockError:      model.ErrInvalidStatus,
			expectService:  true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Malformed body",
			body:           `not json`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAdminService)
			if tt.expectService {
				mockService.On("SetStatus", mock.Anything, orderID.String(), model.OrderStatusShipped).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/admin/update-order-status", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			NewAdminHandler(mockService, zerolog.Nop()).UpdateStatus(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var body model.StatusUpdateResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.True(t, body.Success)
				assert.Equal(t, model.OrderStatusShipped, body.Updated.Status)
			}
			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}
