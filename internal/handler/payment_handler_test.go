package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"resinstore/internal/model"
	"resinstore/internal/payment"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPaymentHandler_CreateIntent(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockReturn     *payment.Session
		mockError      error
		expectService  bool
		expectedStatus int
		expectedBody   map[string]interface{}
	}{
		{
			name:           "Stripe client secret",
			body:           `{"amount": 54.00}`,
			mockReturn:     &payment.Session{Provider: payment.ProviderStripe, ClientSecret: "pi_1_secret"},
			expectService:  true,
			expectedStatus: http.StatusOK,
			expectedBody:   map[string]interface{}{"provider": "stripe", "clientSecret": "pi_1_secret"},
		},
		{
			name:           "Invalid amount",
			body:           `{"amount": 0}`,
			mockError:      model.ErrInvalidAmount,
			expectService:  true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Provider failure",
			body:           `{"amount": 54.00}`,
			mockError:      model.NewUpstreamPaymentError("create payment intent", errors.New("timeout")),
			expectService:  true,
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "Malformed body",
			body:           `{"amount": "abc"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockPaymentService)
			if tt.expectService {
				mockService.On("StartPayment", mock.Anything, mock.AnythingOfType("*model.PaymentIntentRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/create-payment-intent", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			NewPaymentHandler(mockService, zerolog.Nop()).CreateIntent(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != nil {
				var body map[string]interface{}
				require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Equal(t, tt.expectedBody, body)
			}
			if !tt.expectService {
				mockService.AssertNotCalled(t, "StartPayment", mock.Anything, mock.Anything)
			}
		})
	}
}
