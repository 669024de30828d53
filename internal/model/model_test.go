package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Is(t *testing.T) {
	wrapped := fmt.Errorf("placing order: %w", NewValidationError("customerInfo.name is required"))

	assert.True(t, errors.Is(wrapped, ErrValidation))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.True(t, errors.Is(ErrOrderNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrOrderNotFound, ErrProductNotFound))

	storeErr := NewStoreError("create order", errors.New("connection refused"))
	assert.True(t, errors.Is(storeErr, ErrStoreUnavailable))
	assert.Contains(t, storeErr.Error(), "connection refused")
}

func TestMoney_JSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "number", input: `21.6`, expected: "21.60"},
		{name: "string", input: `"189.99"`, expected: "189.99"},
		{name: "integer", input: `10`, expected: "10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Money
			require.NoError(t, json.Unmarshal([]byte(tt.input), &m))
			assert.Equal(t, tt.expected, m.String())

			out, err := json.Marshal(m)
			require.NoError(t, err)
			assert.Equal(t, `"`+tt.expected+`"`, string(out))
		})
	}
}

func TestMoney_Cents(t *testing.T) {
	assert.Equal(t, int64(2160), MustMoney("21.60").Cents())
	assert.Equal(t, int64(1000), MustMoney("9.999").Cents())
	assert.Equal(t, "0.05", MoneyFromCents(5).String())
}

func TestPostalCode_UnmarshalJSON(t *testing.T) {
	var addr ShippingAddress
	require.NoError(t, json.Unmarshal([]byte(`{"street":"1 Main","city":"Pune","state":"MH","zip":411001}`), &addr))
	assert.Equal(t, PostalCode("411001"), addr.Zip)

	require.NoError(t, json.Unmarshal([]byte(`{"zip":"02134"}`), &addr))
	assert.Equal(t, PostalCode("02134"), addr.Zip)
}

func validRequest() OrderRequest {
	return OrderRequest{
		CustomerInfo:    CustomerInfo{Name: "Asha", Email: "asha@example.com", Phone: "+91 98765 43210"},
		ShippingAddress: ShippingAddress{Street: "12 Lake Rd", City: "Pune", State: "MH", Zip: "411001"},
		TotalAmount:     MustMoney("21.60").Ptr(),
		Items: []CartLine{
			{ProductID: "p1", Name: "Coral Pink Trinket Dish", Price: MustMoney("10.00"), Quantity: 2},
		},
	}
}

func TestOrderRequest_DecodeStorefrontBody(t *testing.T) {
	body := `{
		"customerInfo": {"name": "Asha"},
		"shippingAddress": {"street": "12 Lake Rd", "city": "Pune", "state": "MH", "zip": 411001},
		"totalAmount": 20,
		"items": [{"productId": "p1", "name": "Tray", "price": 10.00, "quantity": 2}]
	}`

	var req OrderRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	require.Len(t, req.Items, 1)
	assert.Equal(t, "p1", req.Items[0].ProductID)
	assert.Equal(t, "20.00", req.Items[0].LineTotal().String())
	require.NoError(t, req.Validate())

	line, err := json.Marshal(req.Items[0])
	require.NoError(t, err)
	assert.Contains(t, string(line), `"productId":"p1"`)

	t.Run("null total is rejected", func(t *testing.T) {
		var req OrderRequest
		require.NoError(t, json.Unmarshal([]byte(strings.Replace(body, `"totalAmount": 20`, `"totalAmount": null`, 1)), &req))
		assert.Nil(t, req.TotalAmount)
		assert.EqualError(t, req.Validate(), "totalAmount is required")
	})

	t.Run("missing total is rejected", func(t *testing.T) {
		var req OrderRequest
		require.NoError(t, json.Unmarshal([]byte(strings.Replace(body, `"totalAmount": 20,`, ``, 1)), &req))
		assert.EqualError(t, req.Validate(), "totalAmount is required")
	})
}

func TestOrderRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(r *OrderRequest)
		errorMsg string
	}{
		{name: "valid", mutate: func(r *OrderRequest) {}},
		{name: "email omitted", mutate: func(r *OrderRequest) { r.CustomerInfo.Email = "" }},
		{
			name:     "empty cart",
			mutate:   func(r *OrderRequest) { r.Items = nil },
			errorMsg: "Cart is empty",
		},
		{
			name:     "missing name",
			mutate:   func(r *OrderRequest) { r.CustomerInfo.Name = "" },
			errorMsg: "customerInfo.name is required",
		},
		{
			name:     "malformed email",
			mutate:   func(r *OrderRequest) { r.CustomerInfo.Email = "not-an-email" },
			errorMsg: "customerInfo.email must be a valid email address",
		},
		{
			name:     "missing zip",
			mutate:   func(r *OrderRequest) { r.ShippingAddress.Zip = "" },
			errorMsg: "shippingAddress.zip is required",
		},
		{
			name:     "zero quantity",
			mutate:   func(r *OrderRequest) { r.Items[0].Quantity = 0 },
			errorMsg: "items[0].quantity must be at least 1",
		},
		{
			name:     "missing total",
			mutate:   func(r *OrderRequest) { r.TotalAmount = nil },
			errorMsg: "totalAmount is required",
		},
		{
			name:   "zero total",
			mutate: func(r *OrderRequest) { r.TotalAmount = MustMoney("0").Ptr() },
		},
		{
			name:     "total at the column limit",
			mutate:   func(r *OrderRequest) { r.TotalAmount = MustMoney("100000000").Ptr() },
			errorMsg: "totalAmount must be less than 100000000",
		},
		{
			name:   "largest storable price",
			mutate: func(r *OrderRequest) { r.Items[0].Price = MustMoney("99999999.99") },
		},
		{
			name:     "oversized product id",
			mutate:   func(r *OrderRequest) { r.Items[0].ProductID = strings.Repeat("x", 65) },
			errorMsg: "items[0].productId must be at most 64 characters",
		},
		{
			name:     "quantity beyond int32",
			mutate:   func(r *OrderRequest) { r.Items[0].Quantity = 1 << 31 },
			errorMsg: "items[0].quantity must be at most 2147483647",
		},
		{
			name:     "negative total",
			mutate:   func(r *OrderRequest) { r.TotalAmount = MustMoney("-1").Ptr() },
			errorMsg: "totalAmount must be at least 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := req.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Equal(t, tt.errorMsg, err.Error())
		})
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("refunded").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestValidateProduct(t *testing.T) {
	p := Product{Name: "Teal Geode Resin Wall Art", Category: "wall-art", Price: MustMoney("249.99")}
	assert.NoError(t, ValidateProduct(&p))

	p.Rating = MustMoney("5.5").Decimal
	assert.ErrorIs(t, ValidateProduct(&p), ErrValidation)
}
