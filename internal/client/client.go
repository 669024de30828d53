// Package client is a typed HTTP client for the storefront API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"resinstore/internal/model"
	"resinstore/internal/payment"

	"github.com/google/uuid"
)

const defaultTimeout = 15 * time.Second

// Client calls the storefront REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for baseURL. apiKey is only sent on admin calls.
func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, false, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, false, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// PlaceOrder submits a cart snapshot and returns the new order ID.
func (c *Client) PlaceOrder(ctx context.Context, req *model.OrderRequest) (uuid.UUID, error) {
	var res model.OrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, false, &res); err != nil {
		return uuid.Nil, err
	}
	return res.OrderID, nil
}

func (c *Client) GetOrder(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error) {
	var detail model.OrderDetail
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+id.String(), nil, false, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// StartPayment requests a payment session. It never creates an order.
func (c *Client) StartPayment(ctx context.Context, req *model.PaymentIntentRequest) (*payment.Session, error) {
	var session payment.Session
	if err := c.do(ctx, http.MethodPost, "/api/create-payment-intent", req, false, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) ListAllOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders-all", nil, true, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	var res model.StatusUpdateResponse
	req := model.StatusUpdateRequest{OrderID: orderID, Status: status}
	if err := c.do(ctx, http.MethodPost, "/api/admin/update-order-status", req, true, &res); err != nil {
		return nil, err
	}
	return &res.Updated, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, admin bool, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeError(res)
	}

	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError turns an error body back into a DomainError so callers can use errors.Is.
func decodeError(res *http.Response) error {
	var body model.ErrorResponse
	_ = json.NewDecoder(io.LimitReader(res.Body, 1<<16)).Decode(&body)

	code := body.Error
	if code == "" {
		code = codeForStatus(res.StatusCode)
	}
	message := body.Message
	if message == "" {
		message = http.StatusText(res.StatusCode)
	}
	return &model.DomainError{Code: code, Message: message}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return model.ErrCodeValidation
	case http.StatusNotFound:
		return model.ErrCodeNotFound
	case http.StatusUnauthorized:
		return model.ErrCodeUnauthorised
	case http.StatusBadGateway:
		return model.ErrCodeUpstreamPayment
	case http.StatusTooManyRequests:
		return model.ErrCodeRateLimited
	default:
		return model.ErrCodeInternalError
	}
}
