package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"season-admin/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)

// APIError is a non-success response from the upstream API. Message holds
// the server-provided message when the body carried one, so handlers can
// surface it to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream returned %d", e.StatusCode)
}

// Client is a typed client for the Season Collection REST backend. All
// data operations in the dashboard go through it; the gateway itself owns
// no product or order state.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client against baseURL. A zero timeout disables the
// request deadline; the old dashboard hung forever on stalled requests, so
// callers should pass one.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// LoginResponse is the body of a successful login call.
type LoginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a signed token. The token is decoded
// and role-checked by the session service, not here.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}

	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("login response missing token")
	}
	return resp.Token, nil
}

// ListProducts fetches the full product set.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/jewelry", nil, &products); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// CreateProduct posts a new product and returns the created record.
func (c *Client) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	created := &domain.Product{}
	if err := c.do(ctx, http.MethodPost, "/api/jewelry", product, created); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return created, nil
}

// UpdateProduct sends a partial update; only the patch's non-nil fields
// travel in the request body.
func (c *Client) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) error {
	err := c.do(ctx, http.MethodPut, "/api/jewelry/"+id, patch, nil)
	if err != nil {
		if isNotFound(err) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodDelete, "/api/jewelry/"+id, nil, nil)
	if err != nil {
		if isNotFound(err) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// ListOrders fetches the full order set.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateOrder sends a partial order update carrying exactly one status field.
func (c *Client) UpdateOrder(ctx context.Context, id string, patch domain.OrderPatch) error {
	err := c.do(ctx, http.MethodPut, "/api/orders/"+id, patch, nil)
	if err != nil {
		if isNotFound(err) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

// do performs a single request/response cycle. A nil in means no request
// body; a nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var reqBody io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    decodeErrorMessage(resp.Body),
		}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeErrorMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Message
}

func isNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
