package backend

// Package backend is a thin typed client for the remote POS REST backend.
// Every call carries the caller's access token as a bearer header; the
// backend owns all domain state, this process proxies it.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/retailops/pos-ui-api/internal/errors"
)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the POS backend root, e.g. "https://pos-api.internal".
	BaseURL string
	// Timeout bounds each call when no custom Client is supplied.
	Timeout time.Duration
	// Client is optional; defaults to a timeout-bound http.Client.
	Client *http.Client
}

// Client issues authenticated requests against the POS backend.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a backend client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("backend base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{baseURL: baseURL, client: hc}, nil
}

// Branches

func (c *Client) ListBranches(ctx context.Context, accessToken string, q ListQuery) ([]Branch, error) {
	return get[[]Branch](ctx, c, accessToken, "/branches"+q.encode())
}

func (c *Client) GetBranch(ctx context.Context, accessToken, id string) (Branch, error) {
	return get[Branch](ctx, c, accessToken, "/branches/"+url.PathEscape(id))
}

func (c *Client) CreateBranch(ctx context.Context, accessToken string, req BranchRequest) (Branch, error) {
	return send[Branch](ctx, c, call{token: accessToken, method: http.MethodPost, path: "/branches", payload: req})
}

func (c *Client) UpdateBranch(ctx context.Context, accessToken, id string, req BranchRequest) (Branch, error) {
	return send[Branch](ctx, c, call{
		token: accessToken, method: http.MethodPut, path: "/branches/" + url.PathEscape(id), payload: req,
	})
}

func (c *Client) DeleteBranch(ctx context.Context, accessToken, id string) error {
	return c.remove(ctx, accessToken, "/branches/"+url.PathEscape(id))
}

// Products

func (c *Client) ListProducts(ctx context.Context, accessToken string, q ListQuery) ([]Product, error) {
	return get[[]Product](ctx, c, accessToken, "/products"+q.encode())
}

func (c *Client) GetProduct(ctx context.Context, accessToken, id string) (Product, error) {
	return get[Product](ctx, c, accessToken, "/products/"+url.PathEscape(id))
}

func (c *Client) CreateProduct(ctx context.Context, accessToken string, req ProductRequest) (Product, error) {
	return send[Product](ctx, c, call{token: accessToken, method: http.MethodPost, path: "/products", payload: req})
}

func (c *Client) UpdateProduct(ctx context.Context, accessToken, id string, req ProductRequest) (Product, error) {
	return send[Product](ctx, c, call{
		token: accessToken, method: http.MethodPut, path: "/products/" + url.PathEscape(id), payload: req,
	})
}

func (c *Client) DeleteProduct(ctx context.Context, accessToken, id string) error {
	return c.remove(ctx, accessToken, "/products/"+url.PathEscape(id))
}

// Batches

func (c *Client) ListBatches(ctx context.Context, accessToken string, q ListQuery) ([]Batch, error) {
	return get[[]Batch](ctx, c, accessToken, "/batches"+q.encode())
}

func (c *Client) CreateBatch(ctx context.Context, accessToken string, req BatchRequest) (Batch, error) {
	return send[Batch](ctx, c, call{token: accessToken, method: http.MethodPost, path: "/batches", payload: req})
}

// Inventory

func (c *Client) ListInventory(ctx context.Context, accessToken string, q ListQuery) ([]InventoryItem, error) {
	return get[[]InventoryItem](ctx, c, accessToken, "/inventory"+q.encode())
}

func (c *Client) AdjustInventory(
	ctx context.Context, accessToken string, adj InventoryAdjustment,
) (InventoryItem, error) {
	return send[InventoryItem](ctx, c, call{
		token: accessToken, method: http.MethodPost, path: "/inventory/adjustments", payload: adj,
	})
}

// Orders

func (c *Client) ListOrders(ctx context.Context, accessToken string, q ListQuery) ([]Order, error) {
	return get[[]Order](ctx, c, accessToken, "/orders"+q.encode())
}

func (c *Client) GetOrder(ctx context.Context, accessToken, id string) (Order, error) {
	return get[Order](ctx, c, accessToken, "/orders/"+url.PathEscape(id))
}

func (c *Client) CreateOrder(ctx context.Context, accessToken string, req OrderRequest) (Order, error) {
	return send[Order](ctx, c, call{token: accessToken, method: http.MethodPost, path: "/orders", payload: req})
}

func (c *Client) UpdateOrderStatus(
	ctx context.Context, accessToken, id string, req OrderStatusRequest,
) (Order, error) {
	return send[Order](ctx, c, call{
		token: accessToken, method: http.MethodPut, path: "/orders/" + url.PathEscape(id) + "/status", payload: req,
	})
}

// Referrals

func (c *Client) ListReferrals(ctx context.Context, accessToken string, q ListQuery) ([]Referral, error) {
	return get[[]Referral](ctx, c, accessToken, "/referrals"+q.encode())
}

func (c *Client) CreateReferral(ctx context.Context, accessToken string, req ReferralRequest) (Referral, error) {
	return send[Referral](ctx, c, call{token: accessToken, method: http.MethodPost, path: "/referrals", payload: req})
}

// Users

func (c *Client) ListUsers(ctx context.Context, accessToken string, q ListQuery) ([]User, error) {
	return get[[]User](ctx, c, accessToken, "/users"+q.encode())
}

func (c *Client) GetUser(ctx context.Context, accessToken, id string) (User, error) {
	return get[User](ctx, c, accessToken, "/users/"+url.PathEscape(id))
}

func (c *Client) CreateUser(ctx context.Context, accessToken string, req UserRequest) (User, error) {
	return send[User](ctx, c, call{token: accessToken, method: http.MethodPost, path: "/users", payload: req})
}

func (c *Client) UpdateUser(ctx context.Context, accessToken, id string, req UserRequest) (User, error) {
	return send[User](ctx, c, call{
		token: accessToken, method: http.MethodPut, path: "/users/" + url.PathEscape(id), payload: req,
	})
}

func (c *Client) DeleteUser(ctx context.Context, accessToken, id string) error {
	return c.remove(ctx, accessToken, "/users/"+url.PathEscape(id))
}

// Transport plumbing

type call struct {
	token   string
	method  string
	path    string
	payload any
}

func get[T any](ctx context.Context, c *Client, accessToken, path string) (T, error) {
	return send[T](ctx, c, call{token: accessToken, method: http.MethodGet, path: path})
}

func send[T any](ctx context.Context, c *Client, p call) (T, error) {
	var zero T

	resp, err := c.do(ctx, p)
	if err != nil {
		return zero, apperrors.Unreachable(err, "pos backend")
	}
	defer drainAndClose(resp.Body)

	if mapErr := mapStatus(resp); mapErr != nil {
		return zero, mapErr
	}

	var out T
	if decodeErr := json.NewDecoder(resp.Body).Decode(&out); decodeErr != nil {
		return zero, apperrors.Unreachable(decodeErr, "pos backend response")
	}
	return out, nil
}

func (c *Client) remove(ctx context.Context, accessToken, path string) error {
	resp, err := c.do(ctx, call{token: accessToken, method: http.MethodDelete, path: path})
	if err != nil {
		return apperrors.Unreachable(err, "pos backend")
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return mapStatus(resp)
}

func (c *Client) do(ctx context.Context, p call) (*http.Response, error) {
	var body io.Reader
	if p.payload != nil {
		data, err := json.Marshal(p.payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, p.method, c.baseURL+p.path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Accept", "application/json")
	if p.payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.client.Do(req)
}

// backendError is the backend's error payload shape.
type backendError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// mapStatus converts a non-2xx backend response into the app error taxonomy.
func mapStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg := backendMessage(resp)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		// The backend no longer accepts this access token.
		return apperrors.SessionExpired(errors.New(msg))
	case http.StatusForbidden:
		return apperrors.Forbidden(msg)
	case http.StatusNotFound:
		return apperrors.NotFound(msg)
	case http.StatusConflict:
		return apperrors.Conflict(msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.Validation(msg)
	default:
		return apperrors.Unreachable(fmt.Errorf("unexpected status %d", resp.StatusCode), "pos backend")
	}
}

func backendMessage(resp *http.Response) string {
	var be backendError
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8192)).Decode(&be); err == nil {
		if be.Message != "" {
			return be.Message
		}
		if be.Error != "" {
			return be.Error
		}
	}
	return fmt.Sprintf("pos backend returned status %d", resp.StatusCode)
}

// encode renders the query string, empty when no parameters are set.
func (q ListQuery) encode() string {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.BranchID != "" {
		v.Set("branchId", q.BranchID)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
