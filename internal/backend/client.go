// Package backend is the client for the KitchenFlow REST backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

const DefaultTimeout = 30 * time.Second

// Error codes set by the client for failures that never reached the server.
const (
	CodeTimeout = "TIMEOUT"
	CodeNetwork = "NETWORK"
	CodeAborted = "ABORTED"
)

// APIError is a failed request. Status is zero when no response arrived.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	switch {
	case e.Status == 0:
		return fmt.Sprintf("backend %s: %s", e.Code, e.Message)
	case e.Code != "":
		return fmt.Sprintf("backend returned %d %s: %s", e.Status, e.Code, e.Message)
	default:
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type identity interface {
	DeviceID() string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	signer     *Signer
	identity   identity
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request. A shorter context deadline still wins.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithAuth signs every request with a bearer token for id's device.
func WithAuth(signer *Signer, id identity) Option {
	return func(c *Client) {
		c.signer = signer
		c.identity = id
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type itemsEnvelope[T any] struct {
	Items []T `json:"items"`
}

func (c *Client) ShoppingItems(ctx context.Context) ([]domain.ShoppingItem, error) {
	var out itemsEnvelope[domain.ShoppingItem]
	if err := c.do(ctx, http.MethodGet, "/api/shopping/items", nil, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		return []domain.ShoppingItem{}, nil
	}
	return out.Items, nil
}

func (c *Client) PutShoppingItems(ctx context.Context, items []domain.ShoppingItem) error {
	return c.do(ctx, http.MethodPut, "/api/shopping/items", itemsEnvelope[domain.ShoppingItem]{Items: items}, nil)
}

func (c *Client) InventoryItems(ctx context.Context) ([]domain.InventoryItem, error) {
	var out itemsEnvelope[domain.InventoryItem]
	if err := c.do(ctx, http.MethodGet, "/api/inventory/items", nil, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		return []domain.InventoryItem{}, nil
	}
	return out.Items, nil
}

func (c *Client) PutInventoryItems(ctx context.Context, items []domain.InventoryItem) error {
	return c.do(ctx, http.MethodPut, "/api/inventory/items", itemsEnvelope[domain.InventoryItem]{Items: items}, nil)
}

// FoodName is the answer of the craving identification endpoints.
type FoodName struct {
	FoodName   string  `json:"foodName"`
	Confidence float64 `json:"confidence,omitempty"`
}

func (c *Client) IdentifyCravingFromText(ctx context.Context, text string) (string, error) {
	var out FoodName
	if err := c.do(ctx, http.MethodPost, "/api/craving/identify-from-text", map[string]string{"text": text}, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.FoodName), nil
}

func (c *Client) IdentifyCravingFromLink(ctx context.Context, link string) (string, error) {
	var out FoodName
	if err := c.do(ctx, http.MethodPost, "/api/craving/identify-from-link", map[string]string{"url": link}, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.FoodName), nil
}

func (c *Client) RecipeDetails(ctx context.Context, foodName string) (*domain.RecipeDetails, error) {
	var out domain.RecipeDetails
	if err := c.do(ctx, http.MethodPost, "/api/recipe/details", map[string]string{"foodName": foodName}, &out); err != nil {
		return nil, err
	}
	if out.DishName == "" {
		return nil, fmt.Errorf("backend returned a recipe without a dish name")
	}
	return &out, nil
}

func (c *Client) ScanFridge(ctx context.Context, images []domain.Image) (*domain.FridgeSnapshot, error) {
	var out domain.FridgeSnapshot
	body := map[string][]domain.Image{"images": images}
	if err := c.do(ctx, http.MethodPost, "/api/scan/fridge", body, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []domain.FreshItem{}
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.signer != nil && c.identity != nil {
		token, err := c.signer.Sign(c.identity.DeviceID())
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(ctx, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close backend response body", "error", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func responseError(resp *http.Response, data []byte) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	var eb ErrorBody
	if json.Unmarshal(data, &eb) == nil {
		apiErr.Code = eb.Error
		apiErr.Message = eb.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return apiErr
}

func transportError(ctx context.Context, err error) *APIError {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &APIError{Code: CodeAborted, Message: "request cancelled"}
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &APIError{Code: CodeTimeout, Message: "request timed out"}
	}
	return &APIError{Code: CodeNetwork, Message: err.Error()}
}
