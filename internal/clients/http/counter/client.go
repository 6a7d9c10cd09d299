// Package counter is the HTTP client for the remote order/product store.
package counter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apierrors "github.com/Apurer/counter-panel/internal/shared/errors"
	"github.com/Apurer/counter-panel/internal/shared/ident"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const maxErrorBody = 64 << 10

// Client talks JSON over HTTP to the counter backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	requestID  func() string
}

// Option configures the client.
type Option func(*Client)

// WithRequestIDs overrides the request id generator.
func WithRequestIDs(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

// NewClient instantiates the counter client. A nil httpClient gets a traced
// transport and the given timeout (5s when zero).
func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("counter base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("counter base URL %q is not absolute", baseURL)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	c := &Client{baseURL: baseURL, httpClient: httpClient, requestID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// ListProducts fetches the whole catalog in server order.
func (c *Client) ListProducts(ctx context.Context) ([]ProductPayload, error) {
	var out []ProductPayload
	if err := c.do(ctx, "list products", http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProduct posts a draft and returns the stored product.
func (c *Client) CreateProduct(ctx context.Context, draft DraftPayload) (*ProductPayload, error) {
	var out ProductPayload
	if err := c.do(ctx, "create product", http.MethodPost, "/products", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id ident.ID) error {
	path, err := resourcePath("/products", id)
	if err != nil {
		return &TransportError{Op: "delete product", Method: http.MethodDelete, Path: "/products/{id}", Err: err}
	}
	return c.do(ctx, "delete product", http.MethodDelete, path, nil, nil)
}

// SetProductAvailability writes the availability flag of a product.
func (c *Client) SetProductAvailability(ctx context.Context, id ident.ID, available bool) error {
	path, err := resourcePath("/products", id)
	if err != nil {
		return &TransportError{Op: "set availability", Method: http.MethodPut, Path: "/products/{id}", Err: err}
	}
	return c.do(ctx, "set availability", http.MethodPut, path, AvailabilityPayload{Available: available}, nil)
}

// ListOrders fetches every order, terminal ones included.
func (c *Client) ListOrders(ctx context.Context) ([]OrderPayload, error) {
	var out []OrderPayload
	if err := c.do(ctx, "list orders", http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateOrderStatus asks the remote store to move an order to status.
func (c *Client) UpdateOrderStatus(ctx context.Context, id ident.ID, status string) error {
	path, err := resourcePath("/orders", id)
	if err != nil {
		return &TransportError{Op: "update order status", Method: http.MethodPut, Path: "/orders/{id}", Err: err}
	}
	return c.do(ctx, "update order status", http.MethodPut, path, StatusPayload{Status: status}, nil)
}

// CreateOrder places an order. The panel never calls it; it seeds demos and tests.
func (c *Client) CreateOrder(ctx context.Context, order NewOrderPayload) (*OrderPayload, error) {
	var out OrderPayload
	if err := c.do(ctx, "create order", http.MethodPost, "/orders", order, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	fail := func(status int, problem *apierrors.ProblemDetail, err error) error {
		return &TransportError{Op: op, Method: method, Path: path, StatusCode: status, Problem: problem, Err: err}
	}
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fail(0, nil, fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fail(0, nil, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(RequestIDHeader, c.requestID())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, nil, err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return fail(res.StatusCode, decodeProblem(res), fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fail(res.StatusCode, nil, fmt.Errorf("%w: %w", ErrMalformedBody, err))
	}
	return nil
}

func resourcePath(collection string, id ident.ID) (string, error) {
	if id.IsZero() {
		return "", ident.ErrEmpty
	}
	styled, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id.String())
	if err != nil {
		return "", fmt.Errorf("style id parameter: %w", err)
	}
	return collection + "/" + styled, nil
}

// decodeProblem reads an RFC 7807 body, or the {"error": "..."} shape older
// backends answer with.
func decodeProblem(res *http.Response) *apierrors.ProblemDetail {
	raw, err := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var problem apierrors.ProblemDetail
	if err := json.Unmarshal(raw, &problem); err == nil && (problem.Title != "" || problem.Detail != "") {
		if problem.Status == 0 {
			problem.Status = res.StatusCode
		}
		return &problem
	}
	var legacy struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &legacy); err == nil {
		detail := strings.TrimSpace(legacy.Error)
		if detail == "" {
			detail = strings.TrimSpace(legacy.Message)
		}
		if detail != "" {
			return &apierrors.ProblemDetail{Title: http.StatusText(res.StatusCode), Status: res.StatusCode, Detail: detail}
		}
	}
	return nil
}
