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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"sellerconsole/internal/domain"
)

const (
	productsPath     = "/product/get-products"
	verifySellerPath = "/admin/verify-seller"
	ordersPath       = "/get-orders"

	loggedIn = "loggedin"
)

// StatusError reports a non-2xx answer from the backend.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s: unexpected status %d", e.Endpoint, e.Code)
}

// Client talks to one backend host. Products and orders may live on
// different hosts, so callers usually hold two clients.
type Client struct {
	baseURL string
	client  *http.Client

	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	meter := otel.Meter("sellerconsole/backend")
	requests, _ := meter.Int64Counter("backend.requests",
		metric.WithDescription("Calls made to the commerce backend"))
	duration, _ := meter.Float64Histogram("backend.request.duration",
		metric.WithDescription("Backend call latency"), metric.WithUnit("s"))
	return &Client{baseURL: baseURL, client: client, requests: requests, duration: duration}
}

// NewHTTPClient returns an http.Client whose transport emits client spans.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

type productsResponse struct {
	Products []domain.Product `json:"products"`
}

type ordersResponse struct {
	Orders []domain.Order `json:"orders"`
}

type verifyRequest struct {
	SellerID string `json:"sellerId"`
}

type verifyResponse struct {
	LoggedIn string `json:"loggedIn"`
}

// Products fetches the full product list.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var out productsResponse
	if err := c.do(ctx, http.MethodGet, productsPath, nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// Orders fetches the full order list. The status field is returned as sent;
// callers decide what to do with it.
func (c *Client) Orders(ctx context.Context) ([]domain.Order, error) {
	var out ordersResponse
	if err := c.do(ctx, http.MethodGet, ordersPath, nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// VerifySeller reports whether the backend considers sellerID logged in.
func (c *Client) VerifySeller(ctx context.Context, sellerID string) (bool, error) {
	var out verifyResponse
	if err := c.do(ctx, http.MethodPost, verifySellerPath, verifyRequest{SellerID: sellerID}, &out); err != nil {
		return false, err
	}
	return out.LoggedIn == loggedIn, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) (err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		var se *StatusError
		switch {
		case errors.As(err, &se):
			outcome = "status"
		case err != nil:
			outcome = "error"
		}
		attrs := metric.WithAttributes(
			attribute.String("endpoint", path),
			attribute.String("outcome", outcome),
		)
		c.requests.Add(ctx, 1, attrs)
		c.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	}()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Endpoint: path, Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend %s: decode: %w", path, err)
	}
	return nil
}
