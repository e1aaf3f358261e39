// Package fbr talks to the tax authority's invoice-reporting HTTP API.
// The authority is a fallible remote service with an error taxonomy opaque to
// this backend: every outcome is reduced to success (authority invoice number
// + QR payload) or failure (error detail), and callers record both verbatim.
package fbr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// InvoicePayload is the request body posted to the authority for one sale.
type InvoicePayload struct {
	InvoiceNumber string          `json:"invoice_number"`
	POSID         string          `json:"pos_id"`
	USIN          string          `json:"usin"`
	BuyerNTN      string          `json:"buyer_ntn,omitempty"`
	BuyerName     string          `json:"buyer_name,omitempty"`
	InvoiceDate   string          `json:"invoice_date"`
	InvoiceType   string          `json:"invoice_type"`
	SaleTypeCode  string          `json:"sale_type_code"`
	SellerNTN     string          `json:"seller_ntn"`
	SellerSTRN    string          `json:"seller_strn"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	Items         []ItemPayload   `json:"items"`
}

// ItemPayload is one invoice line as reported to the authority.
type ItemPayload struct {
	ProductCode     string          `json:"product_code"`
	HSCode          string          `json:"hs_code,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	ValueExclTax    decimal.Decimal `json:"value_excl_tax"`
	SalesTax        decimal.Decimal `json:"sales_tax"`
	Discount        decimal.Decimal `json:"discount"`
	SROItemSerialNo string          `json:"sro_item_serial_no,omitempty"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// Response is the authority's reply to an invoice submission.
type Response struct {
	Status        string          `json:"status"`
	Message       string          `json:"message"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	QRCode        string          `json:"qr_code,omitempty"`
	ErrorDetails  json.RawMessage `json:"error_details,omitempty"`
}

// OK reports whether the authority accepted the invoice.
func (r *Response) OK() bool {
	return r.Status == "success" || r.Status == "00"
}

// Submitter submits one invoice payload. *Client implements it; tests use
// fakes.
type Submitter interface {
	Submit(ctx context.Context, payload *InvoicePayload) (*Response, error)
}

// Client posts invoice payloads with bounded retries, exponential backoff,
// and a consecutive-failure circuit breaker so an unavailable authority
// endpoint is not hammered on every sale.
type Client struct {
	endpoint   string
	token      string
	http       *http.Client
	maxRetries int
	retryBase  time.Duration
	breaker    *breaker
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetries sets the retry budget and base backoff delay.
func WithRetries(max int, base time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBase = base
	}
}

// WithBreaker sets the consecutive-failure threshold and open-state cooldown.
func WithBreaker(threshold int, cooldown time.Duration) Option {
	return func(c *Client) { c.breaker = newBreaker(threshold, cooldown) }
}

// NewClient builds a client for the given endpoint. Token may be empty for
// sandbox endpoints.
func NewClient(endpoint, token string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		token:      token,
		http:       &http.Client{Timeout: 15 * time.Second},
		maxRetries: 3,
		retryBase:  500 * time.Millisecond,
		breaker:    newBreaker(5, 30*time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromEnv builds a client from FBR_* environment variables, or
// returns nil when FBR_API_URL is unset (stub mode: sync requests are
// recorded but nothing is submitted).
func NewClientFromEnv() *Client {
	endpoint := os.Getenv("FBR_API_URL")
	if endpoint == "" {
		return nil
	}
	return NewClient(endpoint, os.Getenv("FBR_API_TOKEN"),
		WithRetries(envInt("FBR_MAX_RETRIES", 3), time.Duration(envInt("FBR_RETRY_BASE_MS", 500))*time.Millisecond),
		WithBreaker(envInt("FBR_BREAKER_THRESHOLD", 5), time.Duration(envInt("FBR_BREAKER_COOLDOWN_SECONDS", 30))*time.Second),
	)
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Endpoint returns the configured authority URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Submit posts the payload, retrying transient failures with exponential
// backoff. A response parsed from the authority is returned even when it
// reports rejection; transport-level exhaustion returns an error.
func (c *Client) Submit(ctx context.Context, payload *InvoicePayload) (*Response, error) {
	if !c.breaker.allow() {
		return nil, fmt.Errorf("fbr endpoint circuit open, submission rejected")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal fbr payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryBase << (attempt - 1)
			select {
			case <-ctx.Done():
				c.breaker.failure()
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := c.post(ctx, body)
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt+1).Msg("fbr submission attempt failed")
			continue
		}
		c.breaker.success()
		return resp, nil
	}

	c.breaker.failure()
	return nil, fmt.Errorf("fbr submission exhausted %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) post(ctx context.Context, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 500 {
		return nil, fmt.Errorf("fbr endpoint returned %d", res.StatusCode)
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode fbr response: %w", err)
	}
	return &out, nil
}
