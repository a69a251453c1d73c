package khalti

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://dev.khalti.com/api/v2"

// ErrGateway marks failures of the payment provider itself, as opposed to
// bad input on our side.
var ErrGateway = errors.New("khalti gateway error")

type Client struct {
	BaseURL   string
	SecretKey string
	HTTP      *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		HTTP:      &http.Client{Timeout: 15 * time.Second},
	}
}

type InitiateRequest struct {
	ReturnURL         string         `json:"return_url"`
	WebsiteURL        string         `json:"website_url"`
	Amount            int64          `json:"amount"`
	PurchaseOrderID   string         `json:"purchase_order_id"`
	PurchaseOrderName string         `json:"purchase_order_name"`
	CustomerInfo      map[string]any `json:"customer_info,omitempty"`
}

// Initiate starts an e-payment flow. Amount is in paisa (minor units).
func (c *Client) Initiate(ctx context.Context, req InitiateRequest) (map[string]any, error) {
	if c.SecretKey == "" {
		return nil, fmt.Errorf("%w: secret key is not configured", ErrGateway)
	}
	return c.post(ctx, "/epayment/initiate/", req)
}

// Lookup fetches the provider's view of a transaction by its pidx.
func (c *Client) Lookup(ctx context.Context, pidx string) (map[string]any, error) {
	return c.post(ctx, "/epayment/lookup/", map[string]string{"pidx": pidx})
}

func (c *Client) post(ctx context.Context, path string, body any) (map[string]any, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.SecretKey != "" {
		req.Header.Set("Authorization", "Key "+c.SecretKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrGateway, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s: %s", ErrGateway, resp.Status, truncate(raw, 512))
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrGateway, err)
	}
	return out, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
