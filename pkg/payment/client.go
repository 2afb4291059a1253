package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the checkout-session provider's REST API. Checkout and
// billing UI live entirely on the provider side; we only create sessions and
// consume webhooks.
type Client struct {
	BaseURL   string
	SecretKey string
	client    *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	if baseURL == "" {
		baseURL = "https://api.payprovider.com"
	}
	return &Client{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SessionRequest describes one checkout session. OrderNo travels in session
// metadata and comes back on the checkout.session.completed webhook; it is the
// only correlation between provider state and local orders.
type SessionRequest struct {
	OrderNo       string
	ProductName   string
	AmountCents   int64
	Currency      string
	Interval      string // "one-time" or "month"
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

// SessionResponse is the provider's created-session reply.
type SessionResponse struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	PaymentMode string `json:"mode"`
}

type sessionCreateReq struct {
	Mode          string            `json:"mode"`
	ProductName   string            `json:"product_name"`
	AmountCents   int64             `json:"amount_cents"`
	Currency      string            `json:"currency"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	SuccessURL    string            `json:"success_url"`
	CancelURL     string            `json:"cancel_url"`
	Metadata      map[string]string `json:"metadata"`
}

// CreateSession creates a checkout session and returns its redirect URL.
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (*SessionResponse, error) {
	mode := "payment"
	if req.Interval == "month" {
		mode = "subscription"
	}
	payload := sessionCreateReq{
		Mode:          mode,
		ProductName:   req.ProductName,
		AmountCents:   req.AmountCents,
		Currency:      req.Currency,
		CustomerEmail: req.CustomerEmail,
		SuccessURL:    req.SuccessURL,
		CancelURL:     req.CancelURL,
		Metadata:      map[string]string{"order_no": req.OrderNo},
	}
	body, _ := json.Marshal(payload)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.SecretKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create checkout session: %d %s", resp.StatusCode, string(respBody))
	}
	var out SessionResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	if out.URL == "" {
		return nil, fmt.Errorf("create checkout session: empty redirect url")
	}
	return &out, nil
}
