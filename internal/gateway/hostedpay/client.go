// Package hostedpay implements the embedded-session payment provider. The
// server creates a session from verified line items, the client renders the
// provider's embedded payment UI keyed by the session token, and the session
// is re-verified server-side after the client returns — a client-asserted
// success is never trusted.
package hostedpay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sanchitg17/Thrift-Marketplace/internal/gateway"
)

type Config struct {
	BaseURL   string
	SecretKey string
}

type Client struct {
	log  *slog.Logger
	http *http.Client
	cfg  Config
}

func NewClient(log *slog.Logger, cfg Config) *Client {
	return &Client{
		log:  log,
		http: &http.Client{Timeout: 15 * time.Second},
		cfg:  Config{BaseURL: strings.TrimRight(cfg.BaseURL, "/"), SecretKey: cfg.SecretKey},
	}
}

type sessionLineItem struct {
	Name        string `json:"name"`
	AmountMinor int64  `json:"amount_minor"`
	Quantity    int    `json:"quantity"`
}

type createSessionRequest struct {
	MerchantOrderRef string            `json:"merchant_order_ref"`
	AmountMinor      int64             `json:"amount_minor"`
	LineItems        []sessionLineItem `json:"line_items"`
	ReturnURL        string            `json:"return_url"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

type sessionResponse struct {
	ID               string            `json:"id"`
	ClientSecret     string            `json:"client_secret"`
	Status           string            `json:"status"`
	PaymentStatus    string            `json:"payment_status"`
	AmountTotal      int64             `json:"amount_total"`
	PaymentIntent    string            `json:"payment_intent"`
	MerchantOrderRef string            `json:"merchant_order_ref"`
	Metadata         map[string]string `json:"metadata"`
	Error            string            `json:"error"`
}

func (c *Client) CreatePayment(ctx context.Context, req gateway.CreatePaymentRequest) (gateway.PaymentSession, error) {
	items := make([]sessionLineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, sessionLineItem{Name: it.Name, AmountMinor: it.AmountMinor, Quantity: it.Quantity})
	}

	var sess sessionResponse
	err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", createSessionRequest{
		MerchantOrderRef: req.MerchantOrderRef,
		AmountMinor:      req.AmountMinor,
		LineItems:        items,
		ReturnURL:        req.ReturnURL,
		Metadata:         req.Metadata,
	}, &sess)
	if err != nil {
		return gateway.PaymentSession{}, err
	}
	if sess.ClientSecret == "" {
		return gateway.PaymentSession{}, fmt.Errorf("%w: session created without client secret", gateway.ErrUnavailable)
	}
	return gateway.PaymentSession{SessionToken: sess.ClientSecret}, nil
}

func (c *Client) PollStatus(ctx context.Context, merchantOrderRef string) (gateway.PollResult, error) {
	var sess sessionResponse
	path := "/v1/checkout/sessions/lookup?merchant_order_ref=" + url.QueryEscape(merchantOrderRef)
	if err := c.do(ctx, http.MethodGet, path, nil, &sess); err != nil {
		return gateway.PollResult{}, err
	}
	return gateway.PollResult{State: mapSession(sess), TxnRef: sess.PaymentIntent}, nil
}

func (c *Client) VerifySession(ctx context.Context, sessionID string) (gateway.SessionResult, error) {
	var sess sessionResponse
	if err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(sessionID), nil, &sess); err != nil {
		return gateway.SessionResult{}, err
	}
	return gateway.SessionResult{
		Paid:        sess.Status == "complete" && sess.PaymentStatus == "paid",
		AmountMinor: sess.AmountTotal,
		TxnRef:      sess.PaymentIntent,
		Metadata:    sess.Metadata,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = strings.NewReader(string(b))
	} else {
		reader = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", gateway.ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		if sess, ok := out.(*sessionResponse); ok && sess.Error != "" {
			return fmt.Errorf("%w: %s", gateway.ErrUnavailable, sess.Error)
		}
		return fmt.Errorf("%w: status %d", gateway.ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func mapSession(sess sessionResponse) gateway.PollState {
	switch {
	case sess.Status == "complete" && sess.PaymentStatus == "paid":
		return gateway.PollCompleted
	case sess.Status == "expired":
		return gateway.PollCancelled
	case sess.PaymentStatus == "failed":
		return gateway.PollFailed
	default:
		return gateway.PollPending
	}
}
