// Package phonepe implements the redirect/IFrame payment provider. The
// provider exchanges client credentials for a short-lived bearer token on
// every call, creates a hosted payment page per merchant order, and exposes
// an order-status endpoint for polling. Completion is additionally pushed
// via an authenticated webhook handled by the checkout HTTP layer.
package phonepe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sanchitg17/Thrift-Marketplace/internal/gateway"
)

type Config struct {
	AuthURL       string
	PayURL        string
	StatusURL     string
	ClientID      string
	ClientVersion string
	ClientSecret  string
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
		cfg:  cfg,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Message     string `json:"message"`
}

// authenticate exchanges the configured client credentials for a bearer
// token. Tokens are short-lived and fetched fresh per call; nothing is
// cached across requests.
func (c *Client) authenticate(ctx context.Context) (string, error) {
	form := url.Values{
		"client_id":      {c.cfg.ClientID},
		"client_version": {c.cfg.ClientVersion},
		"client_secret":  {c.cfg.ClientSecret},
		"grant_type":     {"client_credentials"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("%w: decode token: %v", gateway.ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK || tok.AccessToken == "" {
		msg := tok.Message
		if msg == "" {
			msg = resp.Status
		}
		return "", fmt.Errorf("%w: %s", gateway.ErrUnavailable, msg)
	}
	return tok.AccessToken, nil
}

type payRequest struct {
	MerchantOrderID string      `json:"merchantOrderId"`
	Amount          int64       `json:"amount"`
	PaymentFlow     paymentFlow `json:"paymentFlow"`
}

type paymentFlow struct {
	Type         string       `json:"type"`
	MerchantURLs merchantURLs `json:"merchantUrls"`
}

type merchantURLs struct {
	RedirectURL string `json:"redirectUrl"`
}

type payResponse struct {
	OrderID     string `json:"orderId"`
	State       string `json:"state"`
	RedirectURL string `json:"redirectUrl"`
	Message     string `json:"message"`
}

func (c *Client) CreatePayment(ctx context.Context, req gateway.CreatePaymentRequest) (gateway.PaymentSession, error) {
	token, err := c.authenticate(ctx)
	if err != nil {
		return gateway.PaymentSession{}, err
	}

	body, err := json.Marshal(payRequest{
		MerchantOrderID: req.MerchantOrderRef,
		Amount:          req.AmountMinor,
		PaymentFlow: paymentFlow{
			Type:         "PG_CHECKOUT",
			MerchantURLs: merchantURLs{RedirectURL: req.ReturnURL},
		},
	})
	if err != nil {
		return gateway.PaymentSession{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.PayURL, strings.NewReader(string(body)))
	if err != nil {
		return gateway.PaymentSession{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "O-Bearer "+token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return gateway.PaymentSession{}, fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var pay payResponse
	if err := json.NewDecoder(resp.Body).Decode(&pay); err != nil {
		return gateway.PaymentSession{}, fmt.Errorf("%w: decode pay response: %v", gateway.ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK || pay.RedirectURL == "" {
		c.log.Error("payment creation rejected",
			"merchant_order_ref", req.MerchantOrderRef, "status", resp.StatusCode, "message", pay.Message)
		return gateway.PaymentSession{}, fmt.Errorf("%w: %s", gateway.ErrUnavailable, pay.Message)
	}
	return gateway.PaymentSession{RedirectURL: pay.RedirectURL}, nil
}

type statusResponse struct {
	OrderID string `json:"orderId"`
	// Only the root-level state is trusted; nested payment attempt details
	// may lag behind it.
	State string `json:"state"`
}

func (c *Client) PollStatus(ctx context.Context, merchantOrderRef string) (gateway.PollResult, error) {
	token, err := c.authenticate(ctx)
	if err != nil {
		return gateway.PollResult{}, err
	}

	statusURL := fmt.Sprintf("%s/%s/status?details=false", strings.TrimRight(c.cfg.StatusURL, "/"), url.PathEscape(merchantOrderRef))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return gateway.PollResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "O-Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return gateway.PollResult{}, fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return gateway.PollResult{}, fmt.Errorf("%w: status %d: %s", gateway.ErrUnavailable, resp.StatusCode, string(b))
	}

	var st statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return gateway.PollResult{}, fmt.Errorf("%w: decode status: %v", gateway.ErrUnavailable, err)
	}
	return gateway.PollResult{State: MapState(st.State), TxnRef: st.OrderID}, nil
}

// VerifySession is not supported: this provider has no embedded session,
// completion arrives via redirect, poll, or webhook.
func (c *Client) VerifySession(ctx context.Context, sessionID string) (gateway.SessionResult, error) {
	return gateway.SessionResult{}, gateway.ErrSessionUnsupported
}

// MapState translates provider state names onto the provider-agnostic poll
// states. Unknown states are treated as pending so a new provider state can
// never corrupt an order.
func MapState(state string) gateway.PollState {
	switch state {
	case "COMPLETED":
		return gateway.PollCompleted
	case "FAILED":
		return gateway.PollFailed
	case "USER_CANCEL", "CANCELLED":
		return gateway.PollCancelled
	default:
		return gateway.PollPending
	}
}
