// Package gateway abstracts the external payment provider behind one
// interface. Two provider styles exist: an embedded-session provider
// (hostedpay) where the client renders a payment UI keyed by a session
// token, and a redirect/IFrame provider (phonepe) where the client is sent
// to a gateway-hosted page. Both are interchangeable from the checkout
// core's point of view.
package gateway

import "context"

// PollState is the provider-agnostic payment state. Each concrete client
// maps its provider's state names onto these before anything downstream
// sees them.
type PollState string

const (
	PollPending   PollState = "PENDING"
	PollCompleted PollState = "COMPLETED"
	PollFailed    PollState = "FAILED"
	PollCancelled PollState = "CANCELLED"
)

// CreatePaymentRequest carries only verifier output. A client-supplied
// amount never reaches this struct.
type CreatePaymentRequest struct {
	MerchantOrderRef string
	// AmountMinor is the total in the smallest currency unit.
	AmountMinor int64
	ReturnURL   string
	// Line items let session-style providers render an itemized payment UI.
	Items []SessionLineItem
	// Metadata is echoed back on session retrieval.
	Metadata map[string]string
}

type SessionLineItem struct {
	Name        string
	AmountMinor int64
	Quantity    int
}

// PaymentSession is the result of a successful session/payment creation.
// Exactly one of SessionToken or RedirectURL is set depending on the
// provider style.
type PaymentSession struct {
	SessionToken string
	RedirectURL  string
}

// PollResult is the outcome of a status poll.
type PollResult struct {
	State PollState
	// TxnRef is the gateway-assigned transaction reference, distinct from
	// the merchant order reference. May be empty while PENDING.
	TxnRef string
}

// SessionResult is the outcome of re-verifying an embedded session directly
// against the gateway. Paid is only true when the gateway itself reports the
// session complete and paid; a client-asserted success is never enough.
type SessionResult struct {
	Paid        bool
	AmountMinor int64
	TxnRef      string
	Metadata    map[string]string
}

// PaymentGateway is the uniform adapter over a payment provider. Constructed
// per process with explicit configuration; implementations hold no global
// state.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (PaymentSession, error)
	PollStatus(ctx context.Context, merchantOrderRef string) (PollResult, error)
	VerifySession(ctx context.Context, sessionID string) (SessionResult, error)
}
