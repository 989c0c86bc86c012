package http

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// WebhookAuthenticator validates the gateway's push credential. The gateway
// sends SHA256("username:password") of the dashboard-configured pair in the
// Authorization header; anything else is rejected before the payload is
// even parsed.
type WebhookAuthenticator struct {
	expected string
}

func NewWebhookAuthenticator(username, password string) *WebhookAuthenticator {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s:%s", username, password))
	return &WebhookAuthenticator{expected: hex.EncodeToString(sum[:])}
}

func (a *WebhookAuthenticator) Authorize(header string) bool {
	return subtle.ConstantTimeCompare([]byte(header), []byte(a.expected)) == 1
}
