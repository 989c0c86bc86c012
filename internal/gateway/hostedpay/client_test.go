package hostedpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanchitg17/Thrift-Marketplace/internal/gateway"
	"github.com/sanchitg17/Thrift-Marketplace/pkg/logging"
)

func newTestServer(t *testing.T, sessions map[string]sessionResponse) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/checkout/sessions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		var req createSessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.MerchantOrderRef)
		json.NewEncoder(w).Encode(sessionResponse{
			ID:               "cs_1",
			ClientSecret:     "cs_1_secret",
			Status:           "open",
			MerchantOrderRef: req.MerchantOrderRef,
			Metadata:         req.Metadata,
		})
	})
	mux.HandleFunc("GET /v1/checkout/sessions/lookup", func(w http.ResponseWriter, r *http.Request) {
		ref := r.URL.Query().Get("merchant_order_ref")
		for _, sess := range sessions {
			if sess.MerchantOrderRef == ref {
				json.NewEncoder(w).Encode(sess)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(sessionResponse{Error: "no such session"})
	})
	mux.HandleFunc("GET /v1/checkout/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := sessions[r.PathValue("id")]; ok {
			json.NewEncoder(w).Encode(sess)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(sessionResponse{Error: "no such session"})
	})
	return httptest.NewServer(mux)
}

func TestCreatePaymentReturnsClientSecret(t *testing.T) {
	srv := newTestServer(t, nil)
	defer srv.Close()
	c := NewClient(logging.New(), Config{BaseURL: srv.URL, SecretKey: "sk_test"})

	session, err := c.CreatePayment(context.Background(), gateway.CreatePaymentRequest{
		MerchantOrderRef: "m-1",
		AmountMinor:      100000,
		Items:            []gateway.SessionLineItem{{Name: "Denim Jacket", AmountMinor: 50000, Quantity: 2}},
		Metadata:         map[string]string{"merchant_order_ref": "m-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_1_secret", session.SessionToken)
	assert.Empty(t, session.RedirectURL)
}

func TestVerifySessionOnlyPaidCompleteCounts(t *testing.T) {
	sessions := map[string]sessionResponse{
		"cs_paid": {
			ID: "cs_paid", Status: "complete", PaymentStatus: "paid",
			AmountTotal: 100000, PaymentIntent: "pi_7",
			Metadata: map[string]string{"merchant_order_ref": "m-1"},
		},
		"cs_open":   {ID: "cs_open", Status: "open", PaymentStatus: "unpaid"},
		"cs_unpaid": {ID: "cs_unpaid", Status: "complete", PaymentStatus: "unpaid"},
	}
	srv := newTestServer(t, sessions)
	defer srv.Close()
	c := NewClient(logging.New(), Config{BaseURL: srv.URL, SecretKey: "sk_test"})

	result, err := c.VerifySession(context.Background(), "cs_paid")
	require.NoError(t, err)
	assert.True(t, result.Paid)
	assert.Equal(t, int64(100000), result.AmountMinor)
	assert.Equal(t, "pi_7", result.TxnRef)
	assert.Equal(t, "m-1", result.Metadata["merchant_order_ref"])

	for _, id := range []string{"cs_open", "cs_unpaid"} {
		result, err := c.VerifySession(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, result.Paid, id)
	}

	_, err = c.VerifySession(context.Background(), "cs_ghost")
	assert.ErrorIs(t, err, gateway.ErrUnavailable)
}

func TestPollStatusMapsSessionStates(t *testing.T) {
	sessions := map[string]sessionResponse{
		"a": {ID: "a", MerchantOrderRef: "m-paid", Status: "complete", PaymentStatus: "paid", PaymentIntent: "pi_1"},
		"b": {ID: "b", MerchantOrderRef: "m-expired", Status: "expired"},
		"c": {ID: "c", MerchantOrderRef: "m-failed", Status: "open", PaymentStatus: "failed"},
		"d": {ID: "d", MerchantOrderRef: "m-open", Status: "open", PaymentStatus: "unpaid"},
	}
	srv := newTestServer(t, sessions)
	defer srv.Close()
	c := NewClient(logging.New(), Config{BaseURL: srv.URL, SecretKey: "sk_test"})

	cases := map[string]gateway.PollState{
		"m-paid":    gateway.PollCompleted,
		"m-expired": gateway.PollCancelled,
		"m-failed":  gateway.PollFailed,
		"m-open":    gateway.PollPending,
	}
	for ref, want := range cases {
		result, err := c.PollStatus(context.Background(), ref)
		require.NoError(t, err, ref)
		assert.Equal(t, want, result.State, ref)
	}
}
