package application

import (
	"context"
	"sync"

	"github.com/sanchitg17/Thrift-Marketplace/internal/checkout/domain"
	"github.com/sanchitg17/Thrift-Marketplace/internal/gateway"
)

// memLedger mirrors the postgres repository's semantics: creation is
// idempotent on the merchant reference and status updates are guarded on
// the current status.
type memLedger struct {
	mu     sync.Mutex
	orders map[string]domain.Order
	events []string
}

func newMemLedger() *memLedger {
	return &memLedger{orders: map[string]domain.Order{}}
}

func (m *memLedger) CreateWithOutbox(_ context.Context, o domain.Order, eventType string, _ []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.orders[o.MerchantOrderRef]; exists {
		return nil
	}
	m.orders[o.MerchantOrderRef] = o
	m.events = append(m.events, eventType)
	return nil
}

func (m *memLedger) GetByMerchantRef(_ context.Context, ref string) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[ref]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

func (m *memLedger) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memLedger) UpdateStatusWithOutbox(_ context.Context, ref string, from, to domain.OrderStatus, txnRef string, eventType string, _ []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[ref]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	if txnRef != "" {
		o.GatewayTxnRef = txnRef
	}
	m.orders[ref] = o
	m.events = append(m.events, eventType)
	return true, nil
}

func (m *memLedger) snapshot(ref string) (domain.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[ref]
	return o, ok
}

type memCarts struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

func newMemCarts() *memCarts {
	return &memCarts{carts: map[string]domain.Cart{}}
}

func (m *memCarts) Get(_ context.Context, userID string) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[userID]
	if !ok {
		return domain.Cart{UserID: userID}, nil
	}
	return cart, nil
}

func (m *memCarts) Upsert(_ context.Context, cart domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cart.UserID] = cart
	return nil
}

// fakeGateway records calls and serves scripted results.
type fakeGateway struct {
	mu            sync.Mutex
	createCalls   []gateway.CreatePaymentRequest
	createErr     error
	session       gateway.PaymentSession
	pollResult    gateway.PollResult
	pollErr       error
	sessionResult gateway.SessionResult
	sessionErr    error
}

func (f *fakeGateway) CreatePayment(_ context.Context, req gateway.CreatePaymentRequest) (gateway.PaymentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, req)
	if f.createErr != nil {
		return gateway.PaymentSession{}, f.createErr
	}
	return f.session, nil
}

func (f *fakeGateway) PollStatus(_ context.Context, _ string) (gateway.PollResult, error) {
	if f.pollErr != nil {
		return gateway.PollResult{}, f.pollErr
	}
	return f.pollResult, nil
}

func (f *fakeGateway) VerifySession(_ context.Context, _ string) (gateway.SessionResult, error) {
	if f.sessionErr != nil {
		return gateway.SessionResult{}, f.sessionErr
	}
	return f.sessionResult, nil
}
