package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/sanchitg17/Thrift-Marketplace/internal/catalog/domain"
	"github.com/sanchitg17/Thrift-Marketplace/internal/checkout/domain"
	"github.com/sanchitg17/Thrift-Marketplace/internal/gateway"
	"github.com/sanchitg17/Thrift-Marketplace/pkg/logging"
)

func newCheckout(t *testing.T, catalog *fakeCatalog, gw *fakeGateway) (*Service, *memLedger) {
	t.Helper()
	log := logging.New()
	ledger := newMemLedger()
	engine := NewEngine(log, ledger)
	svc := NewService(log, ledger, newMemCarts(), NewVerifier(catalog), gw, engine,
		"http://localhost:3000/ConfirmationPage")
	return svc, ledger
}

func validCustomer() domain.Customer {
	return domain.Customer{Name: "Asha", Email: "asha@example.com", Phone: "9800000000", ShippingAddress: "12 Hill Rd, Pune"}
}

func TestInitiateIgnoresForgedClientPrice(t *testing.T) {
	catalog := newFakeCatalog(catalogdomain.Product{ID: "p1", Name: "Denim Jacket", Price: 500, Quantity: 5})
	gw := &fakeGateway{session: gateway.PaymentSession{RedirectURL: "https://pay.example/abc"}}
	svc, ledger := newCheckout(t, catalog, gw)

	// Client claims the jacket costs 1. The snapshot type cannot even carry
	// the claim, and the ledger ends up with the server total.
	result, err := svc.Initiate(context.Background(), "u1", domain.CartSnapshot{
		StoreID: "s1",
		Items:   []domain.CartItem{{ProductID: "p1", Quantity: 2}},
	}, validCustomer())
	require.NoError(t, err)
	require.NotEmpty(t, result.MerchantOrderRef)
	assert.Equal(t, "https://pay.example/abc", result.RedirectURL)

	order, ok := ledger.snapshot(result.MerchantOrderRef)
	require.True(t, ok)
	assert.Equal(t, 1000.0, order.TotalAmount)
	assert.Equal(t, domain.StatusPending, order.Status)

	// The gateway saw minor units of the server total.
	require.Len(t, gw.createCalls, 1)
	assert.Equal(t, int64(100000), gw.createCalls[0].AmountMinor)
	assert.Equal(t, result.MerchantOrderRef, gw.createCalls[0].MerchantOrderRef)
}

func TestInitiateInsufficientStockMakesNoGatewayCall(t *testing.T) {
	catalog := newFakeCatalog(catalogdomain.Product{ID: "p1", Name: "Wool Coat", Price: 750, Quantity: 1})
	gw := &fakeGateway{}
	svc, ledger := newCheckout(t, catalog, gw)

	_, err := svc.Initiate(context.Background(), "u1", domain.CartSnapshot{
		StoreID: "s1",
		Items:   []domain.CartItem{{ProductID: "p1", Quantity: 2}},
	}, validCustomer())
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, gw.createCalls)
	assert.Empty(t, ledger.orders)
}

func TestInitiateGatewayDownLeavesNoOrder(t *testing.T) {
	catalog := newFakeCatalog(catalogdomain.Product{ID: "p1", Name: "Boots", Price: 90, Quantity: 4})
	gw := &fakeGateway{createErr: gateway.ErrUnavailable}
	svc, ledger := newCheckout(t, catalog, gw)

	_, err := svc.Initiate(context.Background(), "u1", domain.CartSnapshot{
		StoreID: "s1",
		Items:   []domain.CartItem{{ProductID: "p1", Quantity: 1}},
	}, validCustomer())
	assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
	assert.Empty(t, ledger.orders)
}

func TestInitiateValidatesCustomer(t *testing.T) {
	catalog := newFakeCatalog(catalogdomain.Product{ID: "p1", Name: "Boots", Price: 90, Quantity: 4})
	svc, _ := newCheckout(t, catalog, &fakeGateway{})

	for _, customer := range []domain.Customer{
		{Email: "asha@example.com", ShippingAddress: "12 Hill Rd"},
		{Name: "Asha", Email: "not-an-email", ShippingAddress: "12 Hill Rd"},
		{Name: "Asha", Email: "asha@example.com"},
	} {
		_, err := svc.Initiate(context.Background(), "u1", domain.CartSnapshot{
			Items: []domain.CartItem{{ProductID: "p1", Quantity: 1}},
		}, customer)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestIdempotentCreationPerMerchantRef(t *testing.T) {
	ledger := newMemLedger()
	order := pendingOrder("m1")
	require.NoError(t, ledger.CreateWithOutbox(context.Background(), order, "OrderCreated", nil))

	// A retried persist of the same reference does not create a second
	// record or a second event.
	retry := order
	retry.ID = "different-internal-id"
	require.NoError(t, ledger.CreateWithOutbox(context.Background(), retry, "OrderCreated", nil))

	assert.Len(t, ledger.orders, 1)
	assert.Equal(t, []string{"OrderCreated"}, ledger.events)
	got, _ := ledger.snapshot("m1")
	assert.Equal(t, order.ID, got.ID)
}

func TestStatusMergesPollWithStoredOrder(t *testing.T) {
	catalog := newFakeCatalog(catalogdomain.Product{ID: "p1", Name: "Denim Jacket", Price: 500, Quantity: 5})
	gw := &fakeGateway{
		session:    gateway.PaymentSession{RedirectURL: "https://pay.example/abc"},
		pollResult: gateway.PollResult{State: gateway.PollCompleted, TxnRef: "txn-1"},
	}
	svc, ledger := newCheckout(t, catalog, gw)

	result, err := svc.Initiate(context.Background(), "u1", domain.CartSnapshot{
		StoreID: "s1",
		Items:   []domain.CartItem{{ProductID: "p1", Quantity: 2}},
	}, validCustomer())
	require.NoError(t, err)

	view, err := svc.Status(context.Background(), result.MerchantOrderRef)
	require.NoError(t, err)
	assert.Equal(t, gateway.PollCompleted, view.GatewayState)
	assert.Equal(t, domain.StatusPaid, view.Status)
	assert.Equal(t, 1000.0, view.TotalAmount)
	assert.Equal(t, "Asha", view.CustomerName)

	order, _ := ledger.snapshot(result.MerchantOrderRef)
	assert.Equal(t, domain.StatusPaid, order.Status)
}

func TestStatusPollFailureDegradesToStoredState(t *testing.T) {
	catalog := newFakeCatalog(catalogdomain.Product{ID: "p1", Name: "Denim Jacket", Price: 500, Quantity: 5})
	gw := &fakeGateway{
		session: gateway.PaymentSession{RedirectURL: "https://pay.example/abc"},
		pollErr: gateway.ErrUnavailable,
	}
	svc, _ := newCheckout(t, catalog, gw)

	result, err := svc.Initiate(context.Background(), "u1", domain.CartSnapshot{
		StoreID: "s1",
		Items:   []domain.CartItem{{ProductID: "p1", Quantity: 1}},
	}, validCustomer())
	require.NoError(t, err)

	view, err := svc.Status(context.Background(), result.MerchantOrderRef)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, view.Status)
	assert.Equal(t, gateway.PollPending, view.GatewayState)
}

func TestStatusUnknownReference(t *testing.T) {
	svc, _ := newCheckout(t, newFakeCatalog(), &fakeGateway{})

	_, err := svc.Status(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestConfirmSessionPromotesPendingOrder(t *testing.T) {
	catalog := newFakeCatalog(catalogdomain.Product{ID: "p1", Name: "Denim Jacket", Price: 500, Quantity: 5})
	gw := &fakeGateway{session: gateway.PaymentSession{SessionToken: "cs_123"}}
	svc, _ := newCheckout(t, catalog, gw)

	result, err := svc.Initiate(context.Background(), "u1", domain.CartSnapshot{
		StoreID: "s1",
		Items:   []domain.CartItem{{ProductID: "p1", Quantity: 2}},
	}, validCustomer())
	require.NoError(t, err)

	gw.sessionResult = gateway.SessionResult{
		Paid:        true,
		AmountMinor: 100000,
		TxnRef:      "pi_42",
		Metadata:    map[string]string{"merchant_order_ref": result.MerchantOrderRef},
	}

	order, err := svc.ConfirmSession(context.Background(), "cs_123")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, order.Status)
	assert.Equal(t, "pi_42", order.GatewayTxnRef)

	// Confirming twice returns the same settled order.
	again, err := svc.ConfirmSession(context.Background(), "cs_123")
	require.NoError(t, err)
	assert.Equal(t, order.ID, again.ID)
	assert.Equal(t, domain.StatusPaid, again.Status)
}

func TestConfirmSessionRejectsUnpaidSession(t *testing.T) {
	gw := &fakeGateway{sessionResult: gateway.SessionResult{Paid: false}}
	svc, _ := newCheckout(t, newFakeCatalog(), gw)

	_, err := svc.ConfirmSession(context.Background(), "cs_123")
	assert.ErrorIs(t, err, domain.ErrPaymentNotVerified)

	_, err = svc.ConfirmSession(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
