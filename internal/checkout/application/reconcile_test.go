package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanchitg17/Thrift-Marketplace/internal/checkout/domain"
	"github.com/sanchitg17/Thrift-Marketplace/internal/gateway"
	"github.com/sanchitg17/Thrift-Marketplace/pkg/logging"
)

func pendingOrder(ref string) domain.Order {
	return domain.NewOrder("o-"+ref, ref, "u1",
		domain.CartSnapshot{StoreID: "s1", StoreName: "Attic Finds"},
		[]domain.LineItem{{ProductID: "p1", Name: "Denim Jacket", Price: 500, Quantity: 2}},
		domain.Customer{Name: "Asha", Email: "asha@example.com", ShippingAddress: "12 Hill Rd"})
}

func TestApplyCompletedTransitionsOnce(t *testing.T) {
	ledger := newMemLedger()
	require.NoError(t, ledger.CreateWithOutbox(context.Background(), pendingOrder("m1"), "OrderCreated", nil))
	engine := NewEngine(logging.New(), ledger)

	status, transitioned, err := engine.Apply(context.Background(), "m1", gateway.PollCompleted, "txn-9")
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.Equal(t, domain.StatusPaid, status)

	o, _ := ledger.snapshot("m1")
	assert.Equal(t, "txn-9", o.GatewayTxnRef)

	// Duplicate delivery is a no-op.
	status, transitioned, err = engine.Apply(context.Background(), "m1", gateway.PollCompleted, "txn-9")
	require.NoError(t, err)
	assert.False(t, transitioned)
	assert.Equal(t, domain.StatusPaid, status)
}

func TestApplyPendingIsReadOnly(t *testing.T) {
	ledger := newMemLedger()
	require.NoError(t, ledger.CreateWithOutbox(context.Background(), pendingOrder("m1"), "OrderCreated", nil))
	engine := NewEngine(logging.New(), ledger)

	status, transitioned, err := engine.Apply(context.Background(), "m1", gateway.PollPending, "")
	require.NoError(t, err)
	assert.False(t, transitioned)
	assert.Equal(t, domain.StatusPending, status)
}

func TestApplyNeverDowngradesPaid(t *testing.T) {
	ledger := newMemLedger()
	require.NoError(t, ledger.CreateWithOutbox(context.Background(), pendingOrder("m1"), "OrderCreated", nil))
	engine := NewEngine(logging.New(), ledger)

	_, _, err := engine.Apply(context.Background(), "m1", gateway.PollCompleted, "txn-1")
	require.NoError(t, err)

	// A stale failure signal arriving after settlement changes nothing.
	status, transitioned, err := engine.Apply(context.Background(), "m1", gateway.PollFailed, "")
	require.NoError(t, err)
	assert.False(t, transitioned)
	assert.Equal(t, domain.StatusPaid, status)

	o, _ := ledger.snapshot("m1")
	assert.Equal(t, domain.StatusPaid, o.Status)
	assert.Equal(t, 1000.0, o.TotalAmount)
	assert.Len(t, o.Items, 1)
}

func TestApplyLateCompletedAfterCancelIsIgnored(t *testing.T) {
	ledger := newMemLedger()
	require.NoError(t, ledger.CreateWithOutbox(context.Background(), pendingOrder("m1"), "OrderCreated", nil))
	engine := NewEngine(logging.New(), ledger)

	_, _, err := engine.Apply(context.Background(), "m1", gateway.PollCancelled, "")
	require.NoError(t, err)

	status, transitioned, err := engine.Apply(context.Background(), "m1", gateway.PollCompleted, "txn-late")
	require.NoError(t, err)
	assert.False(t, transitioned)
	assert.Equal(t, domain.StatusCancelled, status)
}

func TestApplyFailedAndCancelled(t *testing.T) {
	for _, tc := range []struct {
		state gateway.PollState
		want  domain.OrderStatus
	}{
		{gateway.PollFailed, domain.StatusFailed},
		{gateway.PollCancelled, domain.StatusCancelled},
	} {
		ledger := newMemLedger()
		require.NoError(t, ledger.CreateWithOutbox(context.Background(), pendingOrder("m1"), "OrderCreated", nil))
		engine := NewEngine(logging.New(), ledger)

		status, transitioned, err := engine.Apply(context.Background(), "m1", tc.state, "")
		require.NoError(t, err)
		assert.True(t, transitioned)
		assert.Equal(t, tc.want, status)
	}
}

func TestApplyUnknownReference(t *testing.T) {
	engine := NewEngine(logging.New(), newMemLedger())

	_, _, err := engine.Apply(context.Background(), "ghost", gateway.PollCompleted, "")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	// The webhook path swallows it.
	engine.ApplyWebhook(context.Background(), "ghost", gateway.PollCompleted, "")
}
