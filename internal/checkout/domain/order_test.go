package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinorUnits(t *testing.T) {
	cases := map[float64]int64{
		0:       0,
		1:       100,
		500:     50000,
		1000:    100000,
		19.99:   1999,
		0.1:     10,
		1234.56: 123456,
		// 29.985 would truncate to 2998 through a naive int64 cast.
		29.985: 2999,
	}
	for amount, want := range cases {
		assert.Equal(t, want, MinorUnits(amount), "%v", amount)
	}
}

func TestNewOrderTotalsFromLineItems(t *testing.T) {
	items := []LineItem{
		{ProductID: "p1", Name: "Denim Jacket", Price: 500, Quantity: 2},
		{ProductID: "p2", Name: "Boots", Price: 19.99, Quantity: 1},
	}
	o := NewOrder("o-1", "m-1", "u1", CartSnapshot{StoreID: "s1", StoreName: "Vintage Vault"}, items,
		Customer{Name: "Asha", Email: "asha@example.com"})

	assert.InDelta(t, 1019.99, o.TotalAmount, 1e-9)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, "s1", o.StoreID)
	assert.Equal(t, "Vintage Vault", o.StoreName)
	assert.Equal(t, "m-1", o.MerchantOrderRef)
	assert.False(t, o.CreatedAt.IsZero())
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	for _, s := range []OrderStatus{StatusPaid, StatusFailed, StatusCancelled, StatusShipped, StatusDelivered} {
		assert.True(t, s.Terminal(), string(s))
	}
}
