package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/sanchitg17/Thrift-Marketplace/internal/catalog/domain"
	"github.com/sanchitg17/Thrift-Marketplace/internal/checkout/domain"
)

type fakeCatalog struct {
	products map[string]catalogdomain.Product
}

func (f *fakeCatalog) ProductByID(_ context.Context, id string) (catalogdomain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return catalogdomain.Product{}, catalogdomain.ErrProductNotFound
	}
	return p, nil
}

func newFakeCatalog(products ...catalogdomain.Product) *fakeCatalog {
	f := &fakeCatalog{products: map[string]catalogdomain.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func TestVerifyUsesServerPrice(t *testing.T) {
	catalog := newFakeCatalog(catalogdomain.Product{ID: "p1", Name: "Denim Jacket", Price: 500, Quantity: 5})
	v := NewVerifier(catalog)

	// The snapshot carries no price at all; whatever the client claimed is
	// already gone by the time it reaches the verifier.
	items, total, err := v.Verify(context.Background(), domain.CartSnapshot{
		StoreID: "s1",
		Items:   []domain.CartItem{{ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 500.0, items[0].Price)
	assert.Equal(t, 1000.0, total)
}

func TestVerifyProductGone(t *testing.T) {
	v := NewVerifier(newFakeCatalog())

	_, _, err := v.Verify(context.Background(), domain.CartSnapshot{
		Items: []domain.CartItem{{ProductID: "missing", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestVerifyInsufficientStock(t *testing.T) {
	catalog := newFakeCatalog(catalogdomain.Product{ID: "p1", Name: "Wool Coat", Price: 750, Quantity: 1})
	v := NewVerifier(catalog)

	_, _, err := v.Verify(context.Background(), domain.CartSnapshot{
		Items: []domain.CartItem{{ProductID: "p1", Quantity: 2}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Wool Coat")
}

func TestVerifyAllOrNothing(t *testing.T) {
	catalog := newFakeCatalog(
		catalogdomain.Product{ID: "p1", Name: "Silk Scarf", Price: 120, Quantity: 3},
	)
	v := NewVerifier(catalog)

	// Second line fails, so the first contributes nothing.
	_, total, err := v.Verify(context.Background(), domain.CartSnapshot{
		Items: []domain.CartItem{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "gone", Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Zero(t, total)
}

func TestVerifyRejectsEmptyCartAndBadQuantity(t *testing.T) {
	catalog := newFakeCatalog(catalogdomain.Product{ID: "p1", Name: "Boots", Price: 90, Quantity: 4})
	v := NewVerifier(catalog)

	_, _, err := v.Verify(context.Background(), domain.CartSnapshot{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = v.Verify(context.Background(), domain.CartSnapshot{
		Items: []domain.CartItem{{ProductID: "p1", Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
