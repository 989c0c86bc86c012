package application

import (
	"context"
	"fmt"

	"github.com/sanchitg17/Thrift-Marketplace/internal/checkout/domain"
)

// Verifier recomputes order totals from authoritative catalog data. It is
// the sole tamper-resistance boundary: client-submitted prices never survive
// it, and it runs before any gateway call.
type Verifier struct {
	products ProductReader
}

func NewVerifier(products ProductReader) *Verifier {
	return &Verifier{products: products}
}

// Verify resolves every cart line against the catalog. All-or-nothing: the
// first missing product or stock shortfall aborts the whole checkout. On
// success the returned line items carry the server-side price and the total
// is their exact sum. Stock is not decremented here.
func (v *Verifier) Verify(ctx context.Context, snapshot domain.CartSnapshot) ([]domain.LineItem, float64, error) {
	if len(snapshot.Items) == 0 {
		return nil, 0, fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	}

	items := make([]domain.LineItem, 0, len(snapshot.Items))
	var total float64
	for _, line := range snapshot.Items {
		if line.Quantity <= 0 {
			return nil, 0, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
		}
		product, err := v.products.ProductByID(ctx, line.ProductID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %s", domain.ErrProductNotFound, line.ProductID)
		}
		if product.Quantity < line.Quantity {
			return nil, 0, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, product.Name)
		}
		item := domain.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
		}
		items = append(items, item)
		total += item.Subtotal()
	}
	return items, total, nil
}
