package application

import (
	"context"

	catalogdomain "github.com/sanchitg17/Thrift-Marketplace/internal/catalog/domain"
	"github.com/sanchitg17/Thrift-Marketplace/internal/checkout/domain"
)

// OrderRepository is the Order Ledger. Writes are transactional with their
// outbox event; status changes are conditional on the current status so
// racing reconciliation signals cannot clobber a terminal state.
type OrderRepository interface {
	// CreateWithOutbox persists a new order and its OrderCreated event in one
	// transaction. A second call with the same merchant order reference is a
	// no-op (idempotent creation key).
	CreateWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte) error

	GetByMerchantRef(ctx context.Context, merchantOrderRef string) (domain.Order, error)

	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)

	// UpdateStatusWithOutbox moves the order from one status to another only
	// if it currently holds the from status, recording the gateway txn ref
	// and an outbox event in the same transaction. Returns false when the
	// guard did not match (stale or duplicate signal).
	UpdateStatusWithOutbox(ctx context.Context, merchantOrderRef string, from, to domain.OrderStatus, gatewayTxnRef string, eventType string, payload []byte) (bool, error)
}

// ProductReader is the slice of the catalog the checkout core needs:
// authoritative read-by-id.
type ProductReader interface {
	ProductByID(ctx context.Context, id string) (catalogdomain.Product, error)
}

// CartRepository persists the per-user single-vendor cart.
type CartRepository interface {
	Get(ctx context.Context, userID string) (domain.Cart, error)
	Upsert(ctx context.Context, cart domain.Cart) error
}
