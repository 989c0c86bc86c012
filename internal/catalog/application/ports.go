package application

import (
	"context"

	"github.com/sanchitg17/Thrift-Marketplace/internal/catalog/domain"
)

type ProductRepository interface {
	Get(ctx context.Context, id string) (domain.Product, error)
	// List returns products newest first, optionally filtered by store.
	List(ctx context.Context, storeID string) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Update(ctx context.Context, id string, updates ProductUpdates) (domain.Product, error)
	Delete(ctx context.Context, id string) (domain.Product, error)
	// DecrementStock atomically reduces stock, failing when fewer than qty
	// units remain.
	DecrementStock(ctx context.Context, id string, qty int) error
}

// ProductUpdates carries the mutable listing fields; nil means unchanged.
type ProductUpdates struct {
	Name        *string
	Description *string
	Price       *float64
	Size        *string
	Condition   *string
	Category    *string
	Gender      *string
	Brand       *string
	Images      []string
	Quantity    *int
}

type StoreRepository interface {
	Get(ctx context.Context, id string) (domain.Store, error)
	List(ctx context.Context) ([]domain.Store, error)
	Create(ctx context.Context, s domain.Store) (domain.Store, error)
	Update(ctx context.Context, id string, updates StoreUpdates) (domain.Store, error)
	// AdjustActiveItems adds delta to the denormalized listing count.
	AdjustActiveItems(ctx context.Context, id string, delta int) error
}

type StoreUpdates struct {
	Name        *string
	Description *string
	Location    *string
	BannerImage *string
	LogoImage   *string
}

type VendorRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.Vendor, error)
	// Link records the provisioned store and identity subject on the
	// whitelist entry.
	Link(ctx context.Context, email, storeID, userID string) error
}
