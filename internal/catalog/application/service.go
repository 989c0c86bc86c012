package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/sanchitg17/Thrift-Marketplace/internal/catalog/domain"
)

// Service covers store/product browsing and vendor listing management. The
// checkout core consumes it only through its ProductByID read.
type Service struct {
	log      *slog.Logger
	products ProductRepository
	stores   StoreRepository
	vendors  VendorRepository
}

func NewService(log *slog.Logger, products ProductRepository, stores StoreRepository, vendors VendorRepository) *Service {
	return &Service{log: log, products: products, stores: stores, vendors: vendors}
}

// ProductByID satisfies the checkout core's catalog port.
func (s *Service) ProductByID(ctx context.Context, id string) (domain.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *Service) Products(ctx context.Context, storeID string) ([]domain.Product, error) {
	return s.products.List(ctx, storeID)
}

func (s *Service) Stores(ctx context.Context) ([]domain.Store, error) {
	return s.stores.List(ctx)
}

func (s *Service) Store(ctx context.Context, id string) (domain.Store, error) {
	return s.stores.Get(ctx, id)
}

// MerchantStatus resolves the vendor whitelist entry for an email,
// provisioning a store on first approved login.
type MerchantStatus struct {
	IsApproved bool
	Store      domain.Store
	Products   []domain.Product
}

func (s *Service) MerchantStatus(ctx context.Context, userID, email, displayName string) (MerchantStatus, error) {
	vendor, err := s.vendors.GetByEmail(ctx, strings.ToLower(email))
	if err != nil || !vendor.IsApproved {
		return MerchantStatus{IsApproved: false}, nil
	}

	var store domain.Store
	if vendor.StoreID != "" {
		store, err = s.stores.Get(ctx, vendor.StoreID)
	}
	if vendor.StoreID == "" || errors.Is(err, domain.ErrStoreNotFound) {
		name := "My Thrift Store"
		if displayName != "" {
			name = displayName + "'s Thrift Store"
		}
		store, err = s.stores.Create(ctx, domain.Store{
			ID:          uuid.NewString(),
			Name:        name,
			Description: "Welcome to my store!",
		})
		if err != nil {
			return MerchantStatus{}, err
		}
		if err := s.vendors.Link(ctx, vendor.Email, store.ID, userID); err != nil {
			return MerchantStatus{}, err
		}
	} else if err != nil {
		return MerchantStatus{}, err
	}

	products, err := s.products.List(ctx, store.ID)
	if err != nil {
		return MerchantStatus{}, err
	}
	return MerchantStatus{IsApproved: true, Store: store, Products: products}, nil
}

func (s *Service) UpdateStore(ctx context.Context, id string, updates StoreUpdates) (domain.Store, error) {
	return s.stores.Update(ctx, id, updates)
}

// CreateProduct adds a listing and bumps the store's active item count.
func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.Name == "" || p.StoreID == "" {
		return domain.Product{}, fmt.Errorf("name and store id are required")
	}
	if p.Quantity <= 0 {
		p.Quantity = 1
	}
	p.ID = uuid.NewString()

	created, err := s.products.Create(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}
	if err := s.stores.AdjustActiveItems(ctx, p.StoreID, 1); err != nil {
		s.log.Error("active item count increment failed", "store_id", p.StoreID, "err", err)
	}
	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, updates ProductUpdates) (domain.Product, error) {
	return s.products.Update(ctx, id, updates)
}

// DeleteProduct removes a listing and decrements the store's active item
// count. This is the only stock-removing mutation; nothing decrements stock
// on payment.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted.StoreID != "" {
		if err := s.stores.AdjustActiveItems(ctx, deleted.StoreID, -1); err != nil {
			s.log.Error("active item count decrement failed", "store_id", deleted.StoreID, "err", err)
		}
	}
	return nil
}
