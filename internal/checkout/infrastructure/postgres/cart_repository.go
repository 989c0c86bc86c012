package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanchitg17/Thrift-Marketplace/internal/checkout/domain"
)

// CartRepository persists per-user carts as whole documents. The cart is
// single-vendor, so every write replaces store and items together.
type CartRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewCartRepository(log *slog.Logger, pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{log: log, pool: pool}
}

func (r *CartRepository) Get(ctx context.Context, userID string) (domain.Cart, error) {
	var cart domain.Cart
	var items []byte
	err := r.pool.QueryRow(ctx, `SELECT user_id, store_id, store_name, items FROM carts WHERE user_id=$1`, userID).
		Scan(&cart.UserID, &cart.StoreID, &cart.StoreName, &items)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Cart{UserID: userID}, nil
		}
		return domain.Cart{}, err
	}
	if err := json.Unmarshal(items, &cart.Items); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (r *CartRepository) Upsert(ctx context.Context, cart domain.Cart) error {
	items, err := json.Marshal(cart.Items)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO carts (user_id, store_id, store_name, items, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (user_id) DO UPDATE SET store_id=$2, store_name=$3, items=$4, updated_at=$5`,
		cart.UserID, cart.StoreID, cart.StoreName, items, time.Now().UTC())
	return err
}
