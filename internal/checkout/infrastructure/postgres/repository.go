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

// Repository is the Order Ledger over pgx. Orders are never deleted; status
// moves only through guarded UPDATEs so concurrent reconciliation signals
// cannot overwrite a settled state. Every mutation writes its outbox row in
// the same transaction.
type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) CreateWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// The unique merchant_order_ref makes retried initiations no-ops.
	ct, err := tx.Exec(ctx, `INSERT INTO orders
			(id, merchant_order_ref, gateway_txn_ref, user_id, store_id, store_name, items,
			 total_amount, customer_name, customer_email, customer_phone, shipping_address,
			 status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (merchant_order_ref) DO NOTHING`,
		o.ID, o.MerchantOrderRef, o.GatewayTxnRef, o.UserID, o.StoreID, o.StoreName, items,
		o.TotalAmount, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.ShippingAddress,
		o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		// Duplicate initiation; nothing to record.
		return tx.Commit(ctx)
	}

	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, status)
		VALUES ($1,$2,$3,$4,'pending')`,
		"order", o.MerchantOrderRef, eventType, payload)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) GetByMerchantRef(ctx context.Context, merchantOrderRef string) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, merchant_order_ref, gateway_txn_ref, user_id, store_id,
			store_name, items, total_amount, customer_name, customer_email, customer_phone,
			shipping_address, status, created_at, updated_at
		FROM orders WHERE merchant_order_ref=$1`, merchantOrderRef)
	return scanOrder(row)
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, merchant_order_ref, gateway_txn_ref, user_id, store_id,
			store_name, items, total_amount, customer_name, customer_email, customer_phone,
			shipping_address, status, created_at, updated_at
		FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *Repository) UpdateStatusWithOutbox(ctx context.Context, merchantOrderRef string, from, to domain.OrderStatus, gatewayTxnRef string, eventType string, payload []byte) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Status guard: the row moves only from the expected status, so a stale
	// or duplicate signal affects zero rows.
	ct, err := tx.Exec(ctx, `UPDATE orders
		SET status=$3, gateway_txn_ref=COALESCE(NULLIF($4,''), gateway_txn_ref), updated_at=$5
		WHERE merchant_order_ref=$1 AND status=$2`,
		merchantOrderRef, from, to, gatewayTxnRef, time.Now().UTC())
	if err != nil {
		return false, err
	}
	if ct.RowsAffected() == 0 {
		return false, tx.Commit(ctx)
	}

	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, status)
		VALUES ($1,$2,$3,$4,'pending')`,
		"order", merchantOrderRef, eventType, payload)
	if err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var items []byte
	err := row.Scan(&o.ID, &o.MerchantOrderRef, &o.GatewayTxnRef, &o.UserID, &o.StoreID,
		&o.StoreName, &items, &o.TotalAmount, &o.CustomerName, &o.CustomerEmail,
		&o.CustomerPhone, &o.ShippingAddress, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}
