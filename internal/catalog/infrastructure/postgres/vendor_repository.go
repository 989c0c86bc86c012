package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanchitg17/Thrift-Marketplace/internal/catalog/domain"
)

// VendorRepository reads the vendor whitelist. Entries are seeded by an
// operator; the service only links stores and identity subjects onto them.
type VendorRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewVendorRepository(log *slog.Logger, pool *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{log: log, pool: pool}
}

func (r *VendorRepository) GetByEmail(ctx context.Context, email string) (domain.Vendor, error) {
	var v domain.Vendor
	var storeID, userID *string
	err := r.pool.QueryRow(ctx, `SELECT email, is_approved, store_id, user_id, added_at
		FROM approved_vendors WHERE email=$1`, strings.ToLower(email)).
		Scan(&v.Email, &v.IsApproved, &storeID, &userID, &v.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vendor{}, domain.ErrNotApproved
		}
		return domain.Vendor{}, err
	}
	if storeID != nil {
		v.StoreID = *storeID
	}
	if userID != nil {
		v.UserID = *userID
	}
	return v, nil
}

func (r *VendorRepository) Link(ctx context.Context, email, storeID, userID string) error {
	_, err := r.pool.Exec(ctx, `UPDATE approved_vendors SET store_id=$2, user_id=$3 WHERE email=$1`,
		strings.ToLower(email), storeID, userID)
	return err
}

// EnsureSchema creates the catalog tables if they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stores (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			banner_image TEXT NOT NULL DEFAULT '',
			logo_image TEXT NOT NULL DEFAULT '',
			active_items INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			store_id TEXT NOT NULL,
			store_name TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL,
			size TEXT NOT NULL DEFAULT '',
			condition TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			gender TEXT NOT NULL DEFAULT '',
			brand TEXT NOT NULL DEFAULT '',
			images TEXT[] NOT NULL DEFAULT '{}',
			quantity INT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS products_store_created_idx ON products (store_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS approved_vendors (
			email TEXT PRIMARY KEY,
			is_approved BOOLEAN NOT NULL DEFAULT true,
			store_id TEXT,
			user_id TEXT,
			added_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
