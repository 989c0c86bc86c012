package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanchitg17/Thrift-Marketplace/internal/catalog/application"
	"github.com/sanchitg17/Thrift-Marketplace/internal/catalog/domain"
)

type StoreRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewStoreRepository(log *slog.Logger, pool *pgxpool.Pool) *StoreRepository {
	return &StoreRepository{log: log, pool: pool}
}

const storeColumns = `id, name, description, location, banner_image, logo_image, active_items, created_at, updated_at`

func (r *StoreRepository) Get(ctx context.Context, id string) (domain.Store, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id=$1`, id)
	return scanStore(row)
}

func (r *StoreRepository) List(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+storeColumns+` FROM stores ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []domain.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *StoreRepository) Create(ctx context.Context, s domain.Store) (domain.Store, error) {
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	_, err := r.pool.Exec(ctx, `INSERT INTO stores (`+storeColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		s.ID, s.Name, s.Description, s.Location, s.BannerImage, s.LogoImage, s.ActiveItems, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return domain.Store{}, err
	}
	return s, nil
}

func (r *StoreRepository) Update(ctx context.Context, id string, u application.StoreUpdates) (domain.Store, error) {
	set := "updated_at=$2"
	args := []any{id, time.Now().UTC()}
	add := func(col string, val any) {
		args = append(args, val)
		set += fmt.Sprintf(", %s=$%d", col, len(args))
	}
	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if u.Location != nil {
		add("location", *u.Location)
	}
	if u.BannerImage != nil {
		add("banner_image", *u.BannerImage)
	}
	if u.LogoImage != nil {
		add("logo_image", *u.LogoImage)
	}

	row := r.pool.QueryRow(ctx, `UPDATE stores SET `+set+` WHERE id=$1 RETURNING `+storeColumns, args...)
	return scanStore(row)
}

func (r *StoreRepository) AdjustActiveItems(ctx context.Context, id string, delta int) error {
	_, err := r.pool.Exec(ctx, `UPDATE stores SET active_items = GREATEST(active_items + $2, 0), updated_at=$3 WHERE id=$1`,
		id, delta, time.Now().UTC())
	return err
}

func scanStore(row pgx.Row) (domain.Store, error) {
	var s domain.Store
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Location, &s.BannerImage, &s.LogoImage,
		&s.ActiveItems, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Store{}, domain.ErrStoreNotFound
		}
		return domain.Store{}, err
	}
	return s, nil
}
