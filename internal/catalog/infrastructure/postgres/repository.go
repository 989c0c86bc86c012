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

type ProductRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewProductRepository(log *slog.Logger, pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{log: log, pool: pool}
}

const productColumns = `id, store_id, store_name, name, description, price, size, condition,
	category, gender, brand, images, quantity, created_at, updated_at`

func (r *ProductRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id)
	return scanProduct(row)
}

func (r *ProductRepository) List(ctx context.Context, storeID string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	args := []any{}
	if storeID != "" {
		query = `SELECT ` + productColumns + ` FROM products WHERE store_id=$1 ORDER BY created_at DESC`
		args = append(args, storeID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.pool.Exec(ctx, `INSERT INTO products (`+productColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		p.ID, p.StoreID, p.StoreName, p.Name, p.Description, p.Price, p.Size, p.Condition,
		p.Category, p.Gender, p.Brand, p.Images, p.Quantity, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, u application.ProductUpdates) (domain.Product, error) {
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
	if u.Price != nil {
		add("price", *u.Price)
	}
	if u.Size != nil {
		add("size", *u.Size)
	}
	if u.Condition != nil {
		add("condition", *u.Condition)
	}
	if u.Category != nil {
		add("category", *u.Category)
	}
	if u.Gender != nil {
		add("gender", *u.Gender)
	}
	if u.Brand != nil {
		add("brand", *u.Brand)
	}
	if u.Images != nil {
		add("images", u.Images)
	}
	if u.Quantity != nil {
		add("quantity", *u.Quantity)
	}

	row := r.pool.QueryRow(ctx, `UPDATE products SET `+set+` WHERE id=$1 RETURNING `+productColumns, args...)
	return scanProduct(row)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `DELETE FROM products WHERE id=$1 RETURNING `+productColumns, id)
	return scanProduct(row)
}

// DecrementStock removes qty units, refusing to go below zero. The quantity
// guard makes concurrent decrements safe without locks.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	ct, err := r.pool.Exec(ctx, `UPDATE products SET quantity = quantity - $2, updated_at=$3
		WHERE id=$1 AND quantity >= $2`, id, qty, time.Now().UTC())
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.StoreID, &p.StoreName, &p.Name, &p.Description, &p.Price, &p.Size,
		&p.Condition, &p.Category, &p.Gender, &p.Brand, &p.Images, &p.Quantity, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, err
	}
	return p, nil
}
