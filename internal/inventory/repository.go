package inventory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"
	"github.com/vasiliy-maslov/grocery-pos/internal/db"
)

type Repository interface {
	SetStock(ctx context.Context, productID int64, quantity int) error
	List(ctx context.Context) ([]Item, error)
	LowStock(ctx context.Context, threshold int) ([]LowStockItem, error)
}

type postgresRepository struct {
	pg *db.Postgres
}

func NewRepository(pg *db.Postgres) Repository {
	return &postgresRepository{pg: pg}
}

func (r *postgresRepository) SetStock(ctx context.Context, productID int64, quantity int) error {
	return db.WithTx(ctx, r.pg.Pool, func(tx pgx.Tx) error {
		return WriteStock(ctx, tx, productID, quantity)
	})
}

const listQuery = `
	SELECT i.inventory_id, i.product_id, p.product_name, i.current_quantity,
	       p.stock_quantity AS product_stock, i.last_updated
	FROM inventory i
	JOIN products p ON i.product_id = p.product_id
	ORDER BY i.product_id`

func (r *postgresRepository) List(ctx context.Context) ([]Item, error) {
	items := make([]Item, 0)
	if err := sqlx.SelectContext(ctx, r.pg.SQL, &items, listQuery); err != nil {
		return nil, fmt.Errorf("repository: failed to list inventory: %w", err)
	}
	return items, nil
}

const lowStockQuery = `
	SELECT p.product_id, p.product_name, i.current_quantity,
	       COALESCE(s.supplier_name, '') AS supplier_name,
	       COALESCE(s.phone, '') AS phone
	FROM inventory i
	JOIN products p ON i.product_id = p.product_id
	LEFT JOIN suppliers s ON p.supplier_id = s.supplier_id
	WHERE i.current_quantity < $1
	ORDER BY i.current_quantity, p.product_id`

func (r *postgresRepository) LowStock(ctx context.Context, threshold int) ([]LowStockItem, error) {
	items := make([]LowStockItem, 0)
	if err := sqlx.SelectContext(ctx, r.pg.SQL, &items, lowStockQuery, threshold); err != nil {
		return nil, fmt.Errorf("repository: failed to list low stock below %d: %w", threshold, err)
	}
	return items, nil
}
