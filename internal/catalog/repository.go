package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vasiliy-maslov/grocery-pos/internal/db"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInUse    = errors.New("product is referenced by existing orders")
	ErrInvalidProduct  = errors.New("invalid product")
)

type Repository interface {
	Create(ctx context.Context, p *Product) (int64, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, filter Filter) ([]Product, error)
	UpdateDetails(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	GetPriceAndStock(ctx context.Context, id int64) (Snapshot, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{db: pool}
}

const productColumns = `product_id, product_name, category_id, supplier_id, price, stock_quantity, description`

// Create inserts the product together with its inventory ledger row so the
// two stock representations start out equal.
func (r *postgresRepository) Create(ctx context.Context, p *Product) (int64, error) {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO products (product_name, category_id, supplier_id, price, stock_quantity, description)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING product_id`,
			p.Name, p.CategoryID, p.SupplierID, p.Price, p.StockQuantity, p.Description,
		).Scan(&p.ID)
		if err != nil {
			return mapWriteError(err)
		}

		_, err = tx.Exec(ctx, `INSERT INTO inventory (product_id, current_quantity) VALUES ($1, $2)`, p.ID, p.StockQuantity)
		if err != nil {
			return fmt.Errorf("repository: failed to insert inventory row for product %d: %w", p.ID, err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return p.ID, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE product_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to select product %d: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: failed to scan product %d: %w", id, err)
	}

	return &p, nil
}

func (r *postgresRepository) List(ctx context.Context, filter Filter) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var args []any

	switch {
	case filter.Search != "":
		query += ` WHERE product_name ILIKE $1`
		args = append(args, "%"+filter.Search+"%")
	case filter.CategoryID > 0:
		query += ` WHERE category_id = $1`
		args = append(args, filter.CategoryID)
	}
	query += ` ORDER BY product_id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query products: %w", err)
	}

	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[Product])
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan products: %w", err)
	}

	return products, nil
}

func (r *postgresRepository) UpdateDetails(ctx context.Context, p *Product) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE products
		SET product_name = $1, category_id = $2, supplier_id = $3, price = $4, description = $5
		WHERE product_id = $6`,
		p.Name, p.CategoryID, p.SupplierID, p.Price, p.Description, p.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrProductInUse
		}
		return fmt.Errorf("repository: failed to delete product %d: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *postgresRepository) GetPriceAndStock(ctx context.Context, id int64) (Snapshot, error) {
	s := Snapshot{ProductID: id}
	err := r.db.QueryRow(ctx, `SELECT price, stock_quantity FROM products WHERE product_id = $1`, id).Scan(&s.Price, &s.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrProductNotFound
		}
		return Snapshot{}, fmt.Errorf("repository: failed to read price and stock of product %d: %w", id, err)
	}

	return s, nil
}

// LockForUpdate reads price and stock of the given products and holds row
// locks on them until q's transaction ends. Rows are locked in ascending id
// order. Products that do not exist are absent from the result.
func LockForUpdate(ctx context.Context, q db.Querier, ids []int64) (map[int64]Snapshot, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	rows, err := q.Query(ctx, `
		SELECT product_id, price, stock_quantity
		FROM products
		WHERE product_id = ANY($1)
		ORDER BY product_id
		FOR UPDATE`, sorted)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to lock products: %w", err)
	}
	defer rows.Close()

	snapshots := make(map[int64]Snapshot, len(sorted))
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ProductID, &s.Price, &s.Stock); err != nil {
			return nil, fmt.Errorf("repository: failed to scan locked product: %w", err)
		}
		snapshots[s.ProductID] = s
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed iterating locked products: %w", err)
	}

	return snapshots, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w: unknown category or supplier", ErrInvalidProduct)
		case pgerrcode.CheckViolation:
			return fmt.Errorf("%w: %s", ErrInvalidProduct, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("repository: failed to write product: %w", err)
}
