package supplier

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound        = errors.New("supplier not found")
	ErrInUse           = errors.New("cannot delete supplier with associated products")
	ErrInvalidSupplier = errors.New("invalid supplier")
)

type Repository interface {
	Create(ctx context.Context, s *Supplier) error
	List(ctx context.Context) ([]Supplier, error)
	Update(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, id int64) error
}

type sqlxRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlxRepository{db: db}
}

func (r *sqlxRepository) Create(ctx context.Context, s *Supplier) error {
	rows, err := r.db.NamedQueryContext(ctx, `
		INSERT INTO suppliers (supplier_name, phone, email, address)
		VALUES (:supplier_name, :phone, :email, :address)
		RETURNING supplier_id`, s)
	if err != nil {
		return fmt.Errorf("repository: failed to insert supplier: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("repository: failed to insert supplier: %w", err)
		}
		return fmt.Errorf("repository: failed to insert supplier: %w", sql.ErrNoRows)
	}

	if err := rows.Scan(&s.ID); err != nil {
		return fmt.Errorf("repository: failed to scan supplier id: %w", err)
	}

	return nil
}

func (r *sqlxRepository) List(ctx context.Context) ([]Supplier, error) {
	suppliers := make([]Supplier, 0)
	err := r.db.SelectContext(ctx, &suppliers, `
		SELECT supplier_id, supplier_name, phone, email, address
		FROM suppliers
		ORDER BY supplier_name, supplier_id`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

func (r *sqlxRepository) Update(ctx context.Context, s *Supplier) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE suppliers
		SET supplier_name = :supplier_name, phone = :phone, email = :email, address = :address
		WHERE supplier_id = :supplier_id`, s)
	if err != nil {
		return fmt.Errorf("repository: failed to update supplier %d: %w", s.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository: failed to read affected rows for supplier %d: %w", s.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *sqlxRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE supplier_id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrInUse
		}
		return fmt.Errorf("repository: failed to delete supplier %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository: failed to read affected rows for supplier %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}
