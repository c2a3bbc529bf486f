package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("customer not found")
	ErrInvalidCustomer = errors.New("invalid customer")
)

type Repository interface {
	Create(ctx context.Context, c *Customer) (int64, error)
	GetByID(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Customer) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO customers (customer_name, contact, address)
		VALUES ($1, $2, $3)
		RETURNING customer_id`,
		c.Name, c.Contact, c.Address,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert customer: %w", err)
	}

	return id, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	err := r.db.QueryRow(ctx, `
		SELECT customer_id, customer_name, contact, address
		FROM customers
		WHERE customer_id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Contact, &c.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select customer %d: %w", id, err)
	}

	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.db.Query(ctx, `SELECT customer_id, customer_name, contact, address FROM customers ORDER BY customer_id`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query customers: %w", err)
	}

	customers, err := pgx.CollectRows(rows, pgx.RowToStructByName[Customer])
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan customers: %w", err)
	}

	return customers, nil
}

func (r *repository) Update(ctx context.Context, c *Customer) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE customers
		SET customer_name = $1, contact = $2, address = $3
		WHERE customer_id = $4`,
		c.Name, c.Contact, c.Address, c.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to update customer %d: %w", c.ID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes the customer; their orders cascade.
func (r *repository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE customer_id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete customer %d: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
