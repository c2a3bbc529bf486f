package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidPayment = errors.New("invalid payment")
)

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	ListByOrder(ctx context.Context, orderID int64) ([]Payment, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Payment) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO payments (order_id, payment_method, payment_status, amount_paid)
		VALUES ($1, $2, $3, $4)
		RETURNING payment_id, payment_date`,
		p.OrderID, p.Method, p.Status, p.AmountPaid,
	).Scan(&p.ID, &p.PaymentDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrOrderNotFound
		}
		return fmt.Errorf("repository: failed to insert payment for order %d: %w", p.OrderID, err)
	}

	return nil
}

func (r *repository) ListByOrder(ctx context.Context, orderID int64) ([]Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT payment_id, order_id, payment_method, payment_date, payment_status, amount_paid
		FROM payments
		WHERE order_id = $1
		ORDER BY payment_date, payment_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query payments for order %d: %w", orderID, err)
	}

	payments, err := pgx.CollectRows(rows, pgx.RowToStructByName[Payment])
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan payments for order %d: %w", orderID, err)
	}

	return payments, nil
}
