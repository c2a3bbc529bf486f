package order

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/grocery-pos/internal/catalog"
	"github.com/vasiliy-maslov/grocery-pos/internal/db"
	"github.com/vasiliy-maslov/grocery-pos/internal/inventory"
)

type Repository interface {
	Place(ctx context.Context, customerID int64, items []LineRequest) (*Placement, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context) ([]Summary, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]HistoryEntry, error)
	Delete(ctx context.Context, id int64) error
}

type postgresRepository struct {
	pg *db.Postgres
}

func NewRepository(pg *db.Postgres) Repository {
	return &postgresRepository{pg: pg}
}

// Place runs the whole placement as one transaction: lock the products,
// check and price every line, insert the order and its items and write the
// decremented stock. Any failure rolls everything back.
func (r *postgresRepository) Place(ctx context.Context, customerID int64, items []LineRequest) (*Placement, error) {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	var placement *Placement

	err := db.WithTx(ctx, r.pg.Pool, func(tx pgx.Tx) error {
		snapshots, err := catalog.LockForUpdate(ctx, tx, ids)
		if err != nil {
			return err
		}

		lines, total, newStock, err := priceLines(items, snapshots)
		if err != nil {
			return err
		}

		var (
			orderID   int64
			orderDate time.Time
		)
		err = tx.QueryRow(ctx, `
			INSERT INTO orders (customer_id, total_amount)
			VALUES ($1, $2)
			RETURNING order_id, order_date`,
			customerID, total,
		).Scan(&orderID, &orderDate)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
				return fmt.Errorf("%w: %d", ErrCustomerNotFound, customerID)
			}
			return fmt.Errorf("repository: failed to insert order: %w", err)
		}

		for i := range lines {
			line := &lines[i]
			line.OrderID = orderID

			err = tx.QueryRow(ctx, `
				INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING order_item_id`,
				orderID, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal,
			).Scan(&line.ID)
			if err != nil {
				return fmt.Errorf("repository: failed to insert order item for order %d: %w", orderID, err)
			}
		}

		touched := make([]int64, 0, len(newStock))
		for id := range newStock {
			touched = append(touched, id)
		}
		slices.Sort(touched)

		for _, id := range touched {
			if err := inventory.WriteStock(ctx, tx, id, newStock[id]); err != nil {
				if errors.Is(err, catalog.ErrProductNotFound) {
					return &ProductError{ProductID: id, Err: err}
				}
				return err
			}
		}

		placement = &Placement{
			OrderID:     orderID,
			CustomerID:  customerID,
			TotalAmount: total,
			OrderDate:   orderDate,
			Items:       lines,
		}

		return nil
	})
	if err != nil {
		if isBusinessError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	return placement, nil
}

func isBusinessError(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrCustomerNotFound)
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Order, error) {
	var o Order
	err := r.pg.Pool.QueryRow(ctx, `
		SELECT order_id, customer_id, total_amount, order_date
		FROM orders
		WHERE order_id = $1`, id,
	).Scan(&o.ID, &o.CustomerID, &o.TotalAmount, &o.OrderDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %d: %w", id, err)
	}

	rows, err := r.pg.Pool.Query(ctx, `
		SELECT oi.order_item_id, oi.order_id, oi.product_id, p.product_name,
		       oi.quantity, oi.unit_price, oi.subtotal
		FROM order_items oi
		JOIN products p ON oi.product_id = p.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.order_item_id`, id)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items for order id %d: %w", id, err)
	}

	o.Items, err = pgx.CollectRows(rows, pgx.RowToStructByName[OrderItem])
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan order items for order id %d: %w", id, err)
	}

	return &o, nil
}

// latestPayment yields the most recent payment of order o, if any.
const latestPayment = `
	LEFT JOIN LATERAL (
		SELECT payment_method, payment_status
		FROM payments
		WHERE payments.order_id = o.order_id
		ORDER BY payment_date DESC, payment_id DESC
		LIMIT 1
	) pay ON true`

func (r *postgresRepository) List(ctx context.Context) ([]Summary, error) {
	query := `
		SELECT o.order_id, o.customer_id, c.customer_name, o.total_amount, o.order_date,
		       pay.payment_method, COALESCE(pay.payment_status, '` + StatusPending + `') AS status
		FROM orders o
		JOIN customers c ON o.customer_id = c.customer_id` + latestPayment + `
		ORDER BY o.order_date DESC, o.order_id DESC`

	orders := make([]Summary, 0)
	if err := sqlx.SelectContext(ctx, r.pg.SQL, &orders, query); err != nil {
		return nil, fmt.Errorf("repository: failed to list orders: %w", err)
	}

	return orders, nil
}

func (r *postgresRepository) ListByCustomer(ctx context.Context, customerID int64) ([]HistoryEntry, error) {
	query := `
		SELECT o.order_id, o.total_amount, o.order_date,
		       COALESCE(pay.payment_status, '` + StatusPending + `') AS status,
		       (SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.order_id) AS item_count
		FROM orders o` + latestPayment + `
		WHERE o.customer_id = $1
		ORDER BY o.order_date DESC, o.order_id DESC`

	history := make([]HistoryEntry, 0)
	if err := sqlx.SelectContext(ctx, r.pg.SQL, &history, query, customerID); err != nil {
		return nil, fmt.Errorf("repository: failed to query orders for customer id %d: %w", customerID, err)
	}

	return history, nil
}

// Delete removes the order. Items and payments go with it through ON DELETE
// CASCADE; stock is not returned.
func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.pg.Pool.Exec(ctx, `DELETE FROM orders WHERE order_id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int64("order_id", id).Msg("repository: failed to delete order")
		return fmt.Errorf("repository: failed to delete order %d: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}
