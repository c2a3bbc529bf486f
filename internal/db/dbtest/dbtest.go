// Package dbtest opens the integration test database shared by the
// repository tests.
package dbtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/vasiliy-maslov/grocery-pos/internal/config"
	"github.com/vasiliy-maslov/grocery-pos/internal/db"
)

// packageLock serializes test packages that share the database.
const packageLock = 727001

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Config() config.PostgresConfig {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(file), "..", "..", "..")

	return config.PostgresConfig{
		Host:            getenv("DB_HOST_TEST", "localhost"),
		Port:            getenv("DB_PORT_TEST", "5432"),
		User:            getenv("DB_USER_TEST", "postgres"),
		Password:        getenv("DB_PASSWORD_TEST", "postgres"),
		DBName:          getenv("DB_NAME_TEST", "grocery_pos_test"),
		SSLMode:         getenv("DB_SSLMODE_TEST", "disable"),
		MaxConns:        10,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
		MigrationsPath:  filepath.Join(root, "migrations"),
	}
}

// Connect opens the test database and applies migrations. The returned
// release func must be called once the package's tests are done. A nil
// Postgres with a nil error means no database is reachable.
func Connect(ctx context.Context) (*db.Postgres, func(), error) {
	cfg := Config()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "integration database unavailable, skipping: %v\n", err)
		return nil, func() {}, nil
	}

	conn, err := pg.Pool.Acquire(ctx)
	if err != nil {
		pg.Close()
		return nil, nil, fmt.Errorf("failed to acquire lock connection: %w", err)
	}
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, packageLock); err != nil {
		conn.Release()
		pg.Close()
		return nil, nil, fmt.Errorf("failed to take package lock: %w", err)
	}

	if err := db.ApplyMigrations(cfg); err != nil {
		conn.Release()
		pg.Close()
		return nil, nil, err
	}

	release := func() {
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, packageLock)
		conn.Release()
		pg.Close()
	}

	return pg, release, nil
}

// Reset empties every table. It skips t when pg is nil.
func Reset(t *testing.T, pg *db.Postgres) {
	t.Helper()
	if pg == nil {
		t.Skip("integration database not available")
	}

	truncate := func() error {
		_, err := pg.Pool.Exec(context.Background(), `
			TRUNCATE payments, order_items, orders, inventory, products,
			         customers, suppliers, categories
			RESTART IDENTITY CASCADE`)
		return err
	}

	if err := truncate(); err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
	t.Cleanup(func() {
		if err := truncate(); err != nil {
			t.Errorf("Failed to truncate tables after test: %v", err)
		}
	})
}

func SeedCustomer(t *testing.T, pool *pgxpool.Pool, name string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO customers (customer_name, contact, address) VALUES ($1, '555-0100', 'Main St') RETURNING customer_id`,
		name).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to seed customer: %v", err)
	}
	return id
}

func SeedSupplier(t *testing.T, pool *pgxpool.Pool, name, phone string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO suppliers (supplier_name, phone) VALUES ($1, $2) RETURNING supplier_id`,
		name, phone).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to seed supplier: %v", err)
	}
	return id
}

// SeedProduct inserts a product together with its inventory ledger row.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, name, price string, stock int, supplierID *int64) int64 {
	t.Helper()
	ctx := context.Background()

	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO products (product_name, supplier_id, price, stock_quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING product_id`,
		name, supplierID, decimal.RequireFromString(price), stock).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}

	if _, err := pool.Exec(ctx, `INSERT INTO inventory (product_id, current_quantity) VALUES ($1, $2)`, id, stock); err != nil {
		t.Fatalf("Failed to seed inventory row: %v", err)
	}
	return id
}

// Stock returns the catalog stock and the ledger quantity of a product.
func Stock(t *testing.T, pool *pgxpool.Pool, productID int64) (catalogStock, ledgerStock int) {
	t.Helper()

	err := pool.QueryRow(context.Background(), `
		SELECT p.stock_quantity, i.current_quantity
		FROM products p
		JOIN inventory i ON i.product_id = p.product_id
		WHERE p.product_id = $1`, productID).Scan(&catalogStock, &ledgerStock)
	if err != nil {
		t.Fatalf("Failed to read stock of product %d: %v", productID, err)
	}
	return catalogStock, ledgerStock
}

func CountRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()

	var n int
	if err := pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
