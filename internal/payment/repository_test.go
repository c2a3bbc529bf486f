package payment_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/grocery-pos/internal/db"
	"github.com/vasiliy-maslov/grocery-pos/internal/db/dbtest"
	"github.com/vasiliy-maslov/grocery-pos/internal/payment"
)

var testDB *db.Postgres

func TestMain(m *testing.M) {
	pg, release, err := dbtest.Connect(context.Background())
	if err != nil {
		log.Fatalf("Failed to prepare test database: %v", err)
	}
	testDB = pg

	exitCode := m.Run()

	release()
	os.Exit(exitCode)
}

func TestPostgresPaymentRepository(t *testing.T) {
	dbtest.Reset(t, testDB)
	repo := payment.NewRepository(testDB.Pool)
	ctx := context.Background()

	customerID := dbtest.SeedCustomer(t, testDB.Pool, "Noor")
	var orderID int64
	require.NoError(t, testDB.Pool.QueryRow(ctx,
		`INSERT INTO orders (customer_id, total_amount) VALUES ($1, 20.00) RETURNING order_id`, customerID).Scan(&orderID))

	first := &payment.Payment{OrderID: orderID, Method: payment.MethodCash, Status: payment.StatusCompleted, AmountPaid: decimal.RequireFromString("12.50")}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)
	assert.False(t, first.PaymentDate.IsZero())

	second := &payment.Payment{OrderID: orderID, Method: payment.MethodCard, Status: payment.StatusCompleted, AmountPaid: decimal.RequireFromString("7.50")}
	require.NoError(t, repo.Create(ctx, second))

	payments, err := repo.ListByOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, first.ID, payments[0].ID)
	assert.Equal(t, "12.50", payments[0].AmountPaid.StringFixed(2))

	err = repo.Create(ctx, &payment.Payment{OrderID: orderID + 100, Method: payment.MethodCash, Status: payment.StatusCompleted, AmountPaid: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, payment.ErrOrderNotFound)

	none, err := repo.ListByOrder(ctx, orderID+100)
	require.NoError(t, err)
	assert.Empty(t, none)
}
