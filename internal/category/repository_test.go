package category_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/grocery-pos/internal/category"
	"github.com/vasiliy-maslov/grocery-pos/internal/db"
	"github.com/vasiliy-maslov/grocery-pos/internal/db/dbtest"
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

func TestPostgresCategoryRepository(t *testing.T) {
	dbtest.Reset(t, testDB)
	repo := category.NewRepository(testDB.Pool)
	ctx := context.Background()

	produce := &category.Category{Name: "Produce", Description: "Fruit and vegetables"}
	require.NoError(t, repo.Create(ctx, produce))
	assert.NotZero(t, produce.ID)

	bakery := &category.Category{Name: "Bakery"}
	require.NoError(t, repo.Create(ctx, bakery))

	t.Run("Duplicate name", func(t *testing.T) {
		err := repo.Create(ctx, &category.Category{Name: "Produce"})
		assert.ErrorIs(t, err, category.ErrDuplicate)
	})

	t.Run("List is ordered by name", func(t *testing.T) {
		categories, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 2)
		assert.Equal(t, "Bakery", categories[0].Name)
		assert.Equal(t, "Fruit and vegetables", categories[1].Description)
	})

	t.Run("Delete in use", func(t *testing.T) {
		productID := dbtest.SeedProduct(t, testDB.Pool, "Apples", "2.50", 10, nil)
		_, err := testDB.Pool.Exec(ctx, `UPDATE products SET category_id = $1 WHERE product_id = $2`, produce.ID, productID)
		require.NoError(t, err)

		err = repo.Delete(ctx, produce.ID)
		assert.ErrorIs(t, err, category.ErrInUse)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, bakery.ID))
		assert.ErrorIs(t, repo.Delete(ctx, bakery.ID), category.ErrNotFound)
	})
}
