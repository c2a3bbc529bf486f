package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/vasiliy-maslov/grocery-pos/internal/catalog"
	"github.com/vasiliy-maslov/grocery-pos/internal/db"
)

var ErrInvalidQuantity = errors.New("stock quantity cannot be negative")

// WriteStock is the only code path that changes a product's stock. It sets
// the catalog stock and the ledger current quantity to the same value and
// must be called with a transaction so both writes commit or neither does.
func WriteStock(ctx context.Context, q db.Querier, productID int64, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: product %d, got %d", ErrInvalidQuantity, productID, quantity)
	}

	cmdTag, err := q.Exec(ctx, `UPDATE products SET stock_quantity = $1 WHERE product_id = $2`, quantity, productID)
	if err != nil {
		return fmt.Errorf("repository: failed to update catalog stock of product %d: %w", productID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return catalog.ErrProductNotFound
	}

	cmdTag, err = q.Exec(ctx, `
		UPDATE inventory
		SET current_quantity = $1, last_updated = now()
		WHERE product_id = $2`, quantity, productID)
	if err != nil {
		return fmt.Errorf("repository: failed to update ledger quantity of product %d: %w", productID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: no inventory ledger row for product %d", catalog.ErrProductNotFound, productID)
	}

	return nil
}
