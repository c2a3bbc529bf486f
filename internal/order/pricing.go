package order

import (
	"github.com/shopspring/decimal"
	"github.com/vasiliy-maslov/grocery-pos/internal/catalog"
)

// priceLines checks each requested line, in the order given, against the
// locked catalog snapshots and prices it. Repeated products draw on the same
// remaining stock. newStock holds the post-order stock of every product
// touched.
func priceLines(items []LineRequest, snapshots map[int64]catalog.Snapshot) (lines []OrderItem, total decimal.Decimal, newStock map[int64]int, err error) {
	lines = make([]OrderItem, 0, len(items))
	newStock = make(map[int64]int, len(snapshots))
	total = decimal.Zero

	for _, item := range items {
		snap, ok := snapshots[item.ProductID]
		if !ok {
			return nil, decimal.Zero, nil, &ProductError{ProductID: item.ProductID, Err: ErrProductNotFound}
		}

		remaining, seen := newStock[item.ProductID]
		if !seen {
			remaining = snap.Stock
		}

		if item.Quantity > remaining {
			return nil, decimal.Zero, nil, &ProductError{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: remaining,
				Err:       ErrInsufficientStock,
			}
		}
		newStock[item.ProductID] = remaining - item.Quantity

		subtotal := snap.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)

		lines = append(lines, OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: snap.Price,
			Subtotal:  subtotal,
		})
	}

	return lines, total, newStock, nil
}
