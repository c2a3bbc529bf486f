package order

import (
	"errors"
	"fmt"

	"github.com/vasiliy-maslov/grocery-pos/internal/catalog"
)

var (
	ErrInvalidInput      = errors.New("invalid order input")
	ErrProductNotFound   = catalog.ErrProductNotFound
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrPersistence       = errors.New("order persistence failure")
)

// ProductError reports which product made a placement fail. It unwraps to
// ErrProductNotFound or ErrInsufficientStock.
type ProductError struct {
	ProductID int64
	Requested int
	Available int
	Err       error
}

func (e *ProductError) Error() string {
	if errors.Is(e.Err, ErrInsufficientStock) {
		return fmt.Sprintf("%v for product %d: requested %d, available %d", e.Err, e.ProductID, e.Requested, e.Available)
	}
	return fmt.Sprintf("%v: product %d", e.Err, e.ProductID)
}

func (e *ProductError) Unwrap() error {
	return e.Err
}
