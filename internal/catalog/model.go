package catalog

import "github.com/shopspring/decimal"

type Product struct {
	ID            int64           `json:"product_id" db:"product_id"`
	Name          string          `json:"product_name" db:"product_name"`
	CategoryID    *int64          `json:"category_id,omitempty" db:"category_id"`
	SupplierID    *int64          `json:"supplier_id,omitempty" db:"supplier_id"`
	Price         decimal.Decimal `json:"price" db:"price"`
	StockQuantity int             `json:"stock_quantity" db:"stock_quantity"`
	Description   string          `json:"description" db:"description"`
}

// Snapshot is the price and stock of a product as read inside a transaction.
type Snapshot struct {
	ProductID int64
	Price     decimal.Decimal
	Stock     int
}

type Filter struct {
	Search     string
	CategoryID int64
}
