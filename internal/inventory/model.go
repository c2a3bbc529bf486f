package inventory

import "time"

// Item is one inventory ledger row next to the catalog's copy of the stock.
type Item struct {
	InventoryID     int64     `json:"inventory_id" db:"inventory_id"`
	ProductID       int64     `json:"product_id" db:"product_id"`
	ProductName     string    `json:"product_name" db:"product_name"`
	CurrentQuantity int       `json:"current_quantity" db:"current_quantity"`
	ProductStock    int       `json:"product_stock" db:"product_stock"`
	LastUpdated     time.Time `json:"last_updated" db:"last_updated"`
}

type LowStockItem struct {
	ProductID       int64  `json:"product_id" db:"product_id"`
	ProductName     string `json:"product_name" db:"product_name"`
	CurrentQuantity int    `json:"current_quantity" db:"current_quantity"`
	SupplierName    string `json:"supplier_name" db:"supplier_name"`
	Phone           string `json:"phone" db:"phone"`
}
