package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineRequest is one requested (product, quantity) pair. It carries no
// price: the charged price is always read from the catalog.
type LineRequest struct {
	ProductID int64
	Quantity  int
}

type OrderItem struct {
	ID          int64           `json:"order_item_id" db:"order_item_id"`
	OrderID     int64           `json:"order_id" db:"order_id"`
	ProductID   int64           `json:"product_id" db:"product_id"`
	ProductName string          `json:"product_name,omitempty" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal" db:"subtotal"`
}

type Order struct {
	ID          int64           `json:"order_id" db:"order_id"`
	CustomerID  int64           `json:"customer_id" db:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	OrderDate   time.Time       `json:"order_date" db:"order_date"`
	Items       []OrderItem     `json:"items" db:"-"`
}

// Placement is the result of a successful PlaceOrder call.
type Placement struct {
	OrderID     int64
	CustomerID  int64
	TotalAmount decimal.Decimal
	OrderDate   time.Time
	Items       []OrderItem
}

// Summary is one row of the order list.
type Summary struct {
	ID            int64           `db:"order_id"`
	CustomerID    int64           `db:"customer_id"`
	CustomerName  string          `db:"customer_name"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	OrderDate     time.Time       `db:"order_date"`
	PaymentMethod *string         `db:"payment_method"`
	Status        string          `db:"status"`
}

// HistoryEntry is one past order of a customer.
type HistoryEntry struct {
	OrderID     int64           `db:"order_id"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	OrderDate   time.Time       `db:"order_date"`
	Status      string          `db:"status"`
	ItemCount   int             `db:"item_count"`
}

// StatusPending is reported for orders without any recorded payment.
const StatusPending = "Pending"
