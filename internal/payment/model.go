package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MethodCash = "Cash"
	MethodCard = "Card"
	MethodUPI  = "UPI"

	StatusCompleted = "Completed"
	StatusPending   = "Pending"
	StatusFailed    = "Failed"
)

type Payment struct {
	ID          int64           `json:"payment_id" db:"payment_id"`
	OrderID     int64           `json:"order_id" db:"order_id"`
	Method      string          `json:"payment_method" db:"payment_method"`
	PaymentDate time.Time       `json:"payment_date" db:"payment_date"`
	Status      string          `json:"payment_status" db:"payment_status"`
	AmountPaid  decimal.Decimal `json:"amount_paid" db:"amount_paid"`
}
