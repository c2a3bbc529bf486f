package supplier

type Supplier struct {
	ID      int64  `json:"supplier_id" db:"supplier_id"`
	Name    string `json:"supplier_name" db:"supplier_name"`
	Phone   string `json:"phone" db:"phone"`
	Email   string `json:"email" db:"email"`
	Address string `json:"address" db:"address"`
}
