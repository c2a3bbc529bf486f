package customer

type Customer struct {
	ID      int64  `json:"customer_id" db:"customer_id"`
	Name    string `json:"customer_name" db:"customer_name"`
	Contact string `json:"contact" db:"contact"`
	Address string `json:"address" db:"address"`
}
