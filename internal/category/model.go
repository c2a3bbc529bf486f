package category

type Category struct {
	ID          int64  `json:"category_id" db:"category_id"`
	Name        string `json:"category_name" db:"category_name"`
	Description string `json:"description" db:"description"`
}
