package models

import "time"

// CartItem is one (user, product) row in a shopping cart. Carts do not
// reserve inventory; stock is only checked against the row at mutation
// time and re-validated at checkout.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);uniqueIndex:idx_cart_user_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
	AddedAt   time.Time `json:"added_at"`
}
