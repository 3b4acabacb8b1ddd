package repositories

import "shopkeep/internal/models"

// CartRepository defines the interface for shopping cart data access.
// Rows are scoped to their owning user; lookups by id always carry the
// user id so one user can never touch another's cart.
type CartRepository interface {
	GetByUser(userID string) ([]models.CartItem, error)
	GetByID(userID, itemID string) (*models.CartItem, error)
	GetByUserAndProduct(userID, productID string) (*models.CartItem, error)
	Create(item *models.CartItem) error
	Update(item *models.CartItem) error
	Delete(userID, itemID string) error
	DeleteByUser(userID string) error
}
