package repositories

import "shopkeep/internal/models"

// OrderRepository defines the interface for order data access. Create
// persists the order together with its line items; line items are
// never updated afterwards.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id string, status models.OrderStatus) error
	// TransitionStatus flips the status only when the row still holds
	// from, in one conditional statement. It reports whether the flip
	// applied; false means the order moved on in the meantime.
	TransitionStatus(id string, from, to models.OrderStatus) (bool, error)
}
