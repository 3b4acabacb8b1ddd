package repositories

import (
	"shopkeep/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// DecrementStock and IncrementStock are single conditional statements
// at the storage layer so two concurrent checkouts cannot oversell a
// low-stock row: the decrement only applies when the current stock
// still covers the quantity.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetApproved() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetByProposer(userID string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	// DecrementStock atomically subtracts quantity when stock covers it,
	// returning an InsufficientStockError otherwise.
	DecrementStock(id string, quantity int) error
	// IncrementStock atomically adds quantity back. It reports whether a
	// live row was restocked; a deleted product yields (false, nil).
	IncrementStock(id string, quantity int) (bool, error)
}
