package repositories

import "shopkeep/internal/models"

// UserRepository defines the interface for user and role-grant data
// access. Role grants live in their own rows; reads populate
// User.Roles, writes go through AddRoles/RemoveRoles.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	GetAll() ([]models.User, error)
	Update(user *models.User) error
	Delete(id string) error
	GetRoles(userID string) ([]string, error)
	AddRoles(userID string, roles []string) error
	RemoveRoles(userID string, roles []string) error
	CountAdmins() (int, error)
}
