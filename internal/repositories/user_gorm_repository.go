package repositories

import (
	"fmt"

	"shopkeep/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user together with any role grants already set
// on the struct.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if len(user.Roles) > 0 {
		if err := r.AddRoles(user.ID, user.Roles); err != nil {
			return err
		}
	}
	return nil
}

func (r *GORMUserRepository) getBy(field, value string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, field+" = ?", value).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with %s %s: %w", field, value, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by %s %s: %w", field, value, err)
	}
	roles, err := r.GetRoles(user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return &user, nil
}

// GetByUsername retrieves a user (with roles) by their username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.getBy("username", username)
}

// GetByEmail retrieves a user (with roles) by their email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getBy("email", email)
}

// GetByID retrieves a user (with roles) by their ID.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	return r.getBy("id", id)
}

// GetAll retrieves every user with their role grants populated.
func (r *GORMUserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("email").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	for i := range users {
		roles, err := r.GetRoles(users[i].ID)
		if err != nil {
			return nil, err
		}
		users[i].Roles = roles
	}
	return users, nil
}

// Update updates a user's own row. Role grants are managed through
// AddRoles/RemoveRoles, not here.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Save(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s for update: %w", user.ID, models.ErrNotFound)
	}
	return nil
}

// Delete soft-deletes a user. Orders referencing the account keep
// their historical rows.
func (r *GORMUserRepository) Delete(id string) error {
	res := r.db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s for deletion: %w", id, models.ErrNotFound)
	}
	if err := r.db.Where("user_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
		return fmt.Errorf("failed to delete role grants for user %s: %w", id, err)
	}
	return nil
}

// GetRoles returns the role names granted to a user.
func (r *GORMUserRepository) GetRoles(userID string) ([]string, error) {
	var roles []string
	err := r.db.Model(&models.UserRole{}).
		Where("user_id = ?", userID).
		Order("role").
		Pluck("role", &roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get roles for user %s: %w", userID, err)
	}
	return roles, nil
}

// AddRoles grants the given roles to a user. Existing grants are left
// untouched.
func (r *GORMUserRepository) AddRoles(userID string, roles []string) error {
	for _, role := range roles {
		grant := models.UserRole{UserID: userID, Role: role}
		if err := r.db.FirstOrCreate(&grant, grant).Error; err != nil {
			return fmt.Errorf("failed to grant role %s to user %s: %w", role, userID, err)
		}
	}
	return nil
}

// RemoveRoles revokes the given roles from a user.
func (r *GORMUserRepository) RemoveRoles(userID string, roles []string) error {
	if len(roles) == 0 {
		return nil
	}
	err := r.db.Where("user_id = ? AND role IN ?", userID, roles).Delete(&models.UserRole{}).Error
	if err != nil {
		return fmt.Errorf("failed to revoke roles from user %s: %w", userID, err)
	}
	return nil
}

// CountAdmins counts the users currently holding the Admin role.
func (r *GORMUserRepository) CountAdmins() (int, error) {
	var count int64
	err := r.db.Model(&models.UserRole{}).Where("role = ?", models.RoleAdmin).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return int(count), nil
}
