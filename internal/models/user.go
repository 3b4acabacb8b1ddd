package models

import (
	"time"

	"gorm.io/gorm"
)

// Role names form a small fixed vocabulary. Roles are additive grants,
// not a hierarchy: an Admin also holds the User role.
const (
	RoleAdmin  = "Admin"
	RoleEditor = "Editor"
	RoleUser   = "User"
)

// AllRoles lists every role name the system accepts.
var AllRoles = []string{RoleAdmin, RoleEditor, RoleUser}

// ValidRole reports whether name belongs to the role vocabulary.
func ValidRole(name string) bool {
	for _, r := range AllRoles {
		if r == name {
			return true
		}
	}
	return false
}

// User represents an account of the store.
type User struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username    string     `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email       string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password    string     `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	FullName    string     `json:"full_name" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	Address     string     `json:"address" gorm:"type:varchar(300)" validate:"omitempty,max=300"`
	LockedUntil *time.Time `json:"locked_until"`
	Roles       []string   `json:"roles" gorm:"-"` // loaded from user_roles, never persisted on this row
	gorm.Model  `json:"-"`
}

// Locked reports whether the account is currently locked out.
func (u *User) Locked() bool {
	return u.LockedUntil != nil && u.LockedUntil.After(time.Now())
}

// UserRole is a single role grant. The pair is unique per user.
type UserRole struct {
	UserID string `gorm:"primaryKey;type:varchar(36)"`
	Role   string `gorm:"primaryKey;type:varchar(20)"`
}
