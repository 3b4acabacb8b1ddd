package repositories

import (
	"fmt"
	"sort"
	"sync"

	"shopkeep/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	roles map[string]map[string]struct{}
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
		roles: make(map[string]map[string]struct{}),
	}
}

// Create adds a new user with any role grants set on the struct.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.users[user.ID] = *user
	grants := make(map[string]struct{})
	for _, role := range user.Roles {
		grants[role] = struct{}{}
	}
	r.roles[user.ID] = grants
	return nil
}

func (r *MockUserRepository) find(match func(u models.User) bool, what string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			u.Roles = r.rolesOf(u.ID)
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with %s: %w", what, models.ErrNotFound)
}

// rolesOf must be called with the lock held.
func (r *MockUserRepository) rolesOf(userID string) []string {
	var names []string
	for role := range r.roles[userID] {
		names = append(names, role)
	}
	sort.Strings(names)
	return names
}

// GetByUsername returns a user by their username.
func (r *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username }, "username "+username)
}

// GetByEmail returns a user by their email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email }, "email "+email)
}

// GetByID returns a user by their ID.
func (r *MockUserRepository) GetByID(id string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id }, "ID "+id)
}

// GetAll returns every user with roles populated, ordered by email.
func (r *MockUserRepository) GetAll() ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userList := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		u.Roles = r.rolesOf(u.ID)
		userList = append(userList, u)
	}
	sort.Slice(userList, func(i, j int) bool { return userList[i].Email < userList[j].Email })
	return userList, nil
}

// Update replaces a user's own row.
func (r *MockUserRepository) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("user with ID %s for update: %w", user.ID, models.ErrNotFound)
	}
	r.users[user.ID] = *user
	return nil
}

// Delete removes a user and their role grants.
func (r *MockUserRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user with ID %s for deletion: %w", id, models.ErrNotFound)
	}
	delete(r.users, id)
	delete(r.roles, id)
	return nil
}

// GetRoles returns the role names granted to a user.
func (r *MockUserRepository) GetRoles(userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rolesOf(userID), nil
}

// AddRoles grants roles to a user.
func (r *MockUserRepository) AddRoles(userID string, roles []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.roles[userID] == nil {
		r.roles[userID] = make(map[string]struct{})
	}
	for _, role := range roles {
		r.roles[userID][role] = struct{}{}
	}
	return nil
}

// RemoveRoles revokes roles from a user.
func (r *MockUserRepository) RemoveRoles(userID string, roles []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, role := range roles {
		delete(r.roles[userID], role)
	}
	return nil
}

// CountAdmins counts the users holding the Admin role.
func (r *MockUserRepository) CountAdmins() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, grants := range r.roles {
		if _, ok := grants[models.RoleAdmin]; ok {
			count++
		}
	}
	return count, nil
}
