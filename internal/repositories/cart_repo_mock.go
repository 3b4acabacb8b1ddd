package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"shopkeep/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	items map[string]models.CartItem
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		items: make(map[string]models.CartItem),
	}
}

// GetByUser returns a user's cart rows, oldest first.
func (r *MockCartRepository) GetByUser(userID string) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var itemList []models.CartItem
	for _, item := range r.items {
		if item.UserID == userID {
			itemList = append(itemList, item)
		}
	}
	sort.Slice(itemList, func(i, j int) bool {
		return itemList[i].AddedAt.Before(itemList[j].AddedAt)
	})
	return itemList, nil
}

// GetByID returns a cart row by ID, scoped to the owning user.
func (r *MockCartRepository) GetByID(userID, itemID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok || item.UserID != userID {
		return nil, fmt.Errorf("cart item with ID %s: %w", itemID, models.ErrNotFound)
	}
	return &item, nil
}

// GetByUserAndProduct returns the row for a (user, product) pair.
func (r *MockCartRepository) GetByUserAndProduct(userID, productID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.UserID == userID && item.ProductID == productID {
			return &item, nil
		}
	}
	return nil, fmt.Errorf("cart item for product %s: %w", productID, models.ErrNotFound)
}

// Create inserts a new cart row.
func (r *MockCartRepository) Create(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	r.items[item.ID] = *item
	return nil
}

// Update replaces an existing cart row.
func (r *MockCartRepository) Update(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[item.ID]
	if !ok {
		return fmt.Errorf("cart item with ID %s for update: %w", item.ID, models.ErrNotFound)
	}
	r.items[item.ID] = *item
	return nil
}

// Delete removes a cart row, scoped to the owning user.
func (r *MockCartRepository) Delete(userID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[itemID]
	if !ok || item.UserID != userID {
		return fmt.Errorf("cart item with ID %s for deletion: %w", itemID, models.ErrNotFound)
	}
	delete(r.items, itemID)
	return nil
}

// DeleteByUser removes every cart row belonging to a user.
func (r *MockCartRepository) DeleteByUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.UserID == userID {
			delete(r.items, id)
		}
	}
	return nil
}
