package repositories

import (
	"fmt"

	"shopkeep/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products regardless of moderation status.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetApproved retrieves the publicly visible products.
func (r *GORMProductRepository) GetApproved() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("status = ?", models.StatusApproved).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get approved products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetByProposer retrieves the products a user has proposed.
func (r *GORMProductRepository) GetByProposer(userID string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("proposed_by_user_id = ?", userID).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products proposed by %s: %w", userID, err)
	}
	return products, nil
}

// Create creates a new product.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product, including zero-valued fields.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// GORM's Save does not surface ErrRecordNotFound on an update
		// that matched nothing, so we check RowsAffected.
		return fmt.Errorf("product with ID %s for update: %w", product.ID, models.ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s for deletion: %w", id, models.ErrNotFound)
	}
	return nil
}

// DecrementStock subtracts quantity in a single conditional statement.
// The WHERE clause re-checks stock so an interleaved decrement cannot
// push the column negative; zero rows affected means the row no longer
// covers the quantity.
func (r *GORMProductRepository) DecrementStock(id string, quantity int) error {
	res := r.db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock for product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return &models.InsufficientStockError{ProductID: id}
	}
	return nil
}

// IncrementStock adds quantity back to a live row. A product deleted
// since the order was placed simply matches no row, which the caller
// treats as a silently skipped restock.
func (r *GORMProductRepository) IncrementStock(id string, quantity int) (bool, error) {
	res := r.db.Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return false, fmt.Errorf("failed to increment stock for product %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
