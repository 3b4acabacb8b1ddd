package repositories

import (
	"errors"
	"fmt"

	"shopkeep/internal/models"

	"gorm.io/gorm"
)

// NewGORMRepos builds the repository bundle over a database handle.
func NewGORMRepos(db *gorm.DB) Repos {
	return Repos{
		Users:      NewGORMUserRepository(db),
		Products:   NewGORMProductRepository(db),
		Carts:      NewGORMCartRepository(db),
		Orders:     NewGORMOrderRepository(db),
		Categories: NewGORMCategoryRepository(db),
	}
}

// GORMUnitOfWork runs units of work inside a database transaction.
type GORMUnitOfWork struct {
	db *gorm.DB
}

// NewGORMUnitOfWork creates a new instance of GORMUnitOfWork.
func NewGORMUnitOfWork(db *gorm.DB) *GORMUnitOfWork {
	return &GORMUnitOfWork{
		db: db,
	}
}

// Do executes fn against transaction-bound repositories. The
// transaction commits only if fn returns nil; any error rolls every
// write back. Errors from the storage engine itself are reported as a
// persistence failure.
func (u *GORMUnitOfWork) Do(fn func(r Repos) error) error {
	err := u.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMRepos(tx))
	})
	if err == nil {
		return nil
	}
	if isExpected(err) {
		return err
	}
	return fmt.Errorf("%w: %v", models.ErrPersistence, err)
}

// isExpected reports whether err is one of the typed outcomes the
// caller anticipates, as opposed to a storage fault.
func isExpected(err error) bool {
	for _, target := range []error{
		models.ErrNotFound,
		models.ErrForbidden,
		models.ErrInvalidRole,
		models.ErrSuperAdminProtected,
		models.ErrSelfDemotionForbidden,
		models.ErrSelfLockoutForbidden,
		models.ErrSelfDeleteForbidden,
		models.ErrLastAdminProtected,
		models.ErrAlreadyFinalized,
		models.ErrEmptyCart,
		models.ErrMissingAddress,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return models.IsInsufficientStock(err)
}
