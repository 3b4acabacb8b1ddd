package models

import (
	"errors"
	"fmt"
)

// Every rule violation in the core maps to one of these errors so the
// caller can render a precise, user-attributable message. All of them
// are expected, recoverable outcomes; only ErrPersistence is treated
// as an operational fault.
var (
	ErrNotFound = errors.New("not found")

	// Policy denials.
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidRole           = errors.New("invalid role")
	ErrSuperAdminProtected   = errors.New("the super admin account cannot lose the Admin role")
	ErrSelfDemotionForbidden = errors.New("you cannot remove your own Admin role")
	ErrSelfLockoutForbidden  = errors.New("you cannot lock your own account")
	ErrSelfDeleteForbidden   = errors.New("you cannot delete your own account")
	ErrLastAdminProtected    = errors.New("the last remaining Admin cannot be deleted")

	// State violations.
	ErrAlreadyFinalized = errors.New("order is no longer in a cancellable state")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrMissingAddress   = errors.New("delivery address is required")

	// The unit of work could not commit.
	ErrPersistence = errors.New("persistence failure")
)

// InsufficientStockError names the product whose stock cannot cover
// the requested quantity.
type InsufficientStockError struct {
	ProductID    string
	ProductTitle string
}

func (e *InsufficientStockError) Error() string {
	if e.ProductTitle != "" {
		return fmt.Sprintf("insufficient stock for %s", e.ProductTitle)
	}
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}

// IsInsufficientStock reports whether err wraps an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}
