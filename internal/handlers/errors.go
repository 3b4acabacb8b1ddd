package handlers

import (
	"errors"
	"log"

	"shopkeep/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respondError maps the core's typed errors to HTTP statuses. All of
// them are expected outcomes carrying a user-facing message; only
// persistence faults and unclassified errors are logged as operational
// problems.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, models.ErrForbidden),
		errors.Is(err, models.ErrSuperAdminProtected),
		errors.Is(err, models.ErrSelfDemotionForbidden),
		errors.Is(err, models.ErrSelfLockoutForbidden),
		errors.Is(err, models.ErrSelfDeleteForbidden),
		errors.Is(err, models.ErrLastAdminProtected):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, models.ErrInvalidRole),
		errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrMissingAddress):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	case models.IsInsufficientStock(err), errors.Is(err, models.ErrAlreadyFinalized):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	default:
		log.Printf("Unexpected error handling %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
			"error":   err.Error(),
		})
	}
}
