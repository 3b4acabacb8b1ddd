package handlers

import (
	"log"

	"shopkeep/internal/middleware"
	"shopkeep/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminUsersHandler handles HTTP requests for account administration.
type AdminUsersHandler struct {
	service *services.AdminUserService
}

// NewAdminUsersHandler creates a new AdminUsersHandler.
func NewAdminUsersHandler(service *services.AdminUserService) *AdminUsersHandler {
	return &AdminUsersHandler{
		service: service,
	}
}

// RegisterRoutes registers the admin user-management routes. The
// service re-checks the Admin role on every call; routes still sit
// behind required authentication.
func (h *AdminUsersHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/admin/users")
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Put("/:id/roles", h.HandleChangeRoles)
	userRoutes.Post("/:id/lock", h.HandleToggleLock)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// HandleListUsers lists every account with roles and lock state.
func (h *AdminUsersHandler) HandleListUsers(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	users, err := h.service.ListUsers(actor)
	if err != nil {
		return respondError(c, err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return c.JSON(users)
}

// ChangeRolesRequest is the requested role set for a target account.
type ChangeRolesRequest struct {
	Roles []string `json:"roles"`
}

// HandleChangeRoles applies a role set to the target account and
// reports the delta that was actually applied.
func (h *AdminUsersHandler) HandleChangeRoles(c *fiber.Ctx) error {
	var req ChangeRolesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	actor := middleware.ActorFromContext(c)
	change, err := h.service.ChangeUserRoles(actor, c.Params("id"), req.Roles)
	if err != nil {
		log.Printf("Error changing roles for user %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}

	reply := fiber.Map{
		"message": "Roles updated",
		"added":   change.Added,
		"removed": change.Removed,
		"roles":   change.Final,
	}
	if change.KeptBaselineRole {
		reply["message"] = "Roles updated. The 'User' role is mandatory and cannot be removed."
	}
	return c.JSON(reply)
}

// HandleToggleLock flips the lock state of the target account.
func (h *AdminUsersHandler) HandleToggleLock(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	locked, err := h.service.ToggleLock(actor, c.Params("id"))
	if err != nil {
		log.Printf("Error toggling lock for user %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}

	message := "Account unlocked"
	if locked {
		message = "Account locked"
	}
	return c.JSON(fiber.Map{
		"message": message,
		"locked":  locked,
	})
}

// HandleDeleteUser removes the target account.
func (h *AdminUsersHandler) HandleDeleteUser(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if err := h.service.DeleteUser(actor, c.Params("id")); err != nil {
		log.Printf("Error deleting user %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "User deleted",
	})
}
