package handlers

import (
	"errors"
	"log"

	"shopkeep/internal/middleware"
	"shopkeep/internal/models"
	"shopkeep/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories. Categories are
// thin reference data; the handler talks to the repository directly.
type CategoryHandler struct {
	repo repositories.CategoryRepository
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(repo repositories.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{
		repo: repo,
	}
}

// RegisterPublicRoutes registers the public category listing.
func (h *CategoryHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/categories", h.HandleListCategories)
}

// RegisterProtectedRoutes registers category creation, which requires
// an authenticated Admin.
func (h *CategoryHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Post("/categories", h.HandleCreateCategory)
}

// HandleListCategories lists all categories.
func (h *CategoryHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.repo.GetAll()
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		return respondError(c, err)
	}
	return c.JSON(categories)
}

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// HandleCreateCategory creates a category with a case-insensitively
// unique name.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if !actor.IsAdmin() {
		return respondError(c, models.ErrForbidden)
	}

	var req CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil || len(req.Name) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A category name of at least 2 characters is required",
		})
	}

	if _, err := h.repo.GetByName(req.Name); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "A category with this name already exists",
		})
	} else if !errors.Is(err, models.ErrNotFound) {
		return respondError(c, err)
	}

	category := models.Category{Name: req.Name}
	if err := h.repo.Create(&category); err != nil {
		log.Printf("Error creating category: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}
