package handlers

import (
	"fmt"
	"log"

	"shopkeep/internal/middleware"
	"shopkeep/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for catalog listings.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterPublicRoutes registers the browsing routes. They sit behind
// optional authentication: anonymous callers see only approved
// listings, a moderator's token widens the view.
func (h *ProductHandler) RegisterPublicRoutes(router fiber.Router) {
	publicRoutes := router.Group("/products")
	publicRoutes.Get("/", h.HandleListProducts)
	// Registered before /:id so "mine" is not eaten by the wildcard.
	publicRoutes.Get("/mine", h.HandleMyProposals)
	publicRoutes.Get("/:id", h.HandleGetProduct)
}

// RegisterProtectedRoutes registers the mutating routes, which require
// an authenticated caller.
func (h *ProductHandler) RegisterProtectedRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
	productRoutes.Post("/:id/approve", h.HandleApproveProduct)
	productRoutes.Post("/:id/reject", h.HandleRejectProduct)
}

// HandleListProducts lists what the caller may see: everything for
// moderators, approved listings for everyone else.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	products, err := h.service.ListProducts(actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleMyProposals lists the caller's own proposals in every status,
// including the feedback on rejected ones.
func (h *ProductHandler) HandleMyProposals(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	products, err := h.service.ListMyProposals(actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves a single listing visible to the caller.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	product, err := h.service.GetProduct(actor, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) parseInput(c *fiber.Ctx) (services.ProductInput, error) {
	var input services.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return input, fmt.Errorf("invalid request body: %w", err)
	}
	if err := h.validate.Struct(input); err != nil {
		return input, err
	}
	return input, nil
}

func validationReply(c *fiber.Ctx, err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// HandleCreateProduct creates a listing: Approved immediately for an
// Admin, Pending moderation for an Editor.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	input, err := h.parseInput(c)
	if err != nil {
		return validationReply(c, err)
	}

	actor := middleware.ActorFromContext(c)
	product, err := h.service.CreateProduct(actor, input)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct edits a listing; a proposer's edit re-submits it
// for moderation.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	input, err := h.parseInput(c)
	if err != nil {
		return validationReply(c, err)
	}

	actor := middleware.ActorFromContext(c)
	product, err := h.service.UpdateProduct(actor, c.Params("id"), input)
	if err != nil {
		log.Printf("Error updating product %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a listing and its image asset.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if err := h.service.DeleteProduct(actor, c.Params("id")); err != nil {
		log.Printf("Error deleting product %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted",
	})
}

// HandleApproveProduct makes a listing publicly sellable.
func (h *ProductHandler) HandleApproveProduct(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	product, err := h.service.ApproveProduct(actor, c.Params("id"))
	if err != nil {
		log.Printf("Error approving product %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(product)
}

// RejectRequest carries the optional feedback of a rejection.
type RejectRequest struct {
	Feedback string `json:"feedback"`
}

// HandleRejectProduct takes a listing out of public view with feedback
// for its proposer.
func (h *ProductHandler) HandleRejectProduct(c *fiber.Ctx) error {
	var req RejectRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	actor := middleware.ActorFromContext(c)
	product, err := h.service.RejectProduct(actor, c.Params("id"), req.Feedback)
	if err != nil {
		log.Printf("Error rejecting product %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(product)
}
