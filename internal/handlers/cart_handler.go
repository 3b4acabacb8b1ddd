package handlers

import (
	"log"

	"shopkeep/internal/middleware"
	"shopkeep/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the shopping cart and checkout.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart routes; all of them require an
// authenticated owner.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleViewCart)
	cartRoutes.Post("/items", h.HandleAddToCart)
	cartRoutes.Put("/items/:id", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:id", h.HandleRemoveFromCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/checkout", h.HandleCheckout)
}

// HandleViewCart returns the caller's cart lines and total.
func (h *CartHandler) HandleViewCart(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	lines, total, err := h.service.ViewCart(actor.UserID)
	if err != nil {
		log.Printf("Error loading cart for user %s: %v", actor.UserID, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": lines,
		"total": total,
	})
}

// AddToCartRequest is the request body for adding a product to the cart.
type AddToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// HandleAddToCart puts a product into the caller's cart, summing
// quantities when the product is already there.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ProductID == "" || req.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id and a quantity of at least 1 are required",
		})
	}

	actor := middleware.ActorFromContext(c)
	item, err := h.service.AddToCart(actor.UserID, req.ProductID, req.Quantity)
	if err != nil {
		log.Printf("Error adding product %s to cart: %v", req.ProductID, err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateQuantityRequest is the request body for replacing a cart
// row's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleUpdateQuantity replaces the quantity on a cart row; zero or
// less removes the row.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	actor := middleware.ActorFromContext(c)
	item, err := h.service.UpdateQuantity(actor.UserID, c.Params("id"), req.Quantity)
	if err != nil {
		log.Printf("Error updating cart item %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	if item == nil {
		return c.JSON(fiber.Map{
			"message": "Item removed from cart",
		})
	}
	return c.JSON(item)
}

// HandleRemoveFromCart deletes one cart row.
func (h *CartHandler) HandleRemoveFromCart(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if err := h.service.RemoveFromCart(actor.UserID, c.Params("id")); err != nil {
		log.Printf("Error removing cart item %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Item removed from cart",
	})
}

// HandleClearCart empties the caller's cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if err := h.service.ClearCart(actor.UserID); err != nil {
		log.Printf("Error clearing cart for user %s: %v", actor.UserID, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}

// CheckoutRequest is the request body for checkout. Either a delivery
// address is supplied or use_saved_address selects the profile one.
type CheckoutRequest struct {
	DeliveryAddress string `json:"delivery_address"`
	UseSavedAddress bool   `json:"use_saved_address"`
}

// HandleCheckout turns the caller's cart into an order.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	actor := middleware.ActorFromContext(c)
	order, err := h.service.Checkout(actor.UserID, req.DeliveryAddress, req.UseSavedAddress)
	if err != nil {
		log.Printf("Error during checkout for user %s: %v", actor.UserID, err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}
