package handlers

import (
	"log"

	"shopkeep/internal/middleware"
	"shopkeep/internal/models"
	"shopkeep/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes; all require authentication.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Patch("/:id/status", h.HandleUpdateStatus)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
}

// HandleListOrders lists every order for an Admin, the caller's own
// orders otherwise.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	orders, err := h.service.ListOrders(actor)
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrder retrieves one order, visible to its owner or an Admin.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	order, err := h.service.GetOrder(actor, c.Params("id"))
	if err != nil {
		log.Printf("Error getting order %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(order)
}

// UpdateStatusRequest is the request body for an order status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateStatus moves an order to another status (Admin only).
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if !models.ValidOrderStatus(models.OrderStatus(req.Status)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A valid status is required",
		})
	}

	actor := middleware.ActorFromContext(c)
	if err := h.service.UpdateStatus(actor, c.Params("id"), models.OrderStatus(req.Status)); err != nil {
		log.Printf("Error updating status for order %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Order status updated",
	})
}

// HandleCancelOrder cancels a Placed order and restocks its lines.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	order, err := h.service.CancelOrder(actor, c.Params("id"))
	if err != nil {
		log.Printf("Error cancelling order %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(order)
}
