package services

import (
	"fmt"
	"log"

	"shopkeep/internal/models"
	"shopkeep/internal/policy"
	"shopkeep/internal/repositories"
)

// OrderService handles order queries, administrative status changes
// and cancellation with restock.
type OrderService struct {
	orderRepo repositories.OrderRepository
	uow       repositories.UnitOfWork
	events    EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, uow repositories.UnitOfWork, events EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		uow:       uow,
		events:    events,
	}
}

// ListOrders retrieves all orders for an Admin, or the actor's own
// orders otherwise.
func (s *OrderService) ListOrders(actor policy.Actor) ([]models.Order, error) {
	if actor.Anonymous() {
		return nil, models.ErrForbidden
	}
	if actor.IsAdmin() {
		return s.orderRepo.GetAll()
	}
	return s.orderRepo.GetByUser(actor.UserID)
}

// GetOrder retrieves a single order, visible to its owner and to any
// Admin.
func (s *OrderService) GetOrder(actor policy.Actor, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.UserID {
		return nil, models.ErrForbidden
	}
	return order, nil
}

// UpdateStatus moves an order to another status in the vocabulary.
// Admin only; line items are never touched.
func (s *OrderService) UpdateStatus(actor policy.Actor, id string, status models.OrderStatus) error {
	if !actor.IsAdmin() {
		return models.ErrForbidden
	}
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("invalid order status: %s", status)
	}
	return s.orderRepo.UpdateStatus(id, status)
}

// CancelOrder cancels a Placed order, restocking every line item
// against the live product rows in one unit of work. The status flip
// is a conditional write on the Placed state, so an order can only be
// cancelled once. An order in any other status yields AlreadyFinalized
// and changes nothing. A product
// deleted since the purchase simply cannot be restocked; that line is
// skipped silently rather than failing the cancellation. Allowed to
// the order's owner and to any Admin.
func (s *OrderService) CancelOrder(actor policy.Actor, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.UserID {
		return nil, models.ErrForbidden
	}
	if order.Status != models.OrderPlaced {
		return nil, models.ErrAlreadyFinalized
	}

	err = s.uow.Do(func(r repositories.Repos) error {
		// The conditional flip is the authoritative check: an
		// interleaved cancellation that won the row first makes it
		// fail, rolling back without a second restock.
		flipped, err := r.Orders.TransitionStatus(order.ID, models.OrderPlaced, models.OrderCancelled)
		if err != nil {
			return err
		}
		if !flipped {
			return models.ErrAlreadyFinalized
		}
		for _, item := range order.Items {
			restocked, err := r.Products.IncrementStock(item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !restocked {
				log.Printf("Product %s no longer exists; skipping restock of %d units for order %s",
					item.ProductID, item.Quantity, order.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = models.OrderCancelled
	s.publishCancelled(order)
	return order, nil
}

func (s *OrderService) publishCancelled(order *models.Order) {
	if s.events == nil {
		return
	}
	payload := map[string]interface{}{
		"orderID": order.ID,
		"userID":  order.UserID,
		"status":  order.Status,
		"total":   order.TotalAmount,
	}
	if err := s.events.PublishOrderEvent(eventOrderCancelled, payload); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", eventOrderCancelled, order.ID, err)
	}
}
