package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"shopkeep/internal/models"
	"shopkeep/internal/repositories"
)

// EventPublisher publishes order lifecycle events to the message
// broker. Publication is best-effort and happens after the unit of
// work commits.
type EventPublisher interface {
	PublishOrderEvent(event string, payload map[string]interface{}) error
}

// Routing keys for the order lifecycle events published to the broker.
const (
	eventOrderPlaced    = "order.placed"
	eventOrderCancelled = "order.cancelled"
)

// CartLine pairs a cart row with the live product it points at.
type CartLine struct {
	Item     models.CartItem `json:"item"`
	Product  models.Product  `json:"product"`
	Subtotal float64         `json:"subtotal"`
}

// CartService owns the cart-to-order flow. Carts never reserve
// inventory: stock is checked optimistically on every cart mutation
// and re-validated inside the checkout unit of work, where the actual
// decrement is a conditional write that cannot oversell.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	uow         repositories.UnitOfWork
	events      EventPublisher
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository, userRepo repositories.UserRepository, uow repositories.UnitOfWork, events EventPublisher) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		uow:         uow,
		events:      events,
	}
}

// ViewCart returns the user's cart lines with live product data and
// the running total.
func (s *CartService) ViewCart(userID string) ([]CartLine, float64, error) {
	items, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, 0, err
	}

	var lines []CartLine
	var total float64
	for _, item := range items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			// A product deleted since it was added contributes nothing.
			continue
		}
		subtotal := product.Price * float64(item.Quantity)
		lines = append(lines, CartLine{Item: item, Product: *product, Subtotal: subtotal})
		total += subtotal
	}
	return lines, total, nil
}

// AddToCart puts quantity units of a product into the user's cart. If
// a row for the product already exists the quantities are summed, and
// the combined total is what must fit in the current stock. Only
// Approved products can be added; anything else reads as not found.
func (s *CartService) AddToCart(userID, productID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product.Status != models.StatusApproved {
		return nil, fmt.Errorf("product with ID %s: %w", productID, models.ErrNotFound)
	}

	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err == nil {
		newQuantity := existing.Quantity + quantity
		if product.Stock < newQuantity {
			return nil, &models.InsufficientStockError{ProductID: product.ID, ProductTitle: product.Title}
		}
		existing.Quantity = newQuantity
		if err := s.cartRepo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	if product.Stock < quantity {
		return nil, &models.InsufficientStockError{ProductID: product.ID, ProductTitle: product.Title}
	}
	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	}
	if err := s.cartRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity replaces (not sums) the quantity on a cart row. A
// quantity of zero or less removes the row.
func (s *CartService) UpdateQuantity(userID, itemID string, quantity int) (*models.CartItem, error) {
	item, err := s.cartRepo.GetByID(userID, itemID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.cartRepo.Delete(userID, itemID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	product, err := s.productRepo.GetByID(item.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Stock < quantity {
		return nil, &models.InsufficientStockError{ProductID: product.ID, ProductTitle: product.Title}
	}

	item.Quantity = quantity
	if err := s.cartRepo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveFromCart deletes one cart row. Stock is untouched; carts do
// not reserve inventory.
func (s *CartService) RemoveFromCart(userID, itemID string) error {
	return s.cartRepo.Delete(userID, itemID)
}

// ClearCart deletes every cart row belonging to the user.
func (s *CartService) ClearCart(userID string) error {
	return s.cartRepo.DeleteByUser(userID)
}

// Checkout turns the user's cart into an order. The delivery address
// comes from the request or, with useSavedAddress, from the account
// profile. Stock is re-validated for every line against the current
// product rows because cart membership reserves nothing, then one unit
// of work creates the order, snapshots the line items, conditionally
// decrements each product's stock and clears the cart. Any failure
// inside the unit aborts all of it.
func (s *CartService) Checkout(userID, deliveryAddress string, useSavedAddress bool) (*models.Order, error) {
	address := strings.TrimSpace(deliveryAddress)
	if useSavedAddress {
		user, err := s.userRepo.GetByID(userID)
		if err != nil {
			return nil, err
		}
		address = strings.TrimSpace(user.Address)
	}
	if address == "" {
		return nil, models.ErrMissingAddress
	}

	items, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.ErrEmptyCart
	}

	var order *models.Order
	err = s.uow.Do(func(r repositories.Repos) error {
		var total float64
		var lines []models.OrderItem
		products := make(map[string]*models.Product, len(items))

		for _, item := range items {
			product, err := r.Products.GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if product.Stock < item.Quantity {
				return &models.InsufficientStockError{ProductID: product.ID, ProductTitle: product.Title}
			}
			products[item.ProductID] = product
			lines = append(lines, models.OrderItem{
				ProductID:       product.ID,
				Quantity:        item.Quantity,
				UnitPrice:       product.Price,
				ProductTitle:    product.Title,
				ProductImageURL: product.ImageURL,
			})
			total += product.Price * float64(item.Quantity)
		}

		order = &models.Order{
			UserID:          userID,
			OrderDate:       time.Now(),
			TotalAmount:     total,
			DeliveryAddress: address,
			Status:          models.OrderPlaced,
			Items:           lines,
		}
		if err := r.Orders.Create(order); err != nil {
			return err
		}

		// The conditional decrement is the authoritative stock check:
		// a concurrent checkout that drained the row first makes it
		// fail, rolling back the whole order.
		for _, item := range items {
			if err := r.Products.DecrementStock(item.ProductID, item.Quantity); err != nil {
				if models.IsInsufficientStock(err) {
					return &models.InsufficientStockError{
						ProductID:    item.ProductID,
						ProductTitle: products[item.ProductID].Title,
					}
				}
				return err
			}
		}

		return r.Carts.DeleteByUser(userID)
	})
	if err != nil {
		return nil, err
	}

	s.publish(eventOrderPlaced, order)
	return order, nil
}

// publish emits an order lifecycle event after commit. A broker
// failure is logged, never surfaced: the order already exists.
func (s *CartService) publish(event string, order *models.Order) {
	if s.events == nil {
		return
	}
	payload := map[string]interface{}{
		"orderID": order.ID,
		"userID":  order.UserID,
		"status":  order.Status,
		"total":   order.TotalAmount,
	}
	if err := s.events.PublishOrderEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", event, order.ID, err)
	}
}
