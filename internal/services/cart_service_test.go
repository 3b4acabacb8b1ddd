package services_test

import (
	"testing"

	"shopkeep/internal/models"
	"shopkeep/internal/repositories"
	"shopkeep/internal/services"

	"github.com/stretchr/testify/assert"
)

// capturedEvents records published order events for assertions.
type capturedEvents struct {
	events []string
}

func (c *capturedEvents) PublishOrderEvent(event string, payload map[string]interface{}) error {
	c.events = append(c.events, event)
	return nil
}

type cartFixture struct {
	service *services.CartService
	uow     *repositories.MockUnitOfWork
	events  *capturedEvents
	buyer   *models.User
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	uow := repositories.NewMockUnitOfWork()
	events := &capturedEvents{}
	buyer := &models.User{Username: "ana", Email: "ana@example.com", Address: "12 Harbour Road", Roles: []string{models.RoleUser}}
	assert.NoError(t, uow.Repos.Users.Create(buyer))

	return &cartFixture{
		service: services.NewCartService(uow.Repos.Carts, uow.Repos.Products, uow.Repos.Users, uow, events),
		uow:     uow,
		events:  events,
		buyer:   buyer,
	}
}

func (f *cartFixture) seedProduct(t *testing.T, title string, stock int, price float64, status models.ProductStatus) *models.Product {
	t.Helper()

	product := &models.Product{Title: title, Price: price, Stock: stock, Status: status}
	assert.NoError(t, f.uow.Repos.Products.Create(product))
	return product
}

func TestCartService_AddToCart(t *testing.T) {
	f := newCartFixture(t)
	product := f.seedProduct(t, "Atlas", 5, 10.0, models.StatusApproved)

	item, err := f.service.AddToCart(f.buyer.ID, product.ID, 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	// Adding the same product again merges by summing quantities.
	item, err = f.service.AddToCart(f.buyer.ID, product.ID, 3)
	assert.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	lines, total, err := f.service.ViewCart(f.buyer.ID)
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, 50.0, total)
}

func TestCartService_AddToCart_MergedQuantityOverStock(t *testing.T) {
	f := newCartFixture(t)
	product := f.seedProduct(t, "Atlas", 5, 10.0, models.StatusApproved)

	_, err := f.service.AddToCart(f.buyer.ID, product.ID, 4)
	assert.NoError(t, err)

	_, err = f.service.AddToCart(f.buyer.ID, product.ID, 2)
	assert.True(t, models.IsInsufficientStock(err), "combined quantity must fit in stock")
}

func TestCartService_AddToCart_NonApprovedReadsAsMissing(t *testing.T) {
	f := newCartFixture(t)
	pending := f.seedProduct(t, "Atlas", 5, 10.0, models.StatusPending)
	rejected := f.seedProduct(t, "Globe", 5, 10.0, models.StatusRejected)

	_, err := f.service.AddToCart(f.buyer.ID, pending.ID, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.service.AddToCart(f.buyer.ID, rejected.ID, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCartService_AddToCart_InvalidQuantity(t *testing.T) {
	f := newCartFixture(t)
	product := f.seedProduct(t, "Atlas", 5, 10.0, models.StatusApproved)

	_, err := f.service.AddToCart(f.buyer.ID, product.ID, 0)
	assert.Error(t, err)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	f := newCartFixture(t)
	product := f.seedProduct(t, "Atlas", 5, 10.0, models.StatusApproved)

	item, err := f.service.AddToCart(f.buyer.ID, product.ID, 2)
	assert.NoError(t, err)

	// Replaces, not sums.
	updated, err := f.service.UpdateQuantity(f.buyer.ID, item.ID, 4)
	assert.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	_, err = f.service.UpdateQuantity(f.buyer.ID, item.ID, 6)
	assert.True(t, models.IsInsufficientStock(err))

	// Zero removes the row.
	removed, err := f.service.UpdateQuantity(f.buyer.ID, item.ID, 0)
	assert.NoError(t, err)
	assert.Nil(t, removed)

	lines, _, err := f.service.ViewCart(f.buyer.ID)
	assert.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartService_UpdateQuantity_OtherUsersItem(t *testing.T) {
	f := newCartFixture(t)
	product := f.seedProduct(t, "Atlas", 5, 10.0, models.StatusApproved)

	item, err := f.service.AddToCart(f.buyer.ID, product.ID, 2)
	assert.NoError(t, err)

	_, err = f.service.UpdateQuantity("someone-else", item.ID, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCartService_ViewCart_SkipsDeletedProducts(t *testing.T) {
	f := newCartFixture(t)
	kept := f.seedProduct(t, "Atlas", 5, 10.0, models.StatusApproved)
	doomed := f.seedProduct(t, "Globe", 5, 25.0, models.StatusApproved)

	_, err := f.service.AddToCart(f.buyer.ID, kept.ID, 1)
	assert.NoError(t, err)
	_, err = f.service.AddToCart(f.buyer.ID, doomed.ID, 1)
	assert.NoError(t, err)

	assert.NoError(t, f.uow.Repos.Products.Delete(doomed.ID))

	lines, total, err := f.service.ViewCart(f.buyer.ID)
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, 10.0, total)
}

func TestCartService_Checkout(t *testing.T) {
	f := newCartFixture(t)
	atlas := f.seedProduct(t, "Atlas", 5, 10.0, models.StatusApproved)
	globe := f.seedProduct(t, "Globe", 3, 25.0, models.StatusApproved)

	_, err := f.service.AddToCart(f.buyer.ID, atlas.ID, 2)
	assert.NoError(t, err)
	_, err = f.service.AddToCart(f.buyer.ID, globe.ID, 1)
	assert.NoError(t, err)

	order, err := f.service.Checkout(f.buyer.ID, "45 Hill Street", false)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderPlaced, order.Status)
	assert.Equal(t, "45 Hill Street", order.DeliveryAddress)
	assert.Equal(t, 45.0, order.TotalAmount)
	assert.Len(t, order.Items, 2)

	// Line items snapshot the product at purchase time.
	byProduct := make(map[string]models.OrderItem)
	for _, line := range order.Items {
		byProduct[line.ProductID] = line
	}
	assert.Equal(t, "Atlas", byProduct[atlas.ID].ProductTitle)
	assert.Equal(t, 10.0, byProduct[atlas.ID].UnitPrice)

	// Stock is decremented and the cart is emptied.
	stocked, err := f.uow.Repos.Products.GetByID(atlas.ID)
	assert.NoError(t, err)
	assert.Equal(t, 3, stocked.Stock)

	lines, _, err := f.service.ViewCart(f.buyer.ID)
	assert.NoError(t, err)
	assert.Empty(t, lines)

	assert.Equal(t, []string{"order.placed"}, f.events.events)
}

func TestCartService_Checkout_SnapshotSurvivesProductChanges(t *testing.T) {
	f := newCartFixture(t)
	atlas := f.seedProduct(t, "Atlas", 5, 10.0, models.StatusApproved)
	atlas.ImageURL = "https://img.example.com/atlas.png"
	assert.NoError(t, f.uow.Repos.Products.Update(atlas))
	globe := f.seedProduct(t, "Globe", 3, 25.0, models.StatusApproved)

	_, err := f.service.AddToCart(f.buyer.ID, atlas.ID, 2)
	assert.NoError(t, err)
	_, err = f.service.AddToCart(f.buyer.ID, globe.ID, 1)
	assert.NoError(t, err)

	order, err := f.service.Checkout(f.buyer.ID, "45 Hill Street", false)
	assert.NoError(t, err)

	// Rewrite one product and delete the other after the purchase.
	atlas.Title = "World Atlas, 2nd Edition"
	atlas.Price = 18.0
	atlas.ImageURL = "https://img.example.com/atlas-v2.png"
	assert.NoError(t, f.uow.Repos.Products.Update(atlas))
	assert.NoError(t, f.uow.Repos.Products.Delete(globe.ID))

	// The stored order still shows the line items as they were bought.
	stored, err := f.uow.Repos.Orders.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Len(t, stored.Items, 2)

	byProduct := make(map[string]models.OrderItem)
	for _, line := range stored.Items {
		byProduct[line.ProductID] = line
	}
	assert.Equal(t, "Atlas", byProduct[atlas.ID].ProductTitle)
	assert.Equal(t, 10.0, byProduct[atlas.ID].UnitPrice)
	assert.Equal(t, "https://img.example.com/atlas.png", byProduct[atlas.ID].ProductImageURL)
	assert.Equal(t, "Globe", byProduct[globe.ID].ProductTitle)
	assert.Equal(t, 25.0, byProduct[globe.ID].UnitPrice)
	assert.Equal(t, 1, byProduct[globe.ID].Quantity)
	assert.Equal(t, 45.0, stored.TotalAmount)
}

func TestCartService_Checkout_SavedAddress(t *testing.T) {
	f := newCartFixture(t)
	atlas := f.seedProduct(t, "Atlas", 5, 10.0, models.StatusApproved)

	_, err := f.service.AddToCart(f.buyer.ID, atlas.ID, 1)
	assert.NoError(t, err)

	order, err := f.service.Checkout(f.buyer.ID, "", true)
	assert.NoError(t, err)
	assert.Equal(t, "12 Harbour Road", order.DeliveryAddress)
}

func TestCartService_Checkout_MissingAddress(t *testing.T) {
	f := newCartFixture(t)
	atlas := f.seedProduct(t, "Atlas", 5, 10.0, models.StatusApproved)

	_, err := f.service.AddToCart(f.buyer.ID, atlas.ID, 1)
	assert.NoError(t, err)

	_, err = f.service.Checkout(f.buyer.ID, "   ", false)
	assert.ErrorIs(t, err, models.ErrMissingAddress)

	// A saved-address checkout with no address on file fails the same way.
	f.buyer.Address = ""
	assert.NoError(t, f.uow.Repos.Users.Update(f.buyer))
	_, err = f.service.Checkout(f.buyer.ID, "", true)
	assert.ErrorIs(t, err, models.ErrMissingAddress)
}

func TestCartService_Checkout_EmptyCart(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.service.Checkout(f.buyer.ID, "45 Hill Street", false)
	assert.ErrorIs(t, err, models.ErrEmptyCart)
}

func TestCartService_Checkout_StockDrainedAfterAdd(t *testing.T) {
	f := newCartFixture(t)
	atlas := f.seedProduct(t, "Atlas", 5, 10.0, models.StatusApproved)

	rival := &models.User{Username: "bob", Email: "bob@example.com", Roles: []string{models.RoleUser}}
	assert.NoError(t, f.uow.Repos.Users.Create(rival))

	_, err := f.service.AddToCart(f.buyer.ID, atlas.ID, 4)
	assert.NoError(t, err)
	_, err = f.service.AddToCart(rival.ID, atlas.ID, 3)
	assert.NoError(t, err)

	// The first checkout wins the stock.
	_, err = f.service.Checkout(f.buyer.ID, "45 Hill Street", false)
	assert.NoError(t, err)

	// The rival's cart still holds 3 units but only 1 remains; their
	// checkout fails and places no order.
	_, err = f.service.Checkout(rival.ID, "9 River Lane", false)
	assert.True(t, models.IsInsufficientStock(err))

	orders, err := f.uow.Repos.Orders.GetByUser(rival.ID)
	assert.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, []string{"order.placed"}, f.events.events, "no event for the failed checkout")
}
