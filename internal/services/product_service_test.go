package services_test

import (
	"testing"

	"shopkeep/internal/models"
	"shopkeep/internal/policy"
	"shopkeep/internal/repositories"
	"shopkeep/internal/services"

	"github.com/stretchr/testify/assert"
)

type productFixture struct {
	service      *services.ProductService
	productRepo  *repositories.MockProductRepository
	categoryRepo *repositories.MockCategoryRepository
	category     *models.Category
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()

	productRepo := repositories.NewMockProductRepository()
	categoryRepo := repositories.NewMockCategoryRepository()
	category := &models.Category{Name: "Books"}
	assert.NoError(t, categoryRepo.Create(category))

	return &productFixture{
		service:      services.NewProductService(productRepo, categoryRepo, nil),
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		category:     category,
	}
}

func (f *productFixture) input(title string) services.ProductInput {
	return services.ProductInput{
		Title:      title,
		Price:      19.90,
		Stock:      5,
		CategoryID: f.category.ID,
	}
}

func adminActor(id string) policy.Actor {
	return policy.Actor{UserID: id, Roles: policy.NewRoleSet(models.RoleAdmin, models.RoleUser)}
}

func editorActor(id string) policy.Actor {
	return policy.Actor{UserID: id, Roles: policy.NewRoleSet(models.RoleEditor, models.RoleUser)}
}

func buyerActor(id string) policy.Actor {
	return policy.Actor{UserID: id, Roles: policy.NewRoleSet(models.RoleUser)}
}

func TestProductService_CreateProduct_AdminIsApproved(t *testing.T) {
	f := newProductFixture(t)

	product, err := f.service.CreateProduct(adminActor("a-1"), f.input("Hardcover Atlas"))

	assert.NoError(t, err)
	assert.Equal(t, models.StatusApproved, product.Status)
	assert.Nil(t, product.ProposedByUserID, "admin creations carry no proposer")
}

func TestProductService_CreateProduct_EditorEntersModeration(t *testing.T) {
	f := newProductFixture(t)

	product, err := f.service.CreateProduct(editorActor("ed-1"), f.input("Paperback Atlas"))

	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, product.Status)
	if assert.NotNil(t, product.ProposedByUserID) {
		assert.Equal(t, "ed-1", *product.ProposedByUserID)
	}
}

func TestProductService_CreateProduct_BuyerForbidden(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.service.CreateProduct(buyerActor("u-1"), f.input("Atlas"))
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestProductService_CreateProduct_UnknownCategory(t *testing.T) {
	f := newProductFixture(t)
	input := f.input("Atlas")
	input.CategoryID = "missing"

	_, err := f.service.CreateProduct(adminActor("a-1"), input)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProductService_Visibility(t *testing.T) {
	f := newProductFixture(t)

	pending, err := f.service.CreateProduct(editorActor("ed-1"), f.input("Pending Atlas"))
	assert.NoError(t, err)
	approved, err := f.service.CreateProduct(adminActor("a-1"), f.input("Approved Atlas"))
	assert.NoError(t, err)

	// Buyers and anonymous visitors see only the approved listing.
	list, err := f.service.ListProducts(buyerActor("u-1"))
	assert.NoError(t, err)
	if assert.Len(t, list, 1) {
		assert.Equal(t, approved.ID, list[0].ID)
	}

	_, err = f.service.GetProduct(policy.Actor{}, pending.ID)
	assert.ErrorIs(t, err, models.ErrNotFound, "hidden listings read as missing")

	// Moderators see the whole catalog.
	list, err = f.service.ListProducts(adminActor("a-1"))
	assert.NoError(t, err)
	assert.Len(t, list, 2)

	got, err := f.service.GetProduct(editorActor("ed-2"), pending.ID)
	assert.NoError(t, err, "editors review each other's pending work")
	assert.Equal(t, pending.ID, got.ID)
}

func TestProductService_ListMyProposals(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.service.CreateProduct(editorActor("ed-1"), f.input("Mine"))
	assert.NoError(t, err)
	_, err = f.service.CreateProduct(editorActor("ed-2"), f.input("Theirs"))
	assert.NoError(t, err)

	mine, err := f.service.ListMyProposals(editorActor("ed-1"))
	assert.NoError(t, err)
	if assert.Len(t, mine, 1) {
		assert.Equal(t, "Mine", mine[0].Title)
	}

	_, err = f.service.ListMyProposals(buyerActor("u-1"))
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestProductService_RejectProduct(t *testing.T) {
	f := newProductFixture(t)

	product, err := f.service.CreateProduct(editorActor("ed-1"), f.input("Atlas"))
	assert.NoError(t, err)

	rejected, err := f.service.RejectProduct(adminActor("a-1"), product.ID, "  Blurry cover photo.  ")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, "Blurry cover photo.", rejected.AdminFeedback)
}

func TestProductService_RejectProduct_BlankFeedbackGetsDefault(t *testing.T) {
	f := newProductFixture(t)

	product, err := f.service.CreateProduct(editorActor("ed-1"), f.input("Atlas"))
	assert.NoError(t, err)

	rejected, err := f.service.RejectProduct(adminActor("a-1"), product.ID, "   ")
	assert.NoError(t, err)
	assert.Equal(t, services.DefaultRejectionFeedback, rejected.AdminFeedback)
}

func TestProductService_RejectProduct_EditorForbidden(t *testing.T) {
	f := newProductFixture(t)

	product, err := f.service.CreateProduct(editorActor("ed-1"), f.input("Atlas"))
	assert.NoError(t, err)

	_, err = f.service.RejectProduct(editorActor("ed-1"), product.ID, "nope")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestProductService_ApproveProduct_ClearsFeedback(t *testing.T) {
	f := newProductFixture(t)

	product, err := f.service.CreateProduct(editorActor("ed-1"), f.input("Atlas"))
	assert.NoError(t, err)
	_, err = f.service.RejectProduct(adminActor("a-1"), product.ID, "fix the price")
	assert.NoError(t, err)

	approved, err := f.service.ApproveProduct(adminActor("a-1"), product.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.Empty(t, approved.AdminFeedback)

	// Approving again is harmless.
	again, err := f.service.ApproveProduct(adminActor("a-1"), product.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusApproved, again.Status)
}

func TestProductService_UpdateProduct_ProposerEditResubmits(t *testing.T) {
	f := newProductFixture(t)

	product, err := f.service.CreateProduct(editorActor("ed-1"), f.input("Atlas"))
	assert.NoError(t, err)
	_, err = f.service.RejectProduct(adminActor("a-1"), product.ID, "fix the title")
	assert.NoError(t, err)

	updated, err := f.service.UpdateProduct(editorActor("ed-1"), product.ID, f.input("World Atlas"))
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status, "proposer edit re-enters moderation")
	assert.Empty(t, updated.AdminFeedback, "stale feedback is cleared on resubmission")
	assert.Equal(t, "World Atlas", updated.Title)
}

func TestProductService_UpdateProduct_AdminEditKeepsStatus(t *testing.T) {
	f := newProductFixture(t)

	product, err := f.service.CreateProduct(editorActor("ed-1"), f.input("Atlas"))
	assert.NoError(t, err)
	_, err = f.service.RejectProduct(adminActor("a-1"), product.ID, "fix the title")
	assert.NoError(t, err)

	updated, err := f.service.UpdateProduct(adminActor("a-1"), product.ID, f.input("World Atlas"))
	assert.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Status, "admin edits do not move the status")
	assert.Equal(t, "fix the title", updated.AdminFeedback)
}

func TestProductService_UpdateProduct_OtherEditorForbidden(t *testing.T) {
	f := newProductFixture(t)

	product, err := f.service.CreateProduct(editorActor("ed-1"), f.input("Atlas"))
	assert.NoError(t, err)

	_, err = f.service.UpdateProduct(editorActor("ed-2"), product.ID, f.input("Stolen Atlas"))
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestProductService_DeleteProduct(t *testing.T) {
	f := newProductFixture(t)

	product, err := f.service.CreateProduct(editorActor("ed-1"), f.input("Atlas"))
	assert.NoError(t, err)

	assert.ErrorIs(t, f.service.DeleteProduct(buyerActor("u-1"), product.ID), models.ErrForbidden)
	assert.NoError(t, f.service.DeleteProduct(editorActor("ed-1"), product.ID))

	_, err = f.productRepo.GetByID(product.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
