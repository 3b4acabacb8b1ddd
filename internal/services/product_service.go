package services

import (
	"fmt"
	"strings"

	"shopkeep/internal/models"
	"shopkeep/internal/policy"
	"shopkeep/internal/repositories"
)

// DefaultRejectionFeedback is recorded when an admin rejects a listing
// without giving a reason.
const DefaultRejectionFeedback = "Does not meet catalog guidelines."

// ProductInput carries the editable fields of a listing.
type ProductInput struct {
	Title       string  `json:"title" validate:"required,min=3,max=200"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	ImageURL    string  `json:"image_url" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	CategoryID  string  `json:"category_id" validate:"required"`
}

// ProductService owns the moderation lifecycle of catalog listings:
// Pending, Approved and Rejected are the only reachable states, and
// only Approved listings are publicly visible or sellable.
type ProductService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	images       ImageStore
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository, images ImageStore) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		images:       images,
	}
}

// ListProducts retrieves the listings the actor may see: moderators
// get every status for review, everyone else only Approved.
func (s *ProductService) ListProducts(actor policy.Actor) ([]models.Product, error) {
	if actor.IsModerator() {
		return s.productRepo.GetAll()
	}
	return s.productRepo.GetApproved()
}

// ListMyProposals retrieves the listings the actor has proposed, in
// every status, so a proposer can track moderation outcomes and read
// rejection feedback.
func (s *ProductService) ListMyProposals(actor policy.Actor) ([]models.Product, error) {
	if !actor.IsModerator() {
		return nil, models.ErrForbidden
	}
	return s.productRepo.GetByProposer(actor.UserID)
}

// GetProduct retrieves a single listing. A listing the actor may not
// see is indistinguishable from one that does not exist.
func (s *ProductService) GetProduct(actor policy.Actor, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanSeeProduct(actor, product) {
		return nil, fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
	}
	return product, nil
}

// CreateProduct creates a listing. An Admin's product is Approved
// immediately with no proposer recorded; an Editor's product enters
// moderation as Pending with the Editor recorded as proposer.
func (s *ProductService) CreateProduct(actor policy.Actor, input ProductInput) (*models.Product, error) {
	if !actor.IsModerator() {
		return nil, models.ErrForbidden
	}
	if _, err := s.categoryRepo.GetByID(input.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Price:       input.Price,
		Stock:       input.Stock,
		CategoryID:  input.CategoryID,
	}
	if actor.IsAdmin() {
		product.Status = models.StatusApproved
	} else {
		product.Status = models.StatusPending
		proposer := actor.UserID
		product.ProposedByUserID = &proposer
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies an edit. An edit of a Pending or Rejected
// listing by its recorded proposer is a re-submission: the status is
// forced back to Pending and any admin feedback is cleared, whatever
// fields changed. Admin edits never move the status.
func (s *ProductService) UpdateProduct(actor policy.Actor, id string, input ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditProduct(actor, product) {
		return nil, models.ErrForbidden
	}
	if _, err := s.categoryRepo.GetByID(input.CategoryID); err != nil {
		return nil, err
	}

	oldImage := product.ImageURL
	product.Title = input.Title
	product.Description = input.Description
	if input.ImageURL != "" {
		product.ImageURL = input.ImageURL
	}
	product.Price = input.Price
	product.Stock = input.Stock
	product.CategoryID = input.CategoryID

	isProposerEdit := !actor.IsAdmin() &&
		product.ProposedByUserID != nil && *product.ProposedByUserID == actor.UserID
	if isProposerEdit && (product.Status == models.StatusPending || product.Status == models.StatusRejected) {
		product.Status = models.StatusPending
		product.AdminFeedback = ""
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	if input.ImageURL != "" && oldImage != "" && oldImage != input.ImageURL {
		removeImage(s.images, oldImage)
	}
	return product, nil
}

// ApproveProduct makes a listing publicly sellable and clears any
// rejection feedback. Approving an already-approved listing is not an
// error; the feedback is re-cleared either way.
func (s *ProductService) ApproveProduct(actor policy.Actor, id string) (*models.Product, error) {
	if !actor.IsAdmin() {
		return nil, models.ErrForbidden
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	product.Status = models.StatusApproved
	product.AdminFeedback = ""
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// RejectProduct takes a listing out of public view and records the
// admin's feedback for the proposer; blank feedback is replaced by a
// fixed default phrase.
func (s *ProductService) RejectProduct(actor policy.Actor, id, feedback string) (*models.Product, error) {
	if !actor.IsAdmin() {
		return nil, models.ErrForbidden
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		feedback = DefaultRejectionFeedback
	}
	product.Status = models.StatusRejected
	product.AdminFeedback = feedback
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a listing and its uploaded image asset.
// Allowed to any Admin and to the recorded proposer, at any state.
func (s *ProductService) DeleteProduct(actor policy.Actor, id string) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !policy.CanDeleteProduct(actor, product) {
		return models.ErrForbidden
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	removeImage(s.images, product.ImageURL)
	return nil
}
