package models

import "gorm.io/gorm"

// ProductStatus is the moderation lifecycle tag on a catalog listing.
// Only Approved products are publicly sellable.
type ProductStatus string

const (
	StatusPending  ProductStatus = "Pending"
	StatusApproved ProductStatus = "Approved"
	StatusRejected ProductStatus = "Rejected"
)

// Product represents a catalog listing.
//
// ProposedByUserID is set iff the product originated from an Editor
// proposal; Admin-created products carry no proposer and bypass
// moderation. AdminFeedback is only ever non-empty in the Rejected
// state and is cleared on approval or re-submission.
type Product struct {
	ID               string        `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title            string        `json:"title" validate:"required,min=3,max=200"`
	Description      string        `json:"description" validate:"omitempty,max=2000"`
	ImageURL         string        `json:"image_url" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Price            float64       `json:"price" validate:"required,gt=0"`
	Stock            int           `json:"stock" validate:"gte=0"`
	CategoryID       string        `json:"category_id" gorm:"type:varchar(36);index" validate:"required,uuid"`
	Status           ProductStatus `json:"status" gorm:"type:varchar(20);index"`
	ProposedByUserID *string       `json:"proposed_by_user_id" gorm:"type:varchar(36)"`
	AdminFeedback    string        `json:"admin_feedback" gorm:"type:varchar(500)"`
	gorm.Model       `json:"-"`
}
