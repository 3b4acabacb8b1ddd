package models

import "gorm.io/gorm"

// Category groups products. Names are unique case-insensitively; the
// repository normalizes lookups to enforce that.
type Category struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100"`
	gorm.Model `json:"-"`
}
