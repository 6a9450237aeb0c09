package entity

import (
	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is unique per (customer, menu item).
type Review struct {
	gorm.Model
	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `json:"comment"`

	CustomerID uint `gorm:"uniqueIndex:idx_review_customer_item;not null" json:"customerId"`
	Customer   User `json:"-"`

	MenuItemID uint     `gorm:"uniqueIndex:idx_review_customer_item;not null" json:"menuItemId"`
	MenuItem   MenuItem `json:"-"`
}
