package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MenuItem struct {
	gorm.Model
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"price"`
	Image       string          `json:"image"`
	IsAvailable bool            `gorm:"not null;index" json:"isAvailable"`

	CategoryID uint     `gorm:"index;not null" json:"categoryId"`
	Category   Category `json:"category,omitempty"`

	OrderItems []OrderItem `json:"-"`
	Reviews    []Review    `json:"-"`
}
