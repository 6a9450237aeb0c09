package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderItem struct {
	gorm.Model
	Quantity int             `gorm:"not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"price"` // snapshot at order time
	Subtotal decimal.Decimal `gorm:"-" json:"subtotal"`

	OrderID uint  `gorm:"index;not null" json:"orderId"`
	Order   Order `json:"-"`

	MenuItemID uint     `gorm:"index;not null" json:"menuItemId"`
	MenuItem   MenuItem `json:"menuItem,omitempty"`
}

func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i *OrderItem) AfterFind(tx *gorm.DB) error {
	i.Subtotal = i.LineTotal()
	return nil
}
