package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is written once at checkout; afterwards only Status moves.
type Order struct {
	gorm.Model
	OrderNumber string          `gorm:"size:36;uniqueIndex;not null" json:"orderNumber"`
	OrderDate   time.Time       `gorm:"not null" json:"orderDate"`
	Status      OrderStatus     `gorm:"size:20;not null;index" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	Notes       string          `json:"notes"`

	CustomerID uint `gorm:"index;not null" json:"customerId"`
	Customer   User `json:"-"`

	// preload on detail only
	Items   []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Payment *Payment    `gorm:"constraint:OnDelete:CASCADE" json:"payment,omitempty"`
}

// ItemsTotal sums the line subtotals of the loaded items.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].LineTotal())
	}
	return total
}
