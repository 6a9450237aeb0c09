package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment records how an order is paid. The amount always equals the order total.
type Payment struct {
	gorm.Model
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method        PaymentMethod   `gorm:"size:20;not null" json:"method"`
	Status        PaymentStatus   `gorm:"size:20;not null" json:"status"`
	TransactionID string          `gorm:"size:100" json:"transactionId"`
	PaymentDate   time.Time       `gorm:"not null" json:"paymentDate"`

	OrderID uint  `gorm:"uniqueIndex;not null" json:"orderId"`
	Order   Order `json:"-"`
}
