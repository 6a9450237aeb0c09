package entity

import (
	"gorm.io/gorm"
)

// SupportMessage is append-only.
type SupportMessage struct {
	gorm.Model
	Message string `gorm:"not null" json:"message"`

	SupportRequestID uint           `gorm:"index;not null" json:"supportRequestId"`
	SupportRequest   SupportRequest `json:"-"`

	SenderID uint `gorm:"index;not null" json:"senderId"`
	Sender   User `json:"sender,omitempty"`
}
