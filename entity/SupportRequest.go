package entity

import (
	"time"

	"gorm.io/gorm"
)

type SupportRequest struct {
	gorm.Model
	Subject     string        `gorm:"size:200;not null" json:"subject"`
	Description string        `gorm:"not null" json:"description"`
	Status      SupportStatus `gorm:"size:20;not null;index" json:"status"`
	ResolvedAt  *time.Time    `json:"resolvedAt,omitempty"`

	CustomerID uint `gorm:"index;not null" json:"customerId"`
	Customer   User `json:"customer,omitempty"`

	AssignedToID *uint `gorm:"index" json:"assignedToId,omitempty"`
	AssignedTo   *User `json:"assignedTo,omitempty"`

	Messages []SupportMessage `gorm:"constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

func (r *SupportRequest) IsAssignedTo(userID uint) bool {
	return r.AssignedToID != nil && *r.AssignedToID == userID
}
