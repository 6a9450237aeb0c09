package entity

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username  string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `json:"-"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsStaff   bool   `gorm:"not null" json:"isStaff"`

	// Relations, preloaded only when needed
	Profile         *CustomerProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Orders          []Order          `gorm:"foreignKey:CustomerID" json:"-"`
	Reviews         []Review         `gorm:"foreignKey:CustomerID" json:"-"`
	SupportRequests []SupportRequest `gorm:"foreignKey:CustomerID" json:"-"`
	OTPDevices      []OTPDevice      `json:"-"`
}
