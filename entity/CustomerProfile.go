package entity

import (
	"gorm.io/gorm"
)

// CustomerProfile holds contact details. Every registered user gets one.
type CustomerProfile struct {
	gorm.Model
	UserID      uint   `gorm:"uniqueIndex;not null" json:"userId"`
	User        User   `json:"-"`
	PhoneNumber string `gorm:"size:15" json:"phoneNumber"`
	Address     string `json:"address"`
}
