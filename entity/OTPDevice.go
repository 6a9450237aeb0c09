package entity

import (
	"gorm.io/gorm"
)

// TOTPDeviceClass names the only device kind in audit entries.
const TOTPDeviceClass = "TOTPDevice"

// OTPDevice is a user's TOTP authenticator. It only gates logins once confirmed.
type OTPDevice struct {
	gorm.Model
	Name      string `gorm:"size:64;not null" json:"name"`
	Secret    string `gorm:"not null" json:"-"`
	Confirmed bool   `gorm:"not null;index" json:"confirmed"`

	UserID uint `gorm:"index;not null" json:"userId"`
	User   User `json:"-"`
}
