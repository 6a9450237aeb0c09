package entity

import (
	"gorm.io/gorm"
)

type Category struct {
	gorm.Model
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `json:"description"`

	MenuItems []MenuItem `json:"-"` // preload only on the category page
}
