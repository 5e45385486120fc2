package models

import "gorm.io/gorm"

type Product struct {
	gorm.Model
	Item        string `gorm:"size:200;not null"`
	Description string `gorm:"type:text;not null"`
	Links       string `gorm:"size:200;not null"`

	CreatedByID *uint
	CreatedBy   *User
}
