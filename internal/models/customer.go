package models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrProtected is returned when a record cannot be removed because other
// records still reference it.
var ErrProtected = errors.New("record is referenced by other records")

type Customer struct {
	gorm.Model
	Name           string  `gorm:"size:200;not null"`
	ContactDetails string  `gorm:"type:text;not null"`
	Remarks        *string `gorm:"type:text"`

	CreatedByID *uint
	CreatedBy   *User

	Projects []Project
}

// BeforeDelete blocks removal while any project still points at the customer.
func (c *Customer) BeforeDelete(tx *gorm.DB) error {
	if c.ID == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&Project{}).Where("customer_id = ?", c.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("customer %d has %d linked projects: %w", c.ID, count, ErrProtected)
	}
	return nil
}
