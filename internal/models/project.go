package models

import "gorm.io/gorm"

type Project struct {
	gorm.Model
	ProjectName string `gorm:"size:200;not null"`
	CustomerID  uint   `gorm:"not null;index"`
	Customer    Customer
	Country     string `gorm:"size:100;not null;index"`
	Link        string `gorm:"size:200;not null"`

	CreatedByID *uint
	CreatedBy   *User

	Proposals []Proposal `gorm:"constraint:OnDelete:CASCADE"`
}

func (p *Project) String() string {
	return p.ProjectName + " (" + p.Customer.Name + ", " + p.Country + ")"
}

// BeforeDelete removes the project's proposals inside the same transaction.
func (p *Project) BeforeDelete(tx *gorm.DB) error {
	if p.ID == 0 {
		return nil
	}
	return tx.Where("project_id = ?", p.ID).Delete(&Proposal{}).Error
}
