package models

import "gorm.io/gorm"

type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleSales    UserRole = "SALES"
	RolePresales UserRole = "PRESALES"
	RoleViewer   UserRole = "VIEWER"
)

// Roles lists the assignable roles in display order.
var Roles = []UserRole{RoleAdmin, RoleSales, RolePresales, RoleViewer}

func (r UserRole) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleSales:
		return "Sales"
	case RolePresales:
		return "Presales"
	case RoleViewer:
		return "Viewer"
	}
	return string(r)
}

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleSales, RolePresales, RoleViewer:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Username     string   `gorm:"uniqueIndex;size:150;not null"`
	PasswordHash string   `gorm:"not null"`
	FirstName    string   `gorm:"size:150"`
	LastName     string   `gorm:"size:150"`
	Email        string   `gorm:"size:254"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'VIEWER'"`
	Phone        string   `gorm:"size:20"`
	Department   string   `gorm:"size:100"`
	IsActive     bool     `gorm:"not null"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) String() string {
	return u.Username + " (" + u.Role.Label() + ")"
}

// BeforeDelete removes the proposals and products the user created.
func (u *User) BeforeDelete(tx *gorm.DB) error {
	if u.ID == 0 {
		return nil
	}
	if err := tx.Where("created_by_id = ?", u.ID).Delete(&Proposal{}).Error; err != nil {
		return err
	}
	return tx.Where("created_by_id = ?", u.ID).Delete(&Product{}).Error
}
