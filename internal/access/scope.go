// Package access decides which records a user may see and change.
package access

import (
	"presales-tracker/internal/models"

	"gorm.io/gorm"
)

type Entity string

const (
	EntityCustomer Entity = "customer"
	EntityProject  Entity = "project"
	EntityProposal Entity = "proposal"
	EntityProduct  Entity = "product"
)

// Scope returns a query over the records of entity that user may see.
//
// Administrators see everything. Everybody else sees only the proposals they
// created, while customers, projects and products stay unfiltered. A nil user
// is handled like any other non-administrator.
func Scope(db *gorm.DB, entity Entity, user *models.User) *gorm.DB {
	q := db.Model(modelFor(entity))
	if user.IsAdmin() {
		return q
	}

	if entity == EntityProposal {
		var uid uint
		if user != nil {
			uid = user.ID
		}
		return q.Where("proposals.created_by_id = ?", uid)
	}
	return q
}

// CanModify reports whether user may edit or delete a record created by creatorID.
// Records without a creator are reserved to administrators.
func CanModify(user *models.User, creatorID *uint) bool {
	if user == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	return creatorID != nil && *creatorID == user.ID
}

// CanWrite reports whether user may create records at all.
func CanWrite(user *models.User) bool {
	if user == nil {
		return false
	}
	switch user.Role {
	case models.RoleAdmin, models.RoleSales, models.RolePresales:
		return true
	}
	return false
}

func modelFor(entity Entity) any {
	switch entity {
	case EntityCustomer:
		return &models.Customer{}
	case EntityProject:
		return &models.Project{}
	case EntityProposal:
		return &models.Proposal{}
	case EntityProduct:
		return &models.Product{}
	}
	return nil
}
