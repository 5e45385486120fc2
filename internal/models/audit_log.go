package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`

	UserID uint
	User   User

	Entity   string `gorm:"size:50;not null;index:idx_audit_entity"` // "customer", "project", "proposal", ...
	EntityID uint   `gorm:"index:idx_audit_entity"`
	Action   string `gorm:"size:50;not null"` // "create", "update", "delete", "status_change"
	Details  string `gorm:"type:text"`
}
