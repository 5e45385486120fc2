package database

import (
	"presales-tracker/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const auditSavePoint = "audit_log"

// CreateAuditLog records an action; failures are logged and never abort the
// caller. Inside a transaction the insert runs under a savepoint so a failed
// write leaves the transaction usable.
func CreateAuditLog(tx *gorm.DB, userID uint, entity string, entityID uint, action, details string) {
	if tx == nil {
		return
	}
	record := models.AuditLog{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	log := logrus.WithFields(logrus.Fields{
		"entity":    entity,
		"entity_id": entityID,
		"action":    action,
	})

	_, inTx := tx.Statement.ConnPool.(gorm.TxCommitter)
	if inTx {
		if err := tx.SavePoint(auditSavePoint).Error; err != nil {
			log.WithError(err).Warn("failed to write audit log")
			return
		}
	}

	if err := tx.Create(&record).Error; err != nil {
		log.WithError(err).Warn("failed to write audit log")
		if inTx {
			if err := tx.RollbackTo(auditSavePoint).Error; err != nil {
				log.WithError(err).Error("failed to roll back audit savepoint")
			}
		}
	}
}
