package handlers

import (
	"net/http"
	"strings"

	"presales-tracker/internal/database"
	"presales-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

const auditPageSize = 200

// ListAuditLogs shows the latest entries, optionally for one ?entity= kind.
func ListAuditLogs(c *gin.Context) {
	entity := strings.TrimSpace(c.Query("entity"))

	q := database.DB.Preload("User").Order("created_at desc, id desc").Limit(auditPageSize)
	if entity != "" {
		q = q.Where("entity = ?", entity)
	}

	var logs []models.AuditLog
	if err := q.Find(&logs).Error; err != nil {
		serverError(c, err, "Failed to load audit log")
		return
	}

	render(c, http.StatusOK, "audit_list.html", gin.H{
		"logs":         logs,
		"FilterEntity": entity,
	})
}
