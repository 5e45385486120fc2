package handlers

import (
	"net/http"

	"presales-tracker/internal/database"
	"presales-tracker/internal/export"
	"presales-tracker/internal/models"
	"presales-tracker/internal/session"
	"presales-tracker/internal/stats"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ExportProposals streams the visible proposals matching the dashboard
// filters as a CSV attachment.
func ExportProposals(c *gin.Context) {
	filter, err := stats.ParseFilter(c.Request.URL.Query())
	if err != nil {
		renderError(c, http.StatusBadRequest, "Invalid filter: "+err.Error())
		return
	}

	var proposals []models.Proposal
	err = stats.Proposals(database.DB, session.CurrentUser(c), filter).
		Preload("Project").
		Order(models.ProposalOrder).
		Find(&proposals).Error
	if err != nil {
		serverError(c, err, "Failed to load proposals")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="proposals.csv"`)
	c.Status(http.StatusOK)
	if err := export.WriteProposals(c.Writer, proposals); err != nil {
		_ = c.Error(err)
		logrus.WithError(err).Error("failed to write proposals export")
	}
}
