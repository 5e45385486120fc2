package handlers

import (
	"net/http"

	"presales-tracker/internal/database"
	"presales-tracker/internal/session"
	"presales-tracker/internal/stats"

	"github.com/gin-gonic/gin"
)

func Dashboard(c *gin.Context) {
	filter, err := stats.ParseFilter(c.Request.URL.Query())
	if err != nil {
		renderError(c, http.StatusBadRequest, "Invalid filter: "+err.Error())
		return
	}

	summary, err := stats.Compute(database.DB, session.CurrentUser(c), filter)
	if err != nil {
		serverError(c, err, "Failed to compute dashboard")
		return
	}

	statusJSON, err := stats.JSON(summary.StatusDistribution)
	if err != nil {
		serverError(c, err, "Failed to encode chart data")
		return
	}
	countryJSON, err := stats.JSON(summary.CountryDistribution)
	if err != nil {
		serverError(c, err, "Failed to encode chart data")
		return
	}
	directorJSON, err := stats.JSON(summary.SalesDirectorPerformance)
	if err != nil {
		serverError(c, err, "Failed to encode chart data")
		return
	}

	exportURL := "/proposals/export"
	if q := filter.Values().Encode(); q != "" {
		exportURL += "?" + q
	}

	render(c, http.StatusOK, "dashboard.html", gin.H{
		"summary":      summary,
		"statusJSON":   statusJSON,
		"countryJSON":  countryJSON,
		"directorJSON": directorJSON,
		"filter":       filter.Values(),
		"exportURL":    exportURL,
	})
}
