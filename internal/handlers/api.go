package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"presales-tracker/internal/database"
	"presales-tracker/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type projectCustomerResponse struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// ProjectCustomer returns the customer name and country of a project.
func ProjectCustomer(c *gin.Context) {
	notFound := gin.H{"error": "Project not found"}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, notFound)
		return
	}

	var project models.Project
	err = database.DB.Preload("Customer").First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, notFound)
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load project"})
		return
	}

	c.JSON(http.StatusOK, projectCustomerResponse{
		Name:    project.Customer.Name,
		Country: project.Country,
	})
}
