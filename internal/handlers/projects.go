package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"presales-tracker/internal/access"
	"presales-tracker/internal/database"
	"presales-tracker/internal/forms"
	"presales-tracker/internal/models"
	"presales-tracker/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListProjects shows projects, optionally narrowed by ?customer_id= and ?country=.
func ListProjects(c *gin.Context) {
	customerID := c.Query("customer_id")
	country := strings.TrimSpace(c.Query("country"))

	q := access.Scope(database.DB, access.EntityProject, session.CurrentUser(c)).
		Preload("Customer").
		Preload("CreatedBy").
		Order("created_at desc")
	if cid, err := strconv.ParseUint(customerID, 10, 64); err == nil && cid > 0 {
		q = q.Where("customer_id = ?", cid)
	}
	if country != "" {
		q = q.Where("country = ?", country)
	}

	var projects []models.Project
	if err := q.Find(&projects).Error; err != nil {
		serverError(c, err, "Failed to load projects")
		return
	}

	var customers []models.Customer
	if err := database.DB.Order("name asc").Find(&customers).Error; err != nil {
		serverError(c, err, "Failed to load customers")
		return
	}

	render(c, http.StatusOK, "projects_list.html", gin.H{
		"projects":         projects,
		"customers":        customers,
		"FilterCustomerID": customerID,
		"FilterCountry":    country,
	})
}

func ShowNewProject(c *gin.Context) {
	form := forms.ProjectForm{}
	if cid, err := strconv.ParseUint(c.Query("customer_id"), 10, 64); err == nil {
		form.CustomerID = uint(cid)
	}
	renderProjectForm(c, http.StatusOK, "/projects/new", form, nil)
}

func CreateProject(c *gin.Context) {
	form, fe := bindProject(c)
	if !fe.Empty() {
		renderProjectForm(c, http.StatusBadRequest, "/projects/new", form, fe)
		return
	}

	uid := actorID(c)
	project := models.Project{CreatedByID: &uid}
	form.Apply(&project)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		database.CreateAuditLog(tx, uid, "project", project.ID, "create", "Created project "+project.ProjectName)
		return nil
	})
	if err != nil {
		serverError(c, err, "Failed to save project")
		return
	}

	redirectWithSuccess(c, "/projects", fmt.Sprintf("Project %q created", project.ProjectName))
}

func ShowEditProject(c *gin.Context) {
	project, ok := loadOwnProject(c)
	if !ok {
		return
	}
	renderProjectForm(c, http.StatusOK, editPath("projects", project.ID), forms.ProjectFormFrom(project), nil)
}

func UpdateProject(c *gin.Context) {
	project, ok := loadOwnProject(c)
	if !ok {
		return
	}

	form, fe := bindProject(c)
	if !fe.Empty() {
		renderProjectForm(c, http.StatusBadRequest, editPath("projects", project.ID), form, fe)
		return
	}
	form.Apply(project)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Customer", "CreatedBy").Save(project).Error; err != nil {
			return err
		}
		database.CreateAuditLog(tx, actorID(c), "project", project.ID, "update", "Updated project "+project.ProjectName)
		return nil
	})
	if err != nil {
		serverError(c, err, "Failed to save project")
		return
	}

	redirectWithSuccess(c, "/projects", fmt.Sprintf("Project %q updated", project.ProjectName))
}

func ShowDeleteProject(c *gin.Context) {
	project, ok := loadOwnProject(c)
	if !ok {
		return
	}
	renderConfirmDelete(c, "project", project.ProjectName, deletePath("projects", project.ID), "/projects")
}

// DeleteProject removes the project together with its proposals.
func DeleteProject(c *gin.Context) {
	project, ok := loadOwnProject(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(project).Error; err != nil {
			return err
		}
		database.CreateAuditLog(tx, actorID(c), "project", project.ID, "delete", "Deleted project "+project.ProjectName)
		return nil
	})
	if err != nil {
		serverError(c, err, "Failed to delete project")
		return
	}

	redirectWithSuccess(c, "/projects", fmt.Sprintf("Project %q deleted", project.ProjectName))
}

// bindProject validates the form and checks that the chosen customer exists.
func bindProject(c *gin.Context) (forms.ProjectForm, forms.FieldErrors) {
	form, fe := forms.BindProject(c)
	if _, failed := fe["customer"]; !failed && form.CustomerID != 0 {
		var customer models.Customer
		err := database.DB.First(&customer, form.CustomerID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fe.Add("customer", "Select a valid customer")
		} else if err != nil {
			fe.Add("customer", "Could not check customer")
		}
	}
	return form, fe
}

func loadOwnProject(c *gin.Context) (*models.Project, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	var project models.Project
	if !load(c, database.DB, &project, id, "Project") {
		return nil, false
	}
	if !access.CanModify(session.CurrentUser(c), project.CreatedByID) {
		redirectWithError(c, "/projects", "You can only change projects you created")
		return nil, false
	}
	return &project, true
}

func renderProjectForm(c *gin.Context, status int, action string, form forms.ProjectForm, fe forms.FieldErrors) {
	var customers []models.Customer
	if err := database.DB.Order("name asc").Find(&customers).Error; err != nil {
		serverError(c, err, "Failed to load customers")
		return
	}

	render(c, status, "project_form.html", gin.H{
		"form":      form,
		"errors":    fe,
		"customers": customers,
		"action":    action,
		"cancel":    "/projects",
	})
}
