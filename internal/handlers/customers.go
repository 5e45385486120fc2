package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"presales-tracker/internal/access"
	"presales-tracker/internal/database"
	"presales-tracker/internal/forms"
	"presales-tracker/internal/models"
	"presales-tracker/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListCustomers(c *gin.Context) {
	var customers []models.Customer
	err := access.Scope(database.DB, access.EntityCustomer, session.CurrentUser(c)).
		Preload("CreatedBy").
		Order("name asc").
		Find(&customers).Error
	if err != nil {
		serverError(c, err, "Failed to load customers")
		return
	}

	render(c, http.StatusOK, "customers_list.html", gin.H{"customers": customers})
}

func ShowCustomerDetail(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var customer models.Customer
	q := database.DB.
		Preload("CreatedBy").
		Preload("Projects", func(db *gorm.DB) *gorm.DB { return db.Order("project_name asc") })
	if !load(c, q, &customer, id, "Customer") {
		return
	}

	render(c, http.StatusOK, "customer_detail.html", gin.H{"customer": customer})
}

func ShowNewCustomer(c *gin.Context) {
	renderCustomerForm(c, http.StatusOK, "/customers/new", forms.CustomerForm{}, nil)
}

func CreateCustomer(c *gin.Context) {
	form, fe := forms.BindCustomer(c)
	if !fe.Empty() {
		renderCustomerForm(c, http.StatusBadRequest, "/customers/new", form, fe)
		return
	}

	uid := actorID(c)
	customer := models.Customer{CreatedByID: &uid}
	form.Apply(&customer)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}
		database.CreateAuditLog(tx, uid, "customer", customer.ID, "create", "Created customer "+customer.Name)
		return nil
	})
	if err != nil {
		serverError(c, err, "Failed to save customer")
		return
	}

	redirectWithSuccess(c, "/customers", fmt.Sprintf("Customer %q created", customer.Name))
}

func ShowEditCustomer(c *gin.Context) {
	customer, ok := loadOwnCustomer(c)
	if !ok {
		return
	}
	renderCustomerForm(c, http.StatusOK, editPath("customers", customer.ID), forms.CustomerFormFrom(customer), nil)
}

func UpdateCustomer(c *gin.Context) {
	customer, ok := loadOwnCustomer(c)
	if !ok {
		return
	}

	form, fe := forms.BindCustomer(c)
	if !fe.Empty() {
		renderCustomerForm(c, http.StatusBadRequest, editPath("customers", customer.ID), form, fe)
		return
	}
	form.Apply(customer)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(customer).Error; err != nil {
			return err
		}
		database.CreateAuditLog(tx, actorID(c), "customer", customer.ID, "update", "Updated customer "+customer.Name)
		return nil
	})
	if err != nil {
		serverError(c, err, "Failed to save customer")
		return
	}

	redirectWithSuccess(c, fmt.Sprintf("/customers/%d", customer.ID), fmt.Sprintf("Customer %q updated", customer.Name))
}

func ShowDeleteCustomer(c *gin.Context) {
	customer, ok := loadOwnCustomer(c)
	if !ok {
		return
	}
	renderConfirmDelete(c, "customer", customer.Name, deletePath("customers", customer.ID), "/customers")
}

func DeleteCustomer(c *gin.Context) {
	customer, ok := loadOwnCustomer(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(customer).Error; err != nil {
			return err
		}
		database.CreateAuditLog(tx, actorID(c), "customer", customer.ID, "delete", "Deleted customer "+customer.Name)
		return nil
	})
	if errors.Is(err, models.ErrProtected) {
		redirectWithError(c, "/customers", "Cannot delete customer with linked projects. Delete the projects first.")
		return
	}
	if err != nil {
		serverError(c, err, "Failed to delete customer")
		return
	}

	redirectWithSuccess(c, "/customers", fmt.Sprintf("Customer %q deleted", customer.Name))
}

func loadOwnCustomer(c *gin.Context) (*models.Customer, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	var customer models.Customer
	if !load(c, database.DB, &customer, id, "Customer") {
		return nil, false
	}
	if !access.CanModify(session.CurrentUser(c), customer.CreatedByID) {
		redirectWithError(c, "/customers", "You can only change customers you created")
		return nil, false
	}
	return &customer, true
}

func renderCustomerForm(c *gin.Context, status int, action string, form forms.CustomerForm, fe forms.FieldErrors) {
	render(c, status, "customer_form.html", gin.H{
		"form":   form,
		"errors": fe,
		"action": action,
		"cancel": "/customers",
	})
}

func editPath(entity string, id uint) string {
	return fmt.Sprintf("/%s/%d/edit", entity, id)
}

func deletePath(entity string, id uint) string {
	return fmt.Sprintf("/%s/%d/delete", entity, id)
}

func renderConfirmDelete(c *gin.Context, kind, name, action, cancel string) {
	render(c, http.StatusOK, "confirm_delete.html", gin.H{
		"kind":   kind,
		"name":   name,
		"action": action,
		"cancel": cancel,
	})
}
