package handlers

import (
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

func ListProducts(c *gin.Context) {
	var products []models.Product
	err := access.Scope(database.DB, access.EntityProduct, session.CurrentUser(c)).
		Preload("CreatedBy").
		Order("item asc").
		Find(&products).Error
	if err != nil {
		serverError(c, err, "Failed to load products")
		return
	}

	render(c, http.StatusOK, "products_list.html", gin.H{"products": products})
}

func ShowNewProduct(c *gin.Context) {
	renderProductForm(c, http.StatusOK, "/products/new", forms.ProductForm{}, nil)
}

func CreateProduct(c *gin.Context) {
	form, fe := forms.BindProduct(c)
	if !fe.Empty() {
		renderProductForm(c, http.StatusBadRequest, "/products/new", form, fe)
		return
	}

	uid := actorID(c)
	product := models.Product{CreatedByID: &uid}
	form.Apply(&product)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		database.CreateAuditLog(tx, uid, "product", product.ID, "create", "Created product "+product.Item)
		return nil
	})
	if err != nil {
		serverError(c, err, "Failed to save product")
		return
	}

	redirectWithSuccess(c, "/products", fmt.Sprintf("Product %q created", product.Item))
}

func ShowEditProduct(c *gin.Context) {
	product, ok := loadOwnProduct(c)
	if !ok {
		return
	}
	renderProductForm(c, http.StatusOK, editPath("products", product.ID), forms.ProductFormFrom(product), nil)
}

func UpdateProduct(c *gin.Context) {
	product, ok := loadOwnProduct(c)
	if !ok {
		return
	}

	form, fe := forms.BindProduct(c)
	if !fe.Empty() {
		renderProductForm(c, http.StatusBadRequest, editPath("products", product.ID), form, fe)
		return
	}
	form.Apply(product)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(product).Error; err != nil {
			return err
		}
		database.CreateAuditLog(tx, actorID(c), "product", product.ID, "update", "Updated product "+product.Item)
		return nil
	})
	if err != nil {
		serverError(c, err, "Failed to save product")
		return
	}

	redirectWithSuccess(c, "/products", fmt.Sprintf("Product %q updated", product.Item))
}

func ShowDeleteProduct(c *gin.Context) {
	product, ok := loadOwnProduct(c)
	if !ok {
		return
	}
	renderConfirmDelete(c, "product", product.Item, deletePath("products", product.ID), "/products")
}

func DeleteProduct(c *gin.Context) {
	product, ok := loadOwnProduct(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(product).Error; err != nil {
			return err
		}
		database.CreateAuditLog(tx, actorID(c), "product", product.ID, "delete", "Deleted product "+product.Item)
		return nil
	})
	if err != nil {
		serverError(c, err, "Failed to delete product")
		return
	}

	redirectWithSuccess(c, "/products", fmt.Sprintf("Product %q deleted", product.Item))
}

func loadOwnProduct(c *gin.Context) (*models.Product, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	var product models.Product
	if !load(c, database.DB, &product, id, "Product") {
		return nil, false
	}
	if !access.CanModify(session.CurrentUser(c), product.CreatedByID) {
		redirectWithError(c, "/products", "You can only change products you created")
		return nil, false
	}
	return &product, true
}

func renderProductForm(c *gin.Context, status int, action string, form forms.ProductForm, fe forms.FieldErrors) {
	render(c, status, "product_form.html", gin.H{
		"form":   form,
		"errors": fe,
		"action": action,
		"cancel": "/products",
	})
}
