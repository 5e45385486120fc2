package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"presales-tracker/internal/database"
	"presales-tracker/internal/forms"
	"presales-tracker/internal/models"
	"presales-tracker/internal/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ListUsers shows every account to admins and only their own to everybody else.
func ListUsers(c *gin.Context) {
	user := session.CurrentUser(c)

	q := database.DB.Order("username asc")
	if !user.IsAdmin() {
		q = q.Where("id = ?", user.ID)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		serverError(c, err, "Failed to load users")
		return
	}

	render(c, http.StatusOK, "users_list.html", gin.H{"users": users})
}

func ShowNewUser(c *gin.Context) {
	form := forms.UserForm{Role: string(models.RoleViewer), IsActive: true}
	renderUserForm(c, http.StatusOK, "/users/new", form, nil, true, true)
}

func CreateUser(c *gin.Context) {
	form, fe := forms.BindUser(c, true)
	checkUsernameFree(form.Username, 0, fe)
	if !fe.Empty() {
		renderUserForm(c, http.StatusBadRequest, "/users/new", form, fe, true, true)
		return
	}

	user, err := database.NewUser(form.Username, form.Password, models.UserRole(form.Role))
	if err != nil {
		serverError(c, err, "Failed to create user")
		return
	}
	form.Apply(user, true)

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		database.CreateAuditLog(tx, actorID(c), "user", user.ID, "create", "Created user "+user.Username)
		return nil
	})
	if err != nil {
		serverError(c, err, "Failed to save user")
		return
	}

	redirectWithSuccess(c, "/users", fmt.Sprintf("User %q created", user.Username))
}

func ShowUser(c *gin.Context) {
	target, ok := loadEditableUser(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "user_detail.html", gin.H{"user": target})
}

func ShowEditUser(c *gin.Context) {
	target, ok := loadEditableUser(c)
	if !ok {
		return
	}
	privileged := session.CurrentUser(c).IsAdmin()
	renderUserForm(c, http.StatusOK, editPath("users", target.ID), forms.UserFormFrom(target), nil, false, privileged)
}

// UpdateUser edits a profile. Only admins may change the role or the active
// flag, and never on their own account.
func UpdateUser(c *gin.Context) {
	target, ok := loadEditableUser(c)
	if !ok {
		return
	}
	actor := session.CurrentUser(c)
	privileged := actor.IsAdmin()

	form, fe := forms.BindUser(c, false)
	checkUsernameFree(form.Username, target.ID, fe)
	if privileged && target.ID == actor.ID &&
		(models.UserRole(form.Role) != models.RoleAdmin || !form.IsActive) {
		fe.Add("role", "You cannot demote or deactivate your own account")
	}
	if !fe.Empty() {
		renderUserForm(c, http.StatusBadRequest, editPath("users", target.ID), form, fe, false, privileged)
		return
	}

	form.Apply(target, privileged)
	if form.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
		if err != nil {
			serverError(c, err, "Failed to hash password")
			return
		}
		target.PasswordHash = string(hash)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(target).Error; err != nil {
			return err
		}
		database.CreateAuditLog(tx, actor.ID, "user", target.ID, "update", "Updated user "+target.Username)
		return nil
	})
	if err != nil {
		serverError(c, err, "Failed to save user")
		return
	}

	redirectWithSuccess(c, "/users", fmt.Sprintf("User %q updated", target.Username))
}

func ShowDeleteUser(c *gin.Context) {
	target, ok := loadDeletableUser(c)
	if !ok {
		return
	}
	renderConfirmDelete(c, "user", target.Username, deletePath("users", target.ID), "/users")
}

// DeleteUser removes an account along with the proposals and products it created.
func DeleteUser(c *gin.Context) {
	target, ok := loadDeletableUser(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(target).Error; err != nil {
			return err
		}
		database.CreateAuditLog(tx, actorID(c), "user", target.ID, "delete", "Deleted user "+target.Username)
		return nil
	})
	if err != nil {
		serverError(c, err, "Failed to delete user")
		return
	}

	redirectWithSuccess(c, "/users", fmt.Sprintf("User %q deleted", target.Username))
}

func checkUsernameFree(username string, selfID uint, fe forms.FieldErrors) {
	if username == "" {
		return
	}
	var existing models.User
	err := database.DB.Unscoped().Where("username = ?", username).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		fe.Add("username", "Could not check username")
	case existing.ID != selfID:
		fe.Add("username", "A user with that username already exists")
	}
}

func loadEditableUser(c *gin.Context) (*models.User, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	actor := session.CurrentUser(c)
	if !actor.IsAdmin() && actor.ID != id {
		redirectWithError(c, "/users", "You can only view or edit your own profile")
		return nil, false
	}

	var target models.User
	if !load(c, database.DB, &target, id, "User") {
		return nil, false
	}
	return &target, true
}

func loadDeletableUser(c *gin.Context) (*models.User, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}
	if id == actorID(c) {
		redirectWithError(c, "/users", "You cannot delete your own account")
		return nil, false
	}

	var target models.User
	if !load(c, database.DB, &target, id, "User") {
		return nil, false
	}
	return &target, true
}

func renderUserForm(c *gin.Context, status int, action string, form forms.UserForm, fe forms.FieldErrors, creating, privileged bool) {
	render(c, status, "user_form.html", gin.H{
		"form":       form,
		"errors":     fe,
		"roles":      models.Roles,
		"creating":   creating,
		"privileged": privileged,
		"action":     action,
		"cancel":     "/users",
	})
}
