package forms

import (
	"strings"

	"presales-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

const minPasswordLength = 6

type UserForm struct {
	Username        string `form:"username" binding:"required,min=3,max=150"`
	FirstName       string `form:"first_name" binding:"max=150"`
	LastName        string `form:"last_name" binding:"max=150"`
	Email           string `form:"email" binding:"omitempty,email,max=254"`
	Role            string `form:"role" binding:"omitempty,oneof=ADMIN SALES PRESALES VIEWER"`
	Phone           string `form:"phone" binding:"max=20"`
	Department      string `form:"department" binding:"max=100"`
	IsActive        bool   `form:"is_active"`
	Password        string `form:"password1"`
	PasswordConfirm string `form:"password2"`
}

// BindUser binds the user form. A password is mandatory when creating and
// optional when editing, where a blank password keeps the current one.
func BindUser(c *gin.Context, creating bool) (UserForm, FieldErrors) {
	var f UserForm
	fe := Bind(c, &f)

	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	if f.Role == "" {
		f.Role = string(models.RoleViewer)
	}

	switch {
	case f.Password == "" && creating:
		fe.Add("password1", "password1 is a required field")
	case f.Password != "" && len(f.Password) < minPasswordLength:
		fe.Add("password1", "password1 must be at least 6 characters in length")
	case f.Password != f.PasswordConfirm:
		fe.Add("password2", "Passwords don't match")
	}
	return f, fe
}

func UserFormFrom(m *models.User) UserForm {
	return UserForm{
		Username:   m.Username,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Email:      m.Email,
		Role:       string(m.Role),
		Phone:      m.Phone,
		Department: m.Department,
		IsActive:   m.IsActive,
	}
}

// Apply copies profile fields onto m. Role and active flag are only copied
// when privileged is set.
func (f UserForm) Apply(m *models.User, privileged bool) {
	m.Username = f.Username
	m.FirstName = f.FirstName
	m.LastName = f.LastName
	m.Email = f.Email
	m.Phone = f.Phone
	m.Department = f.Department
	if privileged {
		m.Role = models.UserRole(f.Role)
		m.IsActive = f.IsActive
	}
}
