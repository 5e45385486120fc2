package handlers

import (
	"errors"
	"net/http"
	"strings"

	"presales-tracker/internal/database"
	"presales-tracker/internal/forms"
	"presales-tracker/internal/models"
	"presales-tracker/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const badCredentials = "Please enter a correct username and password"

func ShowLogin(c *gin.Context) {
	if session.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{"error": "", "username": ""})
}

func Login(c *gin.Context) {
	var form forms.LoginForm
	if fe := forms.Bind(c, &form); !fe.Empty() {
		render(c, http.StatusBadRequest, "login.html", gin.H{"error": badCredentials, "username": form.Username})
		return
	}
	form.Username = strings.TrimSpace(form.Username)

	var user models.User
	err := database.DB.Where("username = ?", form.Username).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		serverError(c, err, "Failed to load user")
		return
	}
	if err != nil || !user.IsActive ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)) != nil {
		logrus.WithField("username", form.Username).Info("login failed")
		render(c, http.StatusBadRequest, "login.html", gin.H{"error": badCredentials, "username": form.Username})
		return
	}

	if err := session.SetLoginUser(c, &user); err != nil {
		serverError(c, err, "Failed to start session")
		return
	}
	logrus.WithField("user_id", user.ID).Info("user logged in")
	c.Redirect(http.StatusFound, "/")
}

func Logout(c *gin.Context) {
	_ = session.ClearSession(c)
	c.Redirect(http.StatusFound, "/login")
}
