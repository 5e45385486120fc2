package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"presales-tracker/internal/access"
	"presales-tracker/internal/models"
	"presales-tracker/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// render wraps c.HTML and passes the current user and queued messages to every template.
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if u := session.CurrentUser(c); u != nil {
		data["CurrentUser"] = u
		data["CurrentUsername"] = u.Username
		data["CurrentUserRole"] = u.Role
		data["IsAdmin"] = u.IsAdmin()
		data["CanWrite"] = access.CanWrite(u)
	}
	data["Messages"] = session.Flashes(c)

	c.HTML(status, tmpl, data)
}

func renderError(c *gin.Context, status int, msg string) {
	render(c, status, "error.html", gin.H{
		"status":  status,
		"message": msg,
	})
}

func serverError(c *gin.Context, err error, msg string) {
	_ = c.Error(err)
	logrus.WithError(err).Error(msg)
	renderError(c, http.StatusInternalServerError, msg)
}

func redirectWithSuccess(c *gin.Context, to, msg string) {
	session.AddFlash(c, session.FlashSuccess, msg)
	c.Redirect(http.StatusFound, to)
}

func redirectWithError(c *gin.Context, to, msg string) {
	session.AddFlash(c, session.FlashError, msg)
	c.Redirect(http.StatusFound, to)
}

// paramID reads the :id path parameter. Anything that is not a positive
// integer cannot name a record and is answered with 404.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		renderError(c, http.StatusNotFound, "Not found")
		return 0, false
	}
	return uint(id), true
}

// load fetches one record by id into dst and writes the 404 or 500 page
// when it cannot.
func load(c *gin.Context, q *gorm.DB, dst any, id uint, what string) bool {
	err := q.First(dst, id).Error
	switch {
	case err == nil:
		return true
	case errors.Is(err, gorm.ErrRecordNotFound):
		renderError(c, http.StatusNotFound, what+" not found")
	default:
		serverError(c, err, "Failed to load "+what)
	}
	return false
}

func actorID(c *gin.Context) uint {
	if u := session.CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}

// TemplateFuncs are the helpers available to every page template.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"maskEmail": maskEmail,
		"canModify": canModify,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"money": func(v interface{ StringFixed(int32) string }) string {
			return v.StringFixed(2)
		},
		"date": func(v interface{ Format(string) string }) string {
			return v.Format("2006-01-02")
		},
		"isViewer": func(role models.UserRole) bool { return role == models.RoleViewer },
	}
}

// canModify accepts the creator id either as a plain or a nullable column.
func canModify(user *models.User, creator any) bool {
	switch v := creator.(type) {
	case uint:
		return access.CanModify(user, &v)
	case *uint:
		return access.CanModify(user, v)
	}
	return false
}

// maskEmail keeps the first two characters of the local part.
func maskEmail(email string) string {
	runes := []rune(email)
	at := -1
	for i, r := range runes {
		if r == '@' {
			at = i
			break
		}
	}
	if at <= 0 {
		return "***"
	}
	if at <= 2 {
		return string(runes[:at]) + "***" + string(runes[at:])
	}
	return string(runes[:2]) + "***" + string(runes[at:])
}
