// Package session keeps the login state and flash messages in the session cookie.
package session

import (
	"presales-tracker/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey      = "user_id"
	currentUserKey = "CurrentUser"
)

type FlashLevel string

const (
	FlashSuccess FlashLevel = "success"
	FlashError   FlashLevel = "error"
)

type Flash struct {
	Level FlashLevel
	Text  string
}

func SetLoginUser(c *gin.Context, user *models.User) error {
	s := sessions.Default(c)
	s.Clear()
	s.Set(userIDKey, user.ID)
	return s.Save()
}

func UserID(c *gin.Context) (uint, bool) {
	uid, ok := sessions.Default(c).Get(userIDKey).(uint)
	return uid, ok && uid > 0
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}

// SetCurrentUser stores the authenticated user on the request context.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(currentUserKey, user)
}

// CurrentUser returns the user loaded for this request, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// AddFlash queues a message for the next rendered page.
func AddFlash(c *gin.Context, level FlashLevel, text string) {
	s := sessions.Default(c)
	s.AddFlash(text, string(level))
	_ = s.Save()
}

// Flashes drains queued messages, errors first.
func Flashes(c *gin.Context) []Flash {
	s := sessions.Default(c)

	var out []Flash
	for _, level := range []FlashLevel{FlashError, FlashSuccess} {
		for _, v := range s.Flashes(string(level)) {
			if text, ok := v.(string); ok {
				out = append(out, Flash{Level: level, Text: text})
			}
		}
	}
	if len(out) > 0 {
		_ = s.Save()
	}
	return out
}
