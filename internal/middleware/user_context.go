package middleware

import (
	"presales-tracker/internal/database"
	"presales-tracker/internal/models"
	"presales-tracker/internal/session"

	"github.com/gin-gonic/gin"
)

// InjectUser loads the logged-in user, if any. Deactivated or deleted
// accounts are treated as logged out.
func InjectUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid, ok := session.UserID(c); ok {
			var user models.User
			if err := database.DB.First(&user, uid).Error; err == nil && user.IsActive {
				session.SetCurrentUser(c, &user)
			}
		}

		c.Next()
	}
}
