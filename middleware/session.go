package middleware

import (
	"net/http"

	"food-marketplace-client/models"
	"food-marketplace-client/session"

	"github.com/gin-gonic/gin"
)

const userKey = "currentUser"

// SessionRequired rejects requests while the profile is signed out and puts
// the current user into context
func SessionRequired(sess *session.Holder) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := sess.Require()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please sign in first"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// RoleRequired enforces that the signed-in user has one of the allowed roles.
// It must run after SessionRequired.
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not found in context"})
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
	}
}

func rolesString(roles []models.UserRole) string {
	s := ""
	for i, r := range roles {
		if i > 0 {
			s += ", "
		}
		s += string(r)
	}
	return s
}

// CurrentUser extracts the user SessionRequired stored
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, ok := c.Get(userKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}
