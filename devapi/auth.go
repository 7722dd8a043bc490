package devapi

import (
	"net/http"
	"strings"
	"time"

	"food-marketplace-client/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenTTL = 24 * time.Hour

type Claims struct {
	UserID uint            `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// generateToken creates a signed JWT for a given user
func (s *Server) generateToken(user *User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// authRequired validates the bearer token and injects its claims into context
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			unauthenticated(c)
			return
		}
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(authHeader, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			unauthenticated(c)
			return
		}

		var revoked int64
		s.db.Model(&RevokedToken{}).Where("jti = ?", claims.ID).Count(&revoked)
		if revoked > 0 {
			unauthenticated(c)
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", string(claims.Role))
		c.Set("claims", claims)
		c.Next()
	}
}

// roleRequired enforces that caller has one of the allowed roles
func roleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerRole := getRole(c)
		for _, r := range roles {
			if callerRole == r {
				c.Next()
				return
			}
		}
		fail(c, http.StatusForbidden, "This action is only available to: "+rolesString(roles))
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

func unauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
}

func getUserID(c *gin.Context) uint {
	return c.GetUint("userID")
}

func getRole(c *gin.Context) models.UserRole {
	return models.UserRole(c.GetString("role"))
}
