package devapi

import (
	"net/http"
	"time"

	"food-marketplace-client/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Name                 string          `json:"name" binding:"required"`
	Email                string          `json:"email" binding:"required,email"`
	Password             string          `json:"password" binding:"required,min=6"`
	PasswordConfirmation string          `json:"password_confirmation" binding:"required,eqfield=Password"`
	Phone                string          `json:"phone" binding:"required"`
	Role                 models.UserRole `json:"role" binding:"required,oneof=chef customer"`
	Address              string          `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// register creates a new account and signs it in
func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	var existing int64
	s.db.Model(&User{}).Where("email = ?", req.Email).Count(&existing)
	if existing > 0 {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "The email has already been taken.",
			"errors":  gin.H{"email": []string{"The email has already been taken."}},
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Role:         req.Role,
	}
	if req.Address != "" {
		user.Address = &req.Address
	}
	if err := s.db.Create(&user).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := s.generateToken(&user)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	s.logger.Infow("account registered", "user_id", user.ID, "role", user.Role)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful",
		"user":    user,
		"token":   token,
	})
}

// login checks the credentials and returns a fresh token
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	var user User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.generateToken(&user)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

// logout revokes the token the request was made with
func (s *Server) logout(c *gin.Context) {
	claims := c.MustGet("claims").(*Claims)
	expires := time.Now().Add(tokenTTL)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	if err := s.db.Create(&RevokedToken{JTI: claims.ID, ExpiresAt: expires}).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to log out")
		return
	}
	s.db.Where("expires_at < ?", time.Now()).Delete(&RevokedToken{})
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

func (s *Server) currentUser(c *gin.Context) {
	var user User
	if err := s.db.First(&user, getUserID(c)).Error; err != nil {
		unauthenticated(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
