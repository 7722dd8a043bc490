package devapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) listCategories(c *gin.Context) {
	var categories []Category
	s.db.Order("name").Find(&categories)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": categories})
}

func (s *Server) getCategory(c *gin.Context) {
	var category Category
	if err := s.db.First(&category, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "Category not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": category})
}

// categoryFoods returns the category with its foods nested next to it
func (s *Server) categoryFoods(c *gin.Context) {
	var category Category
	if err := s.db.First(&category, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "Category not found")
		return
	}
	var foods []Food
	s.db.Preload("Chef").Where("category = ?", category.Name).Order("id").Find(&foods)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"category": category, "foods": foods},
	})
}

type profileRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,min=1"`
	Address  *string `json:"address"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

func (s *Server) getProfile(c *gin.Context) {
	var user User
	if err := s.db.First(&user, getUserID(c)).Error; err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// updateProfile applies the fields present in the body, password included
func (s *Server) updateProfile(c *gin.Context) {
	var user User
	if err := s.db.First(&user, getUserID(c)).Error; err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	update := map[string]interface{}{}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		var taken int64
		s.db.Model(&User{}).Where("email = ? AND id <> ?", *req.Email, user.ID).Count(&taken)
		if taken > 0 {
			fail(c, http.StatusUnprocessableEntity, "The email has already been taken.")
			return
		}
		update["email"] = *req.Email
	}
	if req.Phone != nil {
		update["phone"] = *req.Phone
	}
	if req.Address != nil {
		update["address"] = *req.Address
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		update["password_hash"] = string(hash)
	}
	if len(update) > 0 {
		if err := s.db.Model(&user).Updates(update).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to update profile")
			return
		}
	}

	s.db.First(&user, user.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated", "data": user})
}
