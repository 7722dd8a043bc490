package devapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type foodRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description" binding:"required"`
	Price        float64 `json:"price" binding:"gt=0"`
	Category     string  `json:"category"`
	Image        string  `json:"image" binding:"required"`
	Quantity     int     `json:"quantity" binding:"gte=1"`
	DeliveryTime int     `json:"delivery_time" binding:"gt=0"`
	IsAvailable  bool    `json:"is_available"`
}

type foodUpdateRequest struct {
	Name         *string  `json:"name" binding:"omitempty,min=1"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price" binding:"omitempty,gt=0"`
	Category     *string  `json:"category"`
	Image        *string  `json:"image"`
	Quantity     *int     `json:"quantity" binding:"omitempty,gte=0"`
	DeliveryTime *int     `json:"delivery_time" binding:"omitempty,gt=0"`
	IsAvailable  *bool    `json:"is_available"`
}

// listFoods returns the catalog, optionally filtered by search text and category
func (s *Server) listFoods(c *gin.Context) {
	query := s.db.Preload("Chef")
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if category := c.Query("category"); category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}

	var foods []Food
	if err := query.Order("id").Find(&foods).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to load foods")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": foods})
}

func (s *Server) getFood(c *gin.Context) {
	var food Food
	if err := s.db.Preload("Chef").First(&food, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "Food not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": food})
}

// createFood lists a new dish for the calling chef
func (s *Server) createFood(c *gin.Context) {
	var req foodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	food := Food{
		ChefID:       getUserID(c),
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Category:     req.Category,
		Image:        &req.Image,
		Quantity:     req.Quantity,
		DeliveryTime: req.DeliveryTime,
		IsAvailable:  req.IsAvailable,
	}
	if err := s.db.Create(&food).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to create food")
		return
	}
	// gorm skips zero values that have a default tag on insert
	if !req.IsAvailable {
		s.db.Model(&food).Update("is_available", false)
	}
	s.db.Preload("Chef").First(&food, food.ID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Food created", "data": food})
}

// ownFood loads a food and checks that the caller is its chef
func (s *Server) ownFood(c *gin.Context) (*Food, bool) {
	var food Food
	if err := s.db.First(&food, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Food not found")
		} else {
			fail(c, http.StatusInternalServerError, "Failed to load food")
		}
		return nil, false
	}
	if food.ChefID != getUserID(c) {
		fail(c, http.StatusForbidden, "This food does not belong to you")
		return nil, false
	}
	return &food, true
}

func (s *Server) updateFood(c *gin.Context) {
	food, ok := s.ownFood(c)
	if !ok {
		return
	}
	var req foodUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	update := map[string]interface{}{}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.Price != nil {
		update["price"] = *req.Price
	}
	if req.Category != nil {
		update["category"] = *req.Category
	}
	if req.Image != nil {
		update["image"] = *req.Image
	}
	if req.Quantity != nil {
		update["quantity"] = *req.Quantity
	}
	if req.DeliveryTime != nil {
		update["delivery_time"] = *req.DeliveryTime
	}
	if req.IsAvailable != nil {
		update["is_available"] = *req.IsAvailable
	}
	if len(update) > 0 {
		if err := s.db.Model(food).Updates(update).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to update food")
			return
		}
	}

	s.db.Preload("Chef").First(food, food.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Food updated", "data": food})
}

func (s *Server) deleteFood(c *gin.Context) {
	food, ok := s.ownFood(c)
	if !ok {
		return
	}
	if err := s.db.Delete(food).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to delete food")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Food deleted"})
}
