package handlers

import (
	"net/http"

	"food-marketplace-client/api"

	"github.com/gin-gonic/gin"
)

// GetMyFoods lists the signed-in chef's listings
func (h *Handler) GetMyFoods(c *gin.Context) {
	foods, err := h.Dashboard.Foods(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(foods), "foods": foods})
}

func (h *Handler) AddFood(c *gin.Context) {
	var req api.NewFood
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	food, err := h.Dashboard.AddFood(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Food listed", "food": food})
}

func (h *Handler) UpdateFood(c *gin.Context) {
	var req api.FoodUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	food, err := h.Dashboard.UpdateFood(c.Request.Context(), paramID(c, "id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Food updated", "food": food})
}

func (h *Handler) ToggleFood(c *gin.Context) {
	food, err := h.Dashboard.ToggleAvailability(c.Request.Context(), paramID(c, "id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"food": food})
}

func (h *Handler) DeleteFood(c *gin.Context) {
	if err := h.Dashboard.DeleteFood(c.Request.Context(), paramID(c, "id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Food deleted"})
}
